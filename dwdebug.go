// This file is part of dwdebug.
//
// dwdebug is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dwdebug is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dwdebug.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/firmwareloader"
	"github.com/dwdebug/dwdebug/gdbserver"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/simulator"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/modalflag"
	"github.com/dwdebug/dwdebug/monitor"
	"github.com/dwdebug/dwdebug/paths"
	"github.com/dwdebug/dwdebug/preferences"
	"github.com/dwdebug/dwdebug/prefs"
	"github.com/dwdebug/dwdebug/script"
	"github.com/dwdebug/dwdebug/serial"
	"github.com/dwdebug/dwdebug/session"
	"github.com/dwdebug/dwdebug/statsview"
	"github.com/dwdebug/dwdebug/target"
	"github.com/dwdebug/dwdebug/version"
)

const historyFile = "history"

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when an alternative handler is
	// more appropriate. for example, the GDB mode closes the server and the
	// monitor mode leaves ctrl-c to the line editor.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// ctrl-c default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)

	p, err := run(md, os.Stdout, sync)
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// run the mode selected by the arguments. sync can be nil, in which case
// signal handling is not changed
func run(md *modalflag.Modes, out io.Writer, sync *mainSync) (modalflag.ParseResult, error) {
	md.NewMode()
	md.AddSubModes("INFO", "GDB", "MONITOR", "PROGRAM", "VERIFY", "DUMP", "SCRIPT", "VERSION")
	md.AdditionalHelp(`INFO      connect to the target and describe it
GDB       serve the GDB remote serial protocol
MONITOR   interactive command line
PROGRAM   write a firmware file to flash
VERIFY    compare a firmware file with flash
DUMP      read flash, SRAM or EEPROM
SCRIPT    run a Lua script against the target
VERSION   print version information

Every mode accepts the -sim flag to connect to a simulated device.`)

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return p, err
	}

	switch md.Mode() {
	case "INFO":
		err = info(md, out)
	case "GDB":
		err = gdb(md, out, sync)
	case "MONITOR":
		err = monitorMode(md, out, sync)
	case "PROGRAM":
		err = program(md, out)
	case "VERIFY":
		err = verify(md, out)
	case "DUMP":
		err = dump(md, out)
	case "SCRIPT":
		err = scriptMode(md, out)
	case "VERSION":
		err = showVersion(md, out)
	}

	return modalflag.ParseContinue, err
}

// flags common to every mode that opens a session
type sessionFlags struct {
	port    *string
	sim     *string
	prefs   *string
	log     *bool
	divisor *int
}

func addSessionFlags(md *modalflag.Modes) sessionFlags {
	return sessionFlags{
		port:    md.AddString("port", "", "serial device. the default is the debugwire.port preference"),
		sim:     md.AddString("sim", "", "use a simulated device instead of a serial port (eg. ATtiny85)"),
		prefs:   md.AddString("prefs", "", "preferences for this session only (eg. 'debugwire.trace::true')"),
		log:     md.AddBool("log", false, "echo debugging log to stdout"),
		divisor: md.AddInt("divisor", 0, "baud divisor. the default is the debugwire.divisor preference"),
	}
}

// open a session using the flags. the preferences are loaded from disk and
// then overridden by the command line
func openSession(f sessionFlags, out io.Writer) (*session.Session, *preferences.Preferences, error) {
	if *f.log {
		if o, ok := out.(*os.File); ok && monitor.IsTerminal(o) {
			logger.SetEcho(logger.NewColorizer(out), false)
		} else {
			logger.SetEcho(out, false)
		}
	} else {
		logger.SetEcho(nil, false)
	}

	if *f.prefs != "" {
		prefs.PushCommandLineStack(*f.prefs)
	}

	p, err := preferences.NewPreferences("")

	if *f.prefs != "" {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "dwdebug", "unused preferences: %s", unused)
		}
	}

	if err != nil {
		return nil, nil, err
	}

	if *f.divisor != 0 {
		if err := p.Divisor.Set(*f.divisor); err != nil {
			return nil, nil, err
		}
	}

	var port debugwire.Port

	if *f.sim != "" {
		profile, ok := device.LookupName(*f.sim)
		if !ok {
			var names []string
			for _, d := range device.Profiles() {
				names = append(names, d.Name)
			}
			return nil, nil, fmt.Errorf("unknown device for simulation (%s). supported devices: %s",
				*f.sim, strings.Join(names, ", "))
		}
		port = simulator.NewSimulator(profile, p.Frequency.Get().(int))
	} else {
		name := *f.port
		if name == "" {
			name = p.Port.Get().(string)
		}
		sp, err := serial.Open(name)
		if err != nil {
			return nil, nil, err
		}
		port = sp
	}

	sess, err := session.Open(port, p)
	if err != nil {
		port.Close()
		return nil, nil, err
	}

	return sess, p, nil
}

// close the session. the error from closing is only returned if there is no
// other error
func closeSession(sess *session.Session, err *error) {
	if cerr := sess.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func info(md *modalflag.Modes, out io.Writer) (err error) {
	md.NewMode()
	f := addSessionFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	profile := sess.Profile()
	fmt.Fprintf(out, "device:      %s\n", profile)
	fmt.Fprintf(out, "baud:        %d (divisor %d)\n", sess.Link().Baud(), sess.Link().Divisor())
	fmt.Fprintf(out, "next:        0x%04x\n", uint32(sess.Next())*2)
	if profile.Supported() {
		fmt.Fprintf(out, "flash:       %d bytes in %d pages\n", profile.FlashSize, profile.Pages())
		fmt.Fprintf(out, "sram:        %d bytes from 0x%04x\n", profile.SRAMSize, profile.SRAMBase)
		fmt.Fprintf(out, "eeprom:      %d bytes\n", profile.EEPROMSize)
	}

	return nil
}

func gdb(md *modalflag.Modes, out io.Writer, sync *mainSync) (err error) {
	md.NewMode()
	f := addSessionFlags(md)
	addr := md.AddString("addr", "", "listen address. the default is the gdbserver.address preference")
	stats := md.AddBool("statsview", false, "run stats server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sess, pref, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	if *addr == "" {
		*addr = pref.GDBAddress.Get().(string)
	}

	srv, err := gdbserver.NewServer(sess, *addr)
	if err != nil {
		return err
	}

	if *stats {
		sv := statsview.Launch(out, "")
		defer sv.Stop()
	}

	// ctrl-c closes the server
	if sync != nil {
		sync.state <- stateRequest{req: reqNoIntSig}
		intChan := make(chan os.Signal, 1)
		signal.Notify(intChan, os.Interrupt)
		done := make(chan struct{})
		defer func() {
			signal.Stop(intChan)
			close(done)
		}()
		go func() {
			select {
			case <-intChan:
				srv.Close()
			case <-done:
			}
		}()
	}

	fmt.Fprintf(out, "gdb server listening on %s\n", srv.Addr())
	return srv.Serve()
}

func monitorMode(md *modalflag.Modes, out io.Writer, sync *mainSync) (err error) {
	md.NewMode()
	f := addSessionFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	// the line editor handles ctrl-c
	if sync != nil {
		sync.state <- stateRequest{req: reqNoIntSig}
	}

	history, err := paths.ResourcePath("", historyFile)
	if err != nil {
		return err
	}

	m := monitor.NewMonitor(sess, out, monitor.IsTerminal(os.Stdout))
	return m.Run(history)
}

// load the firmware file named by the first argument
func loadFirmware(md *modalflag.Modes, format string) (firmwareloader.Loader, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return firmwareloader.Loader{}, fmt.Errorf("firmware file required for %s mode", md)
	case 1:
	default:
		return firmwareloader.Loader{}, fmt.Errorf("too many arguments for %s mode", md)
	}

	ld := firmwareloader.NewLoader(md.GetArg(0), format)
	if err := ld.Load(); err != nil {
		return firmwareloader.Loader{}, err
	}

	return ld, nil
}

func program(md *modalflag.Modes, out io.Writer) (err error) {
	md.NewMode()
	f := addSessionFlags(md)
	format := md.AddString("format", firmwareloader.FormatAuto, "firmware format: AUTO, RAW, HEX")
	erase := md.AddBool("erase", false, "erase all of flash before programming")
	verifyFlash := md.AddBool("verify", true, "verify flash after programming")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ld, err := loadFirmware(md, *format)
	if err != nil {
		return err
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	fmt.Fprintf(out, "programming %s (%d bytes, sha1 %s) into %s\n", ld.ShortName(), len(ld.Data), ld.Hash, sess.Profile())

	err = sess.WriteFirmware(ld.Data, target.FirmwareOptions{
		Erase:  *erase,
		Verify: *verifyFlash,
		Progress: func(page int, pages int) {
			fmt.Fprintf(out, "\rpage %d of %d", page, pages)
		},
	})
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	if *verifyFlash {
		fmt.Fprintln(out, "verified")
	}

	return nil
}

func verify(md *modalflag.Modes, out io.Writer) (err error) {
	md.NewMode()
	f := addSessionFlags(md)
	format := md.AddString("format", firmwareloader.FormatAuto, "firmware format: AUTO, RAW, HEX")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ld, err := loadFirmware(md, *format)
	if err != nil {
		return err
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	if err := sess.VerifyFirmware(ld.Data); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s matches flash\n", ld.ShortName())

	return nil
}

func dump(md *modalflag.Modes, out io.Writer) (err error) {
	md.NewMode()
	f := addSessionFlags(md)
	memory := md.AddString("memory", "FLASH", "memory to dump: FLASH, SRAM, EEPROM")
	address := md.AddHex("addr", 0, "address of the first byte")
	length := md.AddHex("n", 0x100, "number of bytes")
	output := md.AddString("o", "", "write raw bytes to the file instead of a hex dump")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	a := int(*address)
	n := int(*length)

	var data []byte
	switch strings.ToUpper(*memory) {
	case "FLASH":
		data, err = sess.ReadFlash(a, n)
	case "SRAM":
		data, err = sess.ReadData(a, n)
	case "EEPROM":
		data, err = sess.ReadEEPROM(a, n)
	default:
		return fmt.Errorf("unknown memory (%s)", *memory)
	}
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, data, 0o644)
	}

	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(out, "%04x: % 02x\n", a+i, data[i:min(i+16, len(data))])
	}

	return nil
}

func scriptMode(md *modalflag.Modes, out io.Writer) (err error) {
	md.NewMode()
	f := addSessionFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one Lua script required for %s mode", md)
	}

	sess, _, err := openSession(f, out)
	if err != nil {
		return err
	}
	defer closeSession(sess, &err)

	s := script.NewScript(sess, out)
	defer s.Close()

	return s.RunFile(md.GetArg(0))
}

func showVersion(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()
	revision := md.AddBool("v", false, "include build information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v := version.Version()
	fmt.Fprintln(out, v)
	if *revision {
		fmt.Fprintf(out, "revision: %s\n", v.Revision)
		fmt.Fprintf(out, "go:       %s\n", v.GoVersion)
	}

	return nil
}
