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

package monitor

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/paths"
	"github.com/dwdebug/dwdebug/target"
)

// Error patterns.
const (
	UnknownCommand  = "monitor: unknown command (%s)"
	MissingArgument = "monitor: %s requires %s"
	InvalidNumber   = "monitor: invalid number (%s)"
)

type command struct {
	name string
	args string
	help string
}

var commandList = []command{
	{"HALT", "", "halt the target"},
	{"RUN", "[addr]", "resume the target, optionally from the flash address"},
	{"STEP", "", "execute a single instruction"},
	{"RESET", "", "reset the target"},
	{"PC", "", "show the address of the next instruction"},
	{"REGS", "", "show the general purpose registers"},
	{"SRAM", "addr n", "show n bytes of the data space"},
	{"POKE", "addr b..", "write bytes to the data space"},
	{"FLASH", "addr n", "show n bytes of flash"},
	{"EEPROM", "addr n", "show n bytes of EEPROM"},
	{"EEWRITE", "addr b..", "write bytes to EEPROM"},
	{"BREAK", "[addr]", "set a software breakpoint. the default is the next instruction"},
	{"HWBREAK", "addr", "set the hardware breakpoint"},
	{"CLEAR", "addr", "remove a software breakpoint"},
	{"LIST", "", "list the software breakpoints"},
	{"WAIT", "[ms]", "wait for the running target to stop"},
	{"REASON", "", "show why the target stopped"},
	{"DIVISOR", "n", "change the baud divisor"},
	{"LOG", "[n]", "show the most recent log entries"},
	{"MEMVIZ", "[file]", "write a graph of the session to a dot file"},
	{"HELP", "", "list commands"},
	{"QUIT", "", "leave the monitor"},
}

// default number of bytes shown by the memory commands
const defaultDump = 16

func parseNumber(s string) (int, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, curated.Errorf(InvalidNumber, s)
	}
	return int(v), nil
}

// parse an address and an optional length
func parseRange(cmd string, args []string) (int, int, error) {
	if len(args) < 1 {
		return 0, 0, curated.Errorf(MissingArgument, cmd, "an address")
	}
	a, err := parseNumber(args[0])
	if err != nil {
		return 0, 0, err
	}
	n := defaultDump
	if len(args) > 1 {
		n, err = parseNumber(args[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return a, n, nil
}

// parse an address followed by one or more bytes
func parseBytes(cmd string, args []string) (int, []byte, error) {
	if len(args) < 2 {
		return 0, nil, curated.Errorf(MissingArgument, cmd, "an address and at least one byte")
	}
	a, err := parseNumber(args[0])
	if err != nil {
		return 0, nil, err
	}
	data := make([]byte, 0, len(args)-1)
	for _, s := range args[1:] {
		v, err := parseNumber(s)
		if err != nil || v > 0xff {
			return 0, nil, curated.Errorf(InvalidNumber, s)
		}
		data = append(data, byte(v))
	}
	return a, data, nil
}

// Exec runs a single command line. Returns true if the command is QUIT.
func (m *Monitor) Exec(line string) bool {
	f := strings.Fields(line)
	if len(f) == 0 {
		return false
	}

	quit, err := m.exec(strings.ToUpper(f[0]), f[1:])
	if err != nil {
		fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
	}
	return quit
}

func (m *Monitor) exec(cmd string, args []string) (bool, error) {
	switch cmd {
	case "QUIT", "Q":
		return true, nil

	case "HELP":
		for _, c := range commandList {
			fmt.Fprintf(m.out, "%-8s %-9s %s\n", c.name, c.args, c.help)
		}

	case "HALT":
		if err := m.sess.Halt(); err != nil {
			return false, err
		}
		m.printPC()

	case "RUN", "R":
		if len(args) > 0 {
			a, err := parseNumber(args[0])
			if err != nil {
				return false, err
			}
			if err := m.sess.ResumeAt(target.Run, uint16(a/2)); err != nil {
				return false, err
			}
		} else if err := m.sess.Resume(target.Run); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.styles.info.Render("running"))

	case "STEP", "ST":
		if err := m.sess.Step(); err != nil {
			return false, err
		}
		m.printPC()

	case "RESET":
		if err := m.sess.Reset(false); err != nil {
			return false, err
		}
		m.printPC()

	case "PC":
		m.printPC()

	case "REGS":
		regs, err := m.sess.ReadRegisters(0, target.NumRegisters)
		if err != nil {
			return false, err
		}
		for row := 0; row < len(regs); row += 8 {
			s := make([]string, 0, 8)
			for i, v := range regs[row : row+8] {
				s = append(s, fmt.Sprintf("r%02d=%02x", row+i, v))
			}
			fmt.Fprintln(m.out, m.styles.cpu.Render(strings.Join(s, " ")))
		}

	case "SRAM":
		a, n, err := parseRange(cmd, args)
		if err != nil {
			return false, err
		}
		data, err := m.sess.ReadData(a, n)
		if err != nil {
			return false, err
		}
		m.dump(a, data)

	case "POKE":
		a, data, err := parseBytes(cmd, args)
		if err != nil {
			return false, err
		}
		return false, m.sess.WriteData(a, data)

	case "FLASH":
		a, n, err := parseRange(cmd, args)
		if err != nil {
			return false, err
		}
		data, err := m.sess.ReadFlash(a, n)
		if err != nil {
			return false, err
		}
		m.dump(a, data)

	case "EEPROM":
		a, n, err := parseRange(cmd, args)
		if err != nil {
			return false, err
		}
		data, err := m.sess.ReadEEPROM(a, n)
		if err != nil {
			return false, err
		}
		m.dump(a, data)

	case "EEWRITE":
		a, data, err := parseBytes(cmd, args)
		if err != nil {
			return false, err
		}
		return false, m.sess.WriteEEPROM(a, data)

	case "BREAK", "B":
		a := int(m.sess.Next()) * 2
		if len(args) > 0 {
			var err error
			a, err = parseNumber(args[0])
			if err != nil {
				return false, err
			}
		}
		if err := m.sess.SetSWBreakpoint(a); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.styles.breakpoint.Render(fmt.Sprintf("break at 0x%04x", a)))

	case "HWBREAK":
		if len(args) < 1 {
			return false, curated.Errorf(MissingArgument, cmd, "an address")
		}
		a, err := parseNumber(args[0])
		if err != nil {
			return false, err
		}
		if err := m.sess.SetHWBreakpoint(uint16(a / 2)); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.styles.breakpoint.Render(fmt.Sprintf("hardware break at 0x%04x", a&^1)))

	case "CLEAR":
		if len(args) < 1 {
			return false, curated.Errorf(MissingArgument, cmd, "an address")
		}
		a, err := parseNumber(args[0])
		if err != nil {
			return false, err
		}
		return false, m.sess.RemoveSWBreakpoint(a)

	case "LIST":
		bps := m.sess.SWBreakpoints()
		if len(bps) == 0 {
			fmt.Fprintln(m.out, m.styles.info.Render("no breakpoints"))
			break // switch
		}
		for _, a := range bps {
			fmt.Fprintln(m.out, m.styles.breakpoint.Render(fmt.Sprintf("break at 0x%04x", a)))
		}

	case "WAIT":
		var timeout time.Duration
		if len(args) > 0 {
			ms, err := parseNumber(args[0])
			if err != nil {
				return false, err
			}
			timeout = time.Duration(ms) * time.Millisecond
		}
		if err := m.sess.WaitForStop(timeout); err != nil {
			return false, err
		}
		m.printPC()
		return false, m.printReason()

	case "REASON":
		return false, m.printReason()

	case "DIVISOR":
		if len(args) < 1 {
			return false, curated.Errorf(MissingArgument, cmd, "a divisor")
		}
		d, err := parseNumber(args[0])
		if err != nil {
			return false, err
		}
		if err := m.sess.SetDivisor(d); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.styles.info.Render(fmt.Sprintf("%d baud", m.sess.Link().Baud())))

	case "LOG":
		n := 10
		if len(args) > 0 {
			var err error
			n, err = parseNumber(args[0])
			if err != nil {
				return false, err
			}
		}
		logger.Tail(m.out, n)

	case "MEMVIZ":
		fn := paths.UniqueFilename("memviz", m.sess.Profile().Name) + ".dot"
		if len(args) > 0 {
			fn = args[0]
		}
		f, err := os.Create(fn)
		if err != nil {
			return false, err
		}
		memviz.Map(f, m.sess)
		if err := f.Close(); err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.styles.info.Render(fmt.Sprintf("session graph written to %s", fn)))

	default:
		return false, curated.Errorf(UnknownCommand, cmd)
	}

	return false, nil
}

func (m *Monitor) printPC() {
	fmt.Fprintln(m.out, m.styles.cpu.Render(fmt.Sprintf("%s: next instruction at 0x%04x", m.sess.Status(), uint32(m.sess.Next())*2)))
}

func (m *Monitor) printReason() error {
	r, err := m.sess.HaltReason()
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, m.styles.info.Render(r.String()))
	return nil
}

// hex dump with sixteen bytes to a line
func (m *Monitor) dump(address int, data []byte) {
	for i := 0; i < len(data); i += 16 {
		row := data[i:min(i+16, len(data))]
		s := make([]string, len(row))
		for j, v := range row {
			s[j] = fmt.Sprintf("%02x", v)
		}
		fmt.Fprintln(m.out, m.styles.mem.Render(fmt.Sprintf("0x%04x: %s", address+i, strings.Join(s, " "))))
	}
}
