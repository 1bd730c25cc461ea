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

package gdbserver

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/target"
)

// handle a single packet. errors returned by handle() are connection errors.
// errors with the command are replied to the client
func (c *client) handle(pkt []byte) (action, error) {
	if len(pkt) == 0 {
		return actionNone, c.reply("")
	}

	args := string(pkt[1:])

	switch pkt[0] {
	case '?':
		return actionNone, c.reply(stopTrapped)

	case 'q':
		return actionNone, c.query(args)

	case 'Q':
		if args == "StartNoAckMode" {
			if err := c.reply("OK"); err != nil {
				return actionNone, err
			}
			c.noAck = true
			return actionNone, nil
		}
		return actionNone, c.reply("")

	case 'v':
		// includes vMustReplyEmpty
		return actionNone, c.reply("")

	case 'H':
		// there is only one thread
		return actionNone, c.reply("OK")

	case 'g':
		return actionNone, c.result(c.readRegisters())

	case 'G':
		return actionNone, c.ok(c.writeRegisters(args))

	case 'p':
		return actionNone, c.result(c.readRegister(args))

	case 'P':
		return actionNone, c.ok(c.writeRegister(args))

	case 'm':
		return actionNone, c.result(c.readMemory(args))

	case 'M':
		return actionNone, c.ok(c.writeMemory(args, false))

	case 'X':
		return actionNone, c.ok(c.writeMemory(args, true))

	case 'c':
		if err := c.setNext(args); err != nil {
			return actionNone, c.replyError(err)
		}
		if err := c.sess.Resume(c.context()); err != nil {
			return actionNone, c.replyError(err)
		}
		stop, err := c.waitForStop()
		if err != nil {
			return actionNone, err
		}
		return actionNone, c.reply(stop)

	case 's':
		if err := c.setNext(args); err != nil {
			return actionNone, c.replyError(err)
		}
		if err := c.sess.Step(); err != nil {
			return actionNone, c.replyError(err)
		}
		return actionNone, c.reply(stopTrapped)

	case 'Z', 'z':
		return actionNone, c.ok(c.breakpoint(pkt[0] == 'Z', args))

	case 'k':
		return actionClose, nil

	case 'D':
		if err := c.reply("OK"); err != nil {
			return actionNone, err
		}
		if err := c.sess.Resume(target.Run); err != nil {
			logger.Log(logger.Allow, "gdbserver", err)
		}
		return actionClose, nil
	}

	return actionNone, c.reply("")
}

// reply with a hex encoded result or an error
func (c *client) result(data []byte, err error) error {
	if err != nil {
		return c.replyError(err)
	}
	return c.reply(hex.EncodeToString(data))
}

// reply with OK or an error
func (c *client) ok(err error) error {
	if err != nil {
		return c.replyError(err)
	}
	return c.reply("OK")
}

func (c *client) query(args string) error {
	name, _, _ := strings.Cut(args, ":")
	name, _, _ = strings.Cut(name, ",")

	switch name {
	case "Supported":
		return c.reply("PacketSize=1000;QStartNoAckMode+")
	case "Attached":
		return c.reply("1")
	case "C":
		return c.reply("QC01")
	case "fThreadInfo":
		return c.reply("m1")
	case "sThreadInfo":
		return c.reply("l")
	case "Offsets":
		return c.reply("Text=0;Data=0;Bss=0")
	case "TStatus":
		return c.reply("T0;tnotrun:0")
	case "Rcmd":
		_, cmd, _ := strings.Cut(args, ",")
		return c.monitor(cmd)
	}

	return c.reply("")
}

// send console output to the client
func (c *client) output(s string) error {
	return c.reply("O" + hex.EncodeToString([]byte(s)))
}

// the monitor command is hex encoded
func (c *client) monitor(encoded string) error {
	b, err := hex.DecodeString(encoded)
	if err != nil {
		return c.replyError(curated.Errorf(MalformedPacket, encoded))
	}

	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "reset":
		if err := c.sess.Reset(false); err != nil {
			return c.replyError(err)
		}
		if err := c.output("target reset\n"); err != nil {
			return err
		}
	case "halt":
		if err := c.output(fmt.Sprintf("target halted at 0x%04x\n", uint32(c.sess.Next())*2)); err != nil {
			return err
		}
	default:
		if err := c.output(fmt.Sprintf("unknown monitor command: %s\n", b)); err != nil {
			return err
		}
	}

	return c.reply("OK")
}

// an optional byte address to resume from
func (c *client) setNext(args string) error {
	if args == "" {
		return nil
	}
	a, err := strconv.ParseUint(args, 16, 32)
	if err != nil {
		return curated.Errorf(MalformedPacket, args)
	}
	return c.sess.SetNext(uint16(a / 2))
}

// Z/z type,address,kind
func (c *client) breakpoint(insert bool, args string) error {
	f := strings.Split(args, ",")
	if len(f) < 2 {
		return curated.Errorf(MalformedPacket, args)
	}
	a, err := strconv.ParseUint(f[1], 16, 32)
	if err != nil {
		return curated.Errorf(MalformedPacket, args)
	}

	switch f[0] {
	case "0":
		if insert {
			return c.sess.SetSWBreakpoint(int(a))
		}
		return c.sess.RemoveSWBreakpoint(int(a))
	case "1":
		if insert {
			if err := c.sess.SetHWBreakpoint(uint16(a / 2)); err != nil {
				return err
			}
		}
		c.hwbp = insert
		return nil
	}

	return curated.Errorf(MalformedPacket, args)
}

// parse "address,length" and the optional data that follows a colon
func parseMemoryArgs(args string) (int, int, string, error) {
	al, data, _ := strings.Cut(args, ":")
	as, ls, ok := strings.Cut(al, ",")
	if !ok {
		return 0, 0, "", curated.Errorf(MalformedPacket, args)
	}
	a, err := strconv.ParseUint(as, 16, 32)
	if err != nil {
		return 0, 0, "", curated.Errorf(MalformedPacket, args)
	}
	l, err := strconv.ParseUint(ls, 16, 32)
	if err != nil {
		return 0, 0, "", curated.Errorf(MalformedPacket, args)
	}
	return int(a), int(l), data, nil
}

func (c *client) readMemory(args string) ([]byte, error) {
	a, l, _, err := parseMemoryArgs(args)
	if err != nil {
		return nil, err
	}
	return c.read(a, l)
}

// M is hex data and X is binary data
func (c *client) writeMemory(args string, binary bool) error {
	a, l, d, err := parseMemoryArgs(args)
	if err != nil {
		return err
	}

	var data []byte
	if binary {
		data = []byte(d)
	} else {
		data, err = hex.DecodeString(d)
		if err != nil {
			return curated.Errorf(MalformedPacket, args)
		}
	}

	if len(data) != l {
		return curated.Errorf(MalformedPacket, args)
	}

	// an empty X packet tests for binary support
	if l == 0 {
		return nil
	}

	return c.writeData(a, data)
}
