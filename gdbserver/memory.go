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
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/target"
)

// origins of the memories in the address space seen by GDB
const (
	dataOrigin   = 0x800000
	eepromOrigin = 0x810000
)

// register numbers after the general purpose registers
const (
	regSREG = 32
	regSP   = 33
	regPC   = 34
)

// I/O addresses of the stack pointer and status register. SPH and SREG
// follow SPL
const ioSPL = 0x3d

func (c *client) read(address int, n int) ([]byte, error) {
	switch {
	case address >= eepromOrigin:
		return c.sess.ReadEEPROM(address-eepromOrigin, n)
	case address >= dataOrigin:
		return c.sess.ReadData(address-dataOrigin, n)
	}
	return c.sess.ReadFlash(address, n)
}

func (c *client) writeData(address int, data []byte) error {
	switch {
	case address >= eepromOrigin:
		return c.sess.WriteEEPROM(address-eepromOrigin, data)
	case address >= dataOrigin:
		return c.sess.WriteData(address-dataOrigin, data)
	}
	return c.writeFlash(address, data)
}

// flash is written a page at a time. the parts of each page not being
// written are preserved
func (c *client) writeFlash(address int, data []byte) error {
	profile := c.sess.Profile()
	if !profile.Supported() {
		return curated.Errorf(FlashNotWritable, profile)
	}

	for len(data) > 0 {
		page := profile.PageAddress(address)
		buf, err := c.sess.ReadFlash(page, profile.PageSize)
		if err != nil {
			return err
		}

		n := copy(buf[address-page:], data)
		if err := c.sess.WriteFlashPage(page, buf); err != nil {
			return err
		}

		address += n
		data = data[n:]
	}

	return nil
}

// SREG, SPL and SPH in that order. an unknown device reports zero for all
// three
func (c *client) readSpecial() ([]byte, error) {
	if !c.sess.Profile().Supported() {
		return make([]byte, 3), nil
	}
	b, err := c.sess.ReadData(device.DataAddress(ioSPL), 3)
	if err != nil {
		return nil, err
	}
	return []byte{b[2], b[0], b[1]}, nil
}

func (c *client) writeSpecial(sreg []byte, sp []byte) error {
	if !c.sess.Profile().Supported() {
		return nil
	}
	if sp != nil {
		if err := c.sess.WriteData(device.DataAddress(ioSPL), sp); err != nil {
			return err
		}
	}
	if sreg != nil {
		if err := c.sess.WriteData(device.DataAddress(ioSPL+2), sreg); err != nil {
			return err
		}
	}
	return nil
}

// the PC as a byte address
func (c *client) pc() []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(c.sess.Next())*2)
}

func (c *client) setPC(b []byte) error {
	return c.sess.SetNext(uint16(binary.LittleEndian.Uint32(b) / 2))
}

func (c *client) readRegisters() ([]byte, error) {
	regs, err := c.sess.ReadRegisters(0, target.NumRegisters)
	if err != nil {
		return nil, err
	}
	special, err := c.readSpecial()
	if err != nil {
		return nil, err
	}
	return append(append(regs, special...), c.pc()...), nil
}

func (c *client) writeRegisters(args string) error {
	b, err := hex.DecodeString(args)
	if err != nil || len(b) < regSP+2 {
		return curated.Errorf(MalformedPacket, args)
	}

	if err := c.sess.WriteRegisters(0, b[:target.NumRegisters]); err != nil {
		return err
	}
	if err := c.writeSpecial(b[regSREG:regSREG+1], b[regSP:regSP+2]); err != nil {
		return err
	}
	// the PC follows the two bytes of the stack pointer
	if pc := regSP + 2; len(b) >= pc+4 {
		return c.setPC(b[pc : pc+4])
	}

	return nil
}

func parseRegister(s string) (int, error) {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, curated.Errorf(MalformedPacket, s)
	}
	return int(n), nil
}

func (c *client) readRegister(args string) ([]byte, error) {
	n, err := parseRegister(args)
	if err != nil {
		return nil, err
	}

	switch {
	case n < target.NumRegisters:
		return c.sess.ReadRegisters(n, 1)
	case n == regSREG:
		b, err := c.readSpecial()
		if err != nil {
			return nil, err
		}
		return b[:1], nil
	case n == regSP:
		b, err := c.readSpecial()
		if err != nil {
			return nil, err
		}
		return b[1:], nil
	case n == regPC:
		return c.pc(), nil
	}

	return nil, curated.Errorf(UnknownRegister, n)
}

// P n=value
func (c *client) writeRegister(args string) error {
	r, v, ok := strings.Cut(args, "=")
	if !ok {
		return curated.Errorf(MalformedPacket, args)
	}
	n, err := parseRegister(r)
	if err != nil {
		return err
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return curated.Errorf(MalformedPacket, args)
	}

	size := 1
	switch n {
	case regSP:
		size = 2
	case regPC:
		size = 4
	}
	if len(b) != size {
		return curated.Errorf(MalformedPacket, args)
	}

	switch {
	case n < target.NumRegisters:
		return c.sess.WriteRegisters(n, b)
	case n == regSREG:
		return c.writeSpecial(b, nil)
	case n == regSP:
		return c.writeSpecial(nil, b)
	case n == regPC:
		return c.setPC(b)
	}

	return curated.Errorf(UnknownRegister, n)
}
