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

package simulator

import (
	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/instructions"
)

// the number of bytes that follow each command byte
func operands(cmd byte) int {
	switch {
	case cmd == 0xc0 || cmd == 0xc1 || cmd == 0xc2:
		return 1
	case cmd >= 0xd0 && cmd <= 0xd3:
		return 2
	}
	return 0
}

// receive a byte from the host. must be called with the critical section
// held
func (s *Simulator) receive(b byte) {
	if s.absorb > 0 {
		s.absorb--
		s.absorbFn(b)
		return
	}

	if s.awaitDWDR >= 0 {
		s.data[s.awaitDWDR] = b
		s.awaitDWDR = -1
		return
	}

	s.pending = append(s.pending, b)
	if len(s.pending) <= operands(s.pending[0]) {
		return
	}

	cmd := s.pending[0]
	args := s.pending[1:]
	defer func() {
		s.pending = s.pending[:0]
	}()

	if d, ok := debugwire.DivisorFromByte(cmd); ok {
		s.divisor = d
		s.syncs++
		s.emit(0x55)
		return
	}

	switch {
	case cmd == 0x06:
		// disable. the simulation carries on regardless

	case cmd == 0x07:
		s.reset()

	case cmd == 0x20 || cmd == 0x21:
		s.memoryCycle()

	case cmd == 0x23:
		s.execute(s.ir)

	case cmd == 0x33:
		s.execute(s.ir)
		if !s.fault(FaultLongAck) {
			s.emitAck()
		}

	case cmd == 0x30:
		s.resume(s.pc, false)

	case cmd == 0x31:
		if s.fault(FaultStepAck) {
			s.running = true
			s.runPC = s.pc + 1
		} else {
			s.pc++
			s.pc++
			s.emitAck()
		}

	case cmd == 0x32:
		s.resume(s.pc, true)

	case cmd >= 0x40 && cmd <= 0x7f:
		s.context = cmd

	case cmd == 0xc0 || cmd == 0xc1:
		s.writeControl(int(cmd&0x03), uint16(args[0]), true)

	case cmd == 0xc2:
		s.destination = args[0]

	case cmd >= 0xd0 && cmd <= 0xd3:
		s.writeControl(int(cmd&0x03), uint16(args[0])<<8|uint16(args[1]), false)

	case cmd >= 0xe0 && cmd <= 0xe2:
		v := s.readControl(int(cmd & 0x03))
		s.emit(byte(v))

	case cmd >= 0xf0 && cmd <= 0xf2:
		v := s.readControl(int(cmd & 0x03))
		s.emit(byte(v>>8), byte(v))

	case cmd == 0xf3:
		s.emit(byte(s.profile.Fingerprint>>8), byte(s.profile.Fingerprint))
	}
}

func (s *Simulator) writeControl(reg int, v uint16, low bool) {
	var r *uint16
	switch reg {
	case debugwire.RegPC:
		r = &s.pc
	case debugwire.RegHWBP:
		r = &s.hwbp
	case debugwire.RegIR:
		r = &s.ir
	default:
		return
	}
	if low {
		*r = *r&0xff00 | v&0x00ff
	} else {
		*r = v
	}
}

func (s *Simulator) readControl(reg int) uint16 {
	switch reg {
	case debugwire.RegPC:
		return s.pc
	case debugwire.RegHWBP:
		return s.hwbp
	case debugwire.RegIR:
		return s.ir
	}
	return 0
}

func (s *Simulator) reset() {
	for i := 0; i < s.profile.SRAMBase && i < len(s.data); i++ {
		s.data[i] = 0
	}
	s.running = false
	s.rwwBusy = false
	s.eempe = false
	s.pc = 1
	s.emitAck()
}

// z returns the value of the Z pointer register
func (s *Simulator) z() int {
	return int(s.data[30]) | int(s.data[31])<<8
}

func (s *Simulator) setZ(v int) {
	s.data[30] = byte(v)
	s.data[31] = byte(v >> 8)
}

// memoryCycle transfers data between the host and the memory selected by
// the destination. the PC and HWBP registers and, for SRAM and flash, the Z
// register are used as address bounds and are changed by the cycle.
func (s *Simulator) memoryCycle() {
	start := int(s.pc)
	end := int(s.hwbp)

	switch s.destination {
	case debugwire.DestRegsRead:
		for i := start; i < end && i < 32; i++ {
			s.emit(s.data[i])
		}

	case debugwire.DestRegsWrite:
		i := start
		s.absorbBytes(end-start, func(b byte) {
			if i < 32 {
				s.data[i] = b
			}
			i++
		})

	case debugwire.DestSRAMRead:
		n := (end - start) / 2
		z := s.z()
		if !s.fault(FaultSRAMRead) {
			for i := 0; i < n; i++ {
				s.emit(s.readData(z + i))
			}
		}
		s.setZ(z + n)

	case debugwire.DestSRAMWrite:
		n := (end - start) / 2
		z := s.z()
		s.absorbBytes(n, func(b byte) {
			s.writeData(z, b)
			z++
			s.setZ(z)
		})

	case debugwire.DestFlashRead:
		n := (end - start) / 2
		z := s.z()
		if !s.fault(FaultFlashRead) {
			for i := 0; i < n; i++ {
				s.emit(s.readFlash(z + i))
			}
		}
		s.setZ(z + n)
	}

	// the PC advances through the cycle
	s.pc = s.hwbp
}

func (s *Simulator) absorbBytes(n int, fn func(b byte)) {
	if n <= 0 {
		return
	}
	s.absorb = n
	s.absorbFn = fn
}

func (s *Simulator) readData(addr int) byte {
	if addr < 0 || addr >= len(s.data) {
		return 0xff
	}
	return s.data[addr]
}

func (s *Simulator) writeData(addr int, b byte) {
	if addr >= 0 && addr < len(s.data) {
		s.data[addr] = b
	}
}

func (s *Simulator) readFlash(addr int) byte {
	if addr < 0 || addr >= len(s.flash) || s.rwwBusy {
		return 0xff
	}
	return s.flash[addr]
}

// resume execution from the address. if loaded is true the instruction in
// the IR is executed in place of the instruction at the address.
func (s *Simulator) resume(from uint16, loaded bool) {
	if loaded {
		s.execute(s.ir)
		from++
	}

	switch s.context &^ debugwire.DisableTimers {
	case debugwire.ContextSingleStep, debugwire.ContextStepIn:
		if !loaded {
			from++
		}
		s.stop(from)
		return
	}

	useHWBP := s.context&^debugwire.DisableTimers == debugwire.ContextHWBP

	for a := int(from); a*2+1 < len(s.flash); a++ {
		if useHWBP && a == int(s.hwbp) {
			s.stop(uint16(a))
			return
		}
		if instructions.IsBreak([2]byte{s.flash[a*2], s.flash[a*2+1]}) {
			s.stop(uint16(a))
			return
		}
	}

	// nothing to stop at. the target runs until a break
	s.running = true
	s.runPC = from
}

// stop the target at the word address. the PC register is left pointing
// one beyond the address as it would be on real hardware
func (s *Simulator) stop(at uint16) {
	s.running = false
	s.pc = at + 1
	s.emitAck()
}

// execute a single instruction. only the instructions needed for
// debugging have any effect
func (s *Simulator) execute(op uint16) {
	d := instructions.Decode(op)

	switch d.Mnemonic {
	case instructions.In:
		if d.A == s.profile.DWDR {
			s.awaitDWDR = d.Rd
			return
		}
		s.data[d.Rd] = s.readIO(d.A)

	case instructions.Out:
		v := s.data[d.Rr]
		if d.A == s.profile.DWDR {
			if !s.fault(FaultDWDR) {
				s.emit(v)
			}
			return
		}
		s.writeIO(d.A, v)

	case instructions.Movw:
		s.data[d.Rd] = s.data[d.Rr]
		s.data[d.Rd+1] = s.data[d.Rr+1]

	case instructions.Adiw:
		v := int(s.data[d.Rd]) | int(s.data[d.Rd+1])<<8
		v += d.K
		s.data[d.Rd] = byte(v)
		s.data[d.Rd+1] = byte(v >> 8)

	case instructions.Ldi:
		s.data[d.Rd] = byte(d.K)

	case instructions.Spm:
		s.spm()
	}
}

func (s *Simulator) readIO(a int) byte {
	v := s.readData(device.DataAddress(a))
	if a == s.profile.EECR && s.eepromBusy > 0 {
		s.eepromBusy--
		v |= eepe
	}
	return v
}

// EECR bits
const (
	eere  = 0x01
	eepe  = 0x02
	eempe = 0x04
)

// SPMCSR operations
const (
	spmFill   = 0x01
	spmErase  = 0x03
	spmWrite  = 0x05
	spmRWWSRE = 0x11
)

func (s *Simulator) writeIO(a int, v byte) {
	switch a {
	case s.profile.EECR:
		addr := int(s.readData(device.DataAddress(s.profile.EEARL))) | int(s.readData(device.DataAddress(s.profile.EEARH)))<<8
		switch {
		case v&eere == eere:
			if addr < len(s.eeprom) {
				s.writeData(device.DataAddress(s.profile.EEDR), s.eeprom[addr])
			}
		case v&eempe == eempe:
			s.eempe = true
		case v&eepe == eepe:
			if s.eempe && addr < len(s.eeprom) {
				s.eeprom[addr] = s.readData(device.DataAddress(s.profile.EEDR))
			}
			s.eempe = false
		}
		return
	}
	s.writeData(device.DataAddress(a), v)
}

// spm performs the operation selected by SPMCSR. SPM only has an effect when
// the PC is in the boot section.
func (s *Simulator) spm() {
	spmcsr := device.DataAddress(s.profile.SPMCSR)
	op := s.readData(spmcsr)
	s.writeData(spmcsr, 0)

	if s.profile.PageSize == 0 || int(s.pc) < s.profile.BootStart {
		return
	}

	z := s.z()
	page := z - z%s.profile.PageSize
	if page+s.profile.PageSize > len(s.flash) {
		return
	}

	switch op {
	case spmFill:
		o := z % s.profile.PageSize &^ 1
		s.pageBuffer[o] = s.data[0]
		s.pageBuffer[o+1] = s.data[1]

	case spmErase:
		for i := 0; i < s.profile.PageSize; i++ {
			s.flash[page+i] = 0xff
		}
		s.pageErases++
		s.rwwBusy = s.profile.HasRWW

	case spmWrite:
		for i := 0; i < s.profile.PageSize; i++ {
			s.flash[page+i] &= s.pageBuffer[i]
			s.pageBuffer[i] = 0xff
		}
		s.pageWrites++
		s.rwwBusy = s.profile.HasRWW

	case spmRWWSRE:
		s.rwwBusy = false
	}
}
