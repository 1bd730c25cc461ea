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

package debugwire

import (
	"github.com/dwdebug/dwdebug/curated"
)

// Control registers of the debugWire module.
const (
	// the program counter (word address). the value read after the target
	// has stopped is one more than the address of the next instruction
	RegPC = 0x00

	// the hardware breakpoint (word address). also used as the end address
	// of a memory cycle
	RegHWBP = 0x01

	// the instruction register
	RegIR = 0x02
)

// Contexts select how the target behaves when it next executes.
const (
	ContextGo         = 0x40 // run until a BREAK instruction
	ContextHWBP       = 0x41 // run until the hardware breakpoint
	ContextStepOut    = 0x43 // run until return
	ContextFlash      = 0x44 // execute loaded instructions
	ContextRW         = 0x46 // register and memory cycles
	ContextStepIn     = 0x59
	ContextSingleStep = 0x5a
)

// DisableTimers is combined with a context to stop the target's timers
// while the debugWire module is in control.
const DisableTimers = 0x20

// Destinations for a memory cycle.
const (
	DestSRAMRead  = 0x00
	DestRegsRead  = 0x01
	DestFlashRead = 0x02
	DestSRAMWrite = 0x04
	DestRegsWrite = 0x05
)

// command bytes
const (
	cmdDisable        = 0x06
	cmdReset          = 0x07
	cmdMemoryCycle    = 0x20
	cmdExecute        = 0x23
	cmdContinue       = 0x30
	cmdSingleStep     = 0x31
	cmdContinueLoaded = 0x32
	cmdExecuteLong    = 0x33
	cmdDestination    = 0xc2
	cmdWriteControl   = 0xd0
	cmdReadControl    = 0xf0
	cmdFingerprint    = 0xf3
)

// the byte sent to select each divisor. the index is the power of two
var divisorBytes = [8]byte{0xa3, 0xa2, 0xa1, 0xa0, 0x80, 0x81, 0x82, 0x83}

// DivisorByte returns the command byte that selects the divisor. The divisor
// must be a power of two between 1 and 128.
func DivisorByte(divisor int) (byte, bool) {
	for i := range divisorBytes {
		if divisor == 1<<i {
			return divisorBytes[i], true
		}
	}
	return 0, false
}

// DivisorFromByte is the inverse of DivisorByte().
func DivisorFromByte(b byte) (int, bool) {
	for i := range divisorBytes {
		if divisorBytes[i] == b {
			return 1 << i, true
		}
	}
	return 0, false
}

// SetBaudDivisor changes the divisor used by the target to derive its baud
// rate. The host rate is changed to match and the target's sync byte is
// read at the new rate.
func (l *Link) SetBaudDivisor(divisor int) error {
	b, ok := DivisorByte(divisor)
	if !ok {
		return curated.Errorf(InvalidDivisor, divisor)
	}

	if _, err := l.Command([]byte{b}, 0); err != nil {
		return err
	}

	l.divisor = divisor
	if err := l.setHostRate(divisor); err != nil {
		return err
	}

	s, err := l.read(1)
	if err != nil {
		return curated.Errorf(NoAcknowledgement, err)
	}
	if s[0] != syncByte {
		return curated.Errorf(NoAcknowledgement, s)
	}

	return nil
}

// Resync the baud rate after the target has recalibrated its UART.
func (l *Link) Resync() error {
	return l.SetBaudDivisor(l.divisor)
}

// Fingerprint returns the device signature.
func (l *Link) Fingerprint() (uint16, error) {
	b, err := l.Command([]byte{cmdFingerprint}, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Reset the target. The target is halted after the reset and the baud rate
// is resynchronised.
func (l *Link) Reset() error {
	if _, err := l.Command([]byte{cmdReset}, 0); err != nil {
		return err
	}
	if err := l.acknowledgement(); err != nil {
		return err
	}
	l.running = false
	return l.Resync()
}

// Disable debugWire until the next power cycle.
func (l *Link) Disable() error {
	_, err := l.Command([]byte{cmdDisable}, 0)
	return err
}

// WriteControl writes a word to a control register.
func (l *Link) WriteControl(reg int, value uint16) error {
	_, err := l.Command([]byte{cmdWriteControl | byte(reg&0x03), byte(value >> 8), byte(value)}, 0)
	return err
}

// ReadControl reads a word from a control register.
func (l *Link) ReadControl(reg int) (uint16, error) {
	b, err := l.Command([]byte{cmdReadControl | byte(reg&0x03)}, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// SetContext selects the context for subsequent execution.
func (l *Link) SetContext(context byte, disableTimers bool) error {
	if disableTimers {
		context |= DisableTimers
	}
	_, err := l.Command([]byte{context}, 0)
	return err
}

// SetDestination selects the destination of the next memory cycle.
func (l *Link) SetDestination(dest byte) error {
	_, err := l.Command([]byte{cmdDestination, dest}, 0)
	return err
}

// StartMemoryCycle begins a memory cycle between the addresses in the PC
// and HWBP registers.
func (l *Link) StartMemoryCycle() error {
	_, err := l.Command([]byte{cmdMemoryCycle}, 0)
	return err
}

// LoadInstruction places the opcode in the instruction register without
// executing it.
func (l *Link) LoadInstruction(op uint16) error {
	return l.WriteControl(RegIR, op)
}

// Execute the opcode.
func (l *Link) Execute(op uint16) error {
	_, err := l.Command([]byte{cmdWriteControl | RegIR, byte(op >> 8), byte(op), cmdExecute}, 0)
	return err
}

// ExecuteLong executes an opcode that takes an indeterminate amount of time,
// such as SPM, and waits for the acknowledgement. The caller should call
// Resync() when the sequence of long instructions is complete.
func (l *Link) ExecuteLong(op uint16) error {
	_, err := l.Command([]byte{cmdWriteControl | RegIR, byte(op >> 8), byte(op), cmdExecuteLong}, 0)
	if err != nil {
		return err
	}
	return l.acknowledgement()
}

// Continue execution from the address in the PC register. The target will
// run until it hits a breakpoint or until BreakNow() is called.
func (l *Link) Continue() error {
	if _, err := l.Command([]byte{cmdContinue}, 0); err != nil {
		return err
	}
	l.running = true
	return nil
}

// ContinueLoaded continues execution but the first instruction executed is
// the one in the instruction register rather than the one in flash.
func (l *Link) ContinueLoaded() error {
	if _, err := l.Command([]byte{cmdContinueLoaded}, 0); err != nil {
		return err
	}
	l.running = true
	return nil
}

// SingleStep executes the instruction at the address in the PC register.
// The target will stop of its own accord so WaitForBreak() should be called
// to collect the acknowledgement.
func (l *Link) SingleStep() error {
	if _, err := l.Command([]byte{cmdSingleStep}, 0); err != nil {
		return err
	}
	l.running = true
	return nil
}
