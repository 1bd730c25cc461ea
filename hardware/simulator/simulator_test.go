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

package simulator_test

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/instructions"
	"github.com/dwdebug/dwdebug/hardware/simulator"
	"github.com/dwdebug/dwdebug/test"
)

const frequency = 8000000

// a simulator with the host at the power on rate
func newSimulator(t *testing.T) *simulator.Simulator {
	t.Helper()
	p, ok := device.LookupName("ATtiny85")
	test.DemandSuccess(t, ok)
	s := simulator.NewSimulator(p, frequency)
	_, err := s.SetBaudRate(frequency / 128)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, s.SetReadTimeout(50*time.Millisecond))
	return s
}

// write the bytes and read n bytes in response, echo included
func exchange(t *testing.T, s *simulator.Simulator, b []byte, n int) []byte {
	t.Helper()
	_, err := s.Write(b)
	test.DemandSuccess(t, err)
	r := make([]byte, n)
	_, err = io.ReadFull(s, r)
	test.DemandSuccess(t, err)
	return r
}

func halt(t *testing.T, s *simulator.Simulator) {
	t.Helper()
	test.DemandSuccess(t, s.SendBreak())
	r := make([]byte, 2)
	_, err := io.ReadFull(s, r)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, r[0], byte(0x00))
	test.DemandEquality(t, r[1], byte(0x55))
}

func TestBreakAndFingerprint(t *testing.T) {
	s := newSimulator(t)
	test.ExpectSuccess(t, s.Running())

	// commands are echoed but ignored while running
	r := exchange(t, s, []byte{0xf3}, 1)
	test.ExpectEquality(t, r[0], byte(0xf3))
	_, err := s.Read(make([]byte, 1))
	test.ExpectSuccess(t, errors.Is(err, os.ErrDeadlineExceeded))

	halt(t, s)
	test.ExpectFailure(t, s.Running())
	test.ExpectEquality(t, s.Breaks(), 1)

	r = exchange(t, s, []byte{0xf3}, 3)
	test.ExpectEquality(t, r[1], byte(0x93))
	test.ExpectEquality(t, r[2], byte(0x0b))
}

func TestDivisorChange(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)

	// select divisor 16. the echo is at the old rate and the sync byte is
	// at the new rate
	r := exchange(t, s, []byte{0x80}, 1)
	test.ExpectEquality(t, r[0], byte(0x80))

	_, _ = s.SetBaudRate(frequency / 16)
	r = make([]byte, 1)
	_, err := io.ReadFull(s, r)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r[0], byte(0x55))
	test.ExpectEquality(t, s.Syncs(), 1)

	// a host at the wrong rate is not understood
	_, _ = s.SetBaudRate(frequency / 128)
	_, err = s.Write([]byte{0xf3})
	test.ExpectSuccess(t, err)
	r = make([]byte, 1)
	_, err = io.ReadFull(s, r)
	test.ExpectSuccess(t, err)
	_, err = s.Read(make([]byte, 1))
	test.ExpectSuccess(t, errors.Is(err, os.ErrDeadlineExceeded))
}

func TestControlRegisters(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)

	exchange(t, s, []byte{0xd0, 0x01, 0x23}, 3)
	exchange(t, s, []byte{0xd1, 0x04, 0x56}, 3)
	test.ExpectEquality(t, s.PC(), uint16(0x0123))
	test.ExpectEquality(t, s.HWBP(), uint16(0x0456))

	r := exchange(t, s, []byte{0xf0}, 3)
	test.ExpectEquality(t, r[1], byte(0x01))
	test.ExpectEquality(t, r[2], byte(0x23))
}

func TestRegisterCycle(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)

	// write r2..r4 then read r0..r4
	exchange(t, s, []byte{0x66, 0xd0, 0x00, 0x02, 0xd1, 0x00, 0x05, 0xc2, 0x05, 0x20}, 10)
	exchange(t, s, []byte{0xaa, 0xbb, 0xcc}, 3)
	regs := s.Registers()
	test.ExpectEquality(t, regs[2], byte(0xaa))
	test.ExpectEquality(t, regs[4], byte(0xcc))

	r := exchange(t, s, []byte{0xd0, 0x00, 0x00, 0xd1, 0x00, 0x05, 0xc2, 0x01, 0x20}, 9+5)
	test.ExpectEquality(t, r[9+2], byte(0xaa))
	test.ExpectEquality(t, r[9+3], byte(0xbb))

	// the PC is changed by the cycle
	test.ExpectEquality(t, s.PC(), uint16(0x0005))
}

func TestContinueToBreak(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)
	test.DemandSuccess(t, s.PlaceBreak(0x0010))

	// GO context, PC at 0x0004
	exchange(t, s, []byte{0x40, 0xd0, 0x00, 0x04, 0x30}, 5+2)
	test.ExpectFailure(t, s.Running())
	test.ExpectEquality(t, s.PC(), uint16(0x0011))

	// hardware breakpoint before the BREAK instruction
	exchange(t, s, []byte{0x41, 0xd1, 0x00, 0x08, 0xd0, 0x00, 0x04, 0x30}, 8+2)
	test.ExpectEquality(t, s.PC(), uint16(0x0009))

	// nothing to stop at
	exchange(t, s, []byte{0x40, 0xd0, 0x00, 0x11, 0x30}, 5)
	test.ExpectSuccess(t, s.Running())
	s.Stop(0x0200)
	test.ExpectFailure(t, s.Running())
	test.ExpectEquality(t, s.PC(), uint16(0x0201))
}

func TestSingleStep(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)
	r := exchange(t, s, []byte{0x5a, 0xd0, 0x00, 0x20, 0x31}, 5+2)
	test.ExpectEquality(t, r[5], byte(0x00))
	test.ExpectEquality(t, r[6], byte(0x55))
	test.ExpectEquality(t, s.PC(), uint16(0x0022))
}

func TestSPMOutsideBoot(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)

	// SPMCSR = erase, Z = 0. PC is not in the boot section so nothing happens
	s.SetRegister(26, 0x03)
	op := instructions.OUT(s.Profile().SPMCSR, 26)
	exchange(t, s, []byte{0x64, 0xd0, 0x00, 0x10, 0xd2, byte(op >> 8), byte(op), 0x23}, 8)
	op = instructions.SPM()
	exchange(t, s, []byte{0xd2, byte(op >> 8), byte(op), 0x33}, 4+2)
	test.ExpectEquality(t, s.PageErases(), 0)
}

func TestFaults(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)

	s.Inject(simulator.FaultEcho)
	r := exchange(t, s, []byte{0xf3}, 3)
	test.ExpectInequality(t, r[0], byte(0xf3))

	// faults are one-shot
	r = exchange(t, s, []byte{0xf3}, 3)
	test.ExpectEquality(t, r[0], byte(0xf3))

	s.Inject(simulator.FaultLongAck)
	op := instructions.SPM()
	exchange(t, s, []byte{0xd2, byte(op >> 8), byte(op), 0x33}, 4)
	_, err := s.Read(make([]byte, 1))
	test.ExpectSuccess(t, errors.Is(err, os.ErrDeadlineExceeded))
}

func TestReset(t *testing.T) {
	s := newSimulator(t)
	halt(t, s)
	s.SetRegister(5, 0x42)
	r := exchange(t, s, []byte{0x07}, 3)
	test.ExpectEquality(t, r[1], byte(0x00))
	test.ExpectEquality(t, r[2], byte(0x55))
	test.ExpectEquality(t, s.Registers()[5], byte(0x00))
	test.ExpectEquality(t, s.PC(), uint16(0x0001))
}

func TestClose(t *testing.T) {
	s := newSimulator(t)
	test.DemandSuccess(t, s.SetReadTimeout(0))

	done := make(chan error)
	go func() {
		_, err := s.Read(make([]byte, 1))
		done <- err
	}()

	test.ExpectSuccess(t, s.Close())
	test.ExpectSuccess(t, errors.Is(<-done, os.ErrClosed))
}
