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
	"os"
	"sync"
	"time"

	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/hardware/device"
)

// Fault is a failure that can be injected into the simulation. Each fault
// happens once, the next time the triggering event occurs.
type Fault int

// List of faults.
const (
	// the data of the next SRAM read cycle is not sent
	FaultSRAMRead Fault = iota

	// the data of the next flash read cycle is not sent
	FaultFlashRead

	// the acknowledgement of the next long instruction is not sent
	FaultLongAck

	// the next byte sent through DWDR is not sent
	FaultDWDR

	// the next echoed byte is corrupted
	FaultEcho

	// the acknowledgement of the next break is not sent
	FaultBreakAck

	// the next single step does not finish. the target keeps running
	FaultStepAck

	numFaults
)

// a byte waiting to be read by the host and the rate at which it was sent
type outByte struct {
	b    byte
	rate int
}

// Simulator is a simulated debugWire target.
type Simulator struct {
	crit sync.Mutex

	profile   device.Profile
	frequency int

	// memories. data is the data space: registers, I/O and SRAM
	flash  []byte
	eeprom []byte
	data   []byte

	// control registers
	pc   uint16
	hwbp uint16
	ir   uint16

	context     byte
	destination byte
	divisor     int

	// whether the target is executing and the address it is notionally
	// executing from
	running bool
	runPC   uint16

	// self programming
	pageBuffer []byte
	rwwBusy    bool

	// eeprom programming
	eempe      bool
	eepromBusy int

	// parser state
	pending   []byte
	absorb    int
	absorbFn  func(b byte)
	awaitDWDR int

	// host side of the line
	hostRate int
	timeout  time.Duration
	out      []outByte
	notify   chan struct{}
	closed   bool

	faults [numFaults]bool

	// statistics
	syncs      int
	pageWrites int
	pageErases int
	breaks     int
}

// the data space of an unknown device still has registers and I/O
const minDataSpace = 0x60

// NewSimulator is the preferred method of initialisation for the Simulator
// type. The simulated target is running, as it would be after power on.
func NewSimulator(profile device.Profile, frequency int) *Simulator {
	if frequency <= 0 {
		frequency = debugwire.DefaultFrequency
	}

	s := &Simulator{
		profile:    profile,
		frequency:  frequency,
		flash:      make([]byte, profile.FlashSize),
		eeprom:     make([]byte, profile.EEPROMSize),
		data:       make([]byte, max(profile.DataSpaceEnd(), minDataSpace)),
		pageBuffer: make([]byte, profile.PageSize),
		divisor:    debugwire.DefaultDivisor,
		running:    true,
		awaitDWDR:  -1,
		timeout:    debugwire.DefaultTimeout,
		notify:     make(chan struct{}),
	}

	for i := range s.flash {
		s.flash[i] = 0xff
	}
	for i := range s.eeprom {
		s.eeprom[i] = 0xff
	}
	for i := range s.pageBuffer {
		s.pageBuffer[i] = 0xff
	}

	return s
}

// the rate the target is currently using
func (s *Simulator) targetRate() int {
	return s.frequency / s.divisor
}

// wake any goroutine waiting in Read(). must be called with the critical
// section held
func (s *Simulator) signal() {
	close(s.notify)
	s.notify = make(chan struct{})
}

// queue a byte sent by the target
func (s *Simulator) emit(b ...byte) {
	for _, v := range b {
		s.out = append(s.out, outByte{b: v, rate: s.targetRate()})
	}
	s.signal()
}

// queue the acknowledgement sent by the target when it stops
func (s *Simulator) emitAck() {
	s.emit(0x00, 0x55)
}

// consume a fault if it has been injected
func (s *Simulator) fault(f Fault) bool {
	if s.faults[f] {
		s.faults[f] = false
		return true
	}
	return false
}

// Write implements the debugwire.Port interface.
func (s *Simulator) Write(p []byte) (int, error) {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.closed {
		return 0, os.ErrClosed
	}

	understood := debugwire.WithinTolerance(s.hostRate, s.targetRate())

	for _, b := range p {
		// the line echoes every byte at the host's rate
		e := b
		if s.fault(FaultEcho) {
			e ^= 0xff
		}
		s.out = append(s.out, outByte{b: e, rate: s.hostRate})

		// a running target only responds to a break
		if understood && !s.running {
			s.receive(b)
		}
	}
	s.signal()

	return len(p), nil
}

// Read implements the debugwire.Port interface.
func (s *Simulator) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	s.crit.Lock()
	timeout := s.timeout
	s.crit.Unlock()

	var timer *time.Timer
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
	}

	for {
		s.crit.Lock()
		if s.closed {
			s.crit.Unlock()
			return 0, os.ErrClosed
		}
		if len(s.out) > 0 {
			n := 0
			for n < len(p) && n < len(s.out) {
				o := s.out[n]
				if !debugwire.WithinTolerance(s.hostRate, o.rate) {
					o.b ^= 0xa5
				}
				p[n] = o.b
				n++
			}
			s.out = s.out[n:]
			s.crit.Unlock()
			return n, nil
		}
		ch := s.notify
		s.crit.Unlock()

		if timer == nil {
			<-ch
		} else {
			select {
			case <-ch:
			case <-timer.C:
				return 0, os.ErrDeadlineExceeded
			}
		}
	}
}

// SetReadTimeout implements the debugwire.Port interface.
func (s *Simulator) SetReadTimeout(timeout time.Duration) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.timeout = timeout
	return nil
}

// SendBreak implements the debugwire.Port interface. A running target stops
// and a halted target stays halted. In both cases the target acknowledges the
// break.
func (s *Simulator) SendBreak() error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.closed {
		return os.ErrClosed
	}

	s.breaks++
	s.pending = s.pending[:0]
	s.absorb = 0
	s.awaitDWDR = -1

	if s.running {
		s.running = false
		s.pc = s.runPC + 1
	}
	if !s.fault(FaultBreakAck) {
		s.emitAck()
	}

	return nil
}

// SetBaudRate implements the debugwire.Port interface. The simulated port
// can be set to any rate exactly.
func (s *Simulator) SetBaudRate(rate int) (int, error) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.hostRate = rate
	return rate, nil
}

// Flush implements the debugwire.Port interface.
func (s *Simulator) Flush() error {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.out = s.out[:0]
	return nil
}

// Close implements the debugwire.Port interface.
func (s *Simulator) Close() error {
	s.crit.Lock()
	defer s.crit.Unlock()
	if !s.closed {
		s.closed = true
		s.signal()
	}
	return nil
}
