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

package session

import (
	"errors"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/preferences"
	"github.com/dwdebug/dwdebug/target"
	"go.uber.org/atomic"
)

// State is the execution state of the target.
type State int32

// List of execution states.
const (
	Halted State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "halted"
}

// Session is a debug session with a single target.
type Session struct {
	tgt  *target.Target
	link *debugwire.Link

	fingerprint   uint16
	resumeOnClose bool

	state atomic.Int32
	pc    atomic.Uint32
}

// Open a session with the target connected to the port. The target is
// halted once the session is open.
func Open(port debugwire.Port, prefs *preferences.Preferences) (*Session, error) {
	link := debugwire.NewLink(port, prefs.Frequency.Get().(int))
	link.SetTrace(prefs.TracePermission())

	if err := link.SetTimeout(prefs.TimeoutDuration()); err != nil {
		return nil, err
	}

	fp, err := link.Connect(prefs.Divisor.Get().(int))
	if err != nil {
		return nil, err
	}

	profile := device.Lookup(fp)
	logger.Logf(logger.Allow, "session", "connected to %s at %d baud", profile, link.Baud())

	s := &Session{
		tgt:           target.NewTarget(link, profile),
		link:          link,
		fingerprint:   fp,
		resumeOnClose: prefs.ResumeOnClose.Get().(bool),
	}
	s.tgt.SetDisableTimers(prefs.DisableTimers.Get().(bool))
	s.state.Store(int32(Halted))

	if prefs.ResetOnOpen.Get().(bool) {
		if err := s.tgt.Reset(); err != nil {
			return nil, err
		}
	}

	if err := s.refreshPC(); err != nil {
		return nil, err
	}

	return s, nil
}

// Status returns the execution state.
func (s *Session) Status() State {
	return State(s.state.Load())
}

// PC returns the PC shadow.
func (s *Session) PC() uint16 {
	return uint16(s.pc.Load())
}

// Next returns the word address of the instruction that will be executed
// when the target is resumed.
func (s *Session) Next() uint16 {
	return s.PC() - 1
}

// Profile returns the device profile of the target.
func (s *Session) Profile() device.Profile {
	return s.tgt.Profile()
}

// Fingerprint returns the device signature read when the session was opened.
func (s *Session) Fingerprint() uint16 {
	return s.fingerprint
}

// Link returns the debugWire link.
func (s *Session) Link() *debugwire.Link {
	return s.link
}

// SetNext changes the word address of the instruction that will be executed
// when the target is resumed. The target's PC register is written when the
// target is resumed.
func (s *Session) SetNext(address uint16) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	s.pc.Store(uint32(address) + 1)
	return nil
}

func (s *Session) requireHalted() error {
	if s.Status() != Halted {
		return curated.Errorf(NotHalted)
	}
	return nil
}

func (s *Session) requireRunning() error {
	if s.Status() != Running {
		return curated.Errorf(NotRunning)
	}
	return nil
}

// update the PC shadow from the target
func (s *Session) refreshPC() error {
	pc, err := s.tgt.PC()
	if err != nil {
		return err
	}
	s.pc.Store(uint32(pc))
	return nil
}

// Halt a running target.
func (s *Session) Halt() error {
	if err := s.requireRunning(); err != nil {
		return err
	}

	pc, err := s.tgt.Halt()
	if err != nil {
		return err
	}
	s.pc.Store(uint32(pc))
	s.state.Store(int32(Halted))

	return nil
}

// resume from the word address. if there is a software breakpoint at the
// address the original instruction is executed in its place. the PC shadow
// holds the resume address until the target stops
func (s *Session) resume(ctx target.Context, from uint16) error {
	_, loaded := s.tgt.LoadedInstruction(from)
	if err := s.tgt.Resume(ctx, from, loaded); err != nil {
		return err
	}
	s.pc.Store(uint32(from) + 1)
	s.state.Store(int32(Running))
	return nil
}

// Resume the target from where it stopped.
func (s *Session) Resume(ctx target.Context) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.resume(ctx, s.Next())
}

// ResumeAt resumes the target from the word address.
func (s *Session) ResumeAt(ctx target.Context, address uint16) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.resume(ctx, address)
}

// ResumeRelative resumes the target from a word address relative to where
// it stopped.
func (s *Session) ResumeRelative(ctx target.Context, delta int) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.resume(ctx, uint16(int(s.Next())+delta))
}

// StepOut resumes the target until the current function returns.
func (s *Session) StepOut() error {
	return s.Resume(target.StepOut)
}

// Step executes a single instruction. The target is halted afterwards.
func (s *Session) Step() error {
	if err := s.requireHalted(); err != nil {
		return err
	}

	from := s.Next()
	_, loaded := s.tgt.LoadedInstruction(from)
	if err := s.tgt.Step(from, loaded); err != nil {
		// a step that did not finish leaves the target running
		if s.link.Running() {
			s.pc.Store(uint32(from) + 1)
			s.state.Store(int32(Running))
		}
		return err
	}

	return s.refreshPC()
}

// WaitForStop waits for a running target to stop. A timeout of zero waits
// indefinitely. If the timeout expires the debugwire.WaitTimeout error is
// returned and the target is still running.
func (s *Session) WaitForStop(timeout time.Duration) error {
	if err := s.requireRunning(); err != nil {
		return err
	}

	if err := s.tgt.WaitForStop(timeout); err != nil {
		return err
	}
	s.state.Store(int32(Halted))

	return s.refreshPC()
}

// Reset the target. A running target is halted first. If resume is true the
// target is resumed from the reset vector.
func (s *Session) Reset(resume bool) error {
	if s.Status() == Running {
		if err := s.Halt(); err != nil {
			return err
		}
	}

	if err := s.tgt.Reset(); err != nil {
		return err
	}
	if err := s.refreshPC(); err != nil {
		return err
	}

	if resume {
		return s.Resume(target.Run)
	}
	return nil
}

// SetDivisor changes the baud divisor.
func (s *Session) SetDivisor(divisor int) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.link.SetBaudDivisor(divisor)
}

// HaltReason returns the cause of the last stop.
func (s *Session) HaltReason() (target.Reason, error) {
	if err := s.requireHalted(); err != nil {
		return target.ReasonUnknown, err
	}
	return s.tgt.HaltReason(s.PC())
}

// SetHWBreakpoint sets the hardware breakpoint to the word address.
func (s *Session) SetHWBreakpoint(address uint16) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.SetHWBreakpoint(address)
}

// HWBreakpoint returns the word address of the hardware breakpoint.
func (s *Session) HWBreakpoint() (uint16, error) {
	if err := s.requireHalted(); err != nil {
		return 0, err
	}
	return s.tgt.HWBreakpoint()
}

// SetSWBreakpoint sets a software breakpoint at the byte address.
func (s *Session) SetSWBreakpoint(address int) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.SetSoftwareBreakpoint(address)
}

// RemoveSWBreakpoint removes the software breakpoint at the byte address.
func (s *Session) RemoveSWBreakpoint(address int) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.RemoveSoftwareBreakpoint(address)
}

// SWBreakpoints returns the byte addresses of the software breakpoints.
func (s *Session) SWBreakpoints() []int {
	return s.tgt.SoftwareBreakpoints()
}

// Close the session. A running target is halted and every software
// breakpoint is removed from flash. The target is then resumed if the
// session.resumeOnClose preference is set. The port is always closed.
func (s *Session) Close() error {
	var errs []error

	if s.Status() == Running {
		if err := s.Halt(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.Status() == Halted {
		if err := s.tgt.RemoveAllSoftwareBreakpoints(); err != nil {
			errs = append(errs, err)
		}

		if s.resumeOnClose && len(errs) == 0 {
			if err := s.Resume(target.Run); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := s.link.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := curated.Errorf(CloseError, errors.Join(errs...))
		logger.Log(logger.Allow, "session", err)
		return err
	}

	logger.Log(logger.Allow, "session", "closed")
	return nil
}
