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
	"fmt"

	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/instructions"
)

// Profile returns the device profile of the simulated target.
func (s *Simulator) Profile() device.Profile {
	return s.profile
}

// Flash returns a copy of flash memory.
func (s *Simulator) Flash() []byte {
	s.crit.Lock()
	defer s.crit.Unlock()
	return append([]byte{}, s.flash...)
}

// LoadFlash copies data into flash memory at the byte address, as if the
// target had been programmed by other means.
func (s *Simulator) LoadFlash(address int, data []byte) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	if address < 0 || address+len(data) > len(s.flash) {
		return fmt.Errorf("simulator: flash load of %d bytes at 0x%04x is out of range", len(data), address)
	}
	copy(s.flash[address:], data)
	return nil
}

// PlaceBreak writes a BREAK instruction into flash at the word address.
func (s *Simulator) PlaceBreak(address uint16) error {
	b := instructions.FlashOrder(instructions.BREAK())
	return s.LoadFlash(int(address)*2, b[:])
}

// EEPROM returns a copy of EEPROM.
func (s *Simulator) EEPROM() []byte {
	s.crit.Lock()
	defer s.crit.Unlock()
	return append([]byte{}, s.eeprom...)
}

// LoadEEPROM copies data into EEPROM at the address.
func (s *Simulator) LoadEEPROM(address int, data []byte) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	if address < 0 || address+len(data) > len(s.eeprom) {
		return fmt.Errorf("simulator: eeprom load of %d bytes at 0x%04x is out of range", len(data), address)
	}
	copy(s.eeprom[address:], data)
	return nil
}

// Data returns a copy of the data space: registers, I/O and SRAM.
func (s *Simulator) Data() []byte {
	s.crit.Lock()
	defer s.crit.Unlock()
	return append([]byte{}, s.data...)
}

// Registers returns a copy of the 32 general purpose registers.
func (s *Simulator) Registers() [32]byte {
	s.crit.Lock()
	defer s.crit.Unlock()
	var r [32]byte
	copy(r[:], s.data)
	return r
}

// SetRegister changes a general purpose register.
func (s *Simulator) SetRegister(r int, v byte) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if r >= 0 && r < 32 {
		s.data[r] = v
	}
}

// PC returns the value of the program counter register.
func (s *Simulator) PC() uint16 {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.pc
}

// HWBP returns the value of the hardware breakpoint register.
func (s *Simulator) HWBP() uint16 {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.hwbp
}

// Running returns true if the simulated target is executing.
func (s *Simulator) Running() bool {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.running
}

// Stop a running target at the word address, as if it had executed a BREAK
// instruction or reached the hardware breakpoint there. Has no effect if the
// target is not running.
func (s *Simulator) Stop(address uint16) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if s.running {
		s.stop(address)
	}
}

// Inject a fault. The fault happens the next time the triggering event
// occurs.
func (s *Simulator) Inject(f Fault) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if f >= 0 && f < numFaults {
		s.faults[f] = true
	}
}

// SetEEPROMBusy causes the next n reads of EECR to report that an EEPROM
// write is in progress.
func (s *Simulator) SetEEPROMBusy(n int) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.eepromBusy = n
}

// Syncs returns the number of times the target has sent the synchronisation
// byte after a change of divisor.
func (s *Simulator) Syncs() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.syncs
}

// PageWrites returns the number of flash pages written by SPM.
func (s *Simulator) PageWrites() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.pageWrites
}

// PageErases returns the number of flash pages erased by SPM.
func (s *Simulator) PageErases() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.pageErases
}

// Breaks returns the number of break conditions received.
func (s *Simulator) Breaks() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.breaks
}

func (s *Simulator) String() string {
	s.crit.Lock()
	defer s.crit.Unlock()
	state := "halted"
	if s.running {
		state = "running"
	}
	return fmt.Sprintf("%s %s pc=%04x hwbp=%04x divisor=%d", s.profile.Name, state, s.pc, s.hwbp, s.divisor)
}
