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

package device

import (
	"fmt"
	"strings"
)

// Model is the closed set of supported variants.
type Model int

// List of supported models.
const (
	Unknown Model = iota
	ATtiny25
	ATtiny45
	ATtiny85
	ATmega48A
	ATmega88A
	ATmega168A
	ATmega328P
)

// Profile is the information about a variant needed by the debugWire engine.
type Profile struct {
	Model       Model
	Name        string
	Fingerprint uint16

	// I/O space addresses of the registers used to synthesise EEPROM and flash
	// access
	EECR   int
	EEDR   int
	EEARL  int
	EEARH  int
	DWDR   int
	SPMCSR int

	// sizes are in bytes
	FlashSize  int
	PageSize   int
	SRAMBase   int
	SRAMSize   int
	EEPROMSize int

	// the word address from which SPM is allowed to execute. the program
	// counter is moved to this address when programming flash
	BootStart int

	// whether the read-while-write section must be re-enabled after a page
	// write
	HasRWW bool
}

func (p Profile) String() string {
	if !p.Supported() {
		return fmt.Sprintf("unknown device (%04x)", p.Fingerprint)
	}
	return fmt.Sprintf("%s (%04x)", p.Name, p.Fingerprint)
}

// Supported returns false for the Unknown profile.
func (p Profile) Supported() bool {
	return p.Model != Unknown
}

// Pages returns the number of flash pages.
func (p Profile) Pages() int {
	if p.PageSize == 0 {
		return 0
	}
	return p.FlashSize / p.PageSize
}

// PageAddress returns the byte address of the page containing the byte
// address.
func (p Profile) PageAddress(address int) int {
	if p.PageSize == 0 {
		return address
	}
	return address - address%p.PageSize
}

// DataAddress converts an I/O space address to a data space address.
func DataAddress(io int) int {
	return io + 0x20
}

// DataSpaceEnd returns the data space address one past the end of SRAM.
func (p Profile) DataSpaceEnd() int {
	return p.SRAMBase + p.SRAMSize
}

// the register layout common to the tiny25/45/85 family
func tinyX5(model Model, name string, fp uint16, flash int, page int, sram int, eeprom int, boot int) Profile {
	return Profile{
		Model:       model,
		Name:        name,
		Fingerprint: fp,
		EECR:        0x1c,
		EEDR:        0x1d,
		EEARL:       0x1e,
		EEARH:       0x1f,
		DWDR:        0x22,
		SPMCSR:      0x37,
		FlashSize:   flash,
		PageSize:    page,
		SRAMBase:    0x60,
		SRAMSize:    sram,
		EEPROMSize:  eeprom,
		BootStart:   boot,
	}
}

// the register layout common to the mega48A/88A/168A/328P family
func megaX8(model Model, name string, fp uint16, flash int, page int, sram int, eeprom int, boot int, rww bool) Profile {
	return Profile{
		Model:       model,
		Name:        name,
		Fingerprint: fp,
		EECR:        0x1f,
		EEDR:        0x20,
		EEARL:       0x21,
		EEARH:       0x22,
		DWDR:        0x31,
		SPMCSR:      0x37,
		FlashSize:   flash,
		PageSize:    page,
		SRAMBase:    0x100,
		SRAMSize:    sram,
		EEPROMSize:  eeprom,
		BootStart:   boot,
		HasRWW:      rww,
	}
}

// the tiny devices have no boot section. SPM can execute from anywhere so
// the program counter is moved to the last page of flash. the mega48A has
// no boot section either
var profiles = []Profile{
	tinyX5(ATtiny25, "ATtiny25", 0x9108, 2048, 32, 128, 128, 0x03f0),
	tinyX5(ATtiny45, "ATtiny45", 0x9206, 4096, 64, 256, 256, 0x07e0),
	tinyX5(ATtiny85, "ATtiny85", 0x930b, 8192, 64, 512, 512, 0x0fe0),
	megaX8(ATmega48A, "ATmega48A", 0x9205, 4096, 64, 512, 256, 0x07e0, false),
	megaX8(ATmega88A, "ATmega88A", 0x930a, 8192, 64, 1024, 512, 0x0f80, true),
	megaX8(ATmega168A, "ATmega168A", 0x9406, 16384, 128, 1024, 512, 0x1f80, true),
	megaX8(ATmega328P, "ATmega328P", 0x950f, 32768, 128, 2048, 1024, 0x3f00, true),
}

// Lookup returns the profile matching the fingerprint. The Unknown profile
// is returned if there is no match.
func Lookup(fingerprint uint16) Profile {
	for _, p := range profiles {
		if p.Fingerprint == fingerprint {
			return p
		}
	}
	return Profile{
		Model:       Unknown,
		Name:        "unknown",
		Fingerprint: fingerprint,
	}
}

// LookupName returns the profile with the name, ignoring case. The boolean
// is false if there is no such profile.
func LookupName(name string) (Profile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{Model: Unknown, Name: "unknown"}, false
}

// Profiles returns a copy of the list of supported profiles.
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}
