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

// Package device describes the AVR variants that can be debugged over
// debugWire. A Profile is selected by the two byte fingerprint returned by the
// target when a connection is made.
//
// The set of variants is closed. A fingerprint that does not match a known
// variant selects the Unknown profile. The Unknown profile is a value like
// any other but Supported() returns false and operations that depend on the
// profile, such as EEPROM or flash access, should not be attempted.
//
// All I/O addresses are in I/O space (the address used by the IN and OUT
// instructions), not data space. DataAddress() converts between the two.
package device
