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

// Package instructions encodes the small subset of the AVR instruction set
// needed to drive a target through the debugWire instruction register.
//
// Each encoding function returns the 16-bit opcode. Operands are masked to
// the width of their field and are never otherwise validated.
//
// An opcode can be presented in two byte orders. The debugWire transport
// expects the most significant byte first when an instruction is loaded into
// the instruction register (see Bytes()). Flash memory stores the least
// significant byte at the lower address (see FlashOrder()). The two orders
// must not be confused when patching flash with a BREAK instruction.
//
// Decode() recognises the same subset and is used by the simulated target.
package instructions
