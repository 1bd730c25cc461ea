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

// Package gdbserver bridges the GDB remote serial protocol to a debug
// session. A Server listens on a TCP address or a unix socket and serves one
// client at a time.
//
// GDB sees a single thread. The memory map follows the convention of
// avr-gdb: flash from address zero, the data space from 0x800000 and EEPROM
// from 0x810000. The register block is the 32 general purpose registers,
// SREG, the stack pointer (two bytes) and the PC as a byte address (four
// bytes).
//
// The session is only ever used by the goroutine serving the client. The
// goroutine reading from the connection forwards packets and interrupts over
// a channel.
package gdbserver
