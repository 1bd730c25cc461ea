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

// Package debugwire implements the command layer of the debugWire protocol.
// It converts the byte stream of a half-duplex serial line into the
// primitive debugWire commands: break, reset, baud divisor selection,
// fingerprint, control register access, memory cycles and the execution of
// instructions loaded into the instruction register.
//
// The serial line itself is abstracted by the Port interface. The serial
// package provides a Port for real hardware and the hardware/simulator
// package provides a simulated target.
//
// Every byte sent on the line is echoed back before any response is
// received. The Link checks the echo of every command. A mismatched echo
// means that byte framing has been lost and the Link refuses all further
// commands. The Link must be closed and a new one opened. There are no
// retries anywhere in the package.
//
// Operations that cause the target to recalibrate its UART (a reset or a
// blocking SPM instruction) must be followed by a call to Resync(), which
// sends the divisor byte again and waits for the target's 0x55.
//
// Bytes sent and received can be traced to the central logger. See
// SetTrace().
//
// The Link is not safe for concurrent use. Callers must serialise access.
package debugwire
