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

// Package serial connects to a debugWire target through a serial device such
// as a USB UART adaptor with its TX and RX lines joined to the target's RESET
// pin.
//
// The Port type satisfies the debugwire.Port interface. Arbitrary baud rates
// are supported on Linux with the termios2 interface and on macOS with the
// IOSSIOSPEED request. Read timeouts are implemented with file deadlines so a
// timed out Read() returns os.ErrDeadlineExceeded.
package serial
