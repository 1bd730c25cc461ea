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

package debugwire

// Error patterns returned by the package. Test for them with curated.Is().
const (
	// the bytes echoed by the line did not match the bytes sent. the link is
	// unusable after this error
	EchoMismatch = "debugwire: echo mismatch: sent % 02x, received % 02x"

	// a previous echo mismatch has made the link unusable
	Desynced = "debugwire: link is desynchronised and must be reopened"

	// the target did not acknowledge a break, reset or blocking instruction
	// with 0x00 0x55. the target is unresponsive
	NoAcknowledgement = "debugwire: no acknowledgement from target: %v"

	// the expected number of response bytes were not received
	ShortResponse = "debugwire: short response to % 02x: %v"

	// the effective baud rate is too far from the rate required by the
	// target frequency and divisor
	BaudOutOfTolerance = "debugwire: baud rate %d is not within 5%% of %d"

	// the divisor is not a power of two between 1 and 128
	InvalidDivisor = "debugwire: invalid baud divisor (%d)"

	// WaitForBreak() timed out. this is not a stop
	WaitTimeout = "debugwire: timeout waiting for target to stop"

	// an error from the underlying port
	PortError = "debugwire: port: %v"
)
