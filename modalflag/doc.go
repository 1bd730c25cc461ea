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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Whereas with flag.FlagSet you call Parse() with the array of strings as the
// only argument, with modalflag you first call NewArgs() with the array of
// arguments and then Parse() with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("INFO", "GDB", "MONITOR")
//	p, err := md.Parse()
//
// A mode is a command line argument that puts the program into a different
// mode of operation, each with its own flags and arguments. Sub-modes are
// compared case insensitively. The first sub-mode is the default and is
// selected when the first argument after the flags does not name a mode.
//
// Once the mode is known, NewMode() prepares for the flags of that mode and
// Parse() is called again:
//
//	switch md.Mode() {
//	case "GDB":
//		md.NewMode()
//		addr := md.AddString("addr", ":4242", "listen address")
//		divisor := md.AddHex("divisor", 0x80, "initial baud divisor")
//		p, err := md.Parse()
//		...
//	}
//
// Non-flag arguments are retrieved with RemainingArgs() or GetArg(). Modes
// can be chained as deeply as required, the Path() function returning the
// series of modes selected so far.
package modalflag
