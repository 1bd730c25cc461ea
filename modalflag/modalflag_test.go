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

package modalflag_test

import (
	"strings"
	"testing"

	"github.com/dwdebug/dwdebug/modalflag"
	"github.com/dwdebug/dwdebug/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
}

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"-sim", "1", "2"})
	sim := md.AddBool("sim", false, "use simulated target")

	test.ExpectFailure(t, *sim)

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectSuccess(t, *sim)
	test.ExpectEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(1), "2")
}

func TestModes(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"gdb", "-addr", ":2000", "/dev/ttyUSB0"})
	md.AddSubModes("info", "gdb", "monitor")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "GDB")

	md.NewMode()
	addr := md.AddString("addr", ":4242", "listen address")
	p, err = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *addr, ":2000")
	test.ExpectEquality(t, md.GetArg(0), "/dev/ttyUSB0")
	test.ExpectEquality(t, md.Path(), "GDB")
}

func TestDefaultMode(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"/dev/ttyUSB0"})
	md.AddSubModes("info", "gdb")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "INFO")

	// the unrecognised argument is still available to the sub-mode
	md.NewMode()
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.GetArg(0), "/dev/ttyUSB0")

	// unrecognised flags also select the default mode
	md = modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"-divisor", "64"})
	md.AddSubModes("info", "gdb")
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "INFO")

	md.NewMode()
	divisor := md.AddHex("divisor", 0x80, "baud divisor")
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *divisor, uint64(64))
}

func TestUnknownFlag(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"-foo"})
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}

func TestHex(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"-addr", "0x1f00", "-n", "64"})
	addr := md.AddHex("addr", 0, "address")
	n := md.AddHex("n", 0, "count")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *addr, uint64(0x1f00))
	test.ExpectEquality(t, *n, uint64(64))

	md.NewArgs([]string{"-addr", "zz"})
	md.AddHex("addr", 0, "address")
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}

func TestNoHelpAvailable(t *testing.T) {
	w := &strings.Builder{}

	md := modalflag.Modes{Output: w}
	md.NewArgs([]string{"-help"})

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, w.String(), "No help available\n")
}

func TestHelpFlags(t *testing.T) {
	w := &strings.Builder{}

	md := modalflag.Modes{Output: w}
	md.NewArgs([]string{"-help"})
	md.AddBool("sim", true, "use simulated target")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  -sim\n" +
		"    	use simulated target (default true)\n"
	test.ExpectEquality(t, w.String(), expectedHelp)
}

func TestHelpModes(t *testing.T) {
	w := &strings.Builder{}

	md := modalflag.Modes{Output: w}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("INFO", "GDB", "MONITOR")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  available sub-modes: INFO, GDB, MONITOR\n" +
		"    default: INFO\n"
	test.ExpectEquality(t, w.String(), expectedHelp)
}

func TestHelpFlagsAndModes(t *testing.T) {
	w := &strings.Builder{}

	md := modalflag.Modes{Output: w}
	md.NewArgs([]string{"-help"})
	md.AddBool("sim", true, "use simulated target")
	md.AddSubModes("INFO", "GDB", "MONITOR")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  -sim\n" +
		"    	use simulated target (default true)\n" +
		"\n" +
		"  available sub-modes: INFO, GDB, MONITOR\n" +
		"    default: INFO\n"
	test.ExpectEquality(t, w.String(), expectedHelp)
}
