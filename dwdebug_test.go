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

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwdebug/dwdebug/modalflag"
	"github.com/dwdebug/dwdebug/test"
)

// run the command line in a fresh directory so that preferences and history
// files do not escape the test
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	err := executeTo(t, out, args...)

	return out.String(), err
}

func executeTo(t *testing.T, out io.Writer, args ...string) error {
	t.Helper()

	md := &modalflag.Modes{Output: out}
	md.NewArgs(args)
	_, err := run(md, out, nil)

	return err
}

func TestInfo(t *testing.T) {
	t.Chdir(t.TempDir())

	// INFO is the default mode
	out, err := execute(t, "-sim", "ATtiny85")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out, "device:      ATtiny85 (930b)"), out)
	test.ExpectSuccess(t, strings.Contains(out, "flash:       8192 bytes in 128 pages"), out)

	out, err = execute(t, "info", "-sim", "attiny85", "-divisor", "32")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out, "(divisor 32)"), out)

	_, err = execute(t, "info", "-sim", "ATtiny9000")
	test.ExpectFailure(t, err)

	_, err = execute(t, "info", "-sim", "ATtiny85", "-divisor", "3")
	test.ExpectFailure(t, err)
}

func TestProgramAndVerify(t *testing.T) {
	t.Chdir(t.TempDir())

	firmware := make([]byte, 130)
	for i := range firmware {
		firmware[i] = byte(i)
	}
	test.DemandSuccess(t, os.WriteFile("firmware.bin", firmware, 0o644))

	out, err := execute(t, "program", "-sim", "ATtiny85", "firmware.bin")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out, "programming firmware (130 bytes"), out)
	test.ExpectSuccess(t, strings.Contains(out, "verified"), out)

	_, err = execute(t, "program", "-sim", "ATtiny85")
	test.ExpectFailure(t, err)

	_, err = execute(t, "program", "-sim", "ATtiny85", "missing.bin")
	test.ExpectFailure(t, err)

	// every simulation starts with erased flash
	erased := bytes.Repeat([]byte{0xff}, 64)
	test.DemandSuccess(t, os.WriteFile("erased.bin", erased, 0o644))

	out, err = execute(t, "verify", "-sim", "ATtiny85", "erased.bin")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out, "erased matches flash"), out)

	_, err = execute(t, "verify", "-sim", "ATtiny85", "firmware.bin")
	test.ExpectFailure(t, err)
}

func TestDump(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "dump", "-sim", "ATtiny85", "-addr", "0x100", "-n", "0x20")
	test.ExpectSuccess(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.ExpectEquality(t, lines[len(lines)-2], "0100: ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff")
	test.ExpectEquality(t, lines[len(lines)-1], "0110: ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff")

	_, err = execute(t, "dump", "-sim", "ATtiny85", "-memory", "eeprom", "-n", "8", "-o", "eeprom.bin")
	test.ExpectSuccess(t, err)
	data, err := os.ReadFile("eeprom.bin")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(data, bytes.Repeat([]byte{0xff}, 8)))

	// only the end of a dump of the whole of flash is interesting
	tail, err := test.NewRingWriter(100)
	test.DemandSuccess(t, err)
	err = executeTo(t, tail, "dump", "-sim", "ATtiny85", "-n", "0x2000")
	test.ExpectSuccess(t, err)
	last := fmt.Sprintf("1ff0: %s\n", strings.TrimSpace(strings.Repeat("ff ", 16)))
	test.ExpectSuccess(t, strings.HasSuffix(tail.String(), last), tail.String())

	_, err = execute(t, "dump", "-sim", "ATtiny85", "-memory", "fuses")
	test.ExpectFailure(t, err)
}

func TestScript(t *testing.T) {
	t.Chdir(t.TempDir())

	pth := filepath.Join(t.TempDir(), "status.lua")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("print(dw.status())\n"), 0o644))

	out, err := execute(t, "script", "-sim", "ATtiny85", pth)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.HasSuffix(out, "halted\n"), out)

	_, err = execute(t, "script", "-sim", "ATtiny85")
	test.ExpectFailure(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(out, "dwdebug "), out)
}
