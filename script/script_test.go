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

package script_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/simulator"
	"github.com/dwdebug/dwdebug/preferences"
	"github.com/dwdebug/dwdebug/script"
	"github.com/dwdebug/dwdebug/session"
	"github.com/dwdebug/dwdebug/test"
)

func newScript(t *testing.T) (*script.Script, *bytes.Buffer, *simulator.Simulator) {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Divisor.Set(16))
	test.DemandSuccess(t, p.Timeout.Set(50))

	sim := simulator.NewSimulator(device.Lookup(0x930b), p.Frequency.Get().(int))
	sess, err := session.Open(sim, p)
	test.DemandSuccess(t, err)

	out := &bytes.Buffer{}
	s := script.NewScript(sess, out)
	t.Cleanup(func() {
		s.Close()
		sess.Close()
	})

	return s, out, sim
}

func TestMemory(t *testing.T) {
	s, out, sim := newScript(t)

	err := s.Run(`
		dw.write_sram(0x100, {1, 2, 3})
		local b = dw.read_sram(0x100, 3)
		print(#b, b[1], b[2], b[3])

		dw.write_eeprom(8, {0xaa})
		print(dw.read_eeprom(8, 1)[1])

		local f = dw.read_flash(0, 2)
		print(f[1], f[2])
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "3\t1\t2\t3\n170\n255\t255\n")
	test.ExpectEquality(t, sim.EEPROM()[8], byte(0xaa))
}

func TestExecution(t *testing.T) {
	s, out, sim := newScript(t)

	err := s.Run(`
		dw.breakpoint(0x200)
		dw.resume(0x80)
		print(dw.status())
		print(dw.wait(1000))
		print(dw.status(), dw.pc(), dw.reason())
		dw.clear(0x200)
		dw.step()
		print(dw.pc())
		dw["break"](0x300)
		dw.hwbreak(0x20)
		dw.resume()
		print(dw.wait(10))
		dw.reset()
		print(dw.pc())
		dw.log("done")
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(),
		"running\ntrue\nhalted\t512\tsoftware breakpoint\n514\ntrue\n0\ndone\n")
	test.ExpectEquality(t, sim.HWBP(), uint16(0x10))
}

func TestErrors(t *testing.T) {
	s, _, _ := newScript(t)

	err := s.Run(`dw.halt()`)
	test.ExpectSuccess(t, curated.Is(err, script.ScriptError))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "target is not running"))

	err = s.Run(`dw.write_sram(0x100, {256})`)
	test.ExpectSuccess(t, strings.Contains(err.Error(), "not a byte"))

	err = s.Run(`dw.read_flash(0xffff, 2)`)
	test.ExpectSuccess(t, strings.Contains(err.Error(), "flash address range"))

	err = s.Run(`this is not lua`)
	test.ExpectFailure(t, err)
}

func TestRunFile(t *testing.T) {
	s, out, _ := newScript(t)

	fn := filepath.Join(t.TempDir(), "test.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`print(dw.status())`), 0o644))
	test.ExpectSuccess(t, s.RunFile(fn))
	test.ExpectEquality(t, out.String(), "halted\n")

	test.ExpectFailure(t, s.RunFile(filepath.Join(t.TempDir(), "missing.lua")))
}
