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

package monitor_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/hardware/simulator"
	"github.com/dwdebug/dwdebug/monitor"
	"github.com/dwdebug/dwdebug/preferences"
	"github.com/dwdebug/dwdebug/session"
	"github.com/dwdebug/dwdebug/test"
)

func newMonitor(t *testing.T) (*monitor.Monitor, *bytes.Buffer, *simulator.Simulator, *session.Session) {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Divisor.Set(16))
	test.DemandSuccess(t, p.Timeout.Set(50))

	sim := simulator.NewSimulator(device.Lookup(0x930b), p.Frequency.Get().(int))
	sess, err := session.Open(sim, p)
	test.DemandSuccess(t, err)
	t.Cleanup(func() { sess.Close() })

	out := &bytes.Buffer{}
	return monitor.NewMonitor(sess, out, false), out, sim, sess
}

// run the command and return its output
func run(m *monitor.Monitor, out *bytes.Buffer, line string) string {
	out.Reset()
	m.Exec(line)
	return out.String()
}

func TestExecutionControl(t *testing.T) {
	m, out, sim, sess := newMonitor(t)

	test.ExpectEquality(t, run(m, out, "pc"), "halted: next instruction at 0x0000\n")

	test.ExpectEquality(t, run(m, out, "RUN 0x100"), "running\n")
	test.ExpectSuccess(t, sim.Running())
	test.ExpectEquality(t, run(m, out, "HALT"), "halted: next instruction at 0x0100\n")

	test.ExpectEquality(t, run(m, out, "STEP"), "halted: next instruction at 0x0102\n")

	test.ExpectEquality(t, run(m, out, "RESET"), "halted: next instruction at 0x0000\n")
	test.ExpectEquality(t, sess.Status(), session.Halted)

	test.ExpectSuccess(t, strings.Contains(run(m, out, "HALT"), "target is not running"))
}

func TestBreakpoints(t *testing.T) {
	m, out, sim, _ := newMonitor(t)

	test.ExpectEquality(t, run(m, out, "LIST"), "no breakpoints\n")
	test.ExpectEquality(t, run(m, out, "BREAK 0x200"), "break at 0x0200\n")
	test.ExpectEquality(t, run(m, out, "break"), "break at 0x0000\n")
	test.ExpectEquality(t, run(m, out, "LIST"), "break at 0x0000\nbreak at 0x0200\n")
	test.ExpectEquality(t, run(m, out, "CLEAR 0"), "")

	test.ExpectEquality(t, run(m, out, "RUN 0x80"), "running\n")
	test.ExpectEquality(t, run(m, out, "WAIT 1000"), "halted: next instruction at 0x0200\nsoftware breakpoint\n")
	test.ExpectEquality(t, run(m, out, "REASON"), "software breakpoint\n")

	test.ExpectEquality(t, run(m, out, "HWBREAK 0x41"), "hardware break at 0x0040\n")
	test.ExpectEquality(t, sim.HWBP(), uint16(0x20))
}

func TestMemory(t *testing.T) {
	m, out, sim, _ := newMonitor(t)

	test.ExpectEquality(t, run(m, out, "POKE 0x100 0xde 0xad 190 0xef"), "")
	test.ExpectEquality(t, run(m, out, "SRAM 0x100 4"), "0x0100: de ad be ef\n")
	test.ExpectEquality(t, sim.Data()[0x102], byte(0xbe))

	sim.SetRegister(2, 0x77)
	regs := run(m, out, "REGS")
	test.ExpectEquality(t, strings.Count(regs, "\n"), 4)
	test.ExpectSuccess(t, strings.HasPrefix(regs, "r00=00 r01=00 r02=77 "))

	test.DemandSuccess(t, sim.LoadFlash(0x20, []byte{0x0c, 0x94}))
	test.ExpectEquality(t, run(m, out, "FLASH 0x20 2"), "0x0020: 0c 94\n")
	test.ExpectEquality(t, strings.Count(run(m, out, "FLASH 0 40"), "\n"), 3)

	test.ExpectEquality(t, run(m, out, "EEWRITE 3 1 2"), "")
	test.ExpectEquality(t, run(m, out, "EEPROM 3 2"), "0x0003: 01 02\n")

	test.ExpectSuccess(t, strings.Contains(run(m, out, "POKE 0x100 0x1ff"), "invalid number"))
	test.ExpectSuccess(t, strings.Contains(run(m, out, "SRAM"), "requires an address"))
	test.ExpectSuccess(t, strings.Contains(run(m, out, "FLASH 0xffff 2"), "flash address range"))
}

func TestMiscellaneous(t *testing.T) {
	m, out, _, sess := newMonitor(t)

	test.ExpectSuccess(t, strings.Contains(run(m, out, "FROB"), "unknown command (FROB)"))
	test.ExpectSuccess(t, strings.Contains(run(m, out, "HELP"), "MEMVIZ"))
	test.ExpectEquality(t, run(m, out, ""), "")

	test.ExpectEquality(t, run(m, out, "DIVISOR 32"), "250000 baud\n")
	test.ExpectEquality(t, sess.Link().Divisor(), 32)

	fn := filepath.Join(t.TempDir(), "session.dot")
	test.ExpectSuccess(t, strings.Contains(run(m, out, "MEMVIZ "+fn), "session graph written"))
	info, err := os.Stat(fn)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, info.Size() > 0)

	test.ExpectSuccess(t, m.Exec("QUIT"))
	test.ExpectFailure(t, m.Exec("PC"))
}

func TestScript(t *testing.T) {
	m, out, sim, _ := newMonitor(t)

	script := `
# comment
POKE 0x60 1 2 3
RUN
QUIT
HALT
`
	test.ExpectSuccess(t, m.RunScript(strings.NewReader(script)))
	test.ExpectEquality(t, out.String(), "running\n")
	test.ExpectSuccess(t, sim.Running())
	test.ExpectEquality(t, sim.Data()[0x61], byte(2))
}
