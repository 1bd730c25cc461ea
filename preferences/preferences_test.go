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

package preferences_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dwdebug/dwdebug/preferences"
	"github.com/dwdebug/dwdebug/prefs"
	"github.com/dwdebug/dwdebug/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.Divisor.Get().(int), 128)
	test.ExpectEquality(t, p.Frequency.Get().(int), 8000000)
	test.ExpectEquality(t, p.TimeoutDuration(), time.Second)
	test.ExpectSuccess(t, p.ResumeOnClose.Get().(bool))
	test.ExpectFailure(t, p.TracePermission().AllowLogging())

	test.ExpectSuccess(t, p.Trace.Set(true))
	test.ExpectSuccess(t, p.TracePermission().AllowLogging())
}

func TestValidation(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	test.ExpectFailure(t, p.Divisor.Set(3))
	test.ExpectEquality(t, p.Divisor.Get().(int), 128)
	test.ExpectSuccess(t, p.Divisor.Set("0x40"))
	test.ExpectEquality(t, p.Divisor.Get().(int), 64)

	test.ExpectFailure(t, p.Frequency.Set(0))
	test.ExpectFailure(t, p.Timeout.Set(-1))
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences")

	p, err := preferences.NewPreferences(path)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, p.Port.Set("/dev/ttyACM3"))
	test.ExpectSuccess(t, p.Divisor.Set(16))
	test.ExpectSuccess(t, p.Save())

	q, err := preferences.NewPreferences(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Port.String(), "/dev/ttyACM3")
	test.ExpectEquality(t, q.Divisor.Get().(int), 16)
}

func TestCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("debugwire.divisor::32; session.resetOnOpen::true")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Divisor.Get().(int), 32)
	test.ExpectSuccess(t, p.ResetOnOpen.Get().(bool))
}
