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

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dwdebug/dwdebug/test"
)

func TestDefunct(t *testing.T) {
	defer func(d []string) { defunct = d }(defunct)
	defunct = []string{"session.retired"}

	test.ExpectSuccess(t, isDefunct("session.retired"))
	test.ExpectFailure(t, isDefunct("session.resumeOnClose"))

	fn := filepath.Join(t.TempDir(), "preferences")
	err := os.WriteFile(fn, []byte(WarningBoilerPlate+"\nsession.retired :: true\nother :: 1\n"), 0o600)
	test.DemandSuccess(t, err)

	dsk, err := NewDisk(fn)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, dsk.Save())

	// defunct keys are dropped when the file is saved
	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), WarningBoilerPlate+"\nother :: 1\n")
}
