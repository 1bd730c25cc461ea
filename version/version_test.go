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

package version

import (
	"runtime/debug"
	"testing"

	"github.com/dwdebug/dwdebug/test"
)

func TestBuildInfo(t *testing.T) {
	i := fromBuildInfo(nil, false)
	test.ExpectEquality(t, i.Number, "local")
	test.ExpectEquality(t, i.Revision, "no revision information")
	test.ExpectFailure(t, i.Release)
	test.ExpectEquality(t, i.String(), "dwdebug local (no revision information)")

	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	i = fromBuildInfo(bi, true)
	test.ExpectEquality(t, i.Number, "unreleased")
	test.ExpectEquality(t, i.Revision, "abc123+dirty")
	test.ExpectEquality(t, i.GoVersion, "go1.26.0")

	number = "v1.2.3"
	defer func() { number = "" }()
	i = fromBuildInfo(bi, true)
	test.ExpectSuccess(t, i.Release)
	test.ExpectEquality(t, i.String(), "dwdebug v1.2.3")
}
