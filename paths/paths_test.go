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

//go:build !release

package paths_test

import (
	"os"
	"strings"
	"testing"

	"github.com/dwdebug/dwdebug/paths"
	"github.com/dwdebug/dwdebug/test"
)

func TestPaths(t *testing.T) {
	// the development base path is relative to the working directory
	t.Chdir(t.TempDir())

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".dwdebug/foo/bar/baz")

	pth, err = paths.ResourcePath("foo/bar", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".dwdebug/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".dwdebug/baz")

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".dwdebug")

	// directories are created but the resource itself is not
	_, err = os.Stat(".dwdebug/foo/bar")
	test.ExpectSuccess(t, err)
	_, err = os.Stat(".dwdebug/foo/bar/baz")
	test.ExpectFailure(t, err)
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("dump", "ATtiny85")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "dump_ATtiny85_"))

	fn = paths.UniqueFilename("dump", " ")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "dump_2"))
}
