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

package prefs_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/prefs"
	"github.com/dwdebug/dwdebug/test"
)

func cmpPrefFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	if err != nil {
		t.Errorf("error reading prefs file: %v", err)
		return
	}

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func newDisk(t *testing.T) (*prefs.Disk, string) {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "preferences")
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	return dsk, fn
}

func TestBool(t *testing.T) {
	dsk, fn := newDisk(t)

	var v prefs.Bool
	var w prefs.Bool
	var x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("true"))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")

	// keys cannot be added twice
	err := dsk.Add("test", &w)
	test.ExpectSuccess(t, curated.Is(err, prefs.DuplicateKey))
}

func TestString(t *testing.T) {
	dsk, fn := newDisk(t)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &v))
	test.ExpectSuccess(t, v.Set("bar"))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "foo :: bar\n")
}

func TestInt(t *testing.T) {
	dsk, fn := newDisk(t)

	var v prefs.Int
	var w prefs.Int
	var x prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))
	test.ExpectSuccess(t, dsk.Add("numberC", &x))

	test.ExpectSuccess(t, v.Set(10))

	// string conversion to int
	test.ExpectSuccess(t, w.Set("99"))

	// hexadecimal strings are accepted
	test.ExpectSuccess(t, x.Set("0x80"))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "number :: 10\nnumberB :: 99\nnumberC :: 128\n")

	// failure conditions
	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectSuccess(t, v.Set("16.5"))
	test.ExpectEquality(t, v.Get().(float64), 16.5)
	test.ExpectEquality(t, v.String(), "16.500")
	test.ExpectFailure(t, v.Set(true))
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var post int

	v.SetHookPre(func(nv prefs.Value) error {
		if nv.(int) < 0 {
			return fmt.Errorf("negative")
		}
		return nil
	})
	v.SetHookPost(func(nv prefs.Value) error {
		post = nv.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(5))
	test.ExpectEquality(t, post, 5)

	// the pre hook prevents the value from being stored
	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 5)
	test.ExpectEquality(t, post, 5)
}

func TestGeneric(t *testing.T) {
	dsk, fn := newDisk(t)

	var w, h int

	v := prefs.NewGeneric(
		func(s string) error {
			_, err := fmt.Sscanf(s, "%d,%d", &w, &h)
			return err
		},
		func() string {
			return fmt.Sprintf("%d,%d", w, h)
		},
	)

	test.ExpectSuccess(t, dsk.Add("generic", v))

	w = 1
	h = 2

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "generic :: 1,2\n")

	w = 0
	h = 0

	// reload values from disk
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, w, 1)
	test.ExpectEquality(t, h, 2)
}

// write bool and then a string from a different prefs.Disk instance. the
// second write must not clobber the results of the first write.
func TestBoolAndString(t *testing.T) {
	dsk, fn := newDisk(t)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, v.Set(true))
	test.DemandSuccess(t, dsk.Save())

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &s))
	test.ExpectSuccess(t, s.Set("bar"))
	test.DemandSuccess(t, dsk.Save())

	cmpPrefFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	var s prefs.String
	test.ExpectSuccess(t, s.Set("123456789"))
	test.ExpectEquality(t, s.String(), "123456789")

	// setting maximum length will crop the existing string
	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "12345")

	// unsetting a maximum length will not restore the cropped information
	s.SetMaxLen(0)
	test.ExpectEquality(t, s.String(), "12345")

	// setting string after setting a maximum length will crop the new string
	s.SetMaxLen(3)
	test.ExpectSuccess(t, s.Set("abcdefghi"))
	test.ExpectEquality(t, s.String(), "abc")
}

func TestLoadMissingFile(t *testing.T) {
	dsk, fn := newDisk(t)

	var v prefs.Int
	test.ExpectSuccess(t, v.Set(64))
	test.ExpectSuccess(t, dsk.Add("debugwire.divisor", &v))

	// without save on fail the file is not created
	err := dsk.Load(false)
	test.ExpectSuccess(t, curated.Is(err, prefs.NoPrefsFile))
	_, err = os.Stat(fn)
	test.ExpectFailure(t, err)

	// with save on fail the file is created with the current values
	err = dsk.Load(true)
	test.ExpectSuccess(t, curated.Is(err, prefs.NoPrefsFile))
	cmpPrefFile(t, fn, "debugwire.divisor :: 64\n")
}

func TestLoadCommandLine(t *testing.T) {
	dsk, _ := newDisk(t)

	var v prefs.Int
	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("debugwire.divisor", &v))
	test.ExpectSuccess(t, dsk.Add("debugwire.port", &s))
	test.ExpectSuccess(t, v.Set(128))
	test.ExpectSuccess(t, s.Set("/dev/ttyUSB0"))
	test.DemandSuccess(t, dsk.Save())

	prefs.PushCommandLineStack("debugwire.divisor::32")
	defer prefs.PopCommandLineStack()

	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, v.Get().(int), 32)
	test.ExpectEquality(t, s.String(), "/dev/ttyUSB0")
}

func TestUnknownAndInvalid(t *testing.T) {
	dsk, fn := newDisk(t)

	err := os.WriteFile(fn, []byte(prefs.WarningBoilerPlate+"\nother :: 1\n"), 0o600)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("debugwire.trace", &v))
	test.DemandSuccess(t, dsk.Save())

	// unknown keys are preserved
	cmpPrefFile(t, fn, "debugwire.trace :: false\nother :: 1\n")

	err = os.WriteFile(fn, []byte("not a prefs file\n"), 0o600)
	test.DemandSuccess(t, err)
	err = dsk.Load(false)
	test.ExpectSuccess(t, curated.Is(err, prefs.InvalidFile))

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, v.Get().(bool), false)
}
