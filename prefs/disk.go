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
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/dwdebug/dwdebug/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// KeySep is the string used to separate the key and value on each line.
const KeySep = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile  = "prefs: no preferences file (%s)"
	DuplicateKey = "prefs: key %s has already been added"
	InvalidFile  = "prefs: not a valid preferences file (%s)"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	crit    sync.Mutex
	path    string
	entries map[string]pref
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	s := strings.Builder{}
	for _, k := range dsk.keys() {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Path returns the name of the file the preferences are saved to.
func (dsk *Disk) Path() string {
	return dsk.path
}

// Add preference value to list of values to store/load from disk.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// sorted list of keys. should be called with the critical section held.
func (dsk *Disk) keys() []string {
	k := make([]string, 0, len(dsk.entries))
	for key := range dsk.entries {
		k = append(k, key)
	}
	sort.Strings(k)
	return k
}

// Reset all preference values to their zero value.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}
	return nil
}

// Save current preference values to disk. Entries in the file that are not
// known to this Disk instance are preserved unless they are defunct.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	// start with the values already on disk
	values, err := dsk.read()
	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		values = make(map[string]string)
	}

	// overwrite with the values we know about
	for k, p := range dsk.entries {
		values[k] = p.String()
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !isDefunct(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, KeySep, values[k])
	}

	err = w.Flush()
	if err != nil {
		f.Close()
		return fmt.Errorf("prefs: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Load preference values from disk. If the file does not exist the error
// NoPrefsFile is returned. In that case, if saveOnFail is true, the current
// values are saved to create the file.
//
// Command line overrides for the keys known to this Disk instance are
// applied after the file has been read, whether the read succeeded or not.
func (dsk *Disk) Load(saveOnFail bool) error {
	dsk.crit.Lock()
	values, err := dsk.read()
	dsk.crit.Unlock()

	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		if saveOnFail {
			if serr := dsk.Save(); serr != nil {
				return serr
			}
		}
	}

	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for k, v := range values {
		if p, ok := dsk.entries[k]; ok {
			if serr := p.Set(v); serr != nil {
				return fmt.Errorf("prefs: %s: %w", k, serr)
			}
		}
	}

	for _, k := range dsk.keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if serr := dsk.entries[k].Set(v); serr != nil {
				return fmt.Errorf("prefs: %s: %w", k, serr)
			}
		}
	}

	return err
}

// read the preferences file into a map of strings. should be called with
// the critical section held.
func (dsk *Disk) read() (map[string]string, error) {
	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	values := make(map[string]string)

	scanner := bufio.NewScanner(f)

	// the first line must be the warning boiler plate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Errorf(InvalidFile, dsk.path)
	}

	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), KeySep, 2)
		if len(kv) != 2 {
			continue
		}
		values[strings.TrimSpace(kv[0])] = kv[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	return values, nil
}
