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

// Package prefs facilitates the storage of preferential values in the
// dwdebug system. It is a thin layer over the values themselves, which are
// safe to read and write from multiple goroutines.
//
// The Bool, String, Int and Float types wrap a single primitive value. The
// Generic type allows arbitrary values to be stored by translating to and
// from a string.
//
// Values are associated with a key and a file on disk by adding them to a
// Disk instance:
//
//	dsk, err := prefs.NewDisk(fn)
//
//	var divisor prefs.Int
//	err = dsk.Add("debugwire.divisor", &divisor)
//
//	err = dsk.Load(true)
//
// Keys are written to the file in alphabetical order, one per line, in the
// form "key :: value". Keys in the file that the Disk instance does not know
// about are preserved when the file is saved, so several Disk instances can
// share the same file.
//
// Values can be overridden from the command line with the
// PushCommandLineStack() function. Overrides are applied by Disk.Load() and
// are consumed once applied.
package prefs
