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
	"fmt"
	"runtime/debug"
	"sync"
)

// The name to use when referring to the application.
const ApplicationName = "dwdebug"

// set by the linker for numbered releases. for example:
//
//	go build -ldflags "-X github.com/dwdebug/dwdebug/version.number=v0.1.0"
var number string

// Info describes the build of the application.
type Info struct {
	// the release number. "unreleased" if the project was built from a
	// repository without a release number and "local" if there is no vcs
	// information at all. this happens with "go run ."
	Number string

	// the vcs revision, suffixed with "+dirty" if the source had been
	// modified without being committed
	Revision string

	// whether this is a numbered release
	Release bool

	// the toolchain used to build the application
	GoVersion string
}

func (i Info) String() string {
	if i.Release {
		return fmt.Sprintf("%s %s", ApplicationName, i.Number)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, i.Number, i.Revision)
}

var info = sync.OnceValue(func() Info {
	return fromBuildInfo(debug.ReadBuildInfo())
})

// Version returns information about the running binary.
func Version() Info {
	return info()
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) Info {
	var i Info

	var vcs bool
	var modified bool

	if ok {
		i.GoVersion = bi.GoVersion
		for _, v := range bi.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				i.Revision = v.Value
			case "vcs.modified":
				modified = v.Value == "true"
			}
		}
	}

	if i.Revision == "" {
		i.Revision = "no revision information"
	} else if modified {
		i.Revision = fmt.Sprintf("%s+dirty", i.Revision)
	}

	switch {
	case number != "":
		i.Number = number
		i.Release = true
	case vcs:
		i.Number = "unreleased"
	default:
		i.Number = "local"
	}

	return i
}
