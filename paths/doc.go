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

// Package paths contains functions to prepare paths for dwdebug resources.
//
// The ResourcePath() function modifies the supplied resource string such that
// it is prepended with the appropriate config directory.
//
// The policy for development builds (the default) is to look for the config
// directory in the current working directory. Release builds (built with the
// "release" tag) use the user's configuration directory as reported by
// os.UserConfigDir(). The directory is created if it does not exist.
//
// UniqueFilename() is used to create filenames for dumps of target memory
// and the MEMVIZ command of the monitor.
package paths
