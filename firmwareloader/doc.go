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

// Package firmwareloader is used to specify the firmware image that is to be
// programmed into the target's flash.
//
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported.
//
// As well as the filename, the Loader type allows the format of the image to
// be specified. Images are either raw binary or Intel HEX. Intel HEX images
// are flattened into a binary image beginning at address zero, with any gaps
// filled with the value of erased flash.
//
// It is preferred that the NewLoader() function is used. The NewLoader()
// function will set the format field automatically according to the filename
// extension.
//
//	ld := firmwareloader.NewLoader("blink.hex", "AUTO")
//	err := ld.Load()
package firmwareloader
