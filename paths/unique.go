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

package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that (assuming a functioning clock)
// should not collide with any existing file. The device name is included
// when it is not empty.
//
// Format of the returned filename is:
//
//	prepend_device_YYYYMMDD_HHMMSS
//
// or without the device:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, device string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	d := strings.TrimSpace(device)
	if len(d) > 0 {
		return fmt.Sprintf("%s_%s_%s", prepend, d, timestamp)
	}
	return fmt.Sprintf("%s_%s", prepend, timestamp)
}
