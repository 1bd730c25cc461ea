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

package serial

import "golang.org/x/sys/unix"

const (
	getTermios = unix.TIOCGETA
	setTermios = unix.TIOCSETA
)

// _IOW('T', 2, speed_t)
const iossiospeed = 0x80085402

// setBaud uses the IOSSIOSPEED request. The driver does not report the
// effective rate so the requested rate is returned.
func setBaud(fd int, rate int) (int, error) {
	if err := unix.IoctlSetPointerInt(fd, iossiospeed, rate); err != nil {
		return 0, err
	}
	return rate, nil
}
