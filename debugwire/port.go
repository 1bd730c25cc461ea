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

package debugwire

import (
	"io"
	"time"
)

// Port is the physical transport used by a Link.
type Port interface {
	io.Writer

	// Read should block until at least one byte is available or until the
	// read timeout has expired. Expiry of the timeout is reported with an
	// error that satisfies errors.Is(err, os.ErrDeadlineExceeded).
	io.Reader

	// SetReadTimeout changes the read timeout. A timeout of zero means that
	// Read() will wait indefinitely. A Read() that is waiting indefinitely
	// returns an error when the port is closed.
	SetReadTimeout(timeout time.Duration) error

	// SendBreak holds the line low for long enough to be seen as a break by
	// the target.
	SendBreak() error

	// SetBaudRate sets the line rate. The effective rate, which may differ
	// from the requested rate because of the limitations of the hardware, is
	// returned.
	SetBaudRate(rate int) (int, error)

	// Flush discards any unread input.
	Flush() error

	io.Closer
}
