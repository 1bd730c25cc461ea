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

//go:build linux || darwin

package serial

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Port is an open serial device.
type Port struct {
	file *os.File
	name string

	crit    sync.Mutex
	timeout time.Duration
}

// Open the named serial device. The device is put into raw mode.
func Open(name string) (*Port, error) {
	f, err := os.OpenFile(name, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, curated.Errorf(OpenError, name, err)
	}

	p := &Port{
		file: f,
		name: name,
	}

	err = p.control(makeRaw)
	if err != nil {
		f.Close()
		return nil, curated.Errorf(OpenError, name, err)
	}

	return p, nil
}

// control calls the function with the file descriptor of the device. The
// descriptor is not held outside of the call so that it remains in
// non-blocking mode.
func (p *Port) control(fn func(fd int) error) error {
	rc, err := p.file.SyscallConn()
	if err != nil {
		return err
	}
	var ferr error
	err = rc.Control(func(fd uintptr) {
		ferr = fn(int(fd))
	})
	if err != nil {
		return err
	}
	return ferr
}

func makeRaw(fd int) error {
	t, err := unix.IoctlGetTermios(fd, getTermios)
	if err != nil {
		return err
	}
	termios.Cfmakeraw(t)
	t.Cflag |= unix.CLOCAL | unix.CREAD
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, setTermios, t)
}

func (p *Port) String() string {
	return p.name
}

// Write implements the debugwire.Port interface.
func (p *Port) Write(b []byte) (int, error) {
	return p.file.Write(b)
}

// Read implements the debugwire.Port interface.
func (p *Port) Read(b []byte) (int, error) {
	p.crit.Lock()
	timeout := p.timeout
	p.crit.Unlock()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := p.file.SetReadDeadline(deadline); err != nil {
		return 0, err
	}

	return p.file.Read(b)
}

// SetReadTimeout implements the debugwire.Port interface.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.timeout = timeout
	return nil
}

// SendBreak implements the debugwire.Port interface.
func (p *Port) SendBreak() error {
	return p.control(func(fd int) error {
		return termios.Tcsendbreak(uintptr(fd), 0)
	})
}

// SetBaudRate implements the debugwire.Port interface.
func (p *Port) SetBaudRate(rate int) (int, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("serial: invalid baud rate (%d)", rate)
	}
	var eff int
	err := p.control(func(fd int) error {
		var err error
		eff, err = setBaud(fd, rate)
		return err
	})
	if err != nil {
		return 0, curated.Errorf(BaudError, rate, err)
	}
	return eff, nil
}

// Flush implements the debugwire.Port interface.
func (p *Port) Flush() error {
	return p.control(func(fd int) error {
		return termios.Tcflush(uintptr(fd), uintptr(termios.TCIFLUSH))
	})
}

// Close implements the debugwire.Port interface.
func (p *Port) Close() error {
	return p.file.Close()
}
