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

//go:build !linux && !darwin

package serial

import (
	"time"

	"github.com/dwdebug/dwdebug/curated"
)

// Port is an open serial device. Serial ports are not supported on this
// platform and Open() always fails.
type Port struct{}

// Open always fails on this platform.
func Open(name string) (*Port, error) {
	return nil, curated.Errorf(Unsupported)
}

func (p *Port) String() string { return "" }
func (p *Port) Write(b []byte) (int, error) { return 0, curated.Errorf(Unsupported) }
func (p *Port) Read(b []byte) (int, error) { return 0, curated.Errorf(Unsupported) }
func (p *Port) SetReadTimeout(timeout time.Duration) error { return curated.Errorf(Unsupported) }
func (p *Port) SendBreak() error { return curated.Errorf(Unsupported) }
func (p *Port) SetBaudRate(rate int) (int, error) { return 0, curated.Errorf(Unsupported) }
func (p *Port) Flush() error { return curated.Errorf(Unsupported) }
func (p *Port) Close() error { return nil }
