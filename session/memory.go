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

package session

import (
	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/hardware/device"
	"github.com/dwdebug/dwdebug/target"
)

// ReadRegisters returns n general purpose registers starting with the first.
func (s *Session) ReadRegisters(first int, n int) ([]byte, error) {
	if err := s.requireHalted(); err != nil {
		return nil, err
	}
	return s.tgt.ReadRegisters(first, n)
}

// WriteRegisters writes general purpose registers starting with the first.
func (s *Session) WriteRegisters(first int, data []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.WriteRegisters(first, data)
}

// check that the range lies within the data space. the registers are always
// present, even if the device is unknown
func (s *Session) checkData(address int, n int) error {
	end := max(s.tgt.Profile().DataSpaceEnd(), target.NumRegisters)
	if address < 0 || n < 0 || address > end-n {
		return curated.Errorf(target.AddressOutOfRange, "data", address, n)
	}
	return nil
}

// ReadSRAM reads n bytes of the data space. Requests longer than
// target.MaxTransfer are split.
func (s *Session) ReadSRAM(address int, n int) ([]byte, error) {
	if err := s.requireHalted(); err != nil {
		return nil, err
	}
	if err := s.checkData(address, n); err != nil {
		return nil, err
	}

	data := make([]byte, 0, n)
	for len(data) < n {
		c := min(n-len(data), target.MaxTransfer)
		b, err := s.tgt.ReadSRAM(address+len(data), c)
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

// WriteSRAM writes data to the data space. Requests longer than
// target.MaxTransfer are split.
func (s *Session) WriteSRAM(address int, data []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	if err := s.checkData(address, len(data)); err != nil {
		return err
	}

	for i := 0; i < len(data); i += target.MaxTransfer {
		if err := s.tgt.WriteSRAM(address+i, data[i:min(i+target.MaxTransfer, len(data))]); err != nil {
			return err
		}
	}
	return nil
}

// segment of the data space that can be reached with a single request
type segment struct {
	address int
	n       int
	kind    segmentKind
}

type segmentKind int

const (
	registerSegment segmentKind = iota
	dwdrSegment
	sramSegment
)

// split the data space range into segments. registers are reached with a
// register cycle, the DWDR register can not be reached and everything else
// is reached with SRAM cycles of no more than target.MaxTransfer bytes. the
// range must have been checked with checkData()
func (s *Session) segments(address int, n int) []segment {
	var segs []segment

	dwdr := device.DataAddress(s.tgt.Profile().DWDR)
	end := address + n

	for a := address; a < end; {
		switch {
		case a < target.NumRegisters:
			c := min(end, target.NumRegisters) - a
			segs = append(segs, segment{address: a, n: c, kind: registerSegment})
			a += c
		case a == dwdr:
			segs = append(segs, segment{address: a, n: 1, kind: dwdrSegment})
			a++
		default:
			stop := min(end, a+target.MaxTransfer)
			if a < dwdr && dwdr < stop {
				stop = dwdr
			}
			segs = append(segs, segment{address: a, n: stop - a, kind: sramSegment})
			a = stop
		}
	}

	return segs
}

// ReadData reads n bytes of the data space from the address. Unlike
// ReadSRAM() the range may include any register. The DWDR register reads as
// zero.
func (s *Session) ReadData(address int, n int) ([]byte, error) {
	if err := s.requireHalted(); err != nil {
		return nil, err
	}
	if err := s.checkData(address, n); err != nil {
		return nil, err
	}

	data := make([]byte, 0, n)

	for _, sg := range s.segments(address, n) {
		switch sg.kind {
		case registerSegment:
			b, err := s.tgt.ReadRegisters(sg.address, sg.n)
			if err != nil {
				return nil, err
			}
			data = append(data, b...)
		case dwdrSegment:
			data = append(data, 0x00)
		case sramSegment:
			b, err := s.tgt.ReadSRAM(sg.address, sg.n)
			if err != nil {
				return nil, err
			}
			data = append(data, b...)
		}
	}

	return data, nil
}

// WriteData writes data to the data space at the address. The range may
// include any register. Writes to the DWDR register are ignored.
func (s *Session) WriteData(address int, data []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	if err := s.checkData(address, len(data)); err != nil {
		return err
	}

	i := 0
	for _, sg := range s.segments(address, len(data)) {
		b := data[i : i+sg.n]
		i += sg.n

		switch sg.kind {
		case registerSegment:
			if err := s.tgt.WriteRegisters(sg.address, b); err != nil {
				return err
			}
		case sramSegment:
			if err := s.tgt.WriteSRAM(sg.address, b); err != nil {
				return err
			}
		}
	}

	return nil
}

// ReadFlash reads n bytes of flash from the byte address.
func (s *Session) ReadFlash(address int, n int) ([]byte, error) {
	if err := s.requireHalted(); err != nil {
		return nil, err
	}
	return s.tgt.ReadFlash(address, n)
}

// WriteFlashPage programs the flash page at the byte address.
func (s *Session) WriteFlashPage(address int, data []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.WriteFlashPage(address, data)
}

// ReadEEPROM reads n bytes of EEPROM from the address.
func (s *Session) ReadEEPROM(address int, n int) ([]byte, error) {
	if err := s.requireHalted(); err != nil {
		return nil, err
	}
	return s.tgt.ReadEEPROM(address, n)
}

// WriteEEPROM writes data to EEPROM at the address.
func (s *Session) WriteEEPROM(address int, data []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.WriteEEPROM(address, data)
}

// WriteFirmware programs the image into flash from address zero.
func (s *Session) WriteFirmware(image []byte, opts target.FirmwareOptions) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.WriteFirmware(image, opts)
}

// VerifyFirmware compares flash with the image.
func (s *Session) VerifyFirmware(image []byte) error {
	if err := s.requireHalted(); err != nil {
		return err
	}
	return s.tgt.VerifyFirmware(image)
}
