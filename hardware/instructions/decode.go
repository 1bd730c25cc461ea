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

package instructions

import "fmt"

// Mnemonic identifies the instructions recognised by Decode().
type Mnemonic int

// List of recognised mnemonics.
const (
	Unknown Mnemonic = iota
	In
	Out
	Movw
	Spm
	Adiw
	Ldi
	Break
)

func (m Mnemonic) String() string {
	switch m {
	case In:
		return "IN"
	case Out:
		return "OUT"
	case Movw:
		return "MOVW"
	case Spm:
		return "SPM"
	case Adiw:
		return "ADIW"
	case Ldi:
		return "LDI"
	case Break:
		return "BREAK"
	}
	return "???"
}

// Decoded is the result of decoding a single opcode. Only the fields
// relevant to the Mnemonic are meaningful.
type Decoded struct {
	Mnemonic Mnemonic
	Opcode   uint16

	// destination and source register. for MOVW these are the low register
	// of each pair. for ADIW Rd is the low register of the pair
	Rd int
	Rr int

	// I/O address for IN and OUT
	A int

	// immediate value for ADIW and LDI
	K int
}

func (d Decoded) String() string {
	switch d.Mnemonic {
	case In:
		return fmt.Sprintf("in r%d, 0x%02x", d.Rd, d.A)
	case Out:
		return fmt.Sprintf("out 0x%02x, r%d", d.A, d.Rr)
	case Movw:
		return fmt.Sprintf("movw r%d, r%d", d.Rd, d.Rr)
	case Spm:
		return "spm"
	case Adiw:
		return fmt.Sprintf("adiw r%d, %d", d.Rd, d.K)
	case Ldi:
		return fmt.Sprintf("ldi r%d, 0x%02x", d.Rd, d.K)
	case Break:
		return "break"
	}
	return fmt.Sprintf(".dw 0x%04x", d.Opcode)
}

// Decode an opcode. Opcodes outside the supported subset are returned with
// the Unknown mnemonic.
func Decode(op uint16) Decoded {
	d := Decoded{Opcode: op}

	switch {
	case op == SPM():
		d.Mnemonic = Spm
	case op == BREAK():
		d.Mnemonic = Break
	case op&0xf800 == 0xb000:
		d.Mnemonic = In
		d.Rd = int(op>>4) & 0x1f
		d.A = int(op&0x0f) | int(op>>5)&0x30
	case op&0xf800 == 0xb800:
		d.Mnemonic = Out
		d.Rr = int(op>>4) & 0x1f
		d.A = int(op&0x0f) | int(op>>5)&0x30
	case op&0xff00 == 0x0100:
		d.Mnemonic = Movw
		d.Rd = int(op>>4&0x0f) * 2
		d.Rr = int(op&0x0f) * 2
	case op&0xff00 == 0x9600:
		d.Mnemonic = Adiw
		d.Rd = 24 + int(op>>4&0x03)*2
		d.K = int(op>>2)&0x30 | int(op&0x0f)
	case op&0xf000 == 0xe000:
		d.Mnemonic = Ldi
		d.Rd = 16 + int(op>>4&0x0f)
		d.K = int(op>>4)&0xf0 | int(op&0x0f)
	}

	return d
}
