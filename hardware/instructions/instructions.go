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

// IN loads register r with the value of I/O register A.
//
//	1011 0AAr rrrr AAAA
func IN(r int, A int) uint16 {
	return 0xb000 | uint16((r&0x1f)<<4) | uint16(A&0x0f) | uint16((A&0x30)<<5)
}

// OUT stores register r in I/O register A.
//
//	1011 1AAr rrrr AAAA
func OUT(A int, r int) uint16 {
	return 0xb800 | uint16((r&0x1f)<<4) | uint16(A&0x0f) | uint16((A&0x30)<<5)
}

// MOVW copies register pair r+1:r to register pair d+1:d. Both d and r are
// the (even) number of the low register of the pair.
//
//	0000 0001 dddd rrrr
func MOVW(d int, r int) uint16 {
	return 0x0100 | uint16(((d/2)&0x0f)<<4) | uint16((r/2)&0x0f)
}

// SPM stores program memory using the operation selected by SPMCSR.
//
//	1001 0101 1110 1000
func SPM() uint16 {
	return 0x95e8
}

// Register pairs that can be the target of ADIW.
const (
	PairW = 0 // r25:r24
	PairX = 1 // r27:r26
	PairY = 2 // r29:r28
	PairZ = 3 // r31:r30
)

// ADIW adds the immediate value K (0 to 63) to the register pair w.
//
//	1001 0110 KKww KKKK
func ADIW(w int, K int) uint16 {
	return 0x9600 | uint16((K&0x30)<<2) | uint16((w&0x03)<<4) | uint16(K&0x0f)
}

// LDI loads the immediate value K into register d. Only registers r16 to r31
// can be the target of LDI.
//
//	1110 KKKK dddd KKKK
func LDI(d int, K int) uint16 {
	return 0xe000 | uint16((K&0xf0)<<4) | uint16((d&0x0f)<<4) | uint16(K&0x0f)
}

// BREAK halts the target and returns control to the debugger.
//
//	1001 0101 1001 1000
func BREAK() uint16 {
	return 0x9598
}

// Bytes returns the opcode in the order expected by the debugWire
// instruction register, most significant byte first.
func Bytes(op uint16) [2]byte {
	return [2]byte{byte(op >> 8), byte(op)}
}

// FlashOrder returns the opcode in the order it is stored in flash, least
// significant byte first.
func FlashOrder(op uint16) [2]byte {
	return [2]byte{byte(op), byte(op >> 8)}
}

// FromFlash is the inverse of FlashOrder().
func FromFlash(b [2]byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// IsBreak returns true if the two bytes, in flash storage order, are the
// BREAK instruction.
func IsBreak(b [2]byte) bool {
	return FromFlash(b) == BREAK()
}
