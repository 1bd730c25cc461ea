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

// Package script runs Lua scripts against a debug session. The session is
// available to the script through the dw table:
//
//	dw.halt()              halt the target
//	dw.resume([addr])      resume the target, optionally from the flash address
//	dw.step()              execute a single instruction
//	dw.wait([ms])          wait for the target to stop. returns false on timeout
//	dw.reset()             reset the target
//	dw.pc()                flash address of the next instruction
//	dw.status()            "halted" or "running"
//	dw.read_sram(a, n)     table of n bytes from the data space
//	dw.write_sram(a, tbl)  write the bytes in the table to the data space
//	dw.read_flash(a, n)    table of n bytes from flash
//	dw.read_eeprom(a, n)   table of n bytes from EEPROM
//	dw.write_eeprom(a, t)  write the bytes in the table to EEPROM
//	dw.breakpoint(a)       set a software breakpoint
//	dw.clear(a)            remove a software breakpoint
//	dw.hwbreak(a)          set the hardware breakpoint
//	dw.reason()            why the target stopped
//	dw.log(s)              add the string to the log
//
// break is a reserved word in Lua so dw.breakpoint() is also available as
// dw["break"](). Failures raise Lua errors.
package script
