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

// Package session is the debug session façade used by the front ends. It
// adds the execution state and the PC shadow to the target package and
// checks the precondition of every operation before it is attempted.
//
// Operations that need a halted target return the NotHalted error when the
// target is running, and operations that need a running target return
// NotRunning when it is halted. Neither has any side effect.
//
// The PC shadow is the value of the PC register when the target last
// stopped. On this family of devices that is one more than the word address
// of the next instruction. Resume() uses the shadow to continue from where
// the target stopped.
//
// Status() and PC() may be called from any goroutine. All other methods must
// be called from the goroutine that owns the session.
package session
