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

// Package simulator implements a simulated debugWire target. The Simulator
// type satisfies the debugwire.Port interface and so can be used anywhere a
// serial port would be used.
//
// The simulation is at the level of the debugWire module and not of the CPU.
// Control registers, memory cycles, the instruction register and the
// execution of the small set of instructions used by a debugger (IN, OUT,
// MOVW, ADIW, LDI and SPM) are modelled faithfully. Free running execution
// is modelled as a linear walk through flash that stops at a BREAK
// instruction or at the hardware breakpoint. No other instruction has any
// effect.
//
// The baud rate is modelled. Bytes sent by the target at a rate that is not
// within tolerance of the host's rate are corrupted and bytes sent by the
// host at the wrong rate are ignored by the target.
//
// Faults can be injected with Inject() to test the handling of failures.
package simulator
