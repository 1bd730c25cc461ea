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

package script

import (
	"fmt"
	"io"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/session"
	"github.com/dwdebug/dwdebug/target"
	lua "github.com/yuin/gopher-lua"
)

// ScriptError is the error pattern for a failed script.
const ScriptError = "script: %v"

// Script is a Lua interpreter with the dw table bound to a session.
type Script struct {
	sess *session.Session
	out  io.Writer
	L    *lua.LState
}

// NewScript is the preferred method of initialisation for the Script type.
// Output from the script's print() function and from dw.log() is written to
// out.
func NewScript(sess *session.Session, out io.Writer) *Script {
	s := &Script{
		sess: sess,
		out:  out,
		L:    lua.NewState(),
	}

	s.L.SetGlobal("print", s.L.NewFunction(s.print))

	dw := s.L.NewTable()
	s.L.SetFuncs(dw, map[string]lua.LGFunction{
		"halt":         s.halt,
		"resume":       s.resume,
		"step":         s.step,
		"wait":         s.wait,
		"reset":        s.reset,
		"pc":           s.pc,
		"status":       s.status,
		"read_sram":    s.readSRAM,
		"write_sram":   s.writeSRAM,
		"read_flash":   s.readFlash,
		"read_eeprom":  s.readEEPROM,
		"write_eeprom": s.writeEEPROM,
		"breakpoint":   s.breakpoint,
		"break":        s.breakpoint,
		"clear":        s.clear,
		"hwbreak":      s.hwbreak,
		"reason":       s.reason,
		"log":          s.log,
	})
	s.L.SetGlobal("dw", dw)

	return s
}

// Close the interpreter.
func (s *Script) Close() {
	s.L.Close()
}

// Run the Lua source.
func (s *Script) Run(src string) error {
	if err := s.L.DoString(src); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunFile runs the Lua file.
func (s *Script) RunFile(filename string) error {
	if err := s.L.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// raise a Lua error if err is not nil
func (s *Script) check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%v", err)
	}
}

func (s *Script) print(L *lua.LState) int {
	for i := 1; i <= L.GetTop(); i++ {
		if i > 1 {
			fmt.Fprint(s.out, "\t")
		}
		fmt.Fprint(s.out, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.out)
	return 0
}

func (s *Script) halt(L *lua.LState) int {
	s.check(L, s.sess.Halt())
	return 0
}

func (s *Script) resume(L *lua.LState) int {
	if L.GetTop() > 0 {
		s.check(L, s.sess.ResumeAt(target.Run, uint16(L.CheckInt(1)/2)))
	} else {
		s.check(L, s.sess.Resume(target.Run))
	}
	return 0
}

func (s *Script) step(L *lua.LState) int {
	s.check(L, s.sess.Step())
	return 0
}

func (s *Script) wait(L *lua.LState) int {
	timeout := time.Duration(L.OptInt(1, 0)) * time.Millisecond
	err := s.sess.WaitForStop(timeout)
	if curated.Is(err, debugwire.WaitTimeout) {
		L.Push(lua.LFalse)
		return 1
	}
	s.check(L, err)
	L.Push(lua.LTrue)
	return 1
}

func (s *Script) reset(L *lua.LState) int {
	s.check(L, s.sess.Reset(false))
	return 0
}

func (s *Script) pc(L *lua.LState) int {
	L.Push(lua.LNumber(int(s.sess.Next()) * 2))
	return 1
}

func (s *Script) status(L *lua.LState) int {
	L.Push(lua.LString(s.sess.Status().String()))
	return 1
}

// convert bytes to a Lua table
func (s *Script) table(L *lua.LState, data []byte) *lua.LTable {
	t := L.CreateTable(len(data), 0)
	for _, b := range data {
		t.Append(lua.LNumber(b))
	}
	return t
}

// convert the Lua table argument to bytes
func (s *Script) bytes(L *lua.LState, n int) []byte {
	t := L.CheckTable(n)
	data := make([]byte, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		v, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok || v < 0 || v > 0xff {
			L.ArgError(n, fmt.Sprintf("element %d is not a byte", i))
		}
		data = append(data, byte(v))
	}
	return data
}

func (s *Script) read(L *lua.LState, f func(int, int) ([]byte, error)) int {
	data, err := f(L.CheckInt(1), L.CheckInt(2))
	s.check(L, err)
	L.Push(s.table(L, data))
	return 1
}

func (s *Script) readSRAM(L *lua.LState) int {
	return s.read(L, s.sess.ReadData)
}

func (s *Script) readFlash(L *lua.LState) int {
	return s.read(L, s.sess.ReadFlash)
}

func (s *Script) readEEPROM(L *lua.LState) int {
	return s.read(L, s.sess.ReadEEPROM)
}

func (s *Script) writeSRAM(L *lua.LState) int {
	s.check(L, s.sess.WriteData(L.CheckInt(1), s.bytes(L, 2)))
	return 0
}

func (s *Script) writeEEPROM(L *lua.LState) int {
	s.check(L, s.sess.WriteEEPROM(L.CheckInt(1), s.bytes(L, 2)))
	return 0
}

func (s *Script) breakpoint(L *lua.LState) int {
	s.check(L, s.sess.SetSWBreakpoint(L.CheckInt(1)))
	return 0
}

func (s *Script) clear(L *lua.LState) int {
	s.check(L, s.sess.RemoveSWBreakpoint(L.CheckInt(1)))
	return 0
}

func (s *Script) hwbreak(L *lua.LState) int {
	s.check(L, s.sess.SetHWBreakpoint(uint16(L.CheckInt(1)/2)))
	return 0
}

func (s *Script) reason(L *lua.LState) int {
	r, err := s.sess.HaltReason()
	s.check(L, err)
	L.Push(lua.LString(r.String()))
	return 1
}

func (s *Script) log(L *lua.LState) int {
	msg := L.CheckString(1)
	logger.Log(logger.Allow, "script", msg)
	fmt.Fprintln(s.out, msg)
	return 0
}
