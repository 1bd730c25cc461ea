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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// Value represents the actual Go preference value.
type Value interface{}

// pref is an interface to any type that can be added to a Disk instance.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// hooks are called before and after a new value is stored. An error from
// the pre-hook prevents the value from being stored.
type hooks struct {
	pre  func(value Value) error
	post func(value Value) error
}

func (h *hooks) store(nv Value, store func()) error {
	if h.pre != nil {
		if err := h.pre(nv); err != nil {
			return err
		}
	}
	store()
	if h.post != nil {
		return h.post(nv)
	}
	return nil
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	pref
	hooks
	value atomic.Bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string of "true" (not case sensitive) is true, anything else is false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// SetHookPre sets the callback function to be called just before the value
// is updated.
func (p *Bool) SetHookPre(f func(value Value) error) {
	p.pre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated.
func (p *Bool) SetHookPost(f func(value Value) error) {
	p.post = f
}

// String implements a string type in the prefs system.
type String struct {
	pref
	hooks
	maxLen int
	value  atomic.String
}

func (p *String) String() string {
	return p.value.Load()
}

// SetMaxLen sets the maximum length for a string when it is set. To set no
// limit use a value less than or equal to zero. Note that the existing string
// will be cropped if necessary. Cropped string information will be lost.
func (p *String) SetMaxLen(max int) {
	p.maxLen = max
	if s := p.value.Load(); p.maxLen > 0 && len(s) > p.maxLen {
		p.value.Store(s[:p.maxLen])
	}
}

// Set new value to String type. New value must be a string or a
// fmt.Stringer.
func (p *String) Set(v Value) error {
	var nv string
	switch v := v.(type) {
	case string:
		nv = v
	case fmt.Stringer:
		nv = v.String()
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.String", v)
	}
	if p.maxLen > 0 && len(nv) > p.maxLen {
		nv = nv[:p.maxLen]
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.value.Load()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// SetHookPre sets the callback function to be called just before the value
// is updated.
func (p *String) SetHookPre(f func(value Value) error) {
	p.pre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated.
func (p *String) SetHookPost(f func(value Value) error) {
	p.post = f
}

// Int implements an integer type in the prefs system.
type Int struct {
	pref
	hooks
	value atomic.Int64
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.value.Load())
}

// Set new value to Int type. New value can be an int or a string. Strings
// are parsed with base prefix detection so "0x80" is accepted.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int64:
		nv = int(v)
	case int32:
		nv = int(v)
	case int:
		nv = v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %T to prefs.Int: %w", v, err)
		}
		nv = int(n)
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}
	return p.store(nv, func() { p.value.Store(int64(nv)) })
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// SetHookPre sets the callback function to be called just before the value
// is updated.
func (p *Int) SetHookPre(f func(value Value) error) {
	p.pre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated.
func (p *Int) SetHookPost(f func(value Value) error) {
	p.post = f
}

// Float implements a floating point type in the prefs system.
type Float struct {
	pref
	hooks
	value atomic.Float64
}

func (p *Float) String() string {
	return fmt.Sprintf("%.3f", p.value.Load())
}

// Set new value to Float type. New value must be a float64, float32, int or
// string.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case float32:
		nv = float64(v)
	case int:
		nv = float64(v)
	case string:
		var err error
		nv, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %T to prefs.Float: %w", v, err)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Float", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Float) Get() Value {
	return p.value.Load()
}

// Reset sets the float value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}

// SetHookPre sets the callback function to be called just before the value
// is updated.
func (p *Float) SetHookPre(f func(value Value) error) {
	p.pre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated.
func (p *Float) SetHookPost(f func(value Value) error) {
	p.post = f
}

// Generic is a general purpose prefererences type, useful for values that
// cannot be represented by a single primitive type. The set and get
// functions translate between the string stored on disk and the value held
// by the owner of the preference.
type Generic struct {
	pref
	crit sync.Mutex
	set  func(string) error
	get  func() string
}

// NewGeneric is the preferred method of initialisation for the Generic type.
func NewGeneric(set func(string) error, get func() string) *Generic {
	return &Generic{
		set: set,
		get: get,
	}
}

func (p *Generic) String() string {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.get()
}

// Set triggers the set value procedure for the generic type.
func (p *Generic) Set(v Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.set(fmt.Sprintf("%v", v))
}

// Get triggers the get value procedure for the generic type.
func (p *Generic) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.get()
}

// Reset sets the generic value to the empty string.
func (p *Generic) Reset() error {
	return p.Set("")
}
