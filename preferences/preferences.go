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

// Package preferences holds the persisted configuration of a debug session.
// Values are stored with the prefs package in the preferences file found
// with paths.ResourcePath(). Command line overrides pushed with
// prefs.PushCommandLineStack() are honoured when the values are loaded.
package preferences

import (
	"fmt"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/paths"
	"github.com/dwdebug/dwdebug/prefs"
)

// Preferences for a debug session.
type Preferences struct {
	dsk *prefs.Disk

	// serial device and the target clock frequency in Hz
	Port      prefs.String
	Frequency prefs.Int

	// baud divisor to use after connecting. a power of two between 1 and 128
	Divisor prefs.Int

	// response timeout in milliseconds
	Timeout prefs.Int

	// trace every byte exchanged with the target to the log
	Trace prefs.Bool

	// reset the target after connecting
	ResetOnOpen prefs.Bool

	// leave the target running when the session is closed
	ResumeOnClose prefs.Bool

	// stop the target's timers while it is being debugged
	DisableTimers prefs.Bool

	// listen address of the GDB server
	GDBAddress prefs.String
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path means the default preferences file.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	// validation of values
	p.Divisor.SetHookPre(func(v prefs.Value) error {
		if _, ok := debugwire.DivisorByte(v.(int)); !ok {
			return curated.Errorf(debugwire.InvalidDivisor, v)
		}
		return nil
	})
	p.Frequency.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("preferences: invalid frequency (%d)", v)
		}
		return nil
	})
	p.Timeout.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("preferences: invalid timeout (%d)", v)
		}
		return nil
	})

	var err error

	if path == "" {
		path, err = paths.ResourcePath("", prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	for _, k := range []struct {
		key  string
		pref interface {
			fmt.Stringer
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
		}
	}{
		{"debugwire.port", &p.Port},
		{"debugwire.frequency", &p.Frequency},
		{"debugwire.divisor", &p.Divisor},
		{"debugwire.timeout", &p.Timeout},
		{"debugwire.trace", &p.Trace},
		{"session.resetOnOpen", &p.ResetOnOpen},
		{"session.resumeOnClose", &p.ResumeOnClose},
		{"session.disableTimers", &p.DisableTimers},
		{"gdbserver.address", &p.GDBAddress},
	} {
		if err := p.dsk.Add(k.key, k.pref); err != nil {
			return nil, err
		}
	}

	if err := p.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.Port.Set("/dev/ttyUSB0")
	p.Frequency.Set(debugwire.DefaultFrequency)
	p.Divisor.Set(debugwire.DefaultDivisor)
	p.Timeout.Set(int(debugwire.DefaultTimeout / time.Millisecond))
	p.Trace.Set(false)
	p.ResetOnOpen.Set(false)
	p.ResumeOnClose.Set(true)
	p.DisableTimers.Set(true)
	p.GDBAddress.Set("localhost:4242")
}

// Load preferences from disk. A missing preferences file is not an error.
// The file is created with the current values in that case.
func (p *Preferences) Load() error {
	err := p.dsk.Load(true)
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return err
	}
	return nil
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// TimeoutDuration returns the Timeout preference as a time.Duration.
func (p *Preferences) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout.Get().(int)) * time.Millisecond
}

// TracePermission returns the permission used by the debugWire link when
// tracing bytes. Logging is allowed while the Trace preference is true.
func (p *Preferences) TracePermission() logger.Permission {
	return traceLogging{p: p}
}

// traceLogging implements the logger.Permission interface.
type traceLogging struct {
	p *Preferences
}

// AllowLogging implements the logger.Permission interface.
func (t traceLogging) AllowLogging() bool {
	return t.p.Trace.Get().(bool)
}
