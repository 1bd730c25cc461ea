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

package debugwire

import (
	"bytes"
	"errors"
	"os"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/logger"
)

// DefaultFrequency is the nominal clock frequency of the target if no other
// frequency is specified.
const DefaultFrequency = 8000000

// DefaultDivisor is the divisor used by the target after power on.
const DefaultDivisor = 128

// DefaultTimeout is the time allowed for a response from the target.
const DefaultTimeout = time.Second

// the acknowledgement sent by the target after a break, reset or blocking
// instruction
var ack = []byte{0x00, 0x55}

// the byte sent by the target after a change of divisor
const syncByte = 0x55

// Link is a connection to a debugWire target over a Port.
type Link struct {
	port Port

	// target clock frequency in Hz
	frequency int

	// current divisor and the effective baud rate of the port
	divisor int
	baud    int

	// timeout for all responses except WaitForBreak()
	timeout time.Duration

	// whether the target is executing. the target only responds to a break
	// while it is executing
	running bool

	// set on an echo mismatch. no further commands are accepted
	desynced bool

	// the most recent command. used for error messages
	last []byte

	// permission to trace bytes to the central logger. nil for no tracing
	trace logger.Permission
}

// NewLink is the preferred method of initialisation for the Link type. The
// Link is not usable until Connect() has been called.
func NewLink(port Port, frequency int) *Link {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &Link{
		port:      port,
		frequency: frequency,
		divisor:   DefaultDivisor,
		timeout:   DefaultTimeout,
	}
}

// SetTrace sets the permission used when tracing bytes to the central
// logger. A nil permission disables tracing.
func (l *Link) SetTrace(perm logger.Permission) {
	l.trace = perm
}

// SetTimeout changes the time allowed for responses from the target.
func (l *Link) SetTimeout(timeout time.Duration) error {
	if err := l.port.SetReadTimeout(timeout); err != nil {
		return curated.Errorf(PortError, err)
	}
	l.timeout = timeout
	return nil
}

// Timeout returns the time allowed for responses from the target.
func (l *Link) Timeout() time.Duration {
	return l.timeout
}

// Frequency returns the target frequency in Hz.
func (l *Link) Frequency() int {
	return l.frequency
}

// Divisor returns the current baud divisor.
func (l *Link) Divisor() int {
	return l.divisor
}

// Baud returns the effective baud rate of the port.
func (l *Link) Baud() int {
	return l.baud
}

// Running returns true if the target is executing.
func (l *Link) Running() bool {
	return l.running
}

// Desynchronised returns true if the link has seen an echo mismatch.
func (l *Link) Desynchronised() bool {
	return l.desynced
}

// Connect to the target. The target must be at the power on divisor. A
// break is sent, the divisor is changed (or confirmed) and the fingerprint
// is returned.
//
// The target is halted after a successful Connect().
func (l *Link) Connect(divisor int) (uint16, error) {
	if err := l.port.SetReadTimeout(l.timeout); err != nil {
		return 0, curated.Errorf(PortError, err)
	}

	if err := l.setHostRate(DefaultDivisor); err != nil {
		return 0, err
	}

	if err := l.BreakNow(l.timeout); err != nil {
		return 0, err
	}

	if err := l.SetBaudDivisor(divisor); err != nil {
		return 0, err
	}

	return l.Fingerprint()
}

// Close the underlying port. Any Read() that is waiting indefinitely is
// released.
func (l *Link) Close() error {
	if err := l.port.Close(); err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}

// set the host baud rate for the divisor and check that the effective rate is
// within tolerance.
func (l *Link) setHostRate(divisor int) error {
	want := l.frequency / divisor
	eff, err := l.port.SetBaudRate(want)
	if err != nil {
		return curated.Errorf(PortError, err)
	}
	l.baud = eff
	if !WithinTolerance(eff, want) {
		return curated.Errorf(BaudOutOfTolerance, eff, want)
	}
	return nil
}

// WithinTolerance returns true if the effective rate is within 5% of the
// wanted rate.
func WithinTolerance(effective int, want int) bool {
	d := effective - want
	if d < 0 {
		d = -d
	}
	return d*100 <= want*5
}

// Command sends the command bytes, checks the echo and then reads n bytes of
// response. Any unread input is discarded before the command is sent.
func (l *Link) Command(cmd []byte, n int) ([]byte, error) {
	if l.desynced {
		return nil, curated.Errorf(Desynced)
	}

	if err := l.port.Flush(); err != nil {
		return nil, curated.Errorf(PortError, err)
	}

	l.last = cmd
	if err := l.write(cmd); err != nil {
		return nil, err
	}

	echo, err := l.read(len(cmd))
	if err != nil || !bytes.Equal(echo, cmd) {
		l.desynced = true
		return nil, curated.Errorf(EchoMismatch, cmd, echo)
	}

	if n == 0 {
		return nil, nil
	}

	return l.Receive(n)
}

// Send raw bytes to the target. The echo is checked as for Command().
func (l *Link) Send(data []byte) error {
	_, err := l.Command(data, 0)
	return err
}

// Receive n raw bytes from the target.
func (l *Link) Receive(n int) ([]byte, error) {
	b, err := l.read(n)
	if err != nil {
		return nil, curated.Errorf(ShortResponse, l.last, err)
	}
	return b, nil
}

// BreakNow sends a break on the line and waits no longer than the timeout for
// the acknowledgement. A timeout of zero uses the link's timeout. A missing
// acknowledgement means the target is not responding.
func (l *Link) BreakNow(timeout time.Duration) error {
	if l.desynced {
		return curated.Errorf(Desynced)
	}

	if err := l.port.Flush(); err != nil {
		return curated.Errorf(PortError, err)
	}

	if timeout > 0 && timeout != l.timeout {
		if err := l.port.SetReadTimeout(timeout); err != nil {
			return curated.Errorf(PortError, err)
		}
		defer l.port.SetReadTimeout(l.timeout)
	}

	l.traceTx("break")
	if err := l.port.SendBreak(); err != nil {
		return curated.Errorf(PortError, err)
	}

	if err := l.acknowledgement(); err != nil {
		return err
	}

	l.running = false
	return nil
}

// WaitForBreak waits for the target to stop of its own accord. A timeout of
// zero waits indefinitely. In that case the only way to stop waiting is to
// Close() the link.
//
// The WaitTimeout error is returned if the timeout expires. The target will
// still be running in that case.
func (l *Link) WaitForBreak(timeout time.Duration) error {
	if err := l.port.SetReadTimeout(timeout); err != nil {
		return curated.Errorf(PortError, err)
	}
	defer l.port.SetReadTimeout(l.timeout)

	b, err := l.read(len(ack))
	if err != nil {
		if len(b) == 0 && errors.Is(err, os.ErrDeadlineExceeded) {
			return curated.Errorf(WaitTimeout)
		}
		return curated.Errorf(NoAcknowledgement, err)
	}
	if !bytes.Equal(b, ack) {
		return curated.Errorf(NoAcknowledgement, b)
	}

	l.running = false
	return nil
}

// read the 0x00 0x55 acknowledgement.
func (l *Link) acknowledgement() error {
	b, err := l.read(len(ack))
	if err != nil {
		return curated.Errorf(NoAcknowledgement, err)
	}
	if !bytes.Equal(b, ack) {
		return curated.Errorf(NoAcknowledgement, b)
	}
	return nil
}

func (l *Link) write(b []byte) error {
	l.traceTx("% 02x", b)
	n, err := l.port.Write(b)
	if err != nil {
		return curated.Errorf(PortError, err)
	}
	if n != len(b) {
		return curated.Errorf(PortError, "short write")
	}
	return nil
}

// read exactly n bytes. the bytes read so far are returned with any error.
func (l *Link) read(n int) ([]byte, error) {
	b := make([]byte, n)
	i := 0
	for i < n {
		m, err := l.port.Read(b[i:])
		i += m
		if err != nil {
			l.traceRx(b[:i])
			return b[:i], err
		}
	}
	l.traceRx(b)
	return b, nil
}

func (l *Link) traceTx(format string, v ...interface{}) {
	if l.trace != nil {
		logger.Logf(l.trace, "debugwire", "tx: "+format, v...)
	}
}

func (l *Link) traceRx(b []byte) {
	if l.trace != nil && len(b) > 0 {
		logger.Logf(l.trace, "debugwire", "rx: % 02x", b)
	}
}
