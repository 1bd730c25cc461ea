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

package gdbserver

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/dwdebug/dwdebug/debugwire"
	"github.com/dwdebug/dwdebug/logger"
	"github.com/dwdebug/dwdebug/session"
	"github.com/dwdebug/dwdebug/target"
)

// DefaultPoll is how often a running target is checked for having stopped.
const DefaultPoll = 50 * time.Millisecond

// addresses with this prefix are unix sockets
const unixPrefix = "unix:"

// Server is a GDB remote serial protocol server for a debug session.
type Server struct {
	sess     *session.Session
	listener net.Listener
	poll     time.Duration
}

// NewServer is the preferred method of initialisation for the Server type.
// The address is a TCP address or the path of a unix socket prefixed with
// "unix:". A stale unix socket is removed.
func NewServer(sess *session.Session, address string) (*Server, error) {
	network := "tcp"
	if strings.HasPrefix(address, unixPrefix) {
		network = "unix"
		address = strings.TrimPrefix(address, unixPrefix)
		if err := os.Remove(address); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, curated.Errorf(ListenError, err)
		}
	}

	l, err := net.Listen(network, address)
	if err != nil {
		return nil, curated.Errorf(ListenError, err)
	}
	logger.Logf(logger.Allow, "gdbserver", "listening on %s", l.Addr())

	return &Server{
		sess:     sess,
		listener: l,
		poll:     DefaultPoll,
	}, nil
}

// Addr returns the address the server is listening on.
func (srv *Server) Addr() net.Addr {
	return srv.listener.Addr()
}

// Close the listener. Serve() will return.
func (srv *Server) Close() error {
	return srv.listener.Close()
}

// Serve clients one at a time until the listener is closed.
func (srv *Server) Serve() error {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return curated.Errorf(AcceptError, err)
		}

		logger.Logf(logger.Allow, "gdbserver", "client connected from %s", conn.RemoteAddr())
		if err := srv.ServeConn(conn); err != nil {
			logger.Log(logger.Allow, "gdbserver", err)
		}
		logger.Log(logger.Allow, "gdbserver", "client disconnected")
	}
}

// ServeConn serves a single client until it disconnects, kills the target or
// detaches. The connection is closed on return.
func (srv *Server) ServeConn(conn io.ReadWriteCloser) error {
	c := &client{
		sess:   srv.sess,
		conn:   conn,
		poll:   srv.poll,
		events: make(chan event),
		done:   make(chan struct{}),
	}

	go readEvents(conn, c.events, c.done)

	defer func() {
		close(c.done)
		conn.Close()
	}()

	return c.serve()
}

// client is the state of a single connection
type client struct {
	sess *session.Session
	conn io.Writer
	poll time.Duration

	events chan event
	done   chan struct{}

	noAck bool

	// the last packet sent. resent if the client asks for it
	last []byte

	// whether the hardware breakpoint has been set by the client
	hwbp bool
}

// what to do after a packet has been handled
type action int

const (
	actionNone action = iota
	actionClose
)

func (c *client) serve() error {
	for ev := range c.events {
		switch ev.kind {
		case eventClosed:
			if errors.Is(ev.err, io.EOF) || errors.Is(ev.err, net.ErrClosed) {
				return nil
			}
			return curated.Errorf(ConnectionError, ev.err)

		case eventNack:
			if c.last != nil {
				if err := c.write(c.last); err != nil {
					return err
				}
			}

		case eventBadChecksum:
			if !c.noAck {
				if err := c.write([]byte{nack}); err != nil {
					return err
				}
			}

		case eventInterrupt:
			// the target is halted outside of a continue. the client still
			// expects a stop reply
			if err := c.reply(stopInterrupted); err != nil {
				return err
			}

		case eventPacket:
			if !c.noAck {
				if err := c.write([]byte{ack}); err != nil {
					return err
				}
			}

			act, err := c.handle(ev.data)
			if err != nil {
				return err
			}
			if act == actionClose {
				return nil
			}
		}
	}

	return nil
}

func (c *client) write(b []byte) error {
	if _, err := c.conn.Write(b); err != nil {
		return curated.Errorf(ConnectionError, err)
	}
	return nil
}

// send a reply packet
func (c *client) reply(data string) error {
	c.last = framePacket([]byte(data))
	return c.write(c.last)
}

// send an error reply. the cause is logged because the protocol has no way
// of describing it
func (c *client) replyError(err error) error {
	logger.Log(logger.Allow, "gdbserver", err)
	return c.reply("E01")
}

// stop replies
const (
	stopTrapped     = "S05"
	stopInterrupted = "S02"
)

// wait for the running target to stop. an interrupt from the client halts
// the target
func (c *client) waitForStop() (string, error) {
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				ev = event{kind: eventClosed, err: io.EOF}
			}
			switch ev.kind {
			case eventInterrupt:
				if err := c.sess.Halt(); err != nil {
					return "", err
				}
				return stopInterrupted, nil
			case eventClosed:
				// the next client expects a halted target
				if err := c.sess.Halt(); err != nil {
					logger.Log(logger.Allow, "gdbserver", err)
				}
				return "", curated.Errorf(ConnectionError, ev.err)
			case eventPacket:
				logger.Logf(logger.Allow, "gdbserver", "ignoring packet while running: %s", ev.data)
			}
		default:
		}

		err := c.sess.WaitForStop(c.poll)
		if err == nil {
			return stopTrapped, nil
		}
		if !curated.Is(err, debugwire.WaitTimeout) {
			return "", err
		}
	}
}

// the context used to resume the target
func (c *client) context() target.Context {
	if c.hwbp {
		return target.RunToHWBreakpoint
	}
	return target.Run
}
