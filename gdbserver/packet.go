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
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// bytes with special meaning in the protocol
const (
	packetStart = '$'
	packetEnd   = '#'
	escape      = '}'
	runLength   = '*'
	ack         = '+'
	nack        = '-'
	interrupt   = 0x03
)

type eventKind int

const (
	eventPacket eventKind = iota
	eventInterrupt
	eventNack
	eventBadChecksum
	eventClosed
)

// event is something read from the connection
type event struct {
	kind eventKind
	data []byte
	err  error
}

// reads events from the connection until it is closed or until done is
// closed. the events channel is closed on return
func readEvents(r io.Reader, events chan<- event, done <-chan struct{}) {
	defer close(events)

	send := func(ev event) bool {
		select {
		case events <- ev:
			return true
		case <-done:
			return false
		}
	}

	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			send(event{kind: eventClosed, err: err})
			return
		}

		var ev event

		switch b {
		case interrupt:
			ev.kind = eventInterrupt
		case nack:
			ev.kind = eventNack
		case packetStart:
			ev, err = readPacket(br)
			if err != nil {
				send(event{kind: eventClosed, err: err})
				return
			}
		default:
			// acks and noise between packets
			continue
		}

		if !send(ev) {
			return
		}
	}
}

// read the remainder of a packet once the start byte has been read
func readPacket(br *bufio.Reader) (event, error) {
	var raw []byte
	var sum uint8

	for {
		b, err := br.ReadByte()
		if err != nil {
			return event{}, err
		}
		if b == packetEnd {
			break
		}
		raw = append(raw, b)
		sum += b
	}

	var cs [2]byte
	if _, err := io.ReadFull(br, cs[:]); err != nil {
		return event{}, err
	}

	v, err := strconv.ParseUint(string(cs[:]), 16, 8)
	if err != nil || uint8(v) != sum {
		return event{kind: eventBadChecksum}, nil
	}

	return event{kind: eventPacket, data: unescapeData(raw)}, nil
}

func unescapeData(raw []byte) []byte {
	data := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == escape && i+1 < len(raw) {
			i++
			data = append(data, raw[i]^0x20)
			continue
		}
		data = append(data, raw[i])
	}
	return data
}

// frame the data as a packet. the checksum is of the escaped data
func framePacket(data []byte) []byte {
	frame := make([]byte, 0, len(data)+4)
	frame = append(frame, packetStart)

	var sum uint8
	for _, b := range data {
		switch b {
		case packetStart, packetEnd, escape, runLength:
			frame = append(frame, escape)
			sum += escape
			b ^= 0x20
		}
		frame = append(frame, b)
		sum += b
	}

	return append(frame, fmt.Sprintf("%c%02x", packetEnd, sum)...)
}
