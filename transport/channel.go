// This file is part of vsivideo.
//
// vsivideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// vsivideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with vsivideo.  If not, see <https://www.gnu.org/licenses/>.

package transport

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel error patterns returned by the transport package.
const (
	ErrAuthentication = "transport: authentication: %v"
	ErrMessageSize    = "transport: message size too large (%d bytes)"
	ErrEncode         = "transport: encode: %v"
	ErrDecode         = "transport: decode: %v"
	ErrClosed         = "transport: channel closed"
	ErrNetwork        = "transport: unsupported network: %s"
)

// Channel is an authenticated connection to a peer. Messages are delivered in
// the order they are sent.
//
// A Channel is not safe for concurrent use.
type Channel struct {
	f framer

	// ID is a random identifier for the session, useful for logging
	ID string

	closed bool
}

func newChannel(f framer) *Channel {
	return &Channel{
		f:  f,
		ID: uuid.NewString(),
	}
}

func (ch *Channel) String() string {
	return ch.ID
}

// RemoteAddr returns the address of the peer.
func (ch *Channel) RemoteAddr() string {
	return ch.f.remoteAddr()
}

// Send value to the peer. The value is encoded with msgpack.
func (ch *Channel) Send(v any) error {
	if ch.closed {
		return curated.Errorf(ErrClosed)
	}
	p, err := msgpack.Marshal(v)
	if err != nil {
		return curated.Errorf(ErrEncode, err)
	}
	return ch.SendBytes(p)
}

// Recv a value from the peer and decode it into v, which should be a pointer.
func (ch *Channel) Recv(v any) error {
	p, err := ch.RecvBytes()
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(p, v); err != nil {
		return curated.Errorf(ErrDecode, err)
	}
	return nil
}

// SendBytes sends a raw message to the peer.
func (ch *Channel) SendBytes(p []byte) error {
	if ch.closed {
		return curated.Errorf(ErrClosed)
	}
	return ch.f.writeFrame(p)
}

// RecvBytes receives a raw message from the peer. Returns io.EOF if the peer
// has closed the connection.
func (ch *Channel) RecvBytes() ([]byte, error) {
	if ch.closed {
		return nil, curated.Errorf(ErrClosed)
	}
	p, err := ch.f.readFrame()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
			return nil, io.EOF
		}
		return nil, err
	}
	return p, nil
}

// Close the channel. Calling Close() more than once is safe.
func (ch *Channel) Close() error {
	if ch.closed {
		return nil
	}
	ch.closed = true
	return ch.f.close()
}
