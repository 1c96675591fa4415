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
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jetsetilly/vsivideo/curated"
)

// MaxMessageSize is the largest message that will be accepted by a Channel.
const MaxMessageSize = 64 * 1024 * 1024

// framer implementations send and receive discrete messages.
type framer interface {
	writeFrame(p []byte) error
	readFrame() ([]byte, error)
	setDeadline(t time.Time) error
	remoteAddr() string
	close() error
}

// length prefixed messages over a stream connection
type streamFramer struct {
	conn net.Conn
	rd   *bufio.Reader
}

func newStreamFramer(conn net.Conn) *streamFramer {
	return &streamFramer{
		conn: conn,
		rd:   bufio.NewReader(conn),
	}
}

func (f *streamFramer) writeFrame(p []byte) error {
	if len(p) > MaxMessageSize {
		return curated.Errorf(ErrMessageSize, len(p))
	}

	// header and payload are written with a single call so that a small
	// message isn't split into two packets
	b := make([]byte, 4+len(p))
	binary.BigEndian.PutUint32(b, uint32(len(p)))
	copy(b[4:], p)

	_, err := f.conn.Write(b)
	return err
}

func (f *streamFramer) readFrame() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(f.rd, hdr[:]); err != nil {
		return nil, err
	}

	l := binary.BigEndian.Uint32(hdr[:])
	if l > MaxMessageSize {
		return nil, curated.Errorf(ErrMessageSize, l)
	}

	p := make([]byte, l)
	if _, err := io.ReadFull(f.rd, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *streamFramer) setDeadline(t time.Time) error {
	return f.conn.SetDeadline(t)
}

func (f *streamFramer) remoteAddr() string {
	return f.conn.RemoteAddr().String()
}

func (f *streamFramer) close() error {
	return f.conn.Close()
}

// one binary websocket message per frame
type websocketFramer struct {
	conn *websocket.Conn
}

func newWebsocketFramer(conn *websocket.Conn) *websocketFramer {
	conn.SetReadLimit(MaxMessageSize)
	return &websocketFramer{conn: conn}
}

func (f *websocketFramer) writeFrame(p []byte) error {
	if len(p) > MaxMessageSize {
		return curated.Errorf(ErrMessageSize, len(p))
	}
	return f.conn.WriteMessage(websocket.BinaryMessage, p)
}

func (f *websocketFramer) readFrame() ([]byte, error) {
	for {
		mt, p, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if mt == websocket.BinaryMessage {
			return p, nil
		}
	}
}

func (f *websocketFramer) setDeadline(t time.Time) error {
	if err := f.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return f.conn.SetWriteDeadline(t)
}

func (f *websocketFramer) remoteAddr() string {
	return f.conn.RemoteAddr().String()
}

func (f *websocketFramer) close() error {
	_ = f.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return f.conn.Close()
}
