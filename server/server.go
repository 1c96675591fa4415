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

// Package server answers the requests of a single client with a
// backend.Backend. Requests are handled one at a time in the order they
// arrive.
package server

import (
	"errors"
	"io"

	"github.com/jetsetilly/vsivideo/backend"
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/transport"
)

// Stats about the requests handled by the server.
type Stats struct {
	Requests    int
	FramesRead  int
	FramesWrite int
}

// Server of video requests.
type Server struct {
	l       transport.Listener
	backend *backend.Backend

	// Stats is updated as requests are handled. It is not safe to read while
	// Serve() is running
	Stats Stats
}

// NewServer is the preferred method of initialisation for the Server type.
// The server takes ownership of the listener.
func NewServer(l transport.Listener, b *backend.Backend) *Server {
	return &Server{
		l:       l,
		backend: b,
	}
}

func (srv *Server) log(detail string, args ...any) {
	logger.Logf(logger.Allow, "server", detail, args...)
}

// Serve accepts a single connection and handles requests until the client
// sends CloseServer or the connection is lost. The listener is closed and the
// backend is released before returning.
//
// A nil error is returned if the client closed the server or disconnected.
func (srv *Server) Serve() error {
	defer srv.backend.Close()
	defer srv.l.Close()

	srv.log("listening on %s", srv.l.Addr())

	ch, err := srv.l.Accept()
	if err != nil {
		return err
	}
	defer ch.Close()

	// no more connections are accepted
	srv.l.Close()

	srv.log("connection from %s [%s]", ch.RemoteAddr(), ch)

	for {
		done, err := srv.handle(ch)
		if err != nil {
			if errors.Is(err, io.EOF) {
				srv.log("client disconnected")
				return nil
			}
			if curated.Has(err, protocol.ErrMalformed) ||
				curated.Has(err, protocol.ErrUnknownOpcode) ||
				curated.Has(err, protocol.ErrArguments) {
				srv.log("%v: closing connection", err)
				return nil
			}
			return err
		}
		if done {
			srv.log("closed by client")
			return nil
		}
	}
}

// handle a single request. returns true if the client has asked for the server
// to close
func (srv *Server) handle(ch *transport.Channel) (bool, error) {
	p, err := ch.RecvBytes()
	if err != nil {
		return false, err
	}

	r, err := protocol.DecodeRequest(p)
	if err != nil {
		return false, err
	}

	srv.Stats.Requests++

	switch r.Opcode {
	case protocol.SetFilename:
		return false, sendBool(ch, srv.backend.SetFilename(r.BaseDir, r.Filename, r.Mode))

	case protocol.StreamConfigure:
		return false, sendBool(ch, srv.backend.ConfigureStream(r.Width, r.Height, r.Format, r.Rate))

	case protocol.StreamEnable:
		return false, sendBool(ch, srv.backend.EnableStream(r.Mode))

	case protocol.StreamDisable:
		return false, sendBool(ch, srv.backend.DisableStream())

	case protocol.FrameRead:
		data, eos := srv.backend.ReadFrame()
		if len(data) > 0 {
			srv.Stats.FramesRead++
		}
		if err := ch.SendBytes(data); err != nil {
			return false, err
		}
		return false, sendBool(ch, eos)

	case protocol.FrameWrite:
		data, err := ch.RecvBytes()
		if err != nil {
			return false, err
		}
		srv.Stats.FramesWrite++
		srv.backend.WriteFrame(data)
		return false, nil

	case protocol.CloseServer:
		return true, nil
	}

	return false, curated.Errorf(protocol.ErrUnknownOpcode, int(r.Opcode))
}

func sendBool(ch *transport.Channel, v bool) error {
	p, err := protocol.EncodeBool(v)
	if err != nil {
		return err
	}
	return ch.SendBytes(p)
}
