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
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/logger"
)

// Network names the underlying connection type of a Channel.
type Network string

// List of valid Network values.
const (
	NetworkTCP       Network = "tcp"
	NetworkWebsocket Network = "ws"
)

// ParseNetwork returns the Network for the name. The name is not case
// sensitive.
func ParseNetwork(name string) (Network, error) {
	switch Network(strings.ToLower(name)) {
	case NetworkTCP:
		return NetworkTCP, nil
	case NetworkWebsocket:
		return NetworkWebsocket, nil
	}
	return "", curated.Errorf(ErrNetwork, name)
}

// the HTTP path used for websocket connections
const websocketPath = "/vsi"

// Listener waits for connections from a peer.
type Listener interface {
	// Accept waits for and returns the next authenticated connection.
	// Connections that fail authentication are closed and logged and do not
	// cause Accept() to return.
	Accept() (*Channel, error)

	// Close stops listening. Any blocked Accept() will return with an error.
	Close() error

	// Addr returns the address being listened on.
	Addr() string
}

// Listen for connections on the address. Peers must authenticate with the
// same key.
func Listen(network Network, address string, authkey string) (Listener, error) {
	switch network {
	case NetworkTCP:
		l, err := net.Listen("tcp", address)
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		return &tcpListener{l: l, key: []byte(authkey)}, nil

	case NetworkWebsocket:
		return newWebsocketListener(address, []byte(authkey))
	}
	return nil, curated.Errorf(ErrNetwork, network)
}

// Dial a listening peer and authenticate with the key. The context is used
// for the connection attempt only.
func Dial(ctx context.Context, network Network, address string, authkey string) (*Channel, error) {
	var f framer

	switch network {
	case NetworkTCP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", address)
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		f = newStreamFramer(conn)

	case NetworkWebsocket:
		url := fmt.Sprintf("ws://%s%s", address, websocketPath)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		f = newWebsocketFramer(conn)

	default:
		return nil, curated.Errorf(ErrNetwork, network)
	}

	if err := authenticateClient(f, []byte(authkey)); err != nil {
		f.close()
		return nil, err
	}

	return newChannel(f), nil
}

type tcpListener struct {
	l   net.Listener
	key []byte
}

func (tl *tcpListener) Accept() (*Channel, error) {
	for {
		conn, err := tl.l.Accept()
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}

		f := newStreamFramer(conn)
		if err := authenticateServer(f, tl.key); err != nil {
			logger.Logf(logger.Allow, "transport", "%s: %v", f.remoteAddr(), err)
			f.close()
			continue
		}

		return newChannel(f), nil
	}
}

func (tl *tcpListener) Close() error {
	return tl.l.Close()
}

func (tl *tcpListener) Addr() string {
	return tl.l.Addr().String()
}

type websocketListener struct {
	l        net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader
	key      []byte

	accepted chan *Channel
	done     chan struct{}
	once     sync.Once
}

func newWebsocketListener(address string, key []byte) (*websocketListener, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}

	wl := &websocketListener{
		l:   l,
		key: key,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		accepted: make(chan *Channel),
		done:     make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(websocketPath, wl.handle)
	wl.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: authTimeout,
	}

	go func() {
		err := wl.srv.Serve(l)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log(logger.Allow, "transport", err)
		}
	}()

	return wl, nil
}

func (wl *websocketListener) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := wl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logf(logger.Allow, "transport", "%s: %v", r.RemoteAddr, err)
		return
	}

	f := newWebsocketFramer(conn)
	if err := authenticateServer(f, wl.key); err != nil {
		logger.Logf(logger.Allow, "transport", "%s: %v", f.remoteAddr(), err)
		f.close()
		return
	}

	select {
	case wl.accepted <- newChannel(f):
	case <-wl.done:
		f.close()
	}
}

func (wl *websocketListener) Accept() (*Channel, error) {
	select {
	case ch := <-wl.accepted:
		return ch, nil
	case <-wl.done:
		return nil, fmt.Errorf("transport: %w", net.ErrClosed)
	}
}

func (wl *websocketListener) Close() error {
	var err error
	wl.once.Do(func() {
		close(wl.done)

		// hijacked websocket connections are not affected by shutting down
		// the HTTP server
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = wl.srv.Shutdown(ctx)
	})
	return err
}

func (wl *websocketListener) Addr() string {
	return wl.l.Addr().String()
}
