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

package client

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/transport"
)

// Sentinel error patterns returned by the client package.
const (
	ErrNotConnected = "client: not connected"
	ErrConnect      = "client: connect: %v"
	ErrCall         = "client: %v: %v"
	ErrSpawn        = "client: spawn server: %v"
)

// Connection retry parameters. The client makes ConnectAttempts attempts to
// connect, waiting ConnectBackoff between each attempt.
const (
	ConnectAttempts = 50
	ConnectBackoff  = 10 * time.Millisecond
)

// how long to wait for a spawned server to exit after it has been asked to
// close
const serverExitTimeout = time.Second

// State of the connection.
type State int

// List of valid State values.
const (
	Disconnected State = iota
	Connecting
	Connected
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Config for a new client.
type Config struct {
	Network transport.Network
	Address string
	AuthKey string

	// the base directory sent with every SetFilename request. the working
	// directory of the process is used if the field is empty
	BaseDir string

	// if ServerPath is not empty the executable is started with ServerArgs
	// before connecting
	ServerPath string
	ServerArgs []string
}

// Client of the video backend. It is not safe for concurrent use.
type Client struct {
	cfg     Config
	baseDir string

	state State
	ch    *transport.Channel

	// the running backend process if one was spawned
	server     *exec.Cmd
	serverDone chan error
}

// the client is the usual implementation of the vsi.Backend interface
var _ vsi.Backend = (*Client)(nil)

// NewClient is the preferred method of initialisation for the Client type.
// The client is Disconnected until Connect() is called.
func NewClient(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		baseDir: cfg.BaseDir,
	}

	if c.cfg.Network == "" {
		c.cfg.Network = transport.NetworkTCP
	}

	if c.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.baseDir = wd
		}
	}

	return c
}

func (c *Client) String() string {
	if c.ch == nil {
		return fmt.Sprintf("%s %s", c.cfg.Address, c.state)
	}
	return fmt.Sprintf("%s %s [%s]", c.cfg.Address, c.state, c.ch)
}

// State returns the current connection state.
func (c *Client) State() State {
	return c.state
}

// Connected implements the vsi.Backend interface.
func (c *Client) Connected() bool {
	return c.state == Connected
}

// Connect to the backend, starting it first if the configuration says to.
// Connection is attempted ConnectAttempts times before giving up, at which
// point the client is Disconnected.
//
// Connecting a client that is already connected does nothing. A closed client
// can not be reconnected.
func (c *Client) Connect(ctx context.Context) error {
	switch c.state {
	case Connected:
		return nil
	case Closed:
		return curated.Errorf(ErrConnect, "client is closed")
	}

	if c.cfg.ServerPath != "" && c.server == nil {
		if err := c.spawn(); err != nil {
			return err
		}
	}

	c.state = Connecting

	var err error
	for attempt := 1; attempt <= ConnectAttempts; attempt++ {
		var ch *transport.Channel
		ch, err = transport.Dial(ctx, c.cfg.Network, c.cfg.Address, c.cfg.AuthKey)
		if err == nil {
			c.ch = ch
			c.state = Connected
			logger.Logf(logger.Allow, "client", "connected to %s (attempt %d) [%s]", c.cfg.Address, attempt, ch)
			return nil
		}

		// authentication failures will not succeed on a retry
		if curated.Is(err, transport.ErrAuthentication) {
			break
		}

		select {
		case <-ctx.Done():
			c.state = Disconnected
			return curated.Errorf(ErrConnect, ctx.Err())
		case <-time.After(ConnectBackoff):
		}
	}

	c.state = Disconnected
	return curated.Errorf(ErrConnect, err)
}

func (c *Client) spawn() error {
	c.server = exec.Command(c.cfg.ServerPath, c.cfg.ServerArgs...)
	c.server.Stdout = os.Stdout
	c.server.Stderr = os.Stderr

	if err := c.server.Start(); err != nil {
		c.server = nil
		return curated.Errorf(ErrSpawn, err)
	}

	// the server is reaped in the background so that Close() can wait with a
	// timeout
	c.serverDone = make(chan error, 1)
	go func(cmd *exec.Cmd, done chan error) {
		done <- cmd.Wait()
	}(c.server, c.serverDone)

	logger.Logf(logger.Allow, "client", "started %s (pid %d)", c.cfg.ServerPath, c.server.Process.Pid)

	return nil
}

// drop the connection after an I/O error. the client can reconnect with
// Connect()
func (c *Client) drop(op protocol.Opcode, err error) error {
	logger.Logf(logger.Allow, "client", "%s: %v", op, err)
	if c.ch != nil {
		c.ch.Close()
		c.ch = nil
	}
	c.state = Disconnected
	return curated.Errorf(ErrCall, op, err)
}

func (c *Client) send(r protocol.Request) error {
	if c.state != Connected {
		return curated.Errorf(ErrNotConnected)
	}

	p, err := protocol.EncodeRequest(r)
	if err != nil {
		return curated.Errorf(ErrCall, r.Opcode, err)
	}

	if err := c.ch.SendBytes(p); err != nil {
		return c.drop(r.Opcode, err)
	}

	return nil
}

func (c *Client) recvBool(op protocol.Opcode) (bool, error) {
	p, err := c.ch.RecvBytes()
	if err != nil {
		return false, c.drop(op, err)
	}

	v, err := protocol.DecodeBool(p)
	if err != nil {
		return false, c.drop(op, err)
	}

	return v, nil
}

// call sends a request and waits for the boolean response.
func (c *Client) call(r protocol.Request) (bool, error) {
	if err := c.send(r); err != nil {
		return false, err
	}
	return c.recvBool(r.Opcode)
}

// SetFilename implements the vsi.Backend interface. The name is resolved by
// the backend relative to the base directory of the client.
func (c *Client) SetFilename(name string, mode protocol.Mode) (bool, error) {
	return c.call(protocol.Request{
		Opcode:   protocol.SetFilename,
		BaseDir:  c.baseDir,
		Filename: name,
		Mode:     mode,
	})
}

// ConfigureStream implements the vsi.Backend interface.
func (c *Client) ConfigureStream(width, height uint32, format protocol.ColorFormat, rate uint32) (bool, error) {
	return c.call(protocol.Request{
		Opcode: protocol.StreamConfigure,
		Width:  width,
		Height: height,
		Format: format,
		Rate:   rate,
	})
}

// EnableStream implements the vsi.Backend interface. Returns true if the
// stream is active.
func (c *Client) EnableStream(mode protocol.Mode) (bool, error) {
	return c.call(protocol.Request{
		Opcode: protocol.StreamEnable,
		Mode:   mode,
	})
}

// DisableStream implements the vsi.Backend interface. Returns true if the
// stream is still active.
func (c *Client) DisableStream() (bool, error) {
	return c.call(protocol.Request{
		Opcode: protocol.StreamDisable,
	})
}

// ReadFrame implements the vsi.Backend interface. Returns the frame data and
// the end-of-stream flag.
func (c *Client) ReadFrame() ([]byte, bool, error) {
	if err := c.send(protocol.Request{Opcode: protocol.FrameRead}); err != nil {
		return nil, false, err
	}

	data, err := c.ch.RecvBytes()
	if err != nil {
		return nil, false, c.drop(protocol.FrameRead, err)
	}

	eos, err := c.recvBool(protocol.FrameRead)
	if err != nil {
		return nil, false, err
	}

	return data, eos, nil
}

// WriteFrame implements the vsi.Backend interface.
func (c *Client) WriteFrame(data []byte) error {
	if err := c.send(protocol.Request{Opcode: protocol.FrameWrite}); err != nil {
		return err
	}
	if err := c.ch.SendBytes(data); err != nil {
		return c.drop(protocol.FrameWrite, err)
	}
	return nil
}

// CloseServer asks the backend to terminate and closes the connection. The
// client can not be used after this call.
func (c *Client) CloseServer() error {
	if err := c.send(protocol.Request{Opcode: protocol.CloseServer}); err != nil {
		return err
	}
	c.ch.Close()
	c.ch = nil
	c.state = Closed
	return nil
}

// Close the client. If the client is connected the backend is asked to
// terminate. A spawned backend process that does not exit by itself is
// killed.
func (c *Client) Close() error {
	var err error
	if c.state == Connected {
		err = c.CloseServer()
	}
	if c.ch != nil {
		c.ch.Close()
		c.ch = nil
	}
	c.state = Closed

	if c.server != nil {
		select {
		case <-c.serverDone:
		case <-time.After(serverExitTimeout):
			logger.Logf(logger.Allow, "client", "killing %s", c.cfg.ServerPath)
			c.server.Process.Kill()
			<-c.serverDone
		}
		c.server = nil
	}

	return err
}
