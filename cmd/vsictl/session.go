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

package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jetsetilly/vsivideo/client"
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/driver/videodrv"
	"github.com/jetsetilly/vsivideo/hardware/armvsi"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/performance/limiter"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/transport"
)

// origin of the frame buffer memory in the address space of the firmware
const bufferOrigin = 0x20000000

// number of timer ticks without a frame before an input stream is abandoned
const maxIdleTicks = 10

// how long to wait for the backend to accept a connection
const connectTimeout = 5 * time.Second

// stream parameters shared by all modes
type streamConfig struct {
	width   uint32
	height  uint32
	format  protocol.ColorFormat
	rate    uint32
	buffers uint32

	// pace the timer with the wall clock
	realtime bool
}

// connection parameters shared by all modes
type connConfig struct {
	network transport.Network
	address string
	authKey string

	// path to a vsiserver executable started before connecting
	spawn string
}

func (cc connConfig) clientConfig() (client.Config, error) {
	cfg := client.Config{
		Network:    cc.network,
		Address:    cc.address,
		AuthKey:    cc.authKey,
		ServerPath: cc.spawn,
	}

	if cc.spawn != "" {
		host, port, err := net.SplitHostPort(cc.address)
		if err != nil {
			return client.Config{}, err
		}
		cfg.ServerArgs = []string{
			"-ip", host,
			"-port", port,
			"-authkey", cc.authKey,
			"-transport", string(cc.network),
		}
	}

	return cfg, nil
}

// parseFormat returns the color format with the name. the comparison is not
// case sensitive
func parseFormat(name string) (protocol.ColorFormat, error) {
	for f := protocol.Grayscale8; f.Valid(); f++ {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown color format: %s", name)
}

// formatNames lists the names accepted by parseFormat()
func formatNames() []string {
	var s []string
	for f := protocol.Grayscale8; f.Valid(); f++ {
		s = append(s, f.String())
	}
	return s
}

// session is a single configured channel of the video peripheral, backed by a
// client connection and driven by the video driver.
type session struct {
	cl  *client.Client
	dev *vsi.Device
	mem *armvsi.Memory
	blk *armvsi.Block
	drv *videodrv.Driver
	ch  videodrv.Channel
	cfg streamConfig

	// events raised since the last tick
	events videodrv.Event

	// paces ticks when the realtime option is set
	lim *limiter.Limiter
}

// newSession connects to the backend and prepares the channel. If filename is
// empty the backend uses the camera (input) or the preview window (output).
//
// The backend is left unconnected if cl is nil. This is only useful for
// inspecting the register file.
func newSession(ctx context.Context, cl *client.Client, ch videodrv.Channel, filename string, cfg streamConfig) (*session, error) {
	if cfg.buffers == 0 {
		return nil, curated.Errorf(videodrv.ErrParameter, "no buffers")
	}

	s := &session{
		cl:  cl,
		ch:  ch,
		cfg: cfg,
	}

	if cl != nil {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := cl.Connect(ctx); err != nil {
			return nil, err
		}
		s.dev = vsi.NewDevice(cl)
	} else {
		s.dev = vsi.NewDevice(nil)
	}

	blockSize := videodrv.BlockSize(cfg.width, cfg.height, cfg.format)
	s.mem = armvsi.NewMemory(bufferOrigin, int(blockSize*cfg.buffers))
	s.blk = armvsi.NewBlock(s.dev, s.mem)

	// the driver takes blocks in channel order
	blocks := make([]*armvsi.Block, int(ch)+1)
	blocks[ch] = s.blk
	s.drv = videodrv.NewDriver(blocks...)

	if err := s.drv.Initialize(s.event); err != nil {
		return nil, err
	}

	if filename != "" {
		if err := s.drv.SetFile(ch, filename); err != nil {
			return nil, err
		}
	}

	if err := s.drv.Configure(ch, cfg.width, cfg.height, cfg.format, cfg.rate); err != nil {
		return nil, err
	}

	if err := s.drv.SetBuf(ch, bufferOrigin, uint32(s.mem.Size())); err != nil {
		return nil, err
	}

	if cfg.realtime {
		s.lim = limiter.NewLimiter(float64(cfg.rate))
	}

	logger.Logf(logger.Allow, "vsictl", "%s: %dx%d %s at %d fps (%d buffers of %d bytes)",
		ch, cfg.width, cfg.height, cfg.format, cfg.rate, cfg.buffers, blockSize)

	return s, nil
}

func (s *session) event(ch videodrv.Channel, ev videodrv.Event) {
	if ch != s.ch {
		return
	}
	s.events |= ev
	if ev&videodrv.EventOverflow == videodrv.EventOverflow {
		logger.Logf(logger.Allow, "vsictl", "%s: buffer overflow", ch)
	}
	if ev&videodrv.EventUnderflow == videodrv.EventUnderflow {
		logger.Logf(logger.Allow, "vsictl", "%s: buffer underflow", ch)
	}
}

// tick advances the timer of the channel by a single frame period and
// returns the events raised by the peripheral.
func (s *session) tick() (videodrv.Event, error) {
	if s.cl != nil && !s.cl.Connected() {
		return 0, curated.Errorf(client.ErrNotConnected)
	}

	if s.lim != nil {
		s.lim.Wait()
	}
	interval := s.blk.Read(armvsi.TimerInterval)

	s.events = 0
	s.blk.Advance(interval)
	return s.events, nil
}

// close stops the stream and releases the driver. The backend is asked to
// terminate.
func (s *session) close() error {
	s.drv.StreamStop(s.ch)
	s.drv.Uninitialize()
	if s.cl != nil {
		return s.cl.Close()
	}
	return nil
}
