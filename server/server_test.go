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

package server_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/vsivideo/backend"
	"github.com/jetsetilly/vsivideo/client"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/server"
	"github.com/jetsetilly/vsivideo/test"
	"github.com/jetsetilly/vsivideo/transport"
)

const authkey = "vsi_video"

type running struct {
	srv  *server.Server
	done chan error
	addr string
}

func startServer(t *testing.T, fac backend.Factory) *running {
	t.Helper()

	l, err := transport.Listen(transport.NetworkTCP, "127.0.0.1:0", authkey)
	test.DemandSuccess(t, err)

	r := &running{
		srv:  server.NewServer(l, backend.NewBackend(fac)),
		done: make(chan error, 1),
		addr: l.Addr(),
	}

	go func() {
		r.done <- r.srv.Serve()
	}()

	return r
}

func (r *running) wait(t *testing.T) {
	t.Helper()
	select {
	case err := <-r.done:
		test.ExpectSuccess(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not finish")
	}
}

func connect(t *testing.T, r *running, baseDir string) *client.Client {
	t.Helper()
	c := client.NewClient(client.Config{
		Address: r.addr,
		AuthKey: authkey,
		BaseDir: baseDir,
	})
	test.DemandSuccess(t, c.Connect(context.Background()))
	return c
}

func setFilename(dev *vsi.Device, name string) {
	dev.WriteRegister(uint32(vsi.FILENAME_LEN), uint32(len(name)))
	for _, c := range []byte(name) {
		dev.WriteRegister(uint32(vsi.FILENAME_CHAR), uint32(c))
	}
}

func TestImageInput(t *testing.T) {
	dir := t.TempDir()
	img := media.NewFrame(64, 48)
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	test.DemandSuccess(t, media.SaveImage(filepath.Join(dir, "test.png"), img))

	r := startServer(t, backend.Factory{})
	c := connect(t, r, dir)
	dev := vsi.NewDevice(c)

	dev.WriteRegister(uint32(vsi.MODE), vsi.ModeInput)
	setFilename(dev, "test.png")
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 1)

	dev.WriteRegister(uint32(vsi.FRAME_WIDTH), 320)
	dev.WriteRegister(uint32(vsi.FRAME_HEIGHT), 240)
	dev.WriteRegister(uint32(vsi.COLOR_FORMAT), uint32(protocol.RGB888))
	dev.WriteRegister(uint32(vsi.FRAME_RATE), 30)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable|vsi.ControlContinuous)
	test.DemandEquality(t, dev.State(), vsi.Active)

	data := dev.DMARead(320 * 240 * 3)
	test.ExpectEquality(t, len(data), 320*240*3)
	test.ExpectEquality(t, data[0], 0x80)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FRAME_COUNT)), 1)
	test.ExpectEquality(t, dev.Snapshot().Registers[vsi.STATUS]&vsi.StatusEOS, vsi.StatusEOS)

	data = dev.DMARead(320 * 240 * 3)
	test.ExpectEquality(t, len(data), 0)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FRAME_COUNT)), 1)
	test.ExpectEquality(t, dev.Snapshot().Registers[vsi.STATUS]&vsi.StatusEOS, vsi.StatusEOS)

	dev.WriteRegister(uint32(vsi.CONTROL), 0)
	test.ExpectEquality(t, dev.State(), vsi.Disabled)

	test.ExpectSuccess(t, c.Close())
	r.wait(t)
	test.ExpectEquality(t, r.srv.Stats.FramesRead, 1)
}

func TestPreviewOutput(t *testing.T) {
	display := &media.NullDisplay{}
	fac := backend.Factory{
		OpenDisplay: func(width, height int) (media.Display, error) {
			return display, nil
		},
	}

	r := startServer(t, fac)
	c := connect(t, r, t.TempDir())
	dev := vsi.NewDevice(c)

	dev.WriteRegister(uint32(vsi.MODE), vsi.ModeOutput)
	dev.WriteRegister(uint32(vsi.FRAME_WIDTH), 8)
	dev.WriteRegister(uint32(vsi.FRAME_HEIGHT), 8)
	dev.WriteRegister(uint32(vsi.COLOR_FORMAT), uint32(protocol.RGB888))
	dev.WriteRegister(uint32(vsi.FRAME_RATE), 30)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 4)
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable|vsi.ControlContinuous)
	test.DemandEquality(t, dev.State(), vsi.Active)

	for range 4 {
		dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	}

	frame := make([]byte, 8*8*3)
	for i := range 4 {
		dev.DMAWrite(frame, uint32(len(frame)))
		test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.STATUS))&vsi.StatusUnderflow, 0, i)
	}

	dev.DMAWrite(frame, uint32(len(frame)))
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.STATUS))&vsi.StatusUnderflow, vsi.StatusUnderflow)

	// single frame mode stops the stream on the next timer overflow
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable)
	dev.OnTimerOverflow()
	test.ExpectEquality(t, dev.State(), vsi.Disabled)
	test.ExpectEquality(t, dev.ReadIRQStatus()&vsi.IRQUnderflow, 0)

	test.ExpectSuccess(t, c.Close())
	r.wait(t)
	test.ExpectEquality(t, display.Frames, 5)
	test.ExpectEquality(t, r.srv.Stats.FramesWrite, 5)
}

func TestRejectedFilename(t *testing.T) {
	r := startServer(t, backend.Factory{})
	c := connect(t, r, t.TempDir())
	dev := vsi.NewDevice(c)

	setFilename(dev, "missing.png")
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 0)

	setFilename(dev, "test.txt")
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 0)

	// the color format has not been set so the stream fails to start
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable)
	test.ExpectEquality(t, dev.State(), vsi.Configuring)

	test.ExpectSuccess(t, c.Close())
	r.wait(t)
}

func TestDisconnect(t *testing.T) {
	r := startServer(t, backend.Factory{})

	ch, err := transport.Dial(context.Background(), transport.NetworkTCP, r.addr, authkey)
	test.DemandSuccess(t, err)
	ch.Close()

	r.wait(t)
}

func TestMalformedRequest(t *testing.T) {
	r := startServer(t, backend.Factory{})

	ch, err := transport.Dial(context.Background(), transport.NetworkTCP, r.addr, authkey)
	test.DemandSuccess(t, err)
	defer ch.Close()

	test.DemandSuccess(t, ch.SendBytes([]byte{0xc1}))
	r.wait(t)

	_, err = ch.RecvBytes()
	test.ExpectFailure(t, err)
}
