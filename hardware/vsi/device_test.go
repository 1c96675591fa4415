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

package vsi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/test"
)

// mockBackend records calls and returns preset results
type mockBackend struct {
	connected bool

	filenames []string
	filenameOK bool

	configureOK bool
	enableOK    bool
	configured  int
	enabled     int
	disabled    int

	frame   []byte
	eos     bool
	readErr error
	reads   int

	written [][]byte
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		connected:   true,
		filenameOK:  true,
		configureOK: true,
		enableOK:    true,
		frame:       []byte{1, 2, 3, 4},
	}
}

func (m *mockBackend) Connected() bool {
	return m.connected
}

func (m *mockBackend) SetFilename(name string, mode protocol.Mode) (bool, error) {
	m.filenames = append(m.filenames, name)
	return m.filenameOK, nil
}

func (m *mockBackend) ConfigureStream(width, height uint32, format protocol.ColorFormat, rate uint32) (bool, error) {
	m.configured++
	return m.configureOK, nil
}

func (m *mockBackend) EnableStream(mode protocol.Mode) (bool, error) {
	m.enabled++
	return m.enableOK, nil
}

func (m *mockBackend) DisableStream() (bool, error) {
	m.disabled++
	return false, nil
}

func (m *mockBackend) ReadFrame() ([]byte, bool, error) {
	m.reads++
	return m.frame, m.eos, m.readErr
}

func (m *mockBackend) WriteFrame(data []byte) error {
	m.written = append(m.written, data)
	return nil
}

func status(dev *vsi.Device) uint32 {
	return dev.Snapshot().Registers[vsi.STATUS]
}

func register(dev *vsi.Device, reg vsi.Register) uint32 {
	return dev.Snapshot().Registers[reg]
}

func enable(t *testing.T, dev *vsi.Device, control uint32) {
	t.Helper()
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable|control)
	test.DemandEquality(t, dev.State(), vsi.Active)
}

func TestPowerOn(t *testing.T) {
	dev := vsi.NewDevice(nil)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FRAME_WIDTH)), 300)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FRAME_HEIGHT)), 300)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.STATUS)), 0)
	test.ExpectEquality(t, dev.State(), vsi.Disabled)
}

func TestUndefinedRegisters(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)

	for _, idx := range []uint32{13, 63, 0xffffffff} {
		test.ExpectEquality(t, dev.WriteRegister(idx, 0x1234), 0)
		test.ExpectEquality(t, dev.ReadRegister(idx), 0)
	}
	test.ExpectEquality(t, len(m.filenames), 0)
	test.ExpectEquality(t, m.configured, 0)
}

func TestReadOnlyRegisters(t *testing.T) {
	dev := vsi.NewDevice(newMockBackend())
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 4)

	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.STATUS), 0xff), vsi.StatusBufEmpty)
	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FILENAME_VALID), 1), 0)
	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FRAME_COUNT), 3), 0)

	// zero sizes are ignored
	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FRAME_WIDTH), 0), 300)
	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FRAME_WIDTH), 320), 320)
	test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FRAME_HEIGHT), 0), 300)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FRAME_WIDTH)), 320)
}

func TestStatusReadClear(t *testing.T) {
	m := newMockBackend()
	m.eos = true
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 1)
	enable(t, dev, vsi.ControlContinuous)

	// second read overflows
	dev.DMARead(16)
	dev.DMARead(16)

	s := dev.ReadRegister(uint32(vsi.STATUS))
	test.ExpectEquality(t, s, vsi.StatusActive|vsi.StatusBufFull|vsi.StatusOverflow|vsi.StatusEOS)

	// transient bits have been cleared but level bits remain
	s = dev.ReadRegister(uint32(vsi.STATUS))
	test.ExpectEquality(t, s, vsi.StatusActive|vsi.StatusBufFull)
	s = dev.ReadRegister(uint32(vsi.STATUS))
	test.ExpectEquality(t, s, vsi.StatusActive|vsi.StatusBufFull)
}

func TestNoBackend(t *testing.T) {
	log := &strings.Builder{}
	logger.SetEcho(log)
	defer logger.SetEcho(nil)

	for _, dev := range []*vsi.Device{vsi.NewDevice(nil), vsi.NewDevice(&mockBackend{})} {
		log.Reset()

		dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable)
		test.ExpectEquality(t, status(dev)&vsi.StatusActive, 0)
		test.ExpectEquality(t, dev.State(), vsi.Configuring)

		dev.WriteRegister(uint32(vsi.CONTROL), 0)
		test.ExpectEquality(t, status(dev)&vsi.StatusActive, 0)
		test.ExpectEquality(t, dev.State(), vsi.Disabled)

		test.ExpectSuccess(t, strings.Contains(log.String(), "server not connected"))

		// transfers are no-ops
		test.ExpectEquality(t, len(dev.DMARead(16)), 0)
		dev.DMAWrite([]byte{1, 2, 3, 4}, 4)
		test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	}
}

func TestEnableDisable(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)

	dev.WriteRegister(uint32(vsi.FRAME_WIDTH), 320)
	dev.WriteRegister(uint32(vsi.FRAME_HEIGHT), 240)
	dev.WriteRegister(uint32(vsi.COLOR_FORMAT), uint32(protocol.RGB888))
	dev.WriteRegister(uint32(vsi.FRAME_RATE), 30)

	enable(t, dev, 0)
	test.ExpectEquality(t, m.configured, 1)
	test.ExpectEquality(t, m.enabled, 1)

	// writing the same enable value is not an edge
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable|vsi.ControlContinuous)
	test.ExpectEquality(t, m.configured, 1)

	dev.WriteRegister(uint32(vsi.CONTROL), 0)
	test.ExpectEquality(t, m.disabled, 1)
	test.ExpectEquality(t, dev.State(), vsi.Disabled)

	// configuration failure leaves the stream inactive
	m.configureOK = false
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable)
	test.ExpectEquality(t, dev.State(), vsi.Configuring)
	test.ExpectEquality(t, m.enabled, 1)
	dev.WriteRegister(uint32(vsi.CONTROL), 0)

	// as does enable failure
	m.configureOK = true
	m.enableOK = false
	dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable)
	test.ExpectEquality(t, dev.State(), vsi.Configuring)
	test.ExpectEquality(t, m.enabled, 2)
}

func TestFilename(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)

	dev.WriteRegister(uint32(vsi.FILENAME_LEN), 5)
	for _, c := range "a.png" {
		test.ExpectEquality(t, len(m.filenames), 0)
		dev.WriteRegister(uint32(vsi.FILENAME_CHAR), uint32(c))
	}
	test.DemandEquality(t, len(m.filenames), 1)
	test.ExpectEquality(t, m.filenames[0], "a.png")
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 1)

	// extra characters are ignored
	dev.WriteRegister(uint32(vsi.FILENAME_CHAR), 'x')
	test.ExpectEquality(t, len(m.filenames), 1)

	// characters are not kept in the register
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_CHAR)), 0)

	// a new length resets the valid flag
	m.filenameOK = false
	dev.WriteRegister(uint32(vsi.FILENAME_LEN), 3)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 0)
	for _, c := range "b.x" {
		dev.WriteRegister(uint32(vsi.FILENAME_CHAR), uint32(c))
	}
	test.DemandEquality(t, len(m.filenames), 2)
	test.ExpectEquality(t, m.filenames[1], "b.x")
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.FILENAME_VALID)), 0)
}

func TestFlush(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)
	enable(t, dev, vsi.ControlContinuous)
	dev.DMARead(4)
	dev.DMARead(4)
	dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 1)
	test.ExpectEquality(t, register(dev, vsi.FRAME_INDEX), 1)

	// writing FRAME_COUNT_MAX flushes the buffer
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 8)
	test.ExpectEquality(t, register(dev, vsi.FRAME_INDEX), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	test.ExpectEquality(t, status(dev)&(vsi.StatusBufEmpty|vsi.StatusBufFull), vsi.StatusBufEmpty)

	// the flush bit of CONTROL also flushes but isn't stored
	dev.DMARead(4)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 1)
	v := dev.WriteRegister(uint32(vsi.CONTROL), vsi.ControlEnable|vsi.ControlContinuous|vsi.ControlBufFlush)
	test.ExpectEquality(t, v, vsi.ControlEnable|vsi.ControlContinuous)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.CONTROL)), vsi.ControlEnable|vsi.ControlContinuous)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	test.ExpectEquality(t, status(dev)&vsi.StatusBufEmpty, vsi.StatusBufEmpty)
	test.ExpectEquality(t, dev.State(), vsi.Active)
}

func TestInputRing(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.MODE), vsi.ModeInput)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 3)
	enable(t, dev, vsi.ControlContinuous)

	for i := range 3 {
		test.ExpectEquality(t, string(dev.DMARead(4)), string(m.frame))
		test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), uint32(i+1))
		test.ExpectEquality(t, status(dev)&vsi.StatusBufEmpty, 0)
	}
	test.ExpectEquality(t, status(dev)&vsi.StatusBufFull, vsi.StatusBufFull)

	// the firmware consumes frames and the index wraps around the ring
	for i, idx := range []uint32{1, 2, 0} {
		test.ExpectEquality(t, dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0), idx)
		test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), uint32(2-i))
		test.ExpectEquality(t, status(dev)&vsi.StatusBufFull, 0)
	}
	test.ExpectEquality(t, status(dev)&vsi.StatusBufEmpty, vsi.StatusBufEmpty)

	// releasing from an empty buffer doesn't underflow the count
	dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
}

func TestOverflow(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)
	enable(t, dev, vsi.ControlContinuous)

	dev.DMARead(4)
	dev.DMARead(4)
	test.ExpectEquality(t, status(dev)&vsi.StatusOverflow, 0)

	dev.DMARead(4)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 2)
	test.ExpectEquality(t, status(dev)&vsi.StatusOverflow, vsi.StatusOverflow)

	// a read clears the flag and it stays clear until the next overflow
	dev.ReadRegister(uint32(vsi.STATUS))
	test.ExpectEquality(t, status(dev)&vsi.StatusOverflow, 0)
	dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	dev.DMARead(4)
	test.ExpectEquality(t, status(dev)&vsi.StatusOverflow, 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 2)
}

func TestOutputUnderflow(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.MODE), vsi.ModeOutput)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 4)
	enable(t, dev, vsi.ControlContinuous)

	// the firmware fills the buffer
	for range 4 {
		dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	}
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 4)
	test.ExpectEquality(t, status(dev)&vsi.StatusBufFull, vsi.StatusBufFull)

	// producing into a full buffer doesn't move the count
	dev.WriteRegister(uint32(vsi.FRAME_INDEX), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 4)

	for i := range 4 {
		dev.DMAWrite([]byte{byte(i), 0, 0, 0}, 4)
		test.ExpectEquality(t, status(dev)&vsi.StatusUnderflow, 0)
		test.ExpectEquality(t, status(dev)&vsi.StatusBufFull, 0)
	}
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	test.ExpectEquality(t, status(dev)&vsi.StatusBufEmpty, vsi.StatusBufEmpty)

	dev.DMAWrite([]byte{4, 0, 0, 0}, 4)
	test.ExpectEquality(t, status(dev)&vsi.StatusUnderflow, vsi.StatusUnderflow)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	test.ExpectEquality(t, len(m.written), 5)
}

func TestDMAWriteTruncates(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.MODE), vsi.ModeOutput)
	enable(t, dev, vsi.ControlContinuous)

	dev.DMAWrite([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 4)
	test.DemandEquality(t, len(m.written), 1)
	test.ExpectEquality(t, len(m.written[0]), 4)
}

func TestReadFrameError(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)
	enable(t, dev, vsi.ControlContinuous)

	m.readErr = errors.New("connection reset")
	test.ExpectEquality(t, len(dev.DMARead(4)), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 0)
	test.ExpectEquality(t, status(dev)&vsi.StatusBufEmpty, vsi.StatusBufEmpty)
}

func TestEndOfStream(t *testing.T) {
	m := newMockBackend()
	m.eos = true
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)
	enable(t, dev, vsi.ControlContinuous)

	test.ExpectEquality(t, len(dev.DMARead(4)), 4)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 1)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.STATUS))&vsi.StatusEOS, vsi.StatusEOS)

	// nothing more to give
	m.frame = []byte{}
	test.ExpectEquality(t, len(dev.DMARead(4)), 0)
	test.ExpectEquality(t, register(dev, vsi.FRAME_COUNT), 1)
	test.ExpectEquality(t, status(dev)&vsi.StatusEOS, vsi.StatusEOS)
	test.ExpectEquality(t, status(dev)&vsi.StatusOverflow, 0)
}

func TestDisabledTransfers(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 2)

	test.ExpectEquality(t, len(dev.DMARead(4)), 0)
	dev.DMAWrite([]byte{1}, 1)
	test.ExpectEquality(t, m.reads, 0)
	test.ExpectEquality(t, len(m.written), 0)
}

func TestIRQ(t *testing.T) {
	m := newMockBackend()
	m.eos = true
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 1)
	enable(t, dev, vsi.ControlContinuous)

	dev.DMARead(4)
	dev.OnTimerOverflow()
	test.ExpectEquality(t, dev.ReadIRQStatus(), vsi.IRQFrame|vsi.IRQEOS)

	dev.DMARead(4)
	dev.OnTimerOverflow()
	test.ExpectEquality(t, dev.ReadIRQStatus(), vsi.IRQFrame|vsi.IRQEOS|vsi.IRQOverflow)

	// writing clears only the bits in the mask
	test.ExpectEquality(t, dev.WriteIRQStatus(vsi.IRQFrame), vsi.IRQEOS|vsi.IRQOverflow)
	test.ExpectEquality(t, dev.WriteIRQStatus(vsi.IRQUnderflow), vsi.IRQEOS|vsi.IRQOverflow)
	test.ExpectEquality(t, dev.WriteIRQStatus(vsi.IRQMask), 0)

	// continuous streams continue after the timer
	test.ExpectEquality(t, dev.State(), vsi.Active)
}

func TestSingleFrame(t *testing.T) {
	m := newMockBackend()
	dev := vsi.NewDevice(m)
	dev.WriteRegister(uint32(vsi.FRAME_COUNT_MAX), 1)
	enable(t, dev, 0)

	dev.DMARead(4)
	dev.OnTimerOverflow()
	test.ExpectEquality(t, dev.State(), vsi.Disabled)
	test.ExpectEquality(t, m.disabled, 1)
	test.ExpectEquality(t, dev.ReadRegister(uint32(vsi.CONTROL)), 0)
	test.ExpectEquality(t, dev.ReadIRQStatus(), vsi.IRQFrame)
}

func TestTimerAndDMARegisters(t *testing.T) {
	dev := vsi.NewDevice(nil)
	test.ExpectEquality(t, dev.WriteTimerRegister(vsi.TimerControl, vsi.TimerRun|vsi.TimerPeriodic), vsi.TimerRun|vsi.TimerPeriodic)
	test.ExpectEquality(t, dev.WriteTimerRegister(vsi.TimerInterval, 33333), 33333)
	test.ExpectEquality(t, dev.WriteTimerRegister(5, 1), 0)
	test.ExpectEquality(t, dev.ReadTimerRegister(vsi.TimerInterval), 33333)

	test.ExpectEquality(t, dev.WriteDMARegister(vsi.DMAControl, vsi.DMAEnable|vsi.DMADirectionM2P), vsi.DMAEnable|vsi.DMADirectionM2P)
	test.ExpectEquality(t, dev.WriteDMARegister(1, 1), 0)
	test.ExpectEquality(t, dev.ReadDMARegister(vsi.DMAControl), vsi.DMAEnable|vsi.DMADirectionM2P)
}
