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

package armvsi_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/vsivideo/hardware/armvsi"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/test"
)

// backend delivers frames of a single byte value repeated four times. the
// value increases with every frame
type backend struct {
	next    byte
	written [][]byte
}

func (b *backend) Connected() bool {
	return true
}

func (b *backend) SetFilename(name string, mode protocol.Mode) (bool, error) {
	return true, nil
}

func (b *backend) ConfigureStream(width, height uint32, format protocol.ColorFormat, rate uint32) (bool, error) {
	return true, nil
}

func (b *backend) EnableStream(mode protocol.Mode) (bool, error) {
	return true, nil
}

func (b *backend) DisableStream() (bool, error) {
	return true, nil
}

func (b *backend) ReadFrame() ([]byte, bool, error) {
	b.next++
	return bytes.Repeat([]byte{b.next}, 4), false, nil
}

func (b *backend) WriteFrame(data []byte) error {
	b.written = append(b.written, data)
	return nil
}

const origin = 0x20000000

func newBlock() (*armvsi.Block, *backend) {
	b := &backend{}
	blk := armvsi.NewBlock(vsi.NewDevice(b), armvsi.NewMemory(origin, 1024))
	return blk, b
}

func TestMemory(t *testing.T) {
	mem := armvsi.NewMemory(origin, 16)
	test.ExpectEquality(t, mem.Size(), 16)

	test.ExpectSuccess(t, mem.Write(origin+4, []byte{1, 2, 3, 4}))
	d, err := mem.Read(origin+4, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(d), string([]byte{1, 2, 3, 4}))

	// slice aliases the memory
	s, err := mem.Slice(origin+4, 2)
	test.ExpectSuccess(t, err)
	s[0] = 10
	d, _ = mem.Read(origin+4, 1)
	test.ExpectEquality(t, d[0], 10)

	_, err = mem.Read(origin-1, 1)
	test.ExpectFailure(t, err)
	_, err = mem.Read(origin+15, 2)
	test.ExpectFailure(t, err)
	test.ExpectFailure(t, mem.Write(origin+16, []byte{1}))
	_, err = mem.Read(origin+16, 0)
	test.ExpectSuccess(t, err)
}

func TestUserRegisters(t *testing.T) {
	blk, _ := newBlock()

	// forwarded to the device
	test.ExpectEquality(t, blk.Read(armvsi.Reg(uint32(vsi.FRAME_WIDTH))), 300)
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_WIDTH)), 640)
	test.ExpectEquality(t, blk.Read(armvsi.Reg(uint32(vsi.FRAME_WIDTH))), 640)

	// the device ignores a zero width
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_WIDTH)), 0)
	test.ExpectEquality(t, blk.Read(armvsi.Reg(uint32(vsi.FRAME_WIDTH))), 640)

	// plain storage
	blk.Write(armvsi.Reg(13), 0xdeadbeef)
	blk.Write(armvsi.Reg(63), 0x1234)
	test.ExpectEquality(t, blk.Read(armvsi.Reg(13)), 0xdeadbeef)
	test.ExpectEquality(t, blk.Read(armvsi.Reg(63)), 0x1234)

	// out of range and unaligned offsets
	blk.Write(armvsi.Reg(64), 1)
	test.ExpectEquality(t, blk.Read(armvsi.Reg(64)), 0)
	blk.Write(armvsi.Regs+1, 1)
	test.ExpectEquality(t, blk.Read(armvsi.Regs+1), 0)
}

func TestSoftwareIRQ(t *testing.T) {
	blk, _ := newBlock()

	var calls int
	blk.SetIRQHandler(func() { calls++ })

	// not enabled
	blk.Write(armvsi.IRQSet, 0x100)
	test.ExpectEquality(t, calls, 0)
	test.ExpectEquality(t, blk.Read(armvsi.IRQStatus), 0x100)

	blk.Write(armvsi.IRQEnable, 0x100)
	blk.Write(armvsi.IRQSet, 0x100)
	test.ExpectEquality(t, calls, 1)

	blk.Write(armvsi.IRQClear, 0x100)
	test.ExpectEquality(t, blk.Read(armvsi.IRQStatus), 0)
}

func TestTimer(t *testing.T) {
	blk, _ := newBlock()

	// nothing happens while the timer is stopped
	blk.Write(armvsi.TimerInterval, 1000)
	test.ExpectEquality(t, blk.Advance(5000), 0)

	blk.Write(armvsi.TimerControl, armvsi.TimerRun|armvsi.TimerPeriodic)
	test.ExpectSuccess(t, blk.Running())
	test.ExpectEquality(t, blk.Advance(999), 0)
	test.ExpectEquality(t, blk.Advance(1), 1)
	test.ExpectEquality(t, blk.Advance(2500), 2)
	test.ExpectEquality(t, blk.Advance(500), 1)
	test.ExpectEquality(t, blk.Read(armvsi.TimerCount), 4)

	// restarting the timer resets the count
	blk.Write(armvsi.TimerControl, 0)
	blk.Write(armvsi.TimerControl, armvsi.TimerRun)
	test.ExpectEquality(t, blk.Read(armvsi.TimerCount), 0)

	// one shot
	test.ExpectEquality(t, blk.Advance(5000), 1)
	test.ExpectFailure(t, blk.Running())
	test.ExpectEquality(t, blk.Advance(5000), 0)
	test.ExpectEquality(t, blk.Read(armvsi.TimerCount), 1)
}

func TestInputTransfer(t *testing.T) {
	blk, _ := newBlock()

	const address = origin + 0x100
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_COUNT_MAX)), 2)
	blk.Write(armvsi.DMAAddress, address)
	blk.Write(armvsi.DMABlockSize, 8)
	blk.Write(armvsi.DMABlockNum, 2)
	blk.Write(armvsi.DMAControl, armvsi.DMAEnable|armvsi.DMADirectionP2M)
	blk.Write(armvsi.Reg(uint32(vsi.CONTROL)), vsi.ControlEnable|vsi.ControlContinuous)

	var irqs []uint32
	blk.SetIRQHandler(func() {
		s := blk.Read(armvsi.IRQStatus)
		irqs = append(irqs, s)
		blk.Write(armvsi.IRQClear, s)
	})
	blk.Write(armvsi.IRQEnable, vsi.IRQMask)

	blk.Write(armvsi.TimerInterval, 100)
	blk.Write(armvsi.TimerControl, armvsi.TimerRun|armvsi.TimerPeriodic|armvsi.TimerTrigDMA|armvsi.TimerTrigIRQ)

	test.ExpectEquality(t, blk.Advance(200), 2)
	test.DemandEquality(t, len(irqs), 2)
	test.ExpectEquality(t, irqs[0], vsi.IRQFrame)
	test.ExpectEquality(t, irqs[1], vsi.IRQFrame)
	test.ExpectEquality(t, blk.Read(armvsi.DMABlockIndex), 0)

	// frames are zero padded to the block size
	d, err := blk.Memory().Read(address, 16)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(d), string([]byte{1, 1, 1, 1, 0, 0, 0, 0, 2, 2, 2, 2, 0, 0, 0, 0}))

	status := blk.Read(armvsi.Reg(uint32(vsi.STATUS)))
	test.ExpectEquality(t, status, vsi.StatusActive|vsi.StatusBufFull)

	// buffer is full so the next transfer overflows
	test.ExpectEquality(t, blk.Advance(100), 1)
	test.DemandEquality(t, len(irqs), 3)
	test.ExpectEquality(t, irqs[2], vsi.IRQFrame|vsi.IRQOverflow)

	// the third frame wraps around to the first block
	d, _ = blk.Memory().Read(address, 4)
	test.ExpectEquality(t, string(d), string([]byte{3, 3, 3, 3}))
}

func TestOutputTransfer(t *testing.T) {
	blk, b := newBlock()

	const address = origin + 0x200
	test.DemandSuccess(t, blk.Memory().Write(address, []byte{1, 2, 3, 4, 5, 6, 7, 8}))

	blk.Write(armvsi.Reg(uint32(vsi.MODE)), vsi.ModeOutput)
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_COUNT_MAX)), 2)
	blk.Write(armvsi.DMAAddress, address)
	blk.Write(armvsi.DMABlockSize, 4)
	blk.Write(armvsi.DMABlockNum, 2)
	blk.Write(armvsi.DMAControl, armvsi.DMAEnable|armvsi.DMADirectionM2P)
	blk.Write(armvsi.Reg(uint32(vsi.CONTROL)), vsi.ControlEnable|vsi.ControlContinuous)

	// the firmware has produced two frames
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_INDEX)), 0)
	blk.Write(armvsi.Reg(uint32(vsi.FRAME_INDEX)), 0)

	blk.Write(armvsi.TimerInterval, 100)
	blk.Write(armvsi.TimerControl, armvsi.TimerRun|armvsi.TimerPeriodic|armvsi.TimerTrigDMA)

	test.ExpectEquality(t, blk.Advance(200), 2)
	test.DemandEquality(t, len(b.written), 2)
	test.ExpectEquality(t, string(b.written[0]), string([]byte{1, 2, 3, 4}))
	test.ExpectEquality(t, string(b.written[1]), string([]byte{5, 6, 7, 8}))

	// third transfer underflows
	blk.Advance(100)
	status := blk.Read(armvsi.Reg(uint32(vsi.STATUS)))
	test.ExpectEquality(t, status&vsi.StatusUnderflow, vsi.StatusUnderflow)
}

func TestTransferDisabled(t *testing.T) {
	blk, b := newBlock()

	blk.Write(armvsi.Reg(uint32(vsi.FRAME_COUNT_MAX)), 2)
	blk.Write(armvsi.DMAAddress, origin)
	blk.Write(armvsi.DMABlockSize, 4)
	blk.Write(armvsi.DMABlockNum, 2)
	blk.Write(armvsi.Reg(uint32(vsi.CONTROL)), vsi.ControlEnable|vsi.ControlContinuous)

	// DMA controller is not enabled
	blk.Write(armvsi.TimerInterval, 100)
	blk.Write(armvsi.TimerControl, armvsi.TimerRun|armvsi.TimerPeriodic|armvsi.TimerTrigDMA)
	blk.Advance(100)
	test.ExpectEquality(t, b.next, 0)

	// DMA address is outside of memory. the transfer is logged and the block
	// index still advances
	blk.Write(armvsi.DMAAddress, origin+1024)
	blk.Write(armvsi.DMAControl, armvsi.DMAEnable)
	blk.Advance(100)
	test.ExpectEquality(t, b.next, 1)
	test.ExpectEquality(t, blk.Read(armvsi.DMABlockIndex), 1)
}
