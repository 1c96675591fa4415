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

package videodrv

import (
	"fmt"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/hardware/armvsi"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/protocol"
)

// Sentinal error patterns.
const (
	ErrParameter = "videodrv: parameter error: %v"
	ErrDriver    = "videodrv: %v"
)

// Channel identifies a video channel.
type Channel uint32

// List of valid Channel values.
const (
	In0 Channel = iota
	Out0
	In1
	Out1
	numChannels
)

func (ch Channel) String() string {
	switch ch {
	case In0:
		return "in0"
	case Out0:
		return "out0"
	case In1:
		return "in1"
	case Out1:
		return "out1"
	}
	return fmt.Sprintf("channel %d", uint32(ch))
}

// Input returns true if the channel is an input channel.
func (ch Channel) Input() bool {
	return ch&1 == 0
}

// Mode of a stream.
type Mode int

// List of valid Mode values.
const (
	Single Mode = iota
	Continuous
)

// Event is a mask of driver events.
type Event uint32

// List of valid Event bits.
const (
	EventFrame     Event = 1 << 0
	EventOverflow  Event = 1 << 1
	EventUnderflow Event = 1 << 2
	EventEOS       Event = 1 << 3
)

// EventHandler is called from the interrupt handler of a channel.
type EventHandler func(ch Channel, ev Event)

// Status of a channel. The Overflow, Underflow and EOS fields are cleared by
// GetStatus().
type Status struct {
	Active    bool
	BufEmpty  bool
	BufFull   bool
	Overflow  bool
	Underflow bool
	EOS       bool
}

func (s Status) String() string {
	return fmt.Sprintf("active=%v empty=%v full=%v overflow=%v underflow=%v eos=%v",
		s.Active, s.BufEmpty, s.BufFull, s.Overflow, s.Underflow, s.EOS)
}

// progress of channel configuration
const (
	unconfigured = iota
	configured
	buffered
)

// Driver is the video driver. It is not safe for concurrent use.
type Driver struct {
	blocks      [numChannels]*armvsi.Block
	configured  [numChannels]int
	initialised bool
	handler     EventHandler
}

// NewDriver is the preferred method of initialisation for the Driver type.
// Blocks are given in channel order (In0, Out0, In1, Out1). A channel with a
// nil block, or with no block, is not available.
func NewDriver(blocks ...*armvsi.Block) *Driver {
	drv := &Driver{}
	for i := range blocks {
		if i < len(drv.blocks) {
			drv.blocks[i] = blocks[i]
		}
	}
	return drv
}

func (drv *Driver) block(ch Channel) *armvsi.Block {
	if ch >= numChannels {
		return nil
	}
	return drv.blocks[ch]
}

func (drv *Driver) reg(ch Channel, r vsi.Register) uint32 {
	return drv.blocks[ch].Read(armvsi.Reg(uint32(r)))
}

func (drv *Driver) setReg(ch Channel, r vsi.Register, value uint32) {
	drv.blocks[ch].Write(armvsi.Reg(uint32(r)), value)
}

func (drv *Driver) active(ch Channel) bool {
	return drv.reg(ch, vsi.STATUS)&vsi.StatusActive == vsi.StatusActive
}

// Initialize the driver and all available channels.
func (drv *Driver) Initialize(handler EventHandler) error {
	drv.handler = handler

	for i, blk := range drv.blocks {
		if blk == nil {
			continue
		}
		ch := Channel(i)

		blk.Write(armvsi.TimerControl, 0)
		blk.Write(armvsi.DMAControl, 0)
		blk.Write(armvsi.IRQClear, vsi.IRQMask)
		blk.Write(armvsi.IRQEnable, vsi.IRQMask)
		if ch.Input() {
			drv.setReg(ch, vsi.MODE, vsi.ModeInput)
		} else {
			drv.setReg(ch, vsi.MODE, vsi.ModeOutput)
		}
		drv.setReg(ch, vsi.CONTROL, 0)
		blk.SetIRQHandler(func() {
			drv.interrupt(ch)
		})

		drv.configured[i] = unconfigured
	}

	drv.initialised = true
	return nil
}

// Uninitialize stops all available channels.
func (drv *Driver) Uninitialize() error {
	for _, blk := range drv.blocks {
		if blk == nil {
			continue
		}
		blk.SetIRQHandler(nil)
		blk.Write(armvsi.TimerControl, 0)
		blk.Write(armvsi.DMAControl, 0)
		blk.Write(armvsi.IRQClear, vsi.IRQMask)
		blk.Write(armvsi.IRQEnable, 0)
		blk.Write(armvsi.Reg(uint32(vsi.CONTROL)), 0)
	}

	drv.initialised = false
	return nil
}

func (drv *Driver) interrupt(ch Channel) {
	blk := drv.blocks[ch]
	status := blk.Read(armvsi.IRQStatus)
	blk.Write(armvsi.IRQClear, status)

	var ev Event
	if status&vsi.IRQFrame == vsi.IRQFrame {
		ev |= EventFrame
	}
	if status&vsi.IRQOverflow == vsi.IRQOverflow {
		ev |= EventOverflow
	}
	if status&vsi.IRQUnderflow == vsi.IRQUnderflow {
		ev |= EventUnderflow
	}
	if status&vsi.IRQEOS == vsi.IRQEOS {
		ev |= EventEOS
	}

	if drv.handler != nil {
		drv.handler(ch, ev)
	}
}

// checks common to all functions that change the configuration of a channel
func (drv *Driver) ready(ch Channel, level int) error {
	if !drv.initialised {
		return curated.Errorf(ErrDriver, "not initialised")
	}
	if drv.configured[ch] < level {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s not configured", ch))
	}
	return nil
}

func (drv *Driver) idle(ch Channel, level int) error {
	if err := drv.ready(ch, level); err != nil {
		return err
	}
	if drv.active(ch) {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s is active", ch))
	}
	return nil
}

// SetFile sets the file used by the channel. An error is returned if the
// filename is rejected by the peripheral.
func (drv *Driver) SetFile(ch Channel, name string) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if err := drv.idle(ch, unconfigured); err != nil {
		return err
	}

	drv.setReg(ch, vsi.FILENAME_LEN, uint32(len(name)))
	for i := 0; i < len(name); i++ {
		drv.setReg(ch, vsi.FILENAME_CHAR, uint32(name[i]))
	}

	if drv.reg(ch, vsi.FILENAME_VALID) == 0 {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s: invalid filename: %s", ch, name))
	}

	return nil
}

// BlockSize returns the number of bytes used by a frame in the channel buffer.
// Blocks are word aligned.
func BlockSize(width, height uint32, format protocol.ColorFormat) uint32 {
	sz := uint32(media.FrameSize(int(width), int(height), format))
	return (sz + 3) &^ 3
}

// Configure the frame geometry, color format and frame rate of the channel.
func (drv *Driver) Configure(ch Channel, width, height uint32, format protocol.ColorFormat, rate uint32) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if width == 0 || height == 0 {
		return curated.Errorf(ErrParameter, fmt.Sprintf("frame size %dx%d", width, height))
	}
	if rate == 0 {
		return curated.Errorf(ErrParameter, "frame rate 0")
	}
	if !format.Valid() {
		return curated.Errorf(ErrParameter, fmt.Sprintf("color format %d", format))
	}
	if BlockSize(width, height, format) == 0 {
		return curated.Errorf(ErrParameter, fmt.Sprintf("frame size %dx%d too large", width, height))
	}
	if err := drv.idle(ch, unconfigured); err != nil {
		return err
	}

	blk := drv.blocks[ch]
	drv.setReg(ch, vsi.FRAME_WIDTH, width)
	drv.setReg(ch, vsi.FRAME_HEIGHT, height)
	drv.setReg(ch, vsi.COLOR_FORMAT, uint32(format))
	drv.setReg(ch, vsi.FRAME_RATE, rate)
	blk.Write(armvsi.TimerInterval, 1000000/rate)
	blk.Write(armvsi.DMABlockSize, BlockSize(width, height, format))

	drv.configured[ch] = configured
	return nil
}

// SetBuf sets the area of memory used to buffer frames. The number of frames
// in the buffer is the size of the buffer divided by the block size.
func (drv *Driver) SetBuf(ch Channel, address uint32, size uint32) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if size == 0 {
		return curated.Errorf(ErrParameter, "buffer size 0")
	}
	if err := drv.idle(ch, configured); err != nil {
		return err
	}

	blk := drv.blocks[ch]
	if _, err := blk.Memory().Slice(address, size); err != nil {
		return curated.Errorf(ErrParameter, err)
	}

	num := size / blk.Read(armvsi.DMABlockSize)
	if num == 0 {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s: buffer too small for a single frame", ch))
	}

	drv.setReg(ch, vsi.FRAME_COUNT_MAX, num)
	blk.Write(armvsi.DMABlockNum, num)
	blk.Write(armvsi.DMAAddress, address)

	drv.configured[ch] = buffered
	return nil
}

// FlushBuf empties the channel buffer.
func (drv *Driver) FlushBuf(ch Channel) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if err := drv.idle(ch, unconfigured); err != nil {
		return err
	}
	drv.setReg(ch, vsi.CONTROL, vsi.ControlBufFlush)
	return nil
}

// StreamStart starts the stream. Starting an active stream does nothing.
func (drv *Driver) StreamStart(ch Channel, mode Mode) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if mode != Single && mode != Continuous {
		return curated.Errorf(ErrParameter, fmt.Sprintf("stream mode %d", mode))
	}
	if err := drv.ready(ch, buffered); err != nil {
		return err
	}
	if drv.active(ch) {
		return nil
	}

	control := vsi.ControlEnable
	if mode == Continuous {
		control |= vsi.ControlContinuous
	}
	drv.setReg(ch, vsi.CONTROL, control)

	if !drv.active(ch) {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s: stream did not start", ch))
	}

	blk := drv.blocks[ch]

	control = armvsi.DMAEnable
	if ch.Input() {
		control |= armvsi.DMADirectionP2M
	} else {
		control |= armvsi.DMADirectionM2P
	}
	blk.Write(armvsi.DMAControl, control)

	control = armvsi.TimerRun | armvsi.TimerTrigDMA | armvsi.TimerTrigIRQ
	if mode == Continuous {
		control |= armvsi.TimerPeriodic
	}
	blk.Write(armvsi.TimerControl, control)

	return nil
}

// StreamStop stops the stream. Stopping an inactive stream does nothing.
func (drv *Driver) StreamStop(ch Channel) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if err := drv.ready(ch, buffered); err != nil {
		return err
	}
	if !drv.active(ch) {
		return nil
	}

	blk := drv.blocks[ch]
	blk.Write(armvsi.TimerControl, 0)
	blk.Write(armvsi.DMAControl, 0)
	drv.setReg(ch, vsi.CONTROL, 0)

	return nil
}

// frameAvailable is true if the buffer has a frame for an input channel or
// space for a frame for an output channel
func (drv *Driver) frameAvailable(ch Channel) bool {
	status := drv.reg(ch, vsi.STATUS)
	if drv.reg(ch, vsi.MODE)&vsi.ModeIO == vsi.ModeInput {
		return status&vsi.StatusBufEmpty == 0
	}
	return status&vsi.StatusBufFull == 0
}

// GetFrameBuf returns the memory of the current frame. For an input channel
// this is the oldest received frame and for an output channel it is the
// frame to fill. Returns false if there is no frame available.
func (drv *Driver) GetFrameBuf(ch Channel) ([]byte, bool) {
	if drv.block(ch) == nil {
		return nil, false
	}
	if drv.ready(ch, buffered) != nil {
		return nil, false
	}
	if !drv.frameAvailable(ch) {
		return nil, false
	}

	blk := drv.blocks[ch]
	size := blk.Read(armvsi.DMABlockSize)
	address := blk.Read(armvsi.DMAAddress) + drv.reg(ch, vsi.FRAME_INDEX)*size

	buf, err := blk.Memory().Slice(address, size)
	if err != nil {
		return nil, false
	}
	return buf, true
}

// ReleaseFrame tells the peripheral that the current frame has been consumed
// (input) or filled (output).
func (drv *Driver) ReleaseFrame(ch Channel) error {
	if drv.block(ch) == nil {
		return curated.Errorf(ErrParameter, ch)
	}
	if err := drv.ready(ch, buffered); err != nil {
		return err
	}
	if !drv.frameAvailable(ch) {
		return curated.Errorf(ErrDriver, fmt.Sprintf("%s: no frame to release", ch))
	}
	drv.setReg(ch, vsi.FRAME_INDEX, 0)
	return nil
}

// GetStatus returns the status of the channel. The status of an unavailable
// channel is the zero value.
func (drv *Driver) GetStatus(ch Channel) Status {
	if drv.block(ch) == nil {
		return Status{}
	}
	s := drv.reg(ch, vsi.STATUS)
	return Status{
		Active:    s&vsi.StatusActive == vsi.StatusActive,
		BufEmpty:  s&vsi.StatusBufEmpty == vsi.StatusBufEmpty,
		BufFull:   s&vsi.StatusBufFull == vsi.StatusBufFull,
		Overflow:  s&vsi.StatusOverflow == vsi.StatusOverflow,
		Underflow: s&vsi.StatusUnderflow == vsi.StatusUnderflow,
		EOS:       s&vsi.StatusEOS == vsi.StatusEOS,
	}
}
