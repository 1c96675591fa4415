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

package vsi

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/protocol"
)

// Backend is the interface to the process performing the media I/O. The
// client.Client type is the usual implementation.
//
// An error from any of the stream functions is logged by the device and
// treated in the same way as a false result.
type Backend interface {
	Connected() bool
	SetFilename(name string, mode protocol.Mode) (bool, error)
	ConfigureStream(width, height uint32, format protocol.ColorFormat, rate uint32) (bool, error)
	EnableStream(mode protocol.Mode) (bool, error)
	DisableStream() (bool, error)
	ReadFrame() ([]byte, bool, error)
	WriteFrame(data []byte) error
}

// State of the control state machine.
type State int

// List of valid State values.
const (
	Disabled State = iota

	// the ENABLE bit is set but the stream is not active. either because the
	// backend is being configured or because configuration failed
	Configuring

	Active
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Configuring:
		return "configuring"
	case Active:
		return "active"
	}
	return "unknown"
}

// Device is the VSI video peripheral. It is not safe for concurrent use. The
// simulator delivers register accesses one at a time and so should the caller.
type Device struct {
	backend Backend

	regs [NumRegisters]uint32

	// characters received by FILENAME_CHAR since the last write to
	// FILENAME_LEN
	filename strings.Builder

	irq uint32

	timerControl  uint32
	timerInterval uint32

	dmaControl uint32
}

// NewDevice is the preferred method of initialisation for the Device type.
// The backend argument can be nil, in which case the device behaves as if the
// backend is not connected.
func NewDevice(backend Backend) *Device {
	dev := &Device{
		backend: backend,
	}
	dev.regs[FRAME_WIDTH] = defaultWidth
	dev.regs[FRAME_HEIGHT] = defaultHeight
	return dev
}

func (dev *Device) String() string {
	return fmt.Sprintf("%s mode=%s status=%06b count=%d/%d index=%d irq=%04b",
		dev.State(),
		protocol.ModeFromRegister(dev.regs[MODE]),
		dev.regs[STATUS],
		dev.regs[FRAME_COUNT], dev.regs[FRAME_COUNT_MAX],
		dev.regs[FRAME_INDEX],
		dev.irq,
	)
}

// State returns the current state of the control state machine.
func (dev *Device) State() State {
	if dev.regs[STATUS]&StatusActive == StatusActive {
		return Active
	}
	if dev.regs[CONTROL]&ControlEnable == ControlEnable {
		return Configuring
	}
	return Disabled
}

func (dev *Device) connected() bool {
	return dev.backend != nil && dev.backend.Connected()
}

func (dev *Device) mode() protocol.Mode {
	return protocol.ModeFromRegister(dev.regs[MODE])
}

// ReadRegister returns the value of the user register. Reading STATUS clears
// the OVERFLOW, UNDERFLOW and EOS bits. Reading an undefined register returns
// zero.
func (dev *Device) ReadRegister(index uint32) uint32 {
	if index > uint32(MaxRegister) {
		return 0
	}
	return registerTable[index].read(dev)
}

// WriteRegister writes value to the user register and returns the value that
// is stored as a result of the write. Writes to read-only registers do nothing
// and return the current value. Writing to an undefined register does nothing
// and returns zero.
func (dev *Device) WriteRegister(index uint32, value uint32) uint32 {
	if index > uint32(MaxRegister) {
		return 0
	}
	return registerTable[index].write(dev, value)
}

// ReadIRQStatus returns the IRQ status register.
func (dev *Device) ReadIRQStatus() uint32 {
	return dev.irq
}

// WriteIRQStatus clears the IRQ bits that are set in mask. Bits are never set
// by this function. Returns the new value of the IRQ status register.
func (dev *Device) WriteIRQStatus(mask uint32) uint32 {
	dev.irq &^= mask
	return dev.irq
}

// WriteTimerRegister stores the timer register. The device doesn't run the
// timer itself; the simulator calls OnTimerOverflow() when the timer expires.
func (dev *Device) WriteTimerRegister(index uint32, value uint32) uint32 {
	switch index {
	case TimerControl:
		dev.timerControl = value
	case TimerInterval:
		dev.timerInterval = value
	default:
		return 0
	}
	return value
}

// ReadTimerRegister returns the timer register.
func (dev *Device) ReadTimerRegister(index uint32) uint32 {
	switch index {
	case TimerControl:
		return dev.timerControl
	case TimerInterval:
		return dev.timerInterval
	}
	return 0
}

// WriteDMARegister stores the DMA register.
func (dev *Device) WriteDMARegister(index uint32, value uint32) uint32 {
	if index != DMAControl {
		return 0
	}
	dev.dmaControl = value
	return value
}

// ReadDMARegister returns the DMA register.
func (dev *Device) ReadDMARegister(index uint32) uint32 {
	if index != DMAControl {
		return 0
	}
	return dev.dmaControl
}

// OnTimerOverflow is called by the simulator every time the timer expires. The
// FRAME bit of the IRQ status register is set and the OVERFLOW, UNDERFLOW and
// EOS bits are copied from the STATUS register.
//
// In single frame mode (CONTINUOUS clear) the stream is disabled.
func (dev *Device) OnTimerOverflow() {
	dev.irq |= IRQFrame

	status := dev.regs[STATUS]
	if status&StatusOverflow == StatusOverflow {
		dev.irq |= IRQOverflow
	}
	if status&StatusUnderflow == StatusUnderflow {
		dev.irq |= IRQUnderflow
	}
	if status&StatusEOS == StatusEOS {
		dev.irq |= IRQEOS
	}

	if dev.regs[CONTROL]&ControlContinuous == 0 {
		dev.writeControl(dev.regs[CONTROL] &^ (ControlEnable | ControlContinuous))
	}
}

// Snapshot is a copy of the device's registers.
type Snapshot struct {
	State         State
	Registers     [NumRegisters]uint32
	Filename      string
	IRQ           uint32
	TimerControl  uint32
	TimerInterval uint32
	DMAControl    uint32
}

// Snapshot returns a copy of the device's registers. Taking a snapshot has no
// side effects.
func (dev *Device) Snapshot() Snapshot {
	return Snapshot{
		State:         dev.State(),
		Registers:     dev.regs,
		Filename:      dev.filename.String(),
		IRQ:           dev.irq,
		TimerControl:  dev.timerControl,
		TimerInterval: dev.timerInterval,
		DMAControl:    dev.dmaControl,
	}
}

func (dev *Device) log(detail string, args ...any) {
	logger.Logf(logger.Allow, "vsi", detail, args...)
}
