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

// Register is the index of a user register.
type Register uint32

// List of user registers.
const (
	MODE Register = iota
	CONTROL
	STATUS
	FILENAME_LEN
	FILENAME_CHAR
	FILENAME_VALID
	FRAME_WIDTH
	FRAME_HEIGHT
	COLOR_FORMAT
	FRAME_RATE
	FRAME_INDEX
	FRAME_COUNT
	FRAME_COUNT_MAX

	// NumRegisters is the number of user registers implemented by the device
	NumRegisters
)

// MaxRegister is the highest user register index implemented by the device.
const MaxRegister = NumRegisters - 1

var registerNames = [NumRegisters]string{
	"MODE", "CONTROL", "STATUS", "FILENAME_LEN", "FILENAME_CHAR",
	"FILENAME_VALID", "FRAME_WIDTH", "FRAME_HEIGHT", "COLOR_FORMAT",
	"FRAME_RATE", "FRAME_INDEX", "FRAME_COUNT", "FRAME_COUNT_MAX",
}

func (r Register) String() string {
	if r > MaxRegister {
		return "undefined"
	}
	return registerNames[r]
}

// MODE register bits.
const (
	ModeIO     uint32 = 1 << 0
	ModeInput  uint32 = 0 << 0
	ModeOutput uint32 = 1 << 0
)

// CONTROL register bits.
const (
	ControlEnable     uint32 = 1 << 0
	ControlContinuous uint32 = 1 << 1
	ControlBufFlush   uint32 = 1 << 2
)

// STATUS register bits.
const (
	StatusActive    uint32 = 1 << 0
	StatusBufEmpty  uint32 = 1 << 1
	StatusBufFull   uint32 = 1 << 2
	StatusOverflow  uint32 = 1 << 3
	StatusUnderflow uint32 = 1 << 4
	StatusEOS       uint32 = 1 << 5

	// bits cleared by reading the STATUS register
	statusReadClear = StatusOverflow | StatusUnderflow | StatusEOS
)

// IRQ status register bits.
const (
	IRQFrame     uint32 = 1 << 0
	IRQOverflow  uint32 = 1 << 1
	IRQUnderflow uint32 = 1 << 2
	IRQEOS       uint32 = 1 << 3

	// IRQMask is all the IRQ bits
	IRQMask = IRQFrame | IRQOverflow | IRQUnderflow | IRQEOS
)

// Timer register indexes.
const (
	TimerControl  uint32 = 0
	TimerInterval uint32 = 1
)

// Timer control register bits.
const (
	TimerRun      uint32 = 1 << 0
	TimerPeriodic uint32 = 1 << 1
	TimerTrigIRQ  uint32 = 1 << 2
	TimerTrigDMA  uint32 = 1 << 3
)

// DMA register indexes.
const (
	DMAControl uint32 = 0
)

// DMA control register bits.
const (
	DMAEnable       uint32 = 1 << 0
	DMADirection    uint32 = 1 << 1
	DMADirectionP2M uint32 = 0 << 1
	DMADirectionM2P uint32 = 1 << 1
)

// power-on values of the frame size registers
const (
	defaultWidth  = 300
	defaultHeight = 300
)
