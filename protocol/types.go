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

package protocol

import "fmt"

// Opcode identifies a request.
type Opcode int

// List of valid Opcode values.
const (
	SetFilename     Opcode = 1
	StreamConfigure Opcode = 2
	StreamEnable    Opcode = 3
	StreamDisable   Opcode = 4
	FrameRead       Opcode = 5
	FrameWrite      Opcode = 6
	CloseServer     Opcode = 7
)

func (op Opcode) String() string {
	switch op {
	case SetFilename:
		return "SetFilename"
	case StreamConfigure:
		return "StreamConfigure"
	case StreamEnable:
		return "StreamEnable"
	case StreamDisable:
		return "StreamDisable"
	case FrameRead:
		return "FrameRead"
	case FrameWrite:
		return "FrameWrite"
	case CloseServer:
		return "CloseServer"
	}
	return fmt.Sprintf("opcode(%d)", int(op))
}

// the number of arguments following the opcode in a request
func (op Opcode) numArgs() (int, bool) {
	switch op {
	case SetFilename:
		return 3, true
	case StreamConfigure:
		return 4, true
	case StreamEnable:
		return 1, true
	case StreamDisable, FrameRead, FrameWrite, CloseServer:
		return 0, true
	}
	return 0, false
}

// Mode is the I/O direction of a stream. It is the value of the MODE register
// masked with ModeMask.
type Mode uint32

// List of valid Mode values.
const (
	ModeInput  Mode = 0
	ModeOutput Mode = 1
	ModeMask        = 1
)

// ModeFromRegister returns the Mode for the value of a MODE register.
func ModeFromRegister(v uint32) Mode {
	return Mode(v & ModeMask)
}

func (m Mode) String() string {
	if m&ModeMask == ModeOutput {
		return "output"
	}
	return "input"
}

// ColorFormat is the pixel layout of the frames exchanged with the firmware.
type ColorFormat uint32

// List of valid ColorFormat values.
const (
	Grayscale8 ColorFormat = 1
	RGB888     ColorFormat = 2
	BGR565     ColorFormat = 3
	YUV420     ColorFormat = 4
	NV12       ColorFormat = 5
	NV21       ColorFormat = 6
)

func (f ColorFormat) String() string {
	switch f {
	case Grayscale8:
		return "Grayscale8"
	case RGB888:
		return "RGB888"
	case BGR565:
		return "BGR565"
	case YUV420:
		return "YUV420"
	case NV12:
		return "NV12"
	case NV21:
		return "NV21"
	}
	return fmt.Sprintf("format(%d)", uint32(f))
}

// Valid returns true if the color format is one of the listed formats.
func (f ColorFormat) Valid() bool {
	return f >= Grayscale8 && f <= NV21
}

// BitsPerPixel returns the average number of bits used by a single pixel in
// the color format. Returns zero for an invalid format.
func (f ColorFormat) BitsPerPixel() int {
	switch f {
	case Grayscale8:
		return 8
	case YUV420, NV12, NV21:
		return 12
	case BGR565:
		return 16
	case RGB888:
		return 24
	}
	return 0
}
