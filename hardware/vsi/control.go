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
	"github.com/jetsetilly/vsivideo/protocol"
)

// writeControl drives the control state machine. only the edge of the ENABLE
// bit causes a state change. the BUF_FLUSH bit is never stored.
func (dev *Device) writeControl(value uint32) uint32 {
	if (value^dev.regs[CONTROL])&ControlEnable == ControlEnable {
		dev.regs[STATUS] &^= StatusActive

		if value&ControlEnable == ControlEnable {
			dev.startStream()
		} else {
			dev.stopStream()
		}
	}

	if value&ControlBufFlush == ControlBufFlush {
		value &^= ControlBufFlush
		dev.flushBuffer()
	}

	dev.regs[CONTROL] = value
	return value
}

func (dev *Device) startStream() {
	if !dev.connected() {
		dev.log("start stream: server not connected")
		return
	}

	width := dev.regs[FRAME_WIDTH]
	height := dev.regs[FRAME_HEIGHT]
	format := protocol.ColorFormat(dev.regs[COLOR_FORMAT])
	rate := dev.regs[FRAME_RATE]

	ok, err := dev.backend.ConfigureStream(width, height, format, rate)
	if err != nil {
		dev.log("configure stream: %v", err)
		return
	}
	if !ok {
		dev.log("configure stream failed (%dx%d %s %dfps)", width, height, format, rate)
		return
	}

	ok, err = dev.backend.EnableStream(dev.mode())
	if err != nil {
		dev.log("enable stream: %v", err)
		return
	}
	if !ok {
		dev.log("enable stream failed")
		return
	}

	dev.regs[STATUS] |= StatusActive
	dev.regs[STATUS] &^= statusReadClear
}

func (dev *Device) stopStream() {
	if !dev.connected() {
		dev.log("stop stream: server not connected")
		return
	}

	if _, err := dev.backend.DisableStream(); err != nil {
		dev.log("disable stream: %v", err)
	}
}

// empty the firmware's frame buffer
func (dev *Device) flushBuffer() {
	dev.regs[STATUS] |= StatusBufEmpty
	dev.regs[STATUS] &^= StatusBufFull
	dev.regs[FRAME_INDEX] = 0
	dev.regs[FRAME_COUNT] = 0
}

func (dev *Device) readStatus() uint32 {
	status := dev.regs[STATUS]
	dev.regs[STATUS] &^= statusReadClear
	return status
}

func (dev *Device) writeFilenameLen(value uint32) uint32 {
	dev.filename.Reset()
	dev.regs[FILENAME_VALID] = 0
	dev.regs[FILENAME_LEN] = value
	return value
}

// characters beyond the length given by FILENAME_LEN are ignored. the backend
// is asked to validate the filename when the last character arrives
func (dev *Device) writeFilenameChar(value uint32) uint32 {
	if uint32(dev.filename.Len()) >= dev.regs[FILENAME_LEN] {
		return value
	}

	dev.filename.WriteByte(byte(value))
	if uint32(dev.filename.Len()) < dev.regs[FILENAME_LEN] {
		return value
	}

	if !dev.connected() {
		dev.log("set filename: server not connected")
		return value
	}

	name := dev.filename.String()
	ok, err := dev.backend.SetFilename(name, dev.mode())
	if err != nil {
		dev.log("set filename: %v", err)
		ok = false
	}

	if ok {
		dev.regs[FILENAME_VALID] = 1
	} else {
		dev.regs[FILENAME_VALID] = 0
		dev.log("set filename: %s rejected", name)
	}

	return value
}

// the firmware writes FRAME_INDEX when it has finished with the frame at the
// current index. the value written is not used
func (dev *Device) writeFrameIndex(_ uint32) uint32 {
	dev.regs[FRAME_INDEX]++
	if dev.regs[FRAME_INDEX] >= dev.regs[FRAME_COUNT_MAX] {
		dev.regs[FRAME_INDEX] = 0
	}

	if dev.mode() == protocol.ModeInput {
		// the firmware has consumed a frame
		if dev.regs[FRAME_COUNT] > 0 {
			dev.regs[FRAME_COUNT]--
		}
		if dev.regs[FRAME_COUNT] == 0 {
			dev.regs[STATUS] |= StatusBufEmpty
		}
		dev.regs[STATUS] &^= StatusBufFull
	} else {
		// the firmware has produced a frame
		if dev.regs[FRAME_COUNT] < dev.regs[FRAME_COUNT_MAX] {
			dev.regs[FRAME_COUNT]++
		}
		if dev.regs[FRAME_COUNT] == dev.regs[FRAME_COUNT_MAX] {
			dev.regs[STATUS] |= StatusBufFull
		}
		dev.regs[STATUS] &^= StatusBufEmpty
	}

	return dev.regs[FRAME_INDEX]
}

func (dev *Device) writeFrameCountMax(value uint32) uint32 {
	dev.regs[FRAME_COUNT_MAX] = value
	dev.flushBuffer()
	return value
}
