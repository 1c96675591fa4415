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

// access functions for a single user register
type access struct {
	read  func(dev *Device) uint32
	write func(dev *Device, value uint32) uint32
}

// registerTable is indexed by Register. Every register has both a read and a
// write function.
var registerTable = [NumRegisters]access{
	MODE: {
		read: plainRead(MODE),
		write: plainWrite(MODE),
	},
	CONTROL: {
		read:  plainRead(CONTROL),
		write: (*Device).writeControl,
	},
	STATUS: {
		read:  (*Device).readStatus,
		write: readOnly(STATUS),
	},
	FILENAME_LEN: {
		read:  plainRead(FILENAME_LEN),
		write: (*Device).writeFilenameLen,
	},
	FILENAME_CHAR: {
		read:  plainRead(FILENAME_CHAR),
		write: (*Device).writeFilenameChar,
	},
	FILENAME_VALID: {
		read:  plainRead(FILENAME_VALID),
		write: readOnly(FILENAME_VALID),
	},
	FRAME_WIDTH: {
		read:  plainRead(FRAME_WIDTH),
		write: nonZero(FRAME_WIDTH),
	},
	FRAME_HEIGHT: {
		read:  plainRead(FRAME_HEIGHT),
		write: nonZero(FRAME_HEIGHT),
	},
	COLOR_FORMAT: {
		read:  plainRead(COLOR_FORMAT),
		write: plainWrite(COLOR_FORMAT),
	},
	FRAME_RATE: {
		read:  plainRead(FRAME_RATE),
		write: plainWrite(FRAME_RATE),
	},
	FRAME_INDEX: {
		read:  plainRead(FRAME_INDEX),
		write: (*Device).writeFrameIndex,
	},
	FRAME_COUNT: {
		read:  plainRead(FRAME_COUNT),
		write: readOnly(FRAME_COUNT),
	},
	FRAME_COUNT_MAX: {
		read:  plainRead(FRAME_COUNT_MAX),
		write: (*Device).writeFrameCountMax,
	},
}

func plainRead(reg Register) func(*Device) uint32 {
	return func(dev *Device) uint32 {
		return dev.regs[reg]
	}
}

func plainWrite(reg Register) func(*Device, uint32) uint32 {
	return func(dev *Device, value uint32) uint32 {
		dev.regs[reg] = value
		return value
	}
}

// writes of zero are ignored
func nonZero(reg Register) func(*Device, uint32) uint32 {
	return func(dev *Device, value uint32) uint32 {
		if value != 0 {
			dev.regs[reg] = value
		}
		return dev.regs[reg]
	}
}

func readOnly(reg Register) func(*Device, uint32) uint32 {
	return func(dev *Device, _ uint32) uint32 {
		return dev.regs[reg]
	}
}
