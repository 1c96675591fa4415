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

// DMARead transfers a frame from the peripheral to memory. The returned slice
// is empty if the stream is not active or if the backend has no frame to give.
// The slice may be shorter than size and it is the responsibility of the
// caller to pad the transfer.
//
// An attempt to transfer when FRAME_COUNT is already at FRAME_COUNT_MAX sets
// the OVERFLOW bit. An empty frame, which the backend returns at the end of
// the stream, leaves FRAME_COUNT and the buffer flags unchanged.
func (dev *Device) DMARead(size uint32) []byte {
	if dev.regs[STATUS]&StatusActive == 0 {
		return []byte{}
	}

	if !dev.connected() {
		dev.log("dma read: server not connected")
		return []byte{}
	}

	data, eos, err := dev.backend.ReadFrame()
	if err != nil {
		dev.log("dma read: %v", err)
		return []byte{}
	}

	if eos {
		dev.regs[STATUS] |= StatusEOS
	}

	// no frame was delivered so the buffer is unchanged
	if len(data) == 0 {
		return []byte{}
	}

	if dev.regs[FRAME_COUNT] < dev.regs[FRAME_COUNT_MAX] {
		dev.regs[FRAME_COUNT]++
	} else {
		dev.regs[STATUS] |= StatusOverflow
	}
	if dev.regs[FRAME_COUNT] == dev.regs[FRAME_COUNT_MAX] {
		dev.regs[STATUS] |= StatusBufFull
	}
	dev.regs[STATUS] &^= StatusBufEmpty

	return data
}

// DMAWrite transfers a frame from memory to the peripheral. Nothing happens if
// the stream is not active.
//
// An attempt to transfer when FRAME_COUNT is zero sets the UNDERFLOW bit.
func (dev *Device) DMAWrite(data []byte, size uint32) {
	if dev.regs[STATUS]&StatusActive == 0 {
		return
	}

	if !dev.connected() {
		dev.log("dma write: server not connected")
		return
	}

	if size < uint32(len(data)) {
		data = data[:size]
	}

	if err := dev.backend.WriteFrame(data); err != nil {
		dev.log("dma write: %v", err)
		return
	}

	if dev.regs[FRAME_COUNT] > 0 {
		dev.regs[FRAME_COUNT]--
	} else {
		dev.regs[STATUS] |= StatusUnderflow
	}
	if dev.regs[FRAME_COUNT] == 0 {
		dev.regs[STATUS] |= StatusBufEmpty
	}
	dev.regs[STATUS] &^= StatusBufFull
}
