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

// Package vsi implements the register level model of the VSI video
// peripheral. The Device type is what the hosting simulator talks to: it
// reacts to register reads and writes, timer overflows and DMA transfers, and
// forwards stream operations to a Backend.
//
// The user register file has thirteen registers. The index of each register
// and the meaning of the bits in the MODE, CONTROL and STATUS registers are
// given by the constants in this package.
//
// The OVERFLOW, UNDERFLOW and EOS bits of the STATUS register are cleared
// when the register is read. The ACTIVE, BUF_EMPTY and BUF_FULL bits are level
// bits and are unaffected by reading.
//
// FRAME_COUNT counts the frames in the firmware's buffer and never leaves the
// range [0, FRAME_COUNT_MAX]. Attempts to move it outside of the range set the
// OVERFLOW or UNDERFLOW bit instead.
//
// No error is ever returned to the simulator. Failures to communicate with the
// backend are logged and leave the registers in a well defined state.
package vsi
