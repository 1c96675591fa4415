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

// Package videodrv is the firmware side of the VSI video peripheral. It is the
// video driver API used by applications running in the simulator, operating on
// the registers of up to four armvsi.Block instances.
//
// Channels are numbered In0, Out0, In1, Out1. Even channels are inputs and odd
// channels are outputs.
//
// A typical input sequence is:
//
//	Initialize(handler)
//	SetFile(In0, "clip.mp4")
//	Configure(In0, 320, 240, protocol.RGB888, 30)
//	SetBuf(In0, address, size)
//	StreamStart(In0, Continuous)
//
// after which frames are collected with GetFrameBuf() and ReleaseFrame() in
// response to EventFrame.
package videodrv
