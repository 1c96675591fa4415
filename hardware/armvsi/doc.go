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

// Package armvsi models the Virtual Streaming Interface block as it is seen
// by firmware running in the simulator. The block contains an interrupt
// controller, a timer, a DMA controller and 64 user registers, all accessed
// through a memory mapped register layout.
//
// The behaviour of the block is given by a Peripheral, which is usually a
// vsi.Device. The first thirteen user registers are forwarded to the
// Peripheral and the remainder are plain storage.
//
// Time is advanced explicitly with the Advance() function. Every timer
// overflow performs one DMA block transfer (if enabled), notifies the
// peripheral and then calls the IRQ handler (if enabled and pending).
package armvsi
