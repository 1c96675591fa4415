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

package armvsi

// Base addresses of the eight VSI blocks in the simulator's memory map.
const (
	VSI0Base uint32 = 0x4ff00000
	VSI1Base uint32 = 0x4ff10000
	VSI2Base uint32 = 0x4ff20000
	VSI3Base uint32 = 0x4ff30000
	VSI4Base uint32 = 0x4ff40000
	VSI5Base uint32 = 0x4ff50000
	VSI6Base uint32 = 0x4ff60000
	VSI7Base uint32 = 0x4ff70000
)

// Offsets of the block registers from the base address.
const (
	IRQEnable uint32 = 0x000
	IRQSet    uint32 = 0x004
	IRQClear  uint32 = 0x008
	IRQStatus uint32 = 0x00c

	TimerControl  uint32 = 0x100
	TimerInterval uint32 = 0x104
	TimerCount    uint32 = 0x108

	DMAControl    uint32 = 0x200
	DMAAddress    uint32 = 0x204
	DMABlockSize  uint32 = 0x208
	DMABlockNum   uint32 = 0x20c
	DMABlockIndex uint32 = 0x210

	// Regs is the offset of the first user register. Use the Reg() function
	// for the offset of a specific user register
	Regs uint32 = 0x300
)

// NumRegs is the number of user registers in the block.
const NumRegs = 64

// Reg returns the offset of the user register.
func Reg(index uint32) uint32 {
	return Regs + index*4
}

// Timer control bits.
const (
	TimerRun      uint32 = 1 << 0
	TimerPeriodic uint32 = 1 << 1
	TimerTrigIRQ  uint32 = 1 << 2
	TimerTrigDMA  uint32 = 1 << 3
)

// DMA control bits.
const (
	DMAEnable       uint32 = 1 << 0
	DMADirection    uint32 = 1 << 1
	DMADirectionP2M uint32 = 0 << 1
	DMADirectionM2P uint32 = 1 << 1
)
