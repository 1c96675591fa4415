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

import (
	"fmt"

	"github.com/jetsetilly/vsivideo/hardware/vsi"
	"github.com/jetsetilly/vsivideo/logger"
)

// Peripheral is the behaviour behind a Block. It is implemented by vsi.Device.
type Peripheral interface {
	ReadRegister(index uint32) uint32
	WriteRegister(index uint32, value uint32) uint32
	ReadIRQStatus() uint32
	WriteIRQStatus(mask uint32) uint32
	WriteTimerRegister(index uint32, value uint32) uint32
	WriteDMARegister(index uint32, value uint32) uint32
	OnTimerOverflow()
	DMARead(size uint32) []byte
	DMAWrite(data []byte, size uint32)
}

var _ Peripheral = (*vsi.Device)(nil)

// the number of user registers forwarded to the peripheral
const numForwarded = uint32(vsi.NumRegisters)

// Block is a single VSI block. It is not safe for concurrent use.
type Block struct {
	per Peripheral
	mem *Memory

	irqEnable uint32
	irqSoft   uint32
	irq       func()

	timerControl  uint32
	timerInterval uint32
	timerCount    uint32
	elapsed       uint32

	dmaControl    uint32
	dmaAddress    uint32
	dmaBlockSize  uint32
	dmaBlockNum   uint32
	dmaBlockIndex uint32

	regs [NumRegs]uint32
}

// NewBlock is the preferred method of initialisation for the Block type. The
// memory argument is the memory used for DMA transfers.
func NewBlock(per Peripheral, mem *Memory) *Block {
	return &Block{
		per: per,
		mem: mem,
	}
}

func (blk *Block) String() string {
	return fmt.Sprintf("timer=%#02x interval=%d count=%d dma=%#02x block=%d/%d",
		blk.timerControl, blk.timerInterval, blk.timerCount,
		blk.dmaControl, blk.dmaBlockIndex, blk.dmaBlockNum)
}

// SetIRQHandler sets the function called when the block raises an interrupt.
// The handler may access the block.
func (blk *Block) SetIRQHandler(f func()) {
	blk.irq = f
}

// Memory returns the memory used by the block for DMA transfers.
func (blk *Block) Memory() *Memory {
	return blk.mem
}

func (blk *Block) irqStatus() uint32 {
	return blk.per.ReadIRQStatus() | blk.irqSoft
}

// Read the register at offset. Undefined offsets read as zero.
func (blk *Block) Read(offset uint32) uint32 {
	switch offset {
	case IRQEnable:
		return blk.irqEnable
	case IRQStatus:
		return blk.irqStatus()
	case TimerControl:
		return blk.timerControl
	case TimerInterval:
		return blk.timerInterval
	case TimerCount:
		return blk.timerCount
	case DMAControl:
		return blk.dmaControl
	case DMAAddress:
		return blk.dmaAddress
	case DMABlockSize:
		return blk.dmaBlockSize
	case DMABlockNum:
		return blk.dmaBlockNum
	case DMABlockIndex:
		return blk.dmaBlockIndex
	}

	if idx, ok := regIndex(offset); ok {
		if idx < numForwarded {
			blk.regs[idx] = blk.per.ReadRegister(idx)
		}
		return blk.regs[idx]
	}

	return 0
}

// Write value to the register at offset. Writes to read-only or undefined
// offsets are ignored.
func (blk *Block) Write(offset uint32, value uint32) {
	switch offset {
	case IRQEnable:
		blk.irqEnable = value
		return
	case IRQSet:
		blk.irqSoft |= value
		blk.raise()
		return
	case IRQClear:
		blk.per.WriteIRQStatus(value)
		blk.irqSoft &^= value
		return
	case TimerControl:
		if value&TimerRun == TimerRun && blk.timerControl&TimerRun == 0 {
			blk.timerCount = 0
			blk.elapsed = 0
		}
		blk.timerControl = blk.per.WriteTimerRegister(vsi.TimerControl, value)
		return
	case TimerInterval:
		blk.timerInterval = blk.per.WriteTimerRegister(vsi.TimerInterval, value)
		return
	case DMAControl:
		if value&DMAEnable == DMAEnable && blk.dmaControl&DMAEnable == 0 {
			blk.dmaBlockIndex = 0
		}
		blk.dmaControl = blk.per.WriteDMARegister(vsi.DMAControl, value)
		return
	case DMAAddress:
		blk.dmaAddress = value
		return
	case DMABlockSize:
		blk.dmaBlockSize = value
		return
	case DMABlockNum:
		blk.dmaBlockNum = value
		return
	}

	if idx, ok := regIndex(offset); ok {
		if idx < numForwarded {
			value = blk.per.WriteRegister(idx, value)
		}
		blk.regs[idx] = value
	}
}

// regIndex converts an offset to a user register index.
func regIndex(offset uint32) (uint32, bool) {
	if offset < Regs || offset&0x03 != 0 {
		return 0, false
	}
	idx := (offset - Regs) >> 2
	if idx >= NumRegs {
		return 0, false
	}
	return idx, true
}

// raise calls the IRQ handler if an enabled interrupt is pending.
func (blk *Block) raise() {
	if blk.irq == nil {
		return
	}
	if blk.irqStatus()&blk.irqEnable != 0 {
		blk.irq()
	}
}

// Running returns true if the timer is running.
func (blk *Block) Running() bool {
	return blk.timerControl&TimerRun == TimerRun
}

// Advance the block's clock by the number of microseconds. Returns the number
// of timer overflows that occurred.
func (blk *Block) Advance(us uint32) int {
	if !blk.Running() || blk.timerInterval == 0 {
		return 0
	}

	var n int

	blk.elapsed += us
	for blk.elapsed >= blk.timerInterval {
		blk.elapsed -= blk.timerInterval
		blk.overflow()
		n++

		if blk.timerControl&TimerPeriodic == 0 {
			blk.timerControl &^= TimerRun
			blk.per.WriteTimerRegister(vsi.TimerControl, blk.timerControl)
			blk.elapsed = 0
			break
		}

		// the IRQ handler may have stopped the timer
		if !blk.Running() {
			blk.elapsed = 0
			break
		}
	}

	return n
}

func (blk *Block) overflow() {
	if blk.timerControl&TimerTrigDMA == TimerTrigDMA && blk.dmaControl&DMAEnable == DMAEnable {
		blk.transfer()
	}

	blk.per.OnTimerOverflow()
	blk.timerCount++

	if blk.timerControl&TimerTrigIRQ == TimerTrigIRQ {
		blk.raise()
	}
}

// transfer a single block between the peripheral and memory.
func (blk *Block) transfer() {
	size := blk.dmaBlockSize
	if size == 0 {
		return
	}
	address := blk.dmaAddress + blk.dmaBlockIndex*size

	if blk.dmaControl&DMADirection == DMADirectionM2P {
		data, err := blk.mem.Read(address, size)
		if err != nil {
			logger.Log(logger.Allow, "armvsi", err)
		} else {
			blk.per.DMAWrite(data, size)
		}
	} else {
		block := make([]byte, size)
		copy(block, blk.per.DMARead(size))
		err := blk.mem.Write(address, block)
		if err != nil {
			logger.Log(logger.Allow, "armvsi", err)
		}
	}

	if blk.dmaBlockNum > 0 {
		blk.dmaBlockIndex = (blk.dmaBlockIndex + 1) % blk.dmaBlockNum
	}
}
