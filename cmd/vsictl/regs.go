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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/davecgh/go-spew/spew"
	"github.com/jetsetilly/vsivideo/hardware/armvsi"
	"github.com/jetsetilly/vsivideo/hardware/vsi"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dumpRegisters writes the register file of the peripheral and the state of
// the peripheral block to output.
func (s *session) dumpRegisters(output io.Writer) {
	snap := s.dev.Snapshot()

	fmt.Fprintln(output, s.dev)
	fmt.Fprintln(output, s.blk)

	for r := vsi.Register(0); r < vsi.NumRegisters; r++ {
		fmt.Fprintf(output, "%-16s %#08x  %d\n", r, snap.Registers[r], snap.Registers[r])
	}

	fmt.Fprintf(output, "%-16s %#08x\n", "IRQ_ENABLE", s.blk.Read(armvsi.IRQEnable))
	fmt.Fprintf(output, "%-16s %#08x\n", "IRQ_STATUS", s.blk.Read(armvsi.IRQStatus))
	fmt.Fprintf(output, "%-16s %#08x\n", "TIMER_CONTROL", s.blk.Read(armvsi.TimerControl))
	fmt.Fprintf(output, "%-16s %d\n", "TIMER_INTERVAL", s.blk.Read(armvsi.TimerInterval))
	fmt.Fprintf(output, "%-16s %#08x\n", "DMA_CONTROL", s.blk.Read(armvsi.DMAControl))
	fmt.Fprintf(output, "%-16s %#08x\n", "DMA_ADDRESS", s.blk.Read(armvsi.DMAAddress))
	fmt.Fprintf(output, "%-16s %d\n", "DMA_BLOCK_SIZE", s.blk.Read(armvsi.DMABlockSize))
	fmt.Fprintf(output, "%-16s %d\n", "DMA_BLOCK_NUM", s.blk.Read(armvsi.DMABlockNum))
}

// dumpSnapshot writes the complete snapshot of the peripheral to output.
func (s *session) dumpSnapshot(output io.Writer) {
	dumpConfig.Fdump(output, s.dev.Snapshot())
}

// writeMemviz writes a graphviz description of the peripheral's data
// structures to the named file.
func (s *session) writeMemviz(filename string) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	memviz.Map(f, s.dev)

	return nil
}
