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

	"github.com/jetsetilly/vsivideo/curated"
)

// ErrAddress is returned when an access is outside of the memory.
const ErrAddress = "armvsi: address out of range: %#08x (%d bytes)"

// Memory is a flat area of memory starting at Origin. The firmware's frame
// buffers and the DMA transfers of the block both use it.
type Memory struct {
	Origin uint32
	data   []byte
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory(origin uint32, size int) *Memory {
	return &Memory{
		Origin: origin,
		data:   make([]byte, size),
	}
}

func (mem *Memory) String() string {
	return fmt.Sprintf("%#08x-%#08x", mem.Origin, mem.Origin+uint32(len(mem.data))-1)
}

// Size returns the number of bytes in the memory.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Slice returns the area of memory directly. Changes to the slice are changes
// to the memory.
func (mem *Memory) Slice(address uint32, size uint32) ([]byte, error) {
	if address < mem.Origin {
		return nil, curated.Errorf(ErrAddress, address, size)
	}
	start := uint64(address - mem.Origin)
	end := start + uint64(size)
	if end > uint64(len(mem.data)) {
		return nil, curated.Errorf(ErrAddress, address, size)
	}
	return mem.data[start:end], nil
}

// Read returns a copy of the area of memory.
func (mem *Memory) Read(address uint32, size uint32) ([]byte, error) {
	s, err := mem.Slice(address, size)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	copy(data, s)
	return data, nil
}

// Write data to memory starting at address.
func (mem *Memory) Write(address uint32, data []byte) error {
	s, err := mem.Slice(address, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(s, data)
	return nil
}
