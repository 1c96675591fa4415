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

package media

import (
	"encoding/binary"
	"image/color"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/protocol"
)

// the size of a chroma plane for the YUV formats. chroma is subsampled by two
// in both directions
func chromaSize(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

// MaxFrameSize is the largest frame, in bytes, in any color format. A native
// frame is never smaller than an encoded frame of the same size.
const MaxFrameSize = 64 * 1024 * 1024

// ValidSize returns true if a native frame of the given size is no larger
// than MaxFrameSize.
func ValidSize(width, height int) bool {
	if width <= 0 || height <= 0 || width > MaxFrameSize || height > MaxFrameSize {
		return false
	}
	return uint64(width)*uint64(height)*3 <= MaxFrameSize
}

// FrameSize returns the number of bytes required by a frame of the given size
// in the color format. Returns zero for an unsupported format or for a size
// rejected by ValidSize.
func FrameSize(width, height int, format protocol.ColorFormat) int {
	if !ValidSize(width, height) {
		return 0
	}
	switch format {
	case protocol.Grayscale8:
		return width * height
	case protocol.RGB888:
		return width * height * 3
	case protocol.BGR565:
		return width * height * 2
	case protocol.YUV420, protocol.NV12, protocol.NV21:
		cw, ch := chromaSize(width, height)
		return width*height + 2*cw*ch
	}
	return 0
}

// Encode converts the frame to the color format.
func Encode(f *Frame, format protocol.ColorFormat) ([]byte, error) {
	switch format {
	case protocol.Grayscale8:
		return encodeGray(f), nil
	case protocol.RGB888:
		data := make([]byte, len(f.Pix))
		copy(data, f.Pix)
		return data, nil
	case protocol.BGR565:
		return encodeBGR565(f), nil
	case protocol.YUV420, protocol.NV12, protocol.NV21:
		return encodeYUV(f, format), nil
	}
	return nil, curated.Errorf(MediaError, curated.Errorf(ErrFormat, format))
}

// Decode converts data in the color format to a new frame. The data can be
// longer than required, in which case the excess is ignored.
func Decode(data []byte, width, height int, format protocol.ColorFormat) (*Frame, error) {
	sz := FrameSize(width, height, format)
	if sz == 0 {
		return nil, curated.Errorf(MediaError, curated.Errorf(ErrFormat, format))
	}
	if len(data) < sz {
		return nil, curated.Errorf(MediaError, curated.Errorf(ErrShortBuffer, width, height, format, len(data), sz))
	}

	f := NewFrame(width, height)

	switch format {
	case protocol.Grayscale8:
		for i, y := range data[:width*height] {
			f.Pix[i*3] = y
			f.Pix[i*3+1] = y
			f.Pix[i*3+2] = y
		}
	case protocol.RGB888:
		copy(f.Pix, data)
	case protocol.BGR565:
		decodeBGR565(f, data)
	case protocol.YUV420, protocol.NV12, protocol.NV21:
		decodeYUV(f, data, format)
	}

	return f, nil
}

func encodeGray(f *Frame) []byte {
	data := make([]byte, f.Width*f.Height)
	for i := range data {
		y, _, _ := color.RGBToYCbCr(f.Pix[i*3], f.Pix[i*3+1], f.Pix[i*3+2])
		data[i] = y
	}
	return data
}

func encodeBGR565(f *Frame) []byte {
	data := make([]byte, f.Width*f.Height*2)
	for i := 0; i < f.Width*f.Height; i++ {
		r := uint16(f.Pix[i*3]) >> 3
		g := uint16(f.Pix[i*3+1]) >> 2
		b := uint16(f.Pix[i*3+2]) >> 3
		binary.LittleEndian.PutUint16(data[i*2:], r<<11|g<<5|b)
	}
	return data
}

func decodeBGR565(f *Frame, data []byte) {
	for i := 0; i < f.Width*f.Height; i++ {
		v := binary.LittleEndian.Uint16(data[i*2:])
		r := uint8(v>>11) & 0x1f
		g := uint8(v>>5) & 0x3f
		b := uint8(v) & 0x1f

		// expand to eight bits by replicating the most significant bits
		f.Pix[i*3] = r<<3 | r>>2
		f.Pix[i*3+1] = g<<2 | g>>4
		f.Pix[i*3+2] = b<<3 | b>>2
	}
}

// chroma offsets for the second and third planes (or the interleaved plane)
// of the YUV formats. for NV12 and NV21 the step is two and the offsets are
// within the single interleaved plane
func chromaLayout(width, height int, format protocol.ColorFormat) (u, v, step int) {
	cw, ch := chromaSize(width, height)
	luma := width * height

	switch format {
	case protocol.NV12:
		return luma, luma + 1, 2
	case protocol.NV21:
		return luma + 1, luma, 2
	}
	return luma, luma + cw*ch, 1
}

func encodeYUV(f *Frame, format protocol.ColorFormat) []byte {
	data := make([]byte, FrameSize(f.Width, f.Height, format))
	cw, ch := chromaSize(f.Width, f.Height)
	uOffset, vOffset, step := chromaLayout(f.Width, f.Height, format)

	// chroma is the average of each 2x2 block of pixels. blocks at the right
	// and bottom edges may be smaller
	sumU := make([]int, cw*ch)
	sumV := make([]int, cw*ch)
	count := make([]int, cw*ch)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := y*f.Width + x
			yy, cb, cr := color.RGBToYCbCr(f.Pix[i*3], f.Pix[i*3+1], f.Pix[i*3+2])
			data[i] = yy

			c := (y/2)*cw + x/2
			sumU[c] += int(cb)
			sumV[c] += int(cr)
			count[c]++
		}
	}

	for c := range count {
		if count[c] == 0 {
			continue
		}
		data[uOffset+c*step] = uint8((sumU[c] + count[c]/2) / count[c])
		data[vOffset+c*step] = uint8((sumV[c] + count[c]/2) / count[c])
	}

	return data
}

func decodeYUV(f *Frame, data []byte, format protocol.ColorFormat) {
	cw, _ := chromaSize(f.Width, f.Height)
	uOffset, vOffset, step := chromaLayout(f.Width, f.Height, format)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := y*f.Width + x
			c := (y/2)*cw + x/2
			r, g, b := color.YCbCrToRGB(data[i], data[uOffset+c*step], data[vOffset+c*step])
			f.Pix[i*3] = r
			f.Pix[i*3+1] = g
			f.Pix[i*3+2] = b
		}
	}
}
