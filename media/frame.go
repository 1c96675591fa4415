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
	"fmt"
	"image"
	"image/color"
)

// Frame is a single image in packed RGB24 format. Pixels are stored row by
// row with no padding.
//
// Frame implements the image.Image interface.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame returns a black frame of the specified size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// ColorModel implements the image.Image interface.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the image.Image interface.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	i := (y*f.Width + x) * 3
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: 0xff}
}

// RGBA returns a copy of the frame as an image.RGBA.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for s, d := 0, 0; s < len(f.Pix); s, d = s+3, d+4 {
		img.Pix[d] = f.Pix[s]
		img.Pix[d+1] = f.Pix[s+1]
		img.Pix[d+2] = f.Pix[s+2]
		img.Pix[d+3] = 0xff
	}
	return img
}

// FromImage creates a new frame from any image.Image. Alpha is discarded.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			for x := 0; x < f.Width; x++ {
				f.Pix[i] = row[x*4]
				f.Pix[i+1] = row[x*4+1]
				f.Pix[i+2] = row[x*4+2]
				i += 3
			}
		}
		return f
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			f.Pix[i] = c.R
			f.Pix[i+1] = c.G
			f.Pix[i+2] = c.B
			i += 3
		}
	}
	return f
}

// SubFrame returns a copy of the area of the frame described by r. The
// rectangle is clipped to the bounds of the frame.
func (f *Frame) SubFrame(r image.Rectangle) *Frame {
	r = r.Intersect(f.Bounds())
	sub := NewFrame(r.Dx(), r.Dy())
	for y := 0; y < sub.Height; y++ {
		s := ((r.Min.Y+y)*f.Width + r.Min.X) * 3
		copy(sub.Pix[y*sub.Width*3:(y+1)*sub.Width*3], f.Pix[s:s+sub.Width*3])
	}
	return sub
}
