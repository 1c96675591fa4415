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
	"image"

	"golang.org/x/image/draw"
)

// CropRect returns the largest rectangle, centred in a frame of the given
// size, that has the aspect ratio of the target size.
//
// If the frame is too tall for the aspect ratio the top and bottom are
// trimmed. If it is too wide the left and right are trimmed.
func CropRect(width, height, targetWidth, targetHeight int) image.Rectangle {
	if targetWidth <= 0 || targetHeight <= 0 {
		return image.Rect(0, 0, width, height)
	}

	cropWidth := height * targetWidth / targetHeight
	cropHeight := width * targetHeight / targetWidth

	var w, h int
	if cropWidth > width {
		w = width
		h = cropHeight
	} else if cropHeight > height {
		w = cropWidth
		h = height
	} else {
		w = cropWidth
		h = cropHeight
	}

	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// CropToAspect returns the centre of the frame cropped to the aspect ratio of
// the target size. The frame is returned unchanged if no cropping is
// required.
func CropToAspect(f *Frame, targetWidth, targetHeight int) *Frame {
	r := CropRect(f.Width, f.Height, targetWidth, targetHeight)
	if r == f.Bounds() {
		return f
	}
	return f.SubFrame(r)
}

// Resize returns the frame scaled to the new size with bilinear
// interpolation. The frame is returned unchanged if it is already the
// requested size.
func Resize(f *Frame, width, height int) *Frame {
	if f.Width == width && f.Height == height {
		return f
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), f.RGBA(), f.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// Fit crops the frame to the aspect ratio of the requested size and then
// resizes it.
func Fit(f *Frame, width, height int) *Frame {
	return Resize(CropToAspect(f, width, height), width, height)
}
