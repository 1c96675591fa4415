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
	"image/jpeg"
	"image/png"
	"os"

	"github.com/jetsetilly/vsivideo/curated"
	"golang.org/x/image/bmp"
)

// JPEG quality used when saving frames
const jpegQuality = 90

// LoadImage loads the image file and converts it to a frame. The format of the
// file is determined by its content.
func LoadImage(filename string) (*Frame, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(MediaError, err)
	}
	defer fh.Close()

	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, curated.Errorf(MediaError, err)
	}

	return FromImage(img), nil
}

// SaveImage writes the frame to the file. The format is determined by the
// extension of the filename. Any existing file is replaced.
func SaveImage(filename string, f *Frame) (rerr error) {
	if KindOf(filename) != Image {
		return curated.Errorf(MediaError, curated.Errorf(ErrExtension, Ext(filename)))
	}

	fh, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(MediaError, err)
	}
	defer func() {
		if err := fh.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf(MediaError, err)
		}
	}()

	switch Ext(filename) {
	case ".png":
		err = png.Encode(fh, f)
	case ".jpg":
		err = jpeg.Encode(fh, f, &jpeg.Options{Quality: jpegQuality})
	case ".bmp":
		err = bmp.Encode(fh, f)
	}
	if err != nil {
		return curated.Errorf(MediaError, err)
	}

	return nil
}
