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

package backend

import (
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/media"
)

// ErrUnavailable is returned by a Factory function that has not been
// provided.
const ErrUnavailable = "backend: %s not available"

// Factory creates the media handles used by the backend. Any of the functions
// can be nil, in which case streams that need them fail to enable.
type Factory struct {
	// OpenVideo opens a video file for reading. Frames before start are
	// skipped.
	OpenVideo func(filename string, start int) (media.Reader, error)

	// CreateVideo creates a video file, overwriting any existing file.
	CreateVideo func(filename string, width, height int, rate float64) (media.Writer, error)

	// OpenCamera opens the camera. The width, height and rate are
	// preferences.
	OpenCamera func(width, height int, rate float64) (media.Reader, error)

	// OpenDisplay opens a preview window.
	OpenDisplay func(width, height int) (media.Display, error)
}

func (fac Factory) openVideo(filename string, start int) (media.Reader, error) {
	if fac.OpenVideo == nil {
		return nil, curated.Errorf(ErrUnavailable, "video input")
	}
	return fac.OpenVideo(filename, start)
}

func (fac Factory) createVideo(filename string, width, height int, rate float64) (media.Writer, error) {
	if fac.CreateVideo == nil {
		return nil, curated.Errorf(ErrUnavailable, "video output")
	}
	return fac.CreateVideo(filename, width, height, rate)
}

func (fac Factory) openCamera(width, height int, rate float64) (media.Reader, error) {
	if fac.OpenCamera == nil {
		return nil, curated.Errorf(ErrUnavailable, "camera")
	}
	return fac.OpenCamera(width, height, rate)
}

func (fac Factory) openDisplay(width, height int) (media.Display, error) {
	if fac.OpenDisplay == nil {
		return nil, curated.Errorf(ErrUnavailable, "display")
	}
	return fac.OpenDisplay(width, height)
}
