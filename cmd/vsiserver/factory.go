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
	"github.com/jetsetilly/vsivideo/backend"
	"github.com/jetsetilly/vsivideo/digest"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/media/camera"
	"github.com/jetsetilly/vsivideo/media/ffmpeg"
	"github.com/jetsetilly/vsivideo/media/sdlwindow"
	"github.com/jetsetilly/vsivideo/version"
)

// newFactory returns the media used by the backend. Video files are only
// available if ffmpeg is installed.
func newFactory(display string) backend.Factory {
	var fac backend.Factory

	if err := ffmpeg.Available(); err != nil {
		logger.Logf(logger.Allow, "vsiserver", "video files not available: %v", err)
	} else {
		fac.OpenVideo = func(filename string, start int) (media.Reader, error) {
			rdr, err := ffmpeg.Open(filename, start)
			if err != nil {
				return nil, err
			}
			return rdr, nil
		}
		fac.CreateVideo = func(filename string, width, height int, rate float64) (media.Writer, error) {
			wtr, err := ffmpeg.Create(filename, width, height, rate)
			if err != nil {
				return nil, err
			}
			return wtr, nil
		}
	}

	fac.OpenCamera = func(width, height int, rate float64) (media.Reader, error) {
		cam, err := camera.Open(width, height, rate)
		if err != nil {
			return nil, err
		}
		return cam, nil
	}

	switch display {
	case "sdl":
		fac.OpenDisplay = func(width, height int) (media.Display, error) {
			win, err := sdlwindow.NewWindow(version.ApplicationName, width, height)
			if err != nil {
				return nil, err
			}
			return win, nil
		}
	case "digest":
		fac.OpenDisplay = func(_, _ int) (media.Display, error) {
			return digest.NewVideo("preview"), nil
		}
	default:
		fac.OpenDisplay = func(_, _ int) (media.Display, error) {
			return &media.NullDisplay{}, nil
		}
	}

	return fac
}
