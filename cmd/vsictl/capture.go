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

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/driver/videodrv"
	"github.com/jetsetilly/vsivideo/media"
)

// capture frames from an input channel until the end of the stream or until
// limit frames have been received. a limit of zero means no limit. each frame
// is passed to the save function. returns the number of frames received
func (s *session) capture(limit int, save func(n int, f *media.Frame) error) (int, error) {
	if !s.ch.Input() {
		return 0, curated.Errorf(videodrv.ErrParameter, fmt.Sprintf("%s is not an input channel", s.ch))
	}

	if err := s.drv.StreamStart(s.ch, videodrv.Continuous); err != nil {
		return 0, err
	}

	var n int
	var idle int

	for limit == 0 || n < limit {
		ev, err := s.tick()
		if err != nil {
			return n, err
		}

		received := false
		for limit == 0 || n < limit {
			buf, ok := s.drv.GetFrameBuf(s.ch)
			if !ok {
				break
			}

			f, err := media.Decode(buf, int(s.cfg.width), int(s.cfg.height), s.cfg.format)
			if err != nil {
				return n, err
			}
			if err := save(n, f); err != nil {
				return n, err
			}
			if err := s.drv.ReleaseFrame(s.ch); err != nil {
				return n, err
			}

			n++
			received = true
		}

		if ev&videodrv.EventEOS == videodrv.EventEOS {
			break
		}

		if received {
			idle = 0
		} else {
			idle++
			if idle >= maxIdleTicks {
				return n, curated.Errorf(videodrv.ErrDriver, fmt.Sprintf("%s: no frames received", s.ch))
			}
		}
	}

	return n, s.drv.StreamStop(s.ch)
}
