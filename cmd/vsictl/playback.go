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

// playback sends the frames to an output channel. frames are fitted to the
// size of the stream before being encoded. the buffer is filled before the
// stream is started and the stream is stopped once the buffer has drained.
// returns the number of frames sent
func (s *session) playback(frames []*media.Frame) (int, error) {
	if s.ch.Input() {
		return 0, curated.Errorf(videodrv.ErrParameter, fmt.Sprintf("%s is not an output channel", s.ch))
	}

	w := int(s.cfg.width)
	h := int(s.cfg.height)

	var next int

	fill := func() error {
		for next < len(frames) {
			buf, ok := s.drv.GetFrameBuf(s.ch)
			if !ok {
				return nil
			}

			f := frames[next]
			if f.Width != w || f.Height != h {
				f = media.Fit(f, w, h)
			}

			data, err := media.Encode(f, s.cfg.format)
			if err != nil {
				return err
			}

			// the frame buffer is rounded up to a word boundary
			clear(buf[copy(buf, data):])

			if err := s.drv.ReleaseFrame(s.ch); err != nil {
				return err
			}
			next++
		}
		return nil
	}

	if err := fill(); err != nil {
		return 0, err
	}

	if next == 0 {
		return 0, nil
	}

	if err := s.drv.StreamStart(s.ch, videodrv.Continuous); err != nil {
		return 0, err
	}

	for !(next >= len(frames) && s.drv.GetStatus(s.ch).BufEmpty) {
		if _, err := s.tick(); err != nil {
			return next, err
		}
		if err := fill(); err != nil {
			return next, err
		}
	}

	return next, s.drv.StreamStop(s.ch)
}
