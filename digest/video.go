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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
)

// Video is a fingerprint of a sequence of frames. It implements the
// media.Display interface so that it can stand in for a preview window.
type Video struct {
	digest [sha1.Size]byte
	frames int

	// the previous digest followed by the pixels of the frame
	buffer []byte

	// if Label is not empty then the digest is logged on Close()
	Label string
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo(label string) *Video {
	return &Video{Label: label}
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	clear(dig.digest[:])
	dig.frames = 0
}

// Frames returns the number of frames included in the digest.
func (dig *Video) Frames() int {
	return dig.frames
}

// Show implements the media.Display interface.
func (dig *Video) Show(f *media.Frame) error {
	// the frame size is included so that frames with the same pixels but of
	// different shapes do not have the same digest
	hdr := fmt.Sprintf("%dx%d", f.Width, f.Height)

	l := len(dig.digest) + len(hdr) + len(f.Pix)
	if cap(dig.buffer) < l {
		dig.buffer = make([]byte, l)
	}
	dig.buffer = dig.buffer[:l]

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the buffer
	n := copy(dig.buffer, dig.digest[:])
	n += copy(dig.buffer[n:], hdr)
	copy(dig.buffer[n:], f.Pix)

	dig.digest = sha1.Sum(dig.buffer)
	dig.frames++

	return nil
}

// Close implements the media.Display interface.
func (dig *Video) Close() error {
	if dig.Label != "" {
		logger.Logf(logger.Allow, "digest", "%s: %d frames: %s", dig.Label, dig.frames, dig.Hash())
	}
	return nil
}
