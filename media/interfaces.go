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

// Reader is a source of frames, such as a video file or a camera.
type Reader interface {
	// ReadFrame returns the next frame. Returns io.EOF when no more frames are
	// available.
	ReadFrame() (*Frame, error)

	// FrameRate returns the number of frames per second of the source.
	FrameRate() float64

	// Size returns the width and height of the frames.
	Size() (int, int)

	// Position returns the index of the next frame to be read.
	Position() int

	Close() error
}

// Writer is a destination for frames, such as a video file.
type Writer interface {
	WriteFrame(f *Frame) error
	Close() error
}

// Display shows frames to the user.
type Display interface {
	Show(f *Frame) error
	Close() error
}

// NullDisplay is a Display that discards frames. It counts the number of
// frames it has been shown.
type NullDisplay struct {
	Frames int
}

// Show implements the Display interface.
func (d *NullDisplay) Show(_ *Frame) error {
	d.Frames++
	return nil
}

// Close implements the Display interface.
func (d *NullDisplay) Close() error {
	return nil
}
