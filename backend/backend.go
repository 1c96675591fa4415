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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/protocol"
)

// Backend is the media side of the video device. It is not safe for
// concurrent use.
type Backend struct {
	fac Factory

	// the resolved filename. empty if the stream is a camera or display
	filename string
	kind     media.Kind

	// stream configuration
	width  int
	height int
	format protocol.ColorFormat
	rate   uint32

	active bool
	mode   protocol.Mode
	eos    bool

	// number of frames read from or written to the video file. used to resume
	// the stream after it has been disabled
	frameIndex int

	// frame drop ratio and accumulator for video sources with a higher frame
	// rate than requested
	dropRatio float64
	dropAcc   float64

	// media handles. only one is open at a time
	reader  media.Reader
	writer  media.Writer
	display media.Display
}

// NewBackend is the preferred method of initialisation for the Backend type.
func NewBackend(fac Factory) *Backend {
	return &Backend{
		fac:    fac,
		width:  300,
		height: 300,
		format: protocol.RGB888,
		rate:   30,
	}
}

func (b *Backend) String() string {
	s := strings.Builder{}
	if b.active {
		s.WriteString("active")
	} else {
		s.WriteString("inactive")
	}
	fmt.Fprintf(&s, " %s %dx%d %s %dfps", b.mode, b.width, b.height, b.format, b.rate)
	if b.filename != "" {
		fmt.Fprintf(&s, " %s [%d]", b.filename, b.frameIndex)
	}
	return s.String()
}

// Active returns true if the stream is active.
func (b *Backend) Active() bool {
	return b.active
}

func (b *Backend) log(detail string, args ...any) {
	logger.Logf(logger.Allow, "backend", detail, args...)
}

// SetFilename sets the file used by the next stream. The name is resolved
// relative to baseDir unless it is absolute. Returns false if the name is
// rejected.
//
// For input the file must exist and the next stream starts at the beginning
// of the file. For output any existing file is removed, unless the name is the
// same as the current name and the stream has already written frames to it,
// in which case the next stream resumes the file.
//
// A rejected name clears the current name, so that the next stream uses the
// camera or the preview window.
func (b *Backend) SetFilename(baseDir string, name string, mode protocol.Mode) bool {
	if b.active {
		b.log("set filename: stream is active")
		return false
	}

	filename := name
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(baseDir, name)
	}

	// only an output file can be resumed
	resume := mode == protocol.ModeOutput && b.mode == protocol.ModeOutput &&
		filename == b.filename && b.frameIndex > 0
	frameIndex := b.frameIndex

	// a rejected name leaves the stream with no file
	b.filename = ""
	b.kind = media.Unsupported
	b.frameIndex = 0

	kind := media.KindOf(name)
	if kind == media.Unsupported {
		b.log("set filename: unsupported file type: %s", name)
		return false
	}

	switch mode {
	case protocol.ModeInput:
		info, err := os.Stat(filename)
		if err != nil {
			b.log("set filename: %v", err)
			return false
		}
		if !info.Mode().IsRegular() {
			b.log("set filename: not a regular file: %s", filename)
			return false
		}

	case protocol.ModeOutput:
		if !resume {
			if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
				b.log("set filename: %v", err)
				return false
			}
		}
	}

	if resume {
		b.frameIndex = frameIndex
	}

	b.filename = filename
	b.kind = kind
	b.mode = mode

	b.log("filename set: %s (%s)", filename, mode)

	return true
}

// ConfigureStream sets the resolution, color format and frame rate of the
// stream. Returns false, leaving the configuration unchanged, if any value is
// invalid.
func (b *Backend) ConfigureStream(width, height uint32, format protocol.ColorFormat, rate uint32) bool {
	if width == 0 || height == 0 || rate == 0 {
		b.log("configure stream: invalid parameters (%dx%d %dfps)", width, height, rate)
		return false
	}
	if !format.Valid() {
		b.log("configure stream: invalid color format: %s", format)
		return false
	}
	if !media.ValidSize(int(width), int(height)) {
		b.log("configure stream: frame too large (%dx%d)", width, height)
		return false
	}

	b.width = int(width)
	b.height = int(height)
	b.format = format
	b.rate = rate

	return true
}

// EnableStream opens the media for the stream. Enabling an active stream does
// nothing. Returns true if the stream is active.
func (b *Backend) EnableStream(mode protocol.Mode) bool {
	if b.active {
		return true
	}

	b.mode = mode
	b.eos = false
	b.dropRatio = 1
	b.dropAcc = 0

	var err error
	switch mode {
	case protocol.ModeInput:
		err = b.openInput()
	case protocol.ModeOutput:
		err = b.openOutput()
	}
	if err != nil {
		b.log("enable stream: %v", err)
		b.release()
		return false
	}

	b.active = true
	b.log("stream enabled: %s", b)

	return true
}

func (b *Backend) openInput() error {
	var err error

	if b.filename == "" {
		b.reader, err = b.fac.openCamera(b.width, b.height, float64(b.rate))
		return err
	}

	if b.kind != media.Video {
		return nil
	}

	b.reader, err = b.fac.openVideo(b.filename, b.frameIndex)
	if err != nil {
		return err
	}

	if fps := b.reader.FrameRate(); fps > float64(b.rate) {
		b.dropRatio = fps / float64(b.rate)
		b.log("source is %.02ffps: dropping frames (ratio %.02f)", fps, b.dropRatio)
	}

	return nil
}

func (b *Backend) openOutput() error {
	var err error

	if b.filename == "" {
		b.display, err = b.fac.openDisplay(b.width, b.height)
		return err
	}

	if b.kind != media.Video {
		return nil
	}

	if b.frameIndex > 0 {
		if _, err := os.Stat(b.filename); err == nil {
			return b.resume()
		}
		b.frameIndex = 0
	}

	b.writer, err = b.fac.createVideo(b.filename, b.width, b.height, float64(b.rate))
	return err
}

// the name of the temporary file used when resuming an output video
func tempFilename(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s_tmp%s", strings.TrimSuffix(filename, ext), ext)
}

// resume writing to an existing video file. the frames already in the file
// are copied to a new file, which then takes the new frames
func (b *Backend) resume() error {
	tmp := tempFilename(b.filename)
	if err := os.Rename(b.filename, tmp); err != nil {
		return err
	}

	// put the previous recording back if the copy can not be made
	restore := func(err error) error {
		if b.writer != nil {
			b.writer.Close()
			b.writer = nil
		}
		if rerr := os.Rename(tmp, b.filename); rerr != nil {
			b.log("resume: %v", rerr)
		}
		return err
	}

	rdr, err := b.fac.openVideo(tmp, 0)
	if err != nil {
		return restore(err)
	}
	defer rdr.Close()

	// the new file has the same properties as the old one
	w, h := rdr.Size()
	b.writer, err = b.fac.createVideo(b.filename, w, h, rdr.FrameRate())
	if err != nil {
		b.writer = nil
		return restore(err)
	}

	n := 0
	for n < b.frameIndex {
		f, err := rdr.ReadFrame()
		if err != nil {
			break
		}
		if err := b.writer.WriteFrame(f); err != nil {
			return restore(err)
		}
		n++
	}
	b.frameIndex = n

	rdr.Close()
	if err := os.Remove(tmp); err != nil {
		b.log("resume: %v", err)
	}

	b.log("resuming %s at frame %d", b.filename, b.frameIndex)

	return nil
}

// DisableStream closes the media for the stream. The position in an input
// video is recorded so that the stream can be resumed. Returns true if the
// stream is active, which is always false.
func (b *Backend) DisableStream() bool {
	if !b.active {
		return false
	}

	if b.mode == protocol.ModeInput && b.reader != nil && b.kind == media.Video && b.filename != "" {
		b.frameIndex = b.reader.Position()
	}

	b.release()
	b.active = false
	b.log("stream disabled")

	return false
}

// close all media handles
func (b *Backend) release() {
	if b.reader != nil {
		if err := b.reader.Close(); err != nil {
			b.log("%v", err)
		}
		b.reader = nil
	}
	if b.writer != nil {
		if err := b.writer.Close(); err != nil {
			b.log("%v", err)
		}
		b.writer = nil
	}
	if b.display != nil {
		if err := b.display.Close(); err != nil {
			b.log("%v", err)
		}
		b.display = nil
	}
}

// ReadFrame returns the next input frame in the negotiated format and the
// end-of-stream flag. The frame is empty if the stream is not an active input
// stream, if the end of the stream has been reached or if the frame could not
// be read.
func (b *Backend) ReadFrame() ([]byte, bool) {
	if !b.active || b.mode != protocol.ModeInput || b.eos {
		return []byte{}, b.eos
	}

	var f *media.Frame
	var err error

	switch {
	case b.reader != nil:
		f, err = b.readVideo()
	case b.kind == media.Image:
		// an image is a stream of one frame
		b.eos = true
		f, err = media.LoadImage(b.filename)
	}

	if err != nil {
		b.log("read frame: %v", err)
		return []byte{}, b.eos
	}
	if f == nil {
		return []byte{}, b.eos
	}

	data, err := media.Encode(media.Fit(f, b.width, b.height), b.format)
	if err != nil {
		b.log("read frame: %v", err)
		return []byte{}, b.eos
	}

	return data, b.eos
}

func (b *Backend) readVideo() (*media.Frame, error) {
	f, err := b.reader.ReadFrame()
	if err != nil {
		// other errors drop the frame and the stream carries on
		if errors.Is(err, io.EOF) {
			b.eos = true
		}
		return nil, err
	}

	if b.dropRatio > 1 {
		b.dropAcc += b.dropRatio - 1
		for b.dropAcc >= 1 {
			b.dropAcc--
			if _, err := b.reader.ReadFrame(); err != nil {
				// the frame already read is still good
				if errors.Is(err, io.EOF) {
					b.eos = true
				}
				break
			}
		}
	}

	return f, nil
}

// WriteFrame decodes the data using the negotiated format and sends it to the
// preview window, video file or image file. Nothing happens if the stream is
// not an active output stream.
func (b *Backend) WriteFrame(data []byte) {
	if !b.active || b.mode != protocol.ModeOutput {
		return
	}

	f, err := media.Decode(data, b.width, b.height, b.format)
	if err != nil {
		b.log("write frame: %v", err)
		return
	}

	switch {
	case b.display != nil:
		err = b.display.Show(f)
	case b.writer != nil:
		err = b.writer.WriteFrame(f)
		if err == nil {
			b.frameIndex++
		}
	case b.kind == media.Image:
		err = media.SaveImage(b.filename, f)
	}

	if err != nil {
		b.log("write frame: %v", err)
	}
}

// Close disables the stream and releases all media.
func (b *Backend) Close() {
	b.DisableStream()
	b.release()
}
