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

// Package ffmpeg reads and writes video files by piping raw RGB24 frames to
// and from ffmpeg processes. The ffmpeg and ffprobe executables must be in the
// executable path.
package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/media"
)

// Sentinel error patterns wrapped by media.MediaError.
const (
	ErrNotInstalled = "ffmpeg: %s not installed"
	ErrProbe        = "ffmpeg: probe: %v"
	ErrCodec        = "ffmpeg: no codec for %s"
)

// Available returns an error if either ffmpeg or ffprobe is missing.
func Available() error {
	for _, exe := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(exe); err != nil {
			return curated.Errorf(media.MediaError, curated.Errorf(ErrNotInstalled, exe))
		}
	}
	return nil
}

// Info about the video stream of a file.
type Info struct {
	Width     int
	Height    int
	FrameRate float64
}

// Probe returns the size and frame rate of the first video stream in the file.
func Probe(filename string) (Info, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		filename)

	out, err := cmd.Output()
	if err != nil {
		return Info{}, curated.Errorf(media.MediaError, curated.Errorf(ErrProbe, err))
	}

	info, err := parseProbe(string(out))
	if err != nil {
		return Info{}, curated.Errorf(media.MediaError, curated.Errorf(ErrProbe, err))
	}
	return info, nil
}

// parse output of ffprobe in the form "width,height,num/den"
func parseProbe(s string) (Info, error) {
	f := strings.Split(strings.TrimSpace(s), ",")
	if len(f) < 3 {
		return Info{}, fmt.Errorf("unexpected output: %q", s)
	}

	var info Info
	var err error

	if info.Width, err = strconv.Atoi(f[0]); err != nil {
		return Info{}, err
	}
	if info.Height, err = strconv.Atoi(f[1]); err != nil {
		return Info{}, err
	}

	num, den, ok := strings.Cut(f[2], "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Info{}, err
	}
	info.FrameRate = n
	if ok {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return Info{}, err
		}
		if d == 0 {
			return Info{}, fmt.Errorf("zero frame rate denominator")
		}
		info.FrameRate = n / d
	}

	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("invalid frame size %dx%d", info.Width, info.Height)
	}

	return info, nil
}

// Reader decodes a video file. It implements the media.Reader interface.
type Reader struct {
	info     Info
	position int

	decoder *exec.Cmd
	pipe    io.ReadCloser
	buf     *bufio.Reader
}

// Open the video file for reading. Frames before start are decoded and
// discarded.
func Open(filename string, start int) (*Reader, error) {
	info, err := Probe(filename)
	if err != nil {
		return nil, err
	}

	rdr := &Reader{
		info: info,
	}

	rdr.decoder = exec.Command("ffmpeg",
		"-v", "error",
		"-i", filename,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-", // stdout pipe created below
	)
	rdr.decoder.Stderr = os.Stderr

	rdr.pipe, err = rdr.decoder.StdoutPipe()
	if err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}
	rdr.buf = bufio.NewReaderSize(rdr.pipe, info.Width*info.Height*3)

	if err := rdr.decoder.Start(); err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}

	for rdr.position < start {
		if _, err := rdr.ReadFrame(); err != nil {
			rdr.Close()
			return nil, err
		}
	}

	return rdr, nil
}

// ReadFrame implements the media.Reader interface.
func (rdr *Reader) ReadFrame() (*media.Frame, error) {
	f := media.NewFrame(rdr.info.Width, rdr.info.Height)
	if _, err := io.ReadFull(rdr.buf, f.Pix); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	rdr.position++
	return f, nil
}

// FrameRate implements the media.Reader interface.
func (rdr *Reader) FrameRate() float64 {
	return rdr.info.FrameRate
}

// Size implements the media.Reader interface.
func (rdr *Reader) Size() (int, int) {
	return rdr.info.Width, rdr.info.Height
}

// Position implements the media.Reader interface.
func (rdr *Reader) Position() int {
	return rdr.position
}

// Close implements the media.Reader interface. The decoding process is killed
// if it has not finished.
func (rdr *Reader) Close() error {
	if rdr.decoder == nil {
		return nil
	}
	rdr.pipe.Close()
	_ = rdr.decoder.Process.Kill()
	_ = rdr.decoder.Wait()
	rdr.decoder = nil
	return nil
}

// Writer encodes frames to a video file. It implements the media.Writer
// interface.
type Writer struct {
	width  int
	height int

	encoder *exec.Cmd
	pipe    io.WriteCloser
}

// Create a new video file. Any existing file is overwritten. The codec is
// chosen by the extension of the filename.
func Create(filename string, width, height int, rate float64) (*Writer, error) {
	codec := media.Codec(filename)
	if codec == "" {
		return nil, curated.Errorf(media.MediaError, curated.Errorf(ErrCodec, filename))
	}

	// mjpeg requires the full range pixel format
	pixfmt := "yuv420p"
	if codec == "mjpeg" {
		pixfmt = "yuvj420p"
	}

	wtr := &Writer{
		width:  width,
		height: height,
	}

	wtr.encoder = exec.Command("ffmpeg",
		"-v", "error", // less noisy output from the ffmpeg command
		"-y", // always overwrite output file
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.02f", rate), // incoming frame rate
		"-i", "-", // stdin pipe created below
		"-c:v", codec,
		"-pix_fmt", pixfmt,
		"-q:v", "2",
		filename,
	)

	var err error
	wtr.pipe, err = wtr.encoder.StdinPipe()
	if err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}

	wtr.encoder.Stderr = os.Stderr
	wtr.encoder.Stdout = os.Stdout

	if err := wtr.encoder.Start(); err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}

	return wtr, nil
}

// WriteFrame implements the media.Writer interface. Frames of the wrong size
// are resized.
func (wtr *Writer) WriteFrame(f *media.Frame) error {
	if wtr.pipe == nil {
		return curated.Errorf(media.MediaError, "ffmpeg: writer is closed")
	}
	f = media.Resize(f, wtr.width, wtr.height)
	if _, err := wtr.pipe.Write(f.Pix); err != nil {
		return curated.Errorf(media.MediaError, err)
	}
	return nil
}

// Close implements the media.Writer interface. Waits for the encoder to
// finish writing the file.
func (wtr *Writer) Close() error {
	if wtr.pipe == nil {
		return nil
	}
	wtr.pipe.Close()
	wtr.pipe = nil
	if err := wtr.encoder.Wait(); err != nil {
		return curated.Errorf(media.MediaError, err)
	}
	return nil
}
