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

// Package camera implements the media.Reader interface for the default camera
// of the host.
package camera

import (
	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	// register the camera driver
	_ "github.com/pion/mediadevices/pkg/driver/camera"
)

// Sentinel error patterns wrapped by media.MediaError.
const (
	ErrNoCamera = "camera: no video track"
)

// Camera is a source of frames from a camera device.
type Camera struct {
	track  *mediadevices.VideoTrack
	reader video.Reader

	width  int
	height int
	rate   float64

	position int
}

// Open the default camera. The size and rate are preferences and the camera
// may choose something different. Frames returned by ReadFrame() are whatever
// the camera delivers.
func Open(width, height int, rate float64) (*Camera, error) {
	constraints := mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			c.Width = prop.Int(width)
			c.Height = prop.Int(height)
			c.FrameRate = prop.Float(rate)
		},
	}

	stream, err := mediadevices.GetUserMedia(constraints)
	if err != nil {
		// try again with no constraints
		logger.Logf(logger.Allow, "media", "camera: %v: trying without constraints", err)
		stream, err = mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
			Video: func(c *mediadevices.MediaTrackConstraints) {},
		})
		if err != nil {
			return nil, curated.Errorf(media.MediaError, err)
		}
	}

	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return nil, curated.Errorf(media.MediaError, curated.Errorf(ErrNoCamera))
	}

	track, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		for _, t := range tracks {
			t.Close()
		}
		return nil, curated.Errorf(media.MediaError, curated.Errorf(ErrNoCamera))
	}

	// close any additional tracks
	for _, t := range tracks[1:] {
		t.Close()
	}

	cam := &Camera{
		track:  track,
		reader: track.NewReader(false),
		width:  width,
		height: height,
		rate:   rate,
	}

	logger.Logf(logger.Allow, "media", "camera: opened %s", track.ID())

	return cam, nil
}

// ReadFrame implements the media.Reader interface.
func (cam *Camera) ReadFrame() (*media.Frame, error) {
	img, release, err := cam.reader.Read()
	if err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}
	defer release()

	f := media.FromImage(img)
	cam.width = f.Width
	cam.height = f.Height
	cam.position++

	return f, nil
}

// FrameRate implements the media.Reader interface. The camera delivers frames
// as they are requested so the rate is the requested rate.
func (cam *Camera) FrameRate() float64 {
	return cam.rate
}

// Size implements the media.Reader interface. The size is not known for
// certain until the first frame has been read.
func (cam *Camera) Size() (int, int) {
	return cam.width, cam.height
}

// Position implements the media.Reader interface.
func (cam *Camera) Position() int {
	return cam.position
}

// Close implements the media.Reader interface.
func (cam *Camera) Close() error {
	if cam.track == nil {
		return nil
	}
	err := cam.track.Close()
	cam.track = nil
	if err != nil {
		return curated.Errorf(media.MediaError, err)
	}
	return nil
}
