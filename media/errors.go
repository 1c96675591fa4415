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
	"path/filepath"
	"strings"
)

// MediaError is the curated error pattern for all errors relating to media
// I/O and conversion.
const MediaError = "media: %v"

// Sentinel error patterns wrapped by MediaError.
const (
	ErrFormat      = "unsupported color format: %v"
	ErrShortBuffer = "frame data too short for %dx%d %v (%d bytes, need %d)"
	ErrExtension   = "unsupported file extension: %s"
)

// Kind of file as determined by its extension.
type Kind int

// List of valid Kind values.
const (
	Unsupported Kind = iota
	Video
	Image
)

// codecs for each supported video file extension
var videoCodecs = map[string]string{
	".wmv": "wmv1",
	".avi": "mjpeg",
	".mp4": "mpeg4",
}

var imageExtensions = map[string]bool{
	".bmp": true,
	".png": true,
	".jpg": true,
}

// Ext returns the extension of the filename in lower case, including the
// leading dot.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// KindOf returns the Kind of the filename.
func KindOf(filename string) Kind {
	ext := Ext(filename)
	if _, ok := videoCodecs[ext]; ok {
		return Video
	}
	if imageExtensions[ext] {
		return Image
	}
	return Unsupported
}

// Codec returns the name of the video codec used for the filename. The empty
// string is returned if the filename is not a video file.
func Codec(filename string) string {
	return videoCodecs[Ext(filename)]
}
