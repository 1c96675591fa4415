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

// Package backend performs the media I/O for the VSI video device. It is
// driven by the server package, one request at a time.
//
// A stream has a direction (input or output) and a source or destination.
// With no filename the source is a camera and the destination is a preview
// window. Otherwise it is a video file or an image file, chosen by the file
// extension. Access to cameras, windows and video files goes through a
// Factory so that the backend can be tested without them.
//
// Frames are exchanged with the firmware in the negotiated color format and
// resolution. Input frames are cropped to the aspect ratio of the negotiated
// resolution before being resized.
package backend
