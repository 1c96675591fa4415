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

// Package media contains the frame type used by the video backend and the
// conversions between it and the color formats understood by the firmware.
//
// The native frame is packed RGB24. Frames can be cropped to an aspect ratio,
// resized, loaded from and saved to image files. Video files, cameras and
// preview windows are accessed through the Reader, Writer and Display
// interfaces, which are implemented by the sub-packages.
//
// All errors returned by the package are curated errors with the MediaError
// pattern somewhere in the chain.
package media
