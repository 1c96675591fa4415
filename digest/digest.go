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

// Package digest computes fingerprints of frame sequences. A fingerprint is
// chained so that it depends on every frame seen since the last reset, and on
// the order in which the frames were seen.
//
// Fingerprints are useful for checking that a run of frames through the video
// peripheral is the same as a previous run.
package digest

// Digest implementations compute a fingerprint.
type Digest interface {
	Hash() string
	ResetDigest()
}
