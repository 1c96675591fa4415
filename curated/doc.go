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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The pattern is what identifies a curated error. Sentinel patterns should be
// stored as a const string, suitably named and commented. For example:
//
//	const ErrNotConnected = "client: not connected"
//
//	err := curated.Errorf(ErrNotConnected)
//	if curated.Is(err, ErrNotConnected) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf("media: %v", io.ErrUnexpectedEOF)
//	f := curated.Errorf("backend: %v", e)
//
//	if curated.Has(f, "media: %v") {
//		fmt.Println("true")
//	}
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not begin with
// duplicate adjacent parts. For the purposes of this package we think of
// chains as being composed of parts separated by the sub-string ': '.
//
// Curated errors also implement Unwrap() so the errors package in the
// standard library can find uncurated errors in the values list.
package curated
