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

package digest_test

import (
	"testing"

	"github.com/jetsetilly/vsivideo/digest"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/test"
)

var _ media.Display = (*digest.Video)(nil)
var _ digest.Digest = (*digest.Video)(nil)

func TestVideo(t *testing.T) {
	a := digest.NewVideo("")
	b := digest.NewVideo("")

	initial := a.Hash()
	test.ExpectEquality(t, len(initial), 40)

	red := media.NewFrame(4, 4)
	for i := 0; i < len(red.Pix); i += 3 {
		red.Pix[i] = 0xff
	}
	black := media.NewFrame(4, 4)

	// identical sequences have identical digests
	test.ExpectSuccess(t, a.Show(red))
	test.ExpectSuccess(t, a.Show(black))
	test.ExpectSuccess(t, b.Show(red))
	test.ExpectSuccess(t, b.Show(black))
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectInequality(t, a.Hash(), initial)
	test.ExpectEquality(t, a.Frames(), 2)

	// order matters
	b.ResetDigest()
	test.ExpectEquality(t, b.Hash(), initial)
	test.ExpectEquality(t, b.Frames(), 0)
	test.ExpectSuccess(t, b.Show(black))
	test.ExpectSuccess(t, b.Show(red))
	test.ExpectInequality(t, a.Hash(), b.Hash())
}

func TestVideoShape(t *testing.T) {
	a := digest.NewVideo("")
	b := digest.NewVideo("")

	test.ExpectSuccess(t, a.Show(media.NewFrame(4, 2)))
	test.ExpectSuccess(t, b.Show(media.NewFrame(2, 4)))
	test.ExpectInequality(t, a.Hash(), b.Hash())
	test.ExpectSuccess(t, a.Close())
}
