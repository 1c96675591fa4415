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

package prefs_test

import (
	"testing"

	"github.com/jetsetilly/vsivideo/prefs"
	"github.com/jetsetilly/vsivideo/test"
)

func TestCommandLineStackValues(t *testing.T) {
	// empty on start
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	prefs.PushCommandLineStack("server.port::6003")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "server.port::6003")

	// additional space is removed
	prefs.PushCommandLineStack("   server.port:: 6003 ")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "server.port::6003")

	// remaining entries are sorted
	prefs.PushCommandLineStack("server.port::6003; display.type::none")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "display.type::none; server.port::6003")

	// invalid entries are ignored
	prefs.PushCommandLineStack("server.port")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
	prefs.PushCommandLineStack("server.port;display.type::none")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "display.type::none")
	prefs.PushCommandLineStack("a::b::c")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// used entries are not returned by pop
	prefs.PushCommandLineStack("server.port::6003;display_type")
	ok, _ := prefs.GetCommandLinePref("display_type")
	test.ExpectFailure(t, ok)
	ok, v := prefs.GetCommandLinePref("server.port")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, "6003")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}

func TestCommandLineStack(t *testing.T) {
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)

	prefs.PushCommandLineStack("server.port::6003")
	prefs.PushCommandLineStack("display.type::sdl")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 2)

	// only the top group is consulted
	ok, _ := prefs.GetCommandLinePref("server.port")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, prefs.PopCommandLineStack(), "display.type::sdl")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "server.port::6003")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}
