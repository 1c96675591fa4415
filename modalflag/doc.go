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

// Package modalflag wraps the flag package to support program modes. Each mode
// has its own set of flags and the first non-flag argument may select a
// sub-mode. For example, the vsictl command has the modes CAPTURE, PLAYBACK
// and REGS, each with different flags:
//
//	vsictl -addr 127.0.0.1:6000 capture -frames 10 clip.mp4
//
// Usage follows this pattern:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("CAPTURE", "PLAYBACK", "REGS")
//	addr := md.AddString("addr", "127.0.0.1:6000", "server address")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return nil
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "CAPTURE":
//		md.NewMode()
//		frames := md.AddInt("frames", 1, "number of frames")
//		...
//	}
//
// The first sub-mode in the list is the default. Sub-mode names are not case
// sensitive.
//
// In addition to the flag types of the flag package, AddChoice() and AddFunc()
// add flags that are validated during Parse().
package modalflag
