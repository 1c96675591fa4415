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

package protocol_test

import (
	"testing"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/test"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRequestRoundTrip(t *testing.T) {
	reqs := []protocol.Request{
		{Opcode: protocol.SetFilename, BaseDir: "/tmp", Filename: "cat.png", Mode: protocol.ModeInput},
		{Opcode: protocol.StreamConfigure, Width: 320, Height: 240, Format: protocol.RGB888, Rate: 30},
		{Opcode: protocol.StreamEnable, Mode: protocol.ModeOutput},
		{Opcode: protocol.StreamDisable},
		{Opcode: protocol.FrameRead},
		{Opcode: protocol.FrameWrite},
		{Opcode: protocol.CloseServer},
	}

	for _, r := range reqs {
		b, err := protocol.EncodeRequest(r)
		test.DemandSuccess(t, err, r.Opcode)
		d, err := protocol.DecodeRequest(b)
		test.DemandSuccess(t, err, r.Opcode)
		test.ExpectEquality(t, d, r, r.Opcode)
	}
}

// the wire format must be a plain msgpack array with the opcode first
func TestWireFormat(t *testing.T) {
	b, err := protocol.EncodeRequest(protocol.Request{
		Opcode: protocol.StreamConfigure, Width: 300, Height: 200, Format: protocol.NV12, Rate: 15,
	})
	test.DemandSuccess(t, err)

	var v []int
	err = msgpack.Unmarshal(b, &v)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(v), 5)
	test.ExpectEquality(t, v[0], 2)
	test.ExpectEquality(t, v[1], 300)
	test.ExpectEquality(t, v[2], 200)
	test.ExpectEquality(t, v[3], 5)
	test.ExpectEquality(t, v[4], 15)

	// a request built by some other msgpack producer decodes correctly
	b, err = msgpack.Marshal([]any{1, "/work", "clip.mp4", 1})
	test.DemandSuccess(t, err)
	r, err := protocol.DecodeRequest(b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Opcode, protocol.SetFilename)
	test.ExpectEquality(t, r.BaseDir, "/work")
	test.ExpectEquality(t, r.Filename, "clip.mp4")
	test.ExpectEquality(t, r.Mode, protocol.ModeOutput)
}

func TestMalformedRequests(t *testing.T) {
	b, _ := msgpack.Marshal([]any{99})
	_, err := protocol.DecodeRequest(b)
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrUnknownOpcode))

	b, _ = msgpack.Marshal([]any{3})
	_, err = protocol.DecodeRequest(b)
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrArguments))

	b, _ = msgpack.Marshal([]any{})
	_, err = protocol.DecodeRequest(b)
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrMalformed))

	b, _ = msgpack.Marshal("not a request")
	_, err = protocol.DecodeRequest(b)
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrMalformed))

	b, _ = msgpack.Marshal([]any{2, "wide", 240, 2, 30})
	_, err = protocol.DecodeRequest(b)
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrMalformed))

	_, err = protocol.EncodeRequest(protocol.Request{Opcode: 0})
	test.ExpectSuccess(t, curated.Is(err, protocol.ErrUnknownOpcode))
}

func TestBool(t *testing.T) {
	for _, v := range []bool{true, false} {
		b, err := protocol.EncodeBool(v)
		test.DemandSuccess(t, err)
		d, err := protocol.DecodeBool(b)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, d, v)
	}

	_, err := protocol.DecodeBool([]byte{0xc1})
	test.ExpectFailure(t, err)
}

func TestColorFormats(t *testing.T) {
	test.ExpectFailure(t, protocol.ColorFormat(0).Valid())
	test.ExpectFailure(t, protocol.ColorFormat(7).Valid())
	test.ExpectEquality(t, protocol.Grayscale8.BitsPerPixel(), 8)
	test.ExpectEquality(t, protocol.BGR565.BitsPerPixel(), 16)
	test.ExpectEquality(t, protocol.RGB888.BitsPerPixel(), 24)
	test.ExpectEquality(t, protocol.NV21.BitsPerPixel(), 12)
	test.ExpectEquality(t, protocol.ModeFromRegister(0xff), protocol.ModeOutput)
	test.ExpectEquality(t, protocol.ModeFromRegister(0xfe), protocol.ModeInput)
}
