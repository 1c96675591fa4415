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

package protocol

import (
	"bytes"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel error patterns returned by the protocol package.
const (
	ErrMalformed     = "protocol: malformed message: %v"
	ErrUnknownOpcode = "protocol: unknown opcode: %d"
	ErrArguments     = "protocol: %v: expected %d arguments, got %d"
)

// Request is a single command sent to the video backend. Only the fields
// relevant to the opcode are used.
type Request struct {
	Opcode Opcode

	// SetFilename
	BaseDir  string
	Filename string

	// SetFilename and StreamEnable
	Mode Mode

	// StreamConfigure
	Width  uint32
	Height uint32
	Format ColorFormat
	Rate   uint32
}

// EncodeMsgpack implements the msgpack.CustomEncoder interface.
func (r *Request) EncodeMsgpack(enc *msgpack.Encoder) error {
	n, ok := r.Opcode.numArgs()
	if !ok {
		return curated.Errorf(ErrUnknownOpcode, int(r.Opcode))
	}

	if err := enc.EncodeArrayLen(n + 1); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(r.Opcode)); err != nil {
		return err
	}

	var err error
	switch r.Opcode {
	case SetFilename:
		err = encodeAll(enc, r.BaseDir, r.Filename, uint32(r.Mode))
	case StreamConfigure:
		err = encodeAll(enc, r.Width, r.Height, uint32(r.Format), r.Rate)
	case StreamEnable:
		err = encodeAll(enc, uint32(r.Mode))
	}
	return err
}

func encodeAll(enc *msgpack.Encoder, values ...any) error {
	for _, v := range values {
		var err error
		switch v := v.(type) {
		case string:
			err = enc.EncodeString(v)
		case uint32:
			err = enc.EncodeUint(uint64(v))
		default:
			err = enc.Encode(v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements the msgpack.CustomDecoder interface.
func (r *Request) DecodeMsgpack(dec *msgpack.Decoder) error {
	l, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if l < 1 {
		return curated.Errorf(ErrMalformed, "empty request")
	}

	op, err := dec.DecodeInt()
	if err != nil {
		return err
	}
	r.Opcode = Opcode(op)

	n, ok := r.Opcode.numArgs()
	if !ok {
		return curated.Errorf(ErrUnknownOpcode, op)
	}
	if l-1 != n {
		return curated.Errorf(ErrArguments, r.Opcode, n, l-1)
	}

	switch r.Opcode {
	case SetFilename:
		if r.BaseDir, err = dec.DecodeString(); err != nil {
			return err
		}
		if r.Filename, err = dec.DecodeString(); err != nil {
			return err
		}
		var m uint32
		if m, err = dec.DecodeUint32(); err != nil {
			return err
		}
		r.Mode = ModeFromRegister(m)

	case StreamConfigure:
		if r.Width, err = dec.DecodeUint32(); err != nil {
			return err
		}
		if r.Height, err = dec.DecodeUint32(); err != nil {
			return err
		}
		var f uint32
		if f, err = dec.DecodeUint32(); err != nil {
			return err
		}
		r.Format = ColorFormat(f)
		if r.Rate, err = dec.DecodeUint32(); err != nil {
			return err
		}

	case StreamEnable:
		var m uint32
		if m, err = dec.DecodeUint32(); err != nil {
			return err
		}
		r.Mode = ModeFromRegister(m)
	}

	return nil
}

// EncodeRequest returns the wire representation of the request.
func EncodeRequest(r Request) ([]byte, error) {
	var b bytes.Buffer
	if err := r.EncodeMsgpack(msgpack.NewEncoder(&b)); err != nil {
		if curated.IsAny(err) {
			return nil, err
		}
		return nil, curated.Errorf(ErrMalformed, err)
	}
	return b.Bytes(), nil
}

// DecodeRequest parses the wire representation of a request. Errors will be
// one of the sentinel patterns of this package.
func DecodeRequest(b []byte) (Request, error) {
	var r Request
	if err := r.DecodeMsgpack(msgpack.NewDecoder(bytes.NewReader(b))); err != nil {
		if curated.IsAny(err) {
			return Request{}, err
		}
		return Request{}, curated.Errorf(ErrMalformed, err)
	}
	return r, nil
}

// EncodeBool returns the wire representation of a boolean response.
func EncodeBool(v bool) ([]byte, error) {
	return msgpack.Marshal(v)
}

// DecodeBool parses a boolean response.
func DecodeBool(b []byte) (bool, error) {
	var v bool
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return false, curated.Errorf(ErrMalformed, err)
	}
	return v, nil
}
