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

// Package transport implements an ordered and authenticated message channel
// between the device model and the video backend.
//
// A Channel carries two kinds of message. Values sent with Send() are encoded
// with msgpack and received with Recv(). Raw byte slices, used for frame data,
// are sent with SendBytes() and received with RecvBytes(). Both kinds are
// carried in the same ordered stream and the receiver must know which kind to
// expect next.
//
// Two networks are supported. NetworkTCP frames each message with a four byte
// big-endian length prefix. NetworkWebsocket sends each message as a single
// binary websocket message on the path "/vsi".
//
// Both ends of a new connection authenticate each other with a shared key,
// using an HMAC-SHA256 challenge/response, before any other message is
// exchanged. The listening side issues the first challenge.
package transport
