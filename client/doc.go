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

// Package client implements the remote procedure calls made by the VSI video
// device to the video backend. The Client type satisfies the vsi.Backend
// interface.
//
// Every call is a blocking round trip over a transport.Channel. A client that
// is not connected returns the ErrNotConnected error without touching the
// network. An I/O error during a call closes the channel and the client
// returns to the Disconnected state.
//
// The client can optionally start the backend executable before connecting.
package client
