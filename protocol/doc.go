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

// Package protocol defines the messages exchanged between the device model and
// the video backend.
//
// Requests are msgpack arrays with the opcode as the first element followed
// by the opcode's arguments:
//
//	[1, baseDir, filename, mode]         SetFilename
//	[2, width, height, format, rate]     StreamConfigure
//	[3, mode]                            StreamEnable
//	[4]                                  StreamDisable
//	[5]                                  FrameRead
//	[6]                                  FrameWrite
//	[7]                                  CloseServer
//
// Responses to SetFilename, StreamConfigure, StreamEnable and StreamDisable
// are a single msgpack boolean. FrameRead is answered by a raw byte message
// containing the frame, followed by a msgpack boolean indicating end of
// stream. FrameWrite is followed by a raw byte message from the requester and
// has no response. CloseServer has no response.
//
// The transport package carries the encoded messages.
package protocol
