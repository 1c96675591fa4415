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

// Package sdlwindow implements the media.Display interface with an SDL window.
//
// SDL requires that all calls are made from the same OS thread. The Window
// type should only be used from a goroutine that has called
// runtime.LockOSThread(), which is usually the main goroutine.
package sdlwindow

import (
	"encoding/binary"

	"github.com/jetsetilly/vsivideo/curated"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is a preview window for frames written by the firmware.
type Window struct {
	window *sdl.Window

	// size of the most recent frame. the window is resized whenever the size
	// of the frame changes
	width  int
	height int

	// the user has closed the window. frames are discarded until the next
	// call to NewWindow()
	closed bool
}

// NewWindow opens a window of the given size.
func NewWindow(title string, width, height int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, curated.Errorf(media.MediaError, err)
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, curated.Errorf(media.MediaError, err)
	}

	return &Window{
		window: window,
		width:  width,
		height: height,
	}, nil
}

// Show implements the media.Display interface.
func (win *Window) Show(f *media.Frame) error {
	win.service()
	if win.closed {
		return nil
	}

	if f.Width != win.width || f.Height != win.height {
		win.width = f.Width
		win.height = f.Height
		win.window.SetSize(int32(f.Width), int32(f.Height))
	}

	surface, err := win.window.GetSurface()
	if err != nil {
		return curated.Errorf(media.MediaError, err)
	}

	// the window surface can be a different size to the frame if the window
	// manager has refused the resize
	if int(surface.W) != f.Width || int(surface.H) != f.Height {
		f = media.Resize(f, int(surface.W), int(surface.H))
	}

	bpp := int(surface.Format.BytesPerPixel)
	pix := surface.Pixels()

	for y := 0; y < f.Height; y++ {
		row := pix[y*int(surface.Pitch):]
		for x := 0; x < f.Width; x++ {
			i := (y*f.Width + x) * 3
			c := sdl.MapRGB(surface.Format, f.Pix[i], f.Pix[i+1], f.Pix[i+2])
			switch bpp {
			case 4:
				binary.LittleEndian.PutUint32(row[x*4:], c)
			case 3:
				row[x*3] = uint8(c)
				row[x*3+1] = uint8(c >> 8)
				row[x*3+2] = uint8(c >> 16)
			case 2:
				binary.LittleEndian.PutUint16(row[x*2:], uint16(c))
			}
		}
	}

	if err := win.window.UpdateSurface(); err != nil {
		return curated.Errorf(media.MediaError, err)
	}

	return nil
}

// handle pending window events
func (win *Window) service() {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			win.hide()
		case *sdl.WindowEvent:
			if ev.Event == sdl.WINDOWEVENT_CLOSE {
				win.hide()
			}
		}
	}
}

func (win *Window) hide() {
	if win.closed {
		return
	}
	win.closed = true
	win.window.Hide()
	logger.Log(logger.Allow, "media", "preview window closed by user")
}

// Close implements the media.Display interface.
func (win *Window) Close() error {
	if win.window == nil {
		return nil
	}
	err := win.window.Destroy()
	win.window = nil
	sdl.Quit()
	if err != nil {
		return curated.Errorf(media.MediaError, err)
	}
	return nil
}
