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

// vsictl drives the VSI video peripheral from the host. It plays the part of
// the firmware, using the video driver to capture frames from, or send frames
// to, a running vsiserver.
//
// The modes are CAPTURE, PLAYBACK and REGS. Use -help with a mode for the
// list of flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jetsetilly/vsivideo/client"
	"github.com/jetsetilly/vsivideo/digest"
	"github.com/jetsetilly/vsivideo/driver/videodrv"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/media"
	"github.com/jetsetilly/vsivideo/modalflag"
	"github.com/jetsetilly/vsivideo/paths"
	"github.com/jetsetilly/vsivideo/protocol"
	"github.com/jetsetilly/vsivideo/transport"
	"github.com/jetsetilly/vsivideo/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run the command line. returns the exit code
func run(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("CAPTURE", "PLAYBACK", "REGS")

	log := md.AddBool("log", false, "echo log to stdout")
	showVersion := md.AddBool("version", false, "print version and exit")

	switch p, err := md.Parse(); p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *showVersion {
		fmt.Fprintln(output, version.String())
		return 0
	}

	if *log {
		logger.SetEcho(output)
	}

	var err error

	switch md.Mode() {
	case "CAPTURE":
		err = capture(ctx, md, output)
	case "PLAYBACK":
		err = playback(ctx, md, output)
	case "REGS":
		err = regs(ctx, md, output)
	}

	if err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		fmt.Fprintf(output, "* error in %s mode: %v\n", md.String(), err)
		return 20
	}

	return 0
}

// sentinel returned by a mode when help has been printed
var errHelp = errors.New("help")

// flags common to all modes
type commonFlags struct {
	addr      *string
	authKey   *string
	transport *string
	spawn     *string

	width   *uint
	height  *uint
	format  *string
	rate    *uint
	buffers *uint
}

func addCommonFlags(md *modalflag.Modes) *commonFlags {
	return &commonFlags{
		addr:      md.AddString("addr", "127.0.0.1:6000", "address of the video backend"),
		authKey:   md.AddString("authkey", "vsi_video", "authentication key"),
		transport: md.AddChoice("transport", string(transport.NetworkTCP), []string{string(transport.NetworkTCP), string(transport.NetworkWebsocket)}, "transport to the video backend"),
		spawn:     md.AddString("spawn", "", "path to a vsiserver executable to start before connecting"),
		width:     md.AddUint("width", 320, "frame width"),
		height:    md.AddUint("height", 240, "frame height"),
		format:    md.AddChoice("format", protocol.RGB888.String(), formatNames(), "color format"),
		rate:      md.AddUint("rate", 30, "frame rate"),
		buffers:   md.AddUint("buffers", 4, "number of frames in the buffer"),
	}
}

func (cf *commonFlags) conn() (connConfig, error) {
	network, err := transport.ParseNetwork(*cf.transport)
	if err != nil {
		return connConfig{}, err
	}
	return connConfig{
		network: network,
		address: *cf.addr,
		authKey: *cf.authKey,
		spawn:   *cf.spawn,
	}, nil
}

func (cf *commonFlags) stream() (streamConfig, error) {
	format, err := parseFormat(*cf.format)
	if err != nil {
		return streamConfig{}, err
	}
	return streamConfig{
		width:   uint32(*cf.width),
		height:  uint32(*cf.height),
		format:  format,
		rate:    uint32(*cf.rate),
		buffers: uint32(*cf.buffers),
	}, nil
}

func (cf *commonFlags) client() (*client.Client, error) {
	cc, err := cf.conn()
	if err != nil {
		return nil, err
	}
	cfg, err := cc.clientConfig()
	if err != nil {
		return nil, err
	}
	return client.NewClient(cfg), nil
}

// parse the flags of a mode
func parseMode(md *modalflag.Modes) error {
	switch p, err := md.Parse(); p {
	case modalflag.ParseHelp:
		return errHelp
	case modalflag.ParseError:
		return err
	}
	return nil
}

func capture(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("the file argument names the video or image to read. the camera is used if there is no file")

	cf := addCommonFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to capture (0 for all)")
	outDir := md.AddString("out", "", "directory for captured frames (default in the vsivideo config directory)")
	ext := md.AddChoice("ext", "png", []string{"png", "jpg", "bmp"}, "image format of captured frames")
	realtime := md.AddBool("realtime", false, "pace the timer with the wall clock")
	fingerprint := md.AddBool("digest", false, "print a digest of the captured frames")

	if err := parseMode(md); err != nil {
		return err
	}

	if len(md.RemainingArgs()) > 1 {
		return fmt.Errorf("too many arguments: %v", md.RemainingArgs())
	}

	sc, err := cf.stream()
	if err != nil {
		return err
	}
	sc.realtime = *realtime

	cl, err := cf.client()
	if err != nil {
		return err
	}

	dir := *outDir
	if dir == "" {
		dir, err = paths.ResourcePath("captures", "")
		if err != nil {
			return err
		}
	} else if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	s, err := newSession(ctx, cl, videodrv.In0, md.GetArg(0), sc)
	if err != nil {
		cl.Close()
		return err
	}
	defer s.close()

	dig := digest.NewVideo("")

	n, err := s.capture(*frames, func(n int, f *media.Frame) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := dig.Show(f); err != nil {
			return err
		}
		fn := filepath.Join(dir, paths.UniqueFilename("frame", fmt.Sprintf("%04d", n), "."+*ext))
		return media.SaveImage(fn, f)
	})

	fmt.Fprintf(output, "%d frames captured to %s\n", n, dir)
	if *fingerprint {
		fmt.Fprintf(output, "digest: %s\n", dig.Hash())
	}

	return err
}

func playback(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("arguments are the images to send. frames are written to the file named by -to or shown in the preview window")

	cf := addCommonFlags(md)
	to := md.AddString("to", "", "video or image file to write (default is the preview window)")
	loop := md.AddInt("loop", 1, "number of times to send the images")
	realtime := md.AddBool("realtime", true, "pace the timer with the wall clock")

	if err := parseMode(md); err != nil {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("no images to send")
	}

	var frames []*media.Frame
	for _, fn := range md.RemainingArgs() {
		f, err := media.LoadImage(fn)
		if err != nil {
			return err
		}
		frames = append(frames, f)
	}

	var seq []*media.Frame
	for i := 0; i < *loop; i++ {
		seq = append(seq, frames...)
	}

	sc, err := cf.stream()
	if err != nil {
		return err
	}
	sc.realtime = *realtime

	cl, err := cf.client()
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cl, videodrv.Out0, *to, sc)
	if err != nil {
		cl.Close()
		return err
	}
	defer s.close()

	n, err := s.playback(seq)
	fmt.Fprintf(output, "%d frames sent\n", n)

	return err
}

func regs(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("the optional file argument is sent to the backend before the dump")

	cf := addCommonFlags(md)
	offline := md.AddBool("offline", false, "do not connect to the video backend")
	useOutput := md.AddBool("output", false, "use the output channel")
	snapshot := md.AddBool("snapshot", false, "dump the complete snapshot of the peripheral")
	viz := md.AddString("memviz", "", "write a graphviz description of the peripheral to file")

	if err := parseMode(md); err != nil {
		return err
	}

	sc, err := cf.stream()
	if err != nil {
		return err
	}

	ch := videodrv.In0
	if *useOutput {
		ch = videodrv.Out0
	}

	var cl *client.Client
	filename := md.GetArg(0)

	if *offline {
		filename = ""
	} else {
		cl, err = cf.client()
		if err != nil {
			return err
		}
	}

	s, err := newSession(ctx, cl, ch, filename, sc)
	if err != nil {
		if cl != nil {
			cl.Close()
		}
		return err
	}
	defer s.close()

	s.dumpRegisters(output)
	if *snapshot {
		s.dumpSnapshot(output)
	}

	if *viz != "" {
		return s.writeMemviz(*viz)
	}

	return nil
}
