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

// vsiserver is the video backend process. It accepts a single connection from
// the VSI video peripheral of the simulator and performs the media I/O
// requested by the firmware.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/jetsetilly/vsivideo/backend"
	"github.com/jetsetilly/vsivideo/logger"
	"github.com/jetsetilly/vsivideo/modalflag"
	"github.com/jetsetilly/vsivideo/paths"
	"github.com/jetsetilly/vsivideo/performance"
	"github.com/jetsetilly/vsivideo/prefs"
	"github.com/jetsetilly/vsivideo/server"
	"github.com/jetsetilly/vsivideo/statsview"
	"github.com/jetsetilly/vsivideo/transport"
	"github.com/jetsetilly/vsivideo/version"
)

// the SDL preview window must be created and serviced by the main thread. the
// server runs on the main goroutine so the preview window is only ever
// accessed from this thread
func init() {
	runtime.LockOSThread()
}

func main() {
	// the server is blocked in Accept() or in waiting for the next request so
	// an interrupt ends the process directly
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		fmt.Print("\r")
		os.Exit(0)
	}()

	os.Exit(run(os.Args[1:], os.Stdout))
}

// run the server with the command line arguments. returns the exit code
func run(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)

	flags := addServerFlags(md)
	prefsFile := md.AddString("prefs", "", "preferences file (default in the vsivideo config directory)")
	setPrefs := md.AddString("set", "", "override preferences (key::value; key::value)")
	save := md.AddBool("save", false, "save preferences and flags to the preferences file")
	log := md.AddBool("log", false, "echo log to stdout")
	showVersion := md.AddBool("version", false, "print version and exit")
	profile := md.AddFunc("profile", "none", "generate profiles (cpu, mem, trace, all)", func(s string) error {
		_, err := performance.ParseProfile(s)
		return err
	})

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	md.AdditionalHelp("preferences: server.ip, server.port, server.authkey, server.transport, display.type")

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

	if len(md.RemainingArgs()) > 0 {
		fmt.Fprintf(output, "* error: unexpected arguments: %v\n", md.RemainingArgs())
		return 10
	}

	if *log {
		logger.SetEcho(output)
	}

	if stats != nil && *stats {
		stop := statsview.Launch(output)
		defer stop()
	}

	if *prefsFile == "" {
		pth, err := paths.ResourcePath("", "vsiserver.yaml")
		if err != nil {
			fmt.Fprintf(output, "* error: %v\n", err)
			return 20
		}
		*prefsFile = pth
	}

	p, err := newServerPrefs(*prefsFile)
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return 20
	}

	prefs.PushCommandLineStack(*setPrefs)
	err = p.dsk.Load()
	if unused := prefs.PopCommandLineStack(); unused != "" {
		logger.Logf(logger.Allow, "vsiserver", "unused preferences: %s", unused)
	}
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return 20
	}

	if err := p.apply(md, flags); err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *save {
		if err := p.dsk.Save(); err != nil {
			fmt.Fprintf(output, "* error: %v\n", err)
			return 20
		}
	}

	prf, _ := performance.ParseProfile(*profile)
	err = performance.RunProfiler(prf, "vsiserver", func() error {
		return serve(p, output)
	})
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return 20
	}

	return 0
}

func serve(p *serverPrefs, output io.Writer) error {
	l, err := transport.Listen(p.network(), p.address(), p.authKey.String())
	if err != nil {
		return err
	}

	srv := server.NewServer(l, backend.NewBackend(newFactory(p.display.String())))
	fmt.Fprintf(output, "%s listening on %s (%s)\n", version.ApplicationName, l.Addr(), p.network())

	err = srv.Serve()
	fmt.Fprintf(output, "%d requests, %d frames read, %d frames written\n",
		srv.Stats.Requests, srv.Stats.FramesRead, srv.Stats.FramesWrite)

	return err
}
