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

package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/jetsetilly/vsivideo/modalflag"
	"github.com/jetsetilly/vsivideo/prefs"
	"github.com/jetsetilly/vsivideo/transport"
)

// default values for the server preferences
const (
	defaultIP        = "127.0.0.1"
	defaultPort      = 6000
	defaultAuthKey   = "vsi_video"
	defaultTransport = "tcp"
	defaultDisplay   = "sdl"
)

// preferences of the server. every preference has an equivalent command line
// flag, which takes priority
type serverPrefs struct {
	dsk *prefs.Disk

	ip        prefs.String
	port      prefs.Int
	authKey   prefs.String
	transport prefs.String
	display   prefs.String
}

func newServerPrefs(filename string) (*serverPrefs, error) {
	p := &serverPrefs{}

	var err error
	p.dsk, err = prefs.NewDisk(filename)
	if err != nil {
		return nil, err
	}

	p.ip.SetHookPre(func(v prefs.Value) error {
		return validIP(v.(string))
	})
	p.port.SetHookPre(func(v prefs.Value) error {
		return validPort(v.(int))
	})
	p.transport.SetHookPre(func(v prefs.Value) error {
		_, err := transport.ParseNetwork(v.(string))
		return err
	})
	p.display.SetHookPre(func(v prefs.Value) error {
		switch v.(string) {
		case "sdl", "digest", "none":
			return nil
		}
		return fmt.Errorf("display must be one of sdl, digest, none")
	})

	p.ip.Set(defaultIP)
	p.port.Set(defaultPort)
	p.authKey.Set(defaultAuthKey)
	p.transport.Set(defaultTransport)
	p.display.Set(defaultDisplay)

	err = p.dsk.Add("server.ip", &p.ip)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("server.port", &p.port)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("server.authkey", &p.authKey)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("server.transport", &p.transport)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("display.type", &p.display)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// address to listen on
func (p *serverPrefs) address() string {
	return net.JoinHostPort(p.ip.String(), strconv.Itoa(p.port.Get().(int)))
}

func (p *serverPrefs) network() transport.Network {
	n, _ := transport.ParseNetwork(p.transport.String())
	return n
}

func validIP(s string) error {
	if net.ParseIP(s) == nil {
		return fmt.Errorf("invalid IP address: %s", s)
	}
	return nil
}

func validPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

// flags that override the preferences
type serverFlags struct {
	ip        *string
	port      *int
	authKey   *string
	transport *string
	display   *string
}

func addServerFlags(md *modalflag.Modes) serverFlags {
	return serverFlags{
		ip:        md.AddFunc("ip", defaultIP, "IP address to listen on", validIP),
		port:      md.AddInt("port", defaultPort, "port to listen on"),
		authKey:   md.AddString("authkey", defaultAuthKey, "authentication key shared with the client"),
		transport: md.AddChoice("transport", defaultTransport, []string{"tcp", "ws"}, "connection type"),
		display:   md.AddChoice("display", defaultDisplay, []string{"sdl", "digest", "none"}, "preview display"),
	}
}

// apply flags that have been set on the command line to the preferences
func (p *serverPrefs) apply(md *modalflag.Modes, f serverFlags) error {
	var err error
	md.Visit(func(name string) {
		if err != nil {
			return
		}
		switch name {
		case "ip":
			err = p.ip.Set(*f.ip)
		case "port":
			err = p.port.Set(*f.port)
		case "authkey":
			err = p.authKey.Set(*f.authKey)
		case "transport":
			err = p.transport.Set(*f.transport)
		case "display":
			err = p.display.Set(*f.display)
		}
	})
	return err
}
