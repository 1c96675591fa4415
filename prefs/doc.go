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

// Package prefs contains typed preference values that can be saved to and
// loaded from disk. The vsiserver command uses it for the listening address,
// authentication key, transport and display preferences.
//
// Values are added to a Disk under a key. Keys are usually grouped with a
// period, for example "server.port". The Disk is saved as a YAML mapping of
// keys to values.
//
// Preferences can be overridden from the command line with a string of
// key::value pairs separated by semicolons, pushed onto the command line
// stack with PushCommandLineStack(). Overrides are applied by Disk.Load().
package prefs
