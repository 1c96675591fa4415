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

// Package paths contains functions to prepare paths to vsivideo resources,
// such as the preferences file.
//
// The ResourcePath() function prepends the resource with the base resource
// directory, creating the directory if necessary:
//
//	p, err := paths.ResourcePath("", "prefs.yaml")
//
// If a directory named ".vsivideo" is present in the current directory then
// that is the base resource directory. Otherwise the "vsivideo" directory in
// the user's config directory is used (see os.UserConfigDir()). On a Linux
// system the path returned in the example above is:
//
//	/home/user/.config/vsivideo/prefs.yaml
package paths
