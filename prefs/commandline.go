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

package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// the command line stack is a list of groups of key/value pairs. only the top
// group is consulted
type commandLine struct {
	crit  sync.Mutex
	stack []map[string]string
}

var cmdline commandLine

// SizeCommandLineStack returns the number of groups that have been added with
// PushCommandLineStack().
func SizeCommandLineStack() int {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()
	return len(cmdline.stack)
}

// PushCommandLineStack parses a string of key::value pairs, separated by
// semicolons, and adds it as a new group. Malformed pairs are ignored.
func PushCommandLineStack(prefs string) {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	grp := make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		key, value, ok := strings.Cut(p, "::")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.Contains(value, "::") {
			continue
		}
		grp[key] = strings.TrimSpace(value)
	}

	cmdline.stack = append(cmdline.stack, grp)
}

// PopCommandLineStack forgets the most recent group. Returns the entries of
// the group that were not used, sorted by key and in the same format as
// accepted by PushCommandLineStack().
func PopCommandLineStack() string {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return ""
	}

	popped := cmdline.stack[len(cmdline.stack)-1]
	cmdline.stack = cmdline.stack[:len(cmdline.stack)-1]

	keys := make([]string, 0, len(popped))
	for key := range popped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := make([]string, 0, len(keys))
	for _, key := range keys {
		s = append(s, fmt.Sprintf("%s::%s", key, popped[key]))
	}

	return strings.Join(s, "; ")
}

// GetCommandLinePref returns the value for the key from the top group. The
// entry is removed from the group.
func GetCommandLinePref(key string) (bool, string) {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return false, ""
	}

	grp := cmdline.stack[len(cmdline.stack)-1]
	if v, ok := grp[key]; ok {
		delete(grp, key)
		return true, v
	}

	return false, ""
}
