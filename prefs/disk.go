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
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jetsetilly/vsivideo/curated"
)

// WarningBoilerPlate is written at the top of every preferences file.
const WarningBoilerPlate = "# *** do not edit this file by hand. it is written by vsivideo ***"

// Sentinal error patterns.
const (
	ErrDuplicateKey = "prefs: duplicate key: %s"
	ErrDisk         = "prefs: %s: %v"
)

// Disk is a collection of preference values that are saved to and loaded from
// a file.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The file
// does not need to exist.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf(ErrDisk, "(no path)", "empty filename")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s: %s\n", k, dsk.entries[k]))
	}
	return s.String()
}

// Path returns the filename of the preferences file.
func (dsk *Disk) Path() string {
	return dsk.path
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add a preference value to the Disk under key. The key cannot be used twice.
func (dsk *Disk) Add(key string, p pref) error {
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(ErrDuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// read the preferences file. a missing file is not an error
func (dsk *Disk) read() (map[string]any, error) {
	data, err := os.ReadFile(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, curated.Errorf(ErrDisk, dsk.path, err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, curated.Errorf(ErrDisk, dsk.path, err)
	}
	if values == nil {
		values = make(map[string]any)
	}

	return values, nil
}

// Save the current value of every entry. Values in the file that belong to
// keys not added to this Disk are preserved.
func (dsk *Disk) Save() error {
	values, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		values[k] = p.Get()
	}

	var b bytes.Buffer
	b.WriteString(WarningBoilerPlate)
	b.WriteString("\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(values); err != nil {
		return curated.Errorf(ErrDisk, dsk.path, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(ErrDisk, dsk.path, err)
	}

	if err := os.WriteFile(dsk.path, b.Bytes(), 0600); err != nil {
		return curated.Errorf(ErrDisk, dsk.path, err)
	}

	return nil
}

// Load values from the preferences file. Entries that are not in the file keep
// their current value. Values in the top group of the command line stack
// override the file.
func (dsk *Disk) Load() error {
	values, err := dsk.read()
	if err != nil {
		return err
	}

	for _, k := range dsk.keys() {
		p := dsk.entries[k]

		if v, ok := values[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(ErrDisk, dsk.path, fmt.Errorf("%s: %w", k, err))
			}
		}

		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(ErrDisk, "command line", fmt.Errorf("%s: %w", k, err))
			}
		}
	}

	return nil
}

// Reset all entries to their zero value.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return err
		}
	}
	return nil
}
