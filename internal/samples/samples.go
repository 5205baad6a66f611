// Package samples exposes the embedded synthetic notes used by the web UI,
// the CLI and tests.
package samples

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var rawSamples []byte

// Sample is one synthetic note.
type Sample struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

type file struct {
	Default string   `yaml:"default"`
	Notes   []Sample `yaml:"notes"`
}

var catalog = mustParse(rawSamples)

// Parse decodes a sample catalog. Names must be unique and the default must
// exist.
func Parse(data []byte) (map[string]Sample, string, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parse samples: %w", err)
	}
	out := make(map[string]Sample, len(f.Notes))
	for _, s := range f.Notes {
		s.Name = strings.TrimSpace(s.Name)
		s.Text = strings.TrimSpace(s.Text)
		if s.Name == "" || s.Text == "" {
			return nil, "", fmt.Errorf("parse samples: entry without name or text")
		}
		if _, dup := out[s.Name]; dup {
			return nil, "", fmt.Errorf("parse samples: duplicate %q", s.Name)
		}
		out[s.Name] = s
	}
	if _, ok := out[f.Default]; !ok {
		return nil, "", fmt.Errorf("parse samples: default %q not found", f.Default)
	}
	return out, f.Default, nil
}

type parsed struct {
	notes map[string]Sample
	def   string
}

func mustParse(data []byte) parsed {
	notes, def, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return parsed{notes: notes, def: def}
}

// Get returns the named sample, falling back to the default sample when the
// name is unknown. ok reports whether name was found.
func Get(name string) (Sample, bool) {
	if s, ok := catalog.notes[strings.TrimSpace(name)]; ok {
		return s, true
	}
	return catalog.notes[catalog.def], false
}

// Names lists the sample names in sorted order.
func Names() []string {
	out := make([]string, 0, len(catalog.notes))
	for name := range catalog.notes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every sample sorted by name.
func All() []Sample {
	names := Names()
	out := make([]Sample, 0, len(names))
	for _, n := range names {
		out = append(out, catalog.notes[n])
	}
	return out
}

// Default returns the default sample name.
func Default() string { return catalog.def }
