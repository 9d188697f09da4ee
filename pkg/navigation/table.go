// Package navigation resolves free-text page requests against the static
// table of application pages.
package navigation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target is one navigable page.
type Target struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path" json:"-"`
	URL         string   `yaml:"url" json:"url"`
	Aliases     []string `yaml:"aliases" json:"aliases,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
}

type tableFile struct {
	Version int      `yaml:"version"`
	BaseURL string   `yaml:"base_url"`
	Routes  []Target `yaml:"routes"`
}

// Table is immutable after construction.
type Table struct {
	targets []Target
}

// LoadTable reads a YAML (or JSON) route file.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read navigation table: %w", err)
	}
	return ParseTable(raw)
}

func ParseTable(raw []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse navigation table: %w", err)
	}

	base := strings.TrimRight(f.BaseURL, "/")
	seen := make(map[string]bool, len(f.Routes))
	targets := make([]Target, 0, len(f.Routes))
	for i, t := range f.Routes {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("navigation route %d has no name", i)
		}
		key := strings.ToLower(t.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate navigation route %q", t.Name)
		}
		seen[key] = true

		if t.URL == "" {
			if t.Path == "" {
				return nil, fmt.Errorf("navigation route %q has neither url nor path", t.Name)
			}
			t.URL = base + "/" + strings.TrimLeft(t.Path, "/")
		}
		if t.ID == "" {
			t.ID = strings.ReplaceAll(key, " ", "-")
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("navigation table is empty")
	}
	return &Table{targets: targets}, nil
}

// Targets returns a copy of the table in file order.
func (t *Table) Targets() []Target {
	out := make([]Target, len(t.targets))
	copy(out, t.targets)
	return out
}

func (t *Table) Names() []string {
	names := make([]string, len(t.targets))
	for i, target := range t.targets {
		names[i] = target.Name
	}
	return names
}

// KnownURL reports whether url belongs to a table entry.
func (t *Table) KnownURL(url string) bool {
	for _, target := range t.targets {
		if strings.EqualFold(target.URL, url) {
			return true
		}
	}
	return false
}
