// Package progression owns the workshop step catalog and the rules deciding
// which steps a user may enter. Both workshop variants read the same embedded
// YAML document, so the ordered lists and override tables cannot drift apart.
package progression

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

const (
	WorkshopAST = "ast"
	WorkshopIA  = "ia"
)

// DefaultMinResponseLen applies to reflection items without a per-item
// override in the catalog.
const DefaultMinResponseLen = 20

type Step struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Kind          string `yaml:"kind"`
	ReflectionSet string `yaml:"reflection_set,omitempty"`
}

type ReflectionItem struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
	MinLen int    `yaml:"min_len,omitempty"`
}

type ReflectionSet struct {
	ID    string           `yaml:"id"`
	Items []ReflectionItem `yaml:"items"`
}

type Workshop struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps"`

	// AlwaysOpen and Locked override the positional rule, checked first.
	AlwaysOpen []string `yaml:"always_open,omitempty"`
	Locked     []string `yaml:"locked,omitempty"`
}

type Catalog struct {
	Workshops      []Workshop      `yaml:"workshops"`
	ReflectionSets []ReflectionSet `yaml:"reflection_sets"`

	workshopsByName map[string]*Workshop
	setsByID        map[string]*ReflectionSet
}

// Load parses the embedded catalog, or the file named by
// WORKSHOP_CATALOG_PATH when set.
func Load() (*Catalog, error) {
	raw := embeddedCatalog
	if path := os.Getenv("WORKSHOP_CATALOG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read workshop catalog: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse workshop catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.workshopsByName = make(map[string]*Workshop, len(c.Workshops))
	for i := range c.Workshops {
		w := &c.Workshops[i]
		if w.Name == "" {
			return fmt.Errorf("workshop catalog: workshop %d has no name", i)
		}
		if _, dup := c.workshopsByName[w.Name]; dup {
			return fmt.Errorf("workshop catalog: duplicate workshop %q", w.Name)
		}
		seen := make(map[string]bool, len(w.Steps))
		for _, s := range w.Steps {
			if s.ID == "" {
				return fmt.Errorf("workshop catalog: %s has a step with no id", w.Name)
			}
			if seen[s.ID] {
				return fmt.Errorf("workshop catalog: %s repeats step %q", w.Name, s.ID)
			}
			seen[s.ID] = true
		}
		for _, id := range append(append([]string{}, w.AlwaysOpen...), w.Locked...) {
			if !seen[id] {
				return fmt.Errorf("workshop catalog: %s overrides unknown step %q", w.Name, id)
			}
		}
		c.workshopsByName[w.Name] = w
	}

	c.setsByID = make(map[string]*ReflectionSet, len(c.ReflectionSets))
	for i := range c.ReflectionSets {
		rs := &c.ReflectionSets[i]
		if rs.ID == "" {
			return fmt.Errorf("workshop catalog: reflection set %d has no id", i)
		}
		if _, dup := c.setsByID[rs.ID]; dup {
			return fmt.Errorf("workshop catalog: duplicate reflection set %q", rs.ID)
		}
		c.setsByID[rs.ID] = rs
	}

	for _, w := range c.Workshops {
		for _, s := range w.Steps {
			if s.ReflectionSet != "" {
				if _, ok := c.setsByID[s.ReflectionSet]; !ok {
					return fmt.Errorf("workshop catalog: step %q names unknown reflection set %q", s.ID, s.ReflectionSet)
				}
			}
		}
	}
	return nil
}

func (c *Catalog) Workshop(name string) (*Workshop, bool) {
	w, ok := c.workshopsByName[name]
	return w, ok
}

func (c *Catalog) ReflectionSet(id string) (*ReflectionSet, bool) {
	rs, ok := c.setsByID[id]
	return rs, ok
}

// WorkshopForSet returns the workshop whose step owns the reflection set.
func (c *Catalog) WorkshopForSet(setID string) (*Workshop, bool) {
	for i := range c.Workshops {
		w := &c.Workshops[i]
		for _, s := range w.Steps {
			if s.ReflectionSet == setID {
				return w, true
			}
		}
	}
	return nil, false
}

// StepIndex returns the position of stepID in the workshop's ordered list,
// or -1 if unknown.
func (w *Workshop) StepIndex(stepID string) int {
	for i, s := range w.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

func (w *Workshop) alwaysOpen(stepID string) bool {
	for _, id := range w.AlwaysOpen {
		if id == stepID {
			return true
		}
	}
	return false
}

func (w *Workshop) locked(stepID string) bool {
	for _, id := range w.Locked {
		if id == stepID {
			return true
		}
	}
	return false
}

// MinLen returns the minimum trimmed response length for an item.
func (rs *ReflectionSet) MinLen(itemID string) int {
	for _, it := range rs.Items {
		if it.ID == itemID {
			if it.MinLen > 0 {
				return it.MinLen
			}
			return DefaultMinResponseLen
		}
	}
	return DefaultMinResponseLen
}

func (rs *ReflectionSet) Item(itemID string) (*ReflectionItem, bool) {
	for i := range rs.Items {
		if rs.Items[i].ID == itemID {
			return &rs.Items[i], true
		}
	}
	return nil, false
}
