package normalize

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aliases maps alternative team names to their canonical name.
type Aliases struct {
	canonical map[string]string // alias -> canonical
}

// NewAliases builds an alias table from canonical -> aliases groups.
func NewAliases(groups map[string][]string) *Aliases {
	a := &Aliases{canonical: make(map[string]string)}
	for canonical, alts := range groups {
		for _, alt := range alts {
			a.canonical[alt] = canonical
		}
	}
	return a
}

// LoadAliases reads a YAML (or JSON) file of the form
//
//	Manchester United: [Manchester Utd, Man United]
//
// An empty path yields an empty table.
func LoadAliases(path string) (*Aliases, error) {
	if path == "" {
		return NewAliases(nil), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team name replacements: %w", err)
	}
	var groups map[string][]string
	if err := yaml.Unmarshal(content, &groups); err != nil {
		return nil, fmt.Errorf("decode team name replacements %s: %w", path, err)
	}
	return NewAliases(groups), nil
}

// Replace returns the canonical name for name, or name itself.
func (a *Aliases) Replace(name string) string {
	if a == nil {
		return name
	}
	if canonical, ok := a.canonical[strings.TrimSpace(name)]; ok {
		return canonical
	}
	return name
}

// Variants returns the given names plus every alias that maps onto one of
// them, sorted and without duplicates.
func (a *Aliases) Variants(names ...string) []string {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	if a != nil {
		for alt, canonical := range a.canonical {
			if _, ok := set[canonical]; ok {
				set[alt] = struct{}{}
			}
		}
	}

	variants := make([]string, 0, len(set))
	for name := range set {
		variants = append(variants, name)
	}
	sort.Strings(variants)
	return variants
}
