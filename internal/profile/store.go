package profile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed configs/*.yaml
var configFS embed.FS

// Store holds an ordered, immutable set of language profiles. Order matters:
// when two profiles score identically during detection, the earlier one wins.
type Store struct {
	order    []string
	profiles map[string]*Profile
	fallback *Profile
}

// NewStore creates an empty store carrying only the fallback profile.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*Profile),
		fallback: Fallback(),
	}
}

// NewStoreWith builds a store from already-compiled profiles, preserving
// argument order. Nil or nameless profiles are skipped.
func NewStoreWith(profiles ...*Profile) *Store {
	s := NewStore()
	for _, p := range profiles {
		if p == nil || p.Name == "" {
			continue
		}
		if _, ok := s.profiles[p.Name]; ok {
			continue
		}
		s.order = append(s.order, p.Name)
		s.profiles[p.Name] = p
	}
	return s
}

// LoadBuiltin loads the embedded profile set. Individual documents that fail
// to parse are skipped; the store is usable even if every document is bad.
func LoadBuiltin() *Store {
	s := NewStore()

	entries, err := configFS.ReadDir("configs")
	if err != nil {
		return s
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := configFS.ReadFile(filepath.Join("configs", name))
		if err != nil {
			continue
		}
		s.add(data)
	}

	return s
}

// LoadDir loads profile documents from a directory of YAML files, replacing
// the builtin set. A missing or empty directory returns an error along with
// a fallback-only store so callers can degrade instead of aborting.
func LoadDir(dir string) (*Store, error) {
	s := NewStore()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return s, fmt.Errorf("read profiles dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		s.add(data)
	}

	if len(s.order) == 0 {
		return s, fmt.Errorf("no usable profiles in %s", dir)
	}
	return s, nil
}

// add parses one YAML document into a Profile. Malformed documents and
// documents without a name are dropped silently; profile loading must never
// take the pipeline down.
func (s *Store) add(data []byte) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return
	}
	if p.Name == "" {
		return
	}

	p.Compile()

	if _, exists := s.profiles[p.Name]; !exists {
		s.order = append(s.order, p.Name)
	}
	s.profiles[p.Name] = &p
}

// Get returns the profile for a language key, or nil.
func (s *Store) Get(name string) *Profile {
	return s.profiles[name]
}

// Names returns the language keys in declaration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of loaded profiles, excluding the fallback.
func (s *Store) Len() int { return len(s.order) }

// Fallback returns the always-present generic profile. Its confidence
// threshold is zero so it accepts any content.
func (s *Store) Fallback() *Profile { return s.fallback }

// Fallback builds a fresh generic profile usable on its own, outside any
// store.
func Fallback() *Profile {
	p := &Profile{
		Name:               "generic",
		Description:        "Generic fallback for unrecognized languages",
		ConfidenceRequired: 0,
		RulePatterns: []string{
			`^\s*if[\s(]`,
			`^\s*(switch|case|when)\b`,
			`^\s*(while|for)\b`,
		},
		Chunking: DefaultChunking,
		RuleDensity: DensityRange{
			ExpectedMin: 3,
			ExpectedMax: 15,
		},
	}
	p.Compile()
	return p
}
