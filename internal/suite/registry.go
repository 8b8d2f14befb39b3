package suite

import (
	"errors"
	"fmt"
	"sort"
)

// All selects every registered suite.
const All = "all"

var ErrUnknownSuite = errors.New("unknown suite")

// Registry holds the suites available to a run, keyed by name.
type Registry struct {
	suites map[string]*Suite
}

// NewRegistry builds a registry from suites. Later suites replace earlier
// ones with the same name.
func NewRegistry(suites ...*Suite) *Registry {
	r := &Registry{suites: make(map[string]*Suite, len(suites))}
	for _, s := range suites {
		r.suites[s.Name] = s
	}
	return r
}

// Merge returns a registry containing r's suites overridden by other's.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := NewRegistry()
	for name, s := range r.suites {
		merged.suites[name] = s
	}
	for name, s := range other.suites {
		merged.suites[name] = s
	}
	return merged
}

// Names returns the registered suite names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Lookup(name string) (*Suite, error) {
	s, ok := r.suites[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSuite, name)
	}
	return s, nil
}

// Select resolves a suite selector: a suite name or All.
func (r *Registry) Select(selector string) ([]*Suite, error) {
	if selector == All {
		suites := make([]*Suite, 0, len(r.suites))
		for _, name := range r.Names() {
			suites = append(suites, r.suites[name])
		}
		return suites, nil
	}

	s, err := r.Lookup(selector)
	if err != nil {
		return nil, err
	}
	return []*Suite{s}, nil
}
