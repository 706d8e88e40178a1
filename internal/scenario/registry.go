package scenario

import (
	"fmt"
	"sort"
	"sync"

	"wfbench/internal/clock"
	"wfbench/internal/marketplace"
	"wfbench/internal/workflow"
)

// SourceBuiltin marks scenarios defined in code.
const SourceBuiltin = "builtin"

// Env is what a scenario needs to build a runnable workflow.
type Env struct {
	Client *marketplace.Client
	Clock  clock.Clock
}

// Entry describes one available workflow.
type Entry struct {
	Name        string
	Description string
	Tags        []string
	// Source is SourceBuiltin or the file the scenario was loaded from
	Source string
	Build  func(env Env) workflow.Runnable
}

// HasTag reports whether the entry carries tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds the workflows wfbench can run, in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// DefaultRegistry returns a registry holding every built-in scenario.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range Builtins() {
		r.Register(e)
	}
	return r
}

// Register adds or replaces an entry. A replaced entry keeps its position.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Name]; !exists {
		r.order = append(r.order, e.Name)
	}
	r.entries[e.Name] = e
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Entries returns every entry in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Filter selects entries by name and tag. With no names every entry is a
// candidate; with tags an entry must carry at least one of them. Unknown
// names are an error.
func (r *Registry) Filter(names, tags []string) ([]Entry, error) {
	var candidates []Entry
	if len(names) == 0 {
		candidates = r.Entries()
	} else {
		var unknown []string
		for _, name := range names {
			e, ok := r.Get(name)
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			candidates = append(candidates, e)
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, fmt.Errorf("unknown workflows: %v (available: %v)", unknown, r.Names())
		}
	}

	if len(tags) == 0 {
		return candidates, nil
	}
	var out []Entry
	for _, e := range candidates {
		for _, tag := range tags {
			if e.HasTag(tag) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// LoadPath loads YAML scenarios from path and registers them, replacing
// any earlier file-based entries that no longer exist. Built-ins are kept.
func (r *Registry) LoadPath(path string) (int, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	kept := r.order[:0]
	for _, name := range r.order {
		if r.entries[name].Source == SourceBuiltin {
			kept = append(kept, name)
			continue
		}
		delete(r.entries, name)
	}
	r.order = kept
	r.mu.Unlock()

	for _, def := range defs {
		r.Register(def.Entry())
	}
	return len(defs), nil
}
