package cmd

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry stores commands by name and alias, case-insensitively. It does
// not dispatch.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	names    map[string]string // lower-cased name or alias -> command name
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		names:    make(map[string]string),
	}
}

// Register adds c under its name and aliases. A name or alias that is
// already taken is an error and nothing is registered.
func (r *Registry) Register(c Command, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, aliases...)
	for i, k := range keys {
		k = strings.ToLower(k)
		if k == "" {
			return fmt.Errorf("command %q: empty name", c.Name())
		}
		if owner, taken := r.names[k]; taken {
			return fmt.Errorf("command %q: %q already registered by %q", c.Name(), k, owner)
		}
		keys[i] = k
	}
	for _, k := range keys {
		r.names[k] = c.Name()
	}
	r.commands[c.Name()] = c
	return nil
}

// MustRegister is Register that panics, for static setup.
func (r *Registry) MustRegister(c Command, aliases ...string) {
	if err := r.Register(c, aliases...); err != nil {
		panic(err)
	}
}

// Get resolves a name or alias to its command, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.names[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return r.commands[canonical]
}

// Aliases returns every key that resolves to the named command except its
// own name, sorted.
func (r *Registry) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k, owner := range r.names {
		if owner == name && k != strings.ToLower(name) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// GetAll returns all registered commands sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return list
}
