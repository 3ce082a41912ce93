package models

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownModel is returned when a requested model name is not registered.
var ErrUnknownModel = errors.New("unknown model")

// Constructor builds a ready-to-infer model instance.
type Constructor func() (Model, error)

// Registry maps model names to constructors. It is built statically at
// startup and injected into the CLI, so tests can substitute fake
// constructors without global state.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, c Constructor) {
	r.constructors[name] = c
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the model registered under name. An unregistered name
// returns ErrUnknownModel; no inference backend is touched in that case.
func (r *Registry) New(name string) (Model, error) {
	c, ok := r.constructors[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q (available: %v)", name, r.Names())
	}
	return c()
}

// Default returns the registry of built-in classifier models.
func Default() *Registry {
	r := NewRegistry()
	for _, arch := range builtinArchs {
		arch := arch
		r.Register(arch.name, func() (Model, error) {
			return newClassifier(arch)
		})
	}
	return r
}
