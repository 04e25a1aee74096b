package engine

import (
	"reflect"

	"github.com/pkg/errors"
)

// Factory builds a default-initialized component.
type Factory func() Component

// Registry maps stable type tags to component factories. It is passed to
// NewScene instead of living in a package global, so two scenes can use
// different component sets.
type Registry struct {
	factories map[string]Factory
	tags      map[reflect.Type]string
	order     []string
	types     []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		tags:      make(map[reflect.Type]string),
	}
}

// Register adds a factory for T under tag. Registering a tag twice replaces
// the previous factory but keeps its position in the iteration order.
func Register[T Component](r *Registry, tag string, factory func() T) {
	typ := reflect.TypeFor[T]()
	if _, exists := r.factories[tag]; !exists {
		r.order = append(r.order, tag)
		r.types = append(r.types, typ)
	} else {
		for i, t := range r.order {
			if t == tag {
				delete(r.tags, r.types[i])
				r.types[i] = typ
			}
		}
	}
	r.factories[tag] = func() Component { return factory() }
	r.tags[typ] = tag
}

// Create builds a new component for tag.
func (r *Registry) Create(tag string) (Component, error) {
	factory, ok := r.factories[tag]
	if !ok {
		return nil, errors.Wrapf(ErrUnregisteredComponent, "create %q", tag)
	}
	return factory(), nil
}

// Load builds a component for tag and restores its state from data.
func (r *Registry) Load(tag string, data map[string]any) (Component, error) {
	c, err := r.Create(tag)
	if err != nil {
		return nil, err
	}
	if s, ok := c.(Serializable); ok && data != nil {
		if err := s.Deserialize(data); err != nil {
			return nil, errors.Wrapf(err, "load %q", tag)
		}
	}
	return c, nil
}

// TagOf returns the tag registered for c's concrete type.
func (r *Registry) TagOf(c Component) (string, bool) {
	tag, ok := r.tags[reflect.TypeOf(c)]
	return tag, ok
}

// TagFor returns the tag registered for T.
func TagFor[T Component](r *Registry) (string, bool) {
	tag, ok := r.tags[reflect.TypeFor[T]()]
	return tag, ok
}

func (r *Registry) IsRegistered(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// rank orders component pools: registered types first, in registration order.
func (r *Registry) rank(typ reflect.Type) int {
	for i, t := range r.types {
		if t == typ {
			return i
		}
	}
	return len(r.types)
}
