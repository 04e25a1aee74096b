package engine

import (
	"reflect"
	"sort"

	"github.com/google/uuid"
)

// ComponentManager stores every attached component of a scene in one pool per
// concrete type, so systems can visit all components of a type without
// walking the node tree.
type ComponentManager struct {
	registry *Registry
	pools    map[reflect.Type][]Component
	order    []reflect.Type
	byGUID   map[uuid.UUID]Component
}

func NewComponentManager(r *Registry) *ComponentManager {
	if r == nil {
		r = NewRegistry()
	}
	return &ComponentManager{
		registry: r,
		pools:    make(map[reflect.Type][]Component),
		byGUID:   make(map[uuid.UUID]Component),
	}
}

func (m *ComponentManager) Registry() *Registry { return m.registry }

// Create builds an unattached component for tag.
func (m *ComponentManager) Create(tag string) (Component, error) {
	return m.registry.Create(tag)
}

// Load builds an unattached component for tag from serialized data.
func (m *ComponentManager) Load(tag string, data map[string]any) (Component, error) {
	return m.registry.Load(tag, data)
}

func (m *ComponentManager) add(c Component) {
	typ := reflect.TypeOf(c)
	if _, ok := m.pools[typ]; !ok {
		m.order = append(m.order, typ)
		sort.SliceStable(m.order, func(i, j int) bool {
			return m.registry.rank(m.order[i]) < m.registry.rank(m.order[j])
		})
	}
	m.pools[typ] = append(m.pools[typ], c)
	m.byGUID[c.GUID()] = c
}

func (m *ComponentManager) remove(c Component) {
	typ := reflect.TypeOf(c)
	pool := m.pools[typ]
	for i, existing := range pool {
		if existing == c {
			m.pools[typ] = append(pool[:i], pool[i+1:]...)
			break
		}
	}
	if m.byGUID[c.GUID()] == c {
		delete(m.byGUID, c.GUID())
	}
}

// Count returns the number of live components across all pools.
func (m *ComponentManager) Count() int {
	n := 0
	for _, pool := range m.pools {
		n += len(pool)
	}
	return n
}

// Each calls fn for every live component assignable to T. For a concrete T
// only that type's pool is visited; for an interface T every pool is visited
// in registration order. Disabled components are included. Components added
// by fn are visited from the next call; detached ones are skipped.
func Each[T any](m *ComponentManager, fn func(T)) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Interface {
		snapshot := append([]Component(nil), m.pools[typ]...)
		for _, c := range snapshot {
			if c.GameObject() != nil {
				fn(c.(T))
			}
		}
		return
	}
	var snapshot []Component
	for _, t := range m.order {
		if !t.Implements(typ) {
			continue
		}
		snapshot = append(snapshot, m.pools[t]...)
	}
	for _, c := range snapshot {
		if c.GameObject() != nil {
			fn(c.(T))
		}
	}
}

// GetComponentByGUID returns the live component with id if it is a T.
func GetComponentByGUID[T any](m *ComponentManager, id uuid.UUID) (T, bool) {
	var zero T
	c, ok := m.byGUID[id]
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}
