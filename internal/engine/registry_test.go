package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndLoad(t *testing.T) {
	r := newTestRegistry()

	c, err := r.Create("Marker")
	require.NoError(t, err)
	assert.IsType(t, &marker{}, c)

	c, err = r.Load("Marker", map[string]any{"label": "bin"})
	require.NoError(t, err)
	assert.Equal(t, "bin", c.(*marker).Label)

	_, err = r.Load("Marker", map[string]any{"label": 3})
	assert.Error(t, err)

	_, err = r.Create("Missing")
	assert.ErrorIs(t, err, ErrUnregisteredComponent)

	tag, ok := r.TagOf(c)
	require.True(t, ok)
	assert.Equal(t, "Marker", tag)
	tag, ok = TagFor[*counter](r)
	require.True(t, ok)
	assert.Equal(t, "Counter", tag)
	_, ok = TagFor[*body](r)
	assert.False(t, ok)

	assert.Equal(t, []string{"Counter", "Marker", "Broken"}, r.Tags())
	assert.True(t, r.IsRegistered("Broken"))
}

func TestRegistryReplaceKeepsOrder(t *testing.T) {
	r := newTestRegistry()
	Register(r, "Counter", func() *body { return &body{} })

	assert.Equal(t, []string{"Counter", "Marker", "Broken"}, r.Tags())
	c, err := r.Create("Counter")
	require.NoError(t, err)
	assert.IsType(t, &body{}, c)
	_, ok := TagFor[*counter](r)
	assert.False(t, ok)
}

func TestEachVisitsLiveComponents(t *testing.T) {
	s := newTestScene()
	a := MustAdd[*counter](s.CreateGameObject("a"))
	MustAdd[*marker](s.CreateGameObject("b"))
	c := MustAdd[*counter](s.CreateGameObject("c"))

	var counters []*counter
	Each(s.Components(), func(x *counter) { counters = append(counters, x) })
	assert.Equal(t, []*counter{a, c}, counters)

	var updaters int
	Each(s.Components(), func(Updater) { updaters++ })
	assert.Equal(t, 2, updaters)

	a.GameObject().RemoveComponent(a)
	counters = nil
	Each(s.Components(), func(x *counter) {
		counters = append(counters, x)
		x.GameObject().RemoveComponent(c)
	})
	assert.Equal(t, []*counter{c}, counters)
	assert.Equal(t, 1, s.Components().Count())
}

func TestGetComponentByGUID(t *testing.T) {
	s := newTestScene()
	c := MustAdd[*counter](s.CreateGameObject("a"))

	found, ok := GetComponentByGUID[*counter](s.Components(), c.GUID())
	require.True(t, ok)
	assert.Same(t, c, found)

	_, ok = GetComponentByGUID[*marker](s.Components(), c.GUID())
	assert.False(t, ok)

	c.GameObject().RemoveComponent(c)
	_, ok = GetComponentByGUID[*counter](s.Components(), c.GUID())
	assert.False(t, ok)
}

func TestEventListeners(t *testing.T) {
	var e Event[int]
	var got []int
	first := e.AddListener(func(v int) { got = append(got, v) })
	e.AddListener(func(v int) {
		got = append(got, v*10)
		e.AddListener(func(v int) { got = append(got, -v) })
	})
	assert.Equal(t, ListenerID(0), e.AddListener(nil))

	e.Invoke(1)
	assert.Equal(t, []int{1, 10}, got)
	assert.Equal(t, 3, e.ListenerCount())

	assert.True(t, e.RemoveListener(first))
	assert.False(t, e.RemoveListener(first))
	got = nil
	e.Invoke(2)
	assert.Equal(t, []int{20, -2}, got)

	e.RemoveAllListeners()
	assert.Equal(t, 0, e.ListenerCount())
}

func TestHandleString(t *testing.T) {
	assert.True(t, NilHandle.IsNil())
	assert.Equal(t, "Handle(nil)", NilHandle.String())

	s := newTestScene()
	g := s.CreateGameObject("g")
	assert.False(t, g.Handle().IsNil())
	assert.Equal(t, "Handle(0:1)", g.Handle().String())
}
