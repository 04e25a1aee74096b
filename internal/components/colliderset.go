package components

import (
	"otter/internal/engine"
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// colliderSet is the collider list shared by RigidBody and TriggerVolume,
// aggregated into one compound shape scaled by the node's world scale.
type colliderSet struct {
	colliders []Collider
	compound  *physics.CompoundShape
	scale     rl.Vector3
	dirty     bool
}

func (s *colliderSet) add(c Collider) {
	s.colliders = append(s.colliders, c)
	s.dirty = true
}

func (s *colliderSet) remove(c Collider) bool {
	for i, existing := range s.colliders {
		if existing == c {
			s.colliders = append(s.colliders[:i], s.colliders[i+1:]...)
			s.dirty = true
			return true
		}
	}
	return false
}

func (s *colliderSet) list() []Collider {
	out := make([]Collider, len(s.colliders))
	copy(out, s.colliders)
	return out
}

func (s *colliderSet) awake(g *engine.GameObject) error {
	for _, c := range s.colliders {
		if err := c.Awake(g); err != nil {
			return err
		}
	}
	return nil
}

func (s *colliderSet) needsRebuild() bool {
	if s.compound == nil || s.dirty {
		return true
	}
	for _, c := range s.colliders {
		if c.IsDirty() {
			return true
		}
	}
	return false
}

// shape returns the compound for scale and reports whether it differs from
// the one returned last time, in which case inertia must be recomputed.
func (s *colliderSet) shape(scale rl.Vector3) (*physics.CompoundShape, bool, error) {
	if !s.needsRebuild() {
		if scale == s.scale {
			return s.compound, false, nil
		}
		s.compound.SetLocalScaling(scale)
		s.scale = scale
		return s.compound, true, nil
	}

	// The current compound stays installed until every child shape is built.
	shapes := make([]physics.Shape, len(s.colliders))
	for i, c := range s.colliders {
		shape, err := c.Shape()
		if err != nil {
			return nil, false, err
		}
		shapes[i] = shape
	}
	if old := s.compound; old != nil {
		for old.NumChildShapes() > 0 {
			old.RemoveChildShape(old.ChildShape(0))
		}
	}
	compound := physics.NewCompoundShape()
	for i, c := range s.colliders {
		compound.AddChildShape(c.LocalTransform(), shapes[i])
	}
	compound.SetLocalScaling(scale)
	s.compound = compound
	s.scale = scale
	s.dirty = false
	return compound, true, nil
}

func (s *colliderSet) serialize() []map[string]any {
	out := make([]map[string]any, 0, len(s.colliders))
	for _, c := range s.colliders {
		out = append(out, c.Serialize())
	}
	return out
}

func (s *colliderSet) deserialize(data map[string]any) error {
	blobs, err := readMaps(data, "colliders")
	if err != nil {
		return err
	}
	if blobs == nil {
		return nil
	}
	s.colliders = s.colliders[:0]
	for i, blob := range blobs {
		c, err := LoadCollider(blob)
		if err != nil {
			return errors.Wrapf(err, "colliders[%d]", i)
		}
		s.add(c)
	}
	s.dirty = true
	return nil
}
