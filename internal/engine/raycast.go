package engine

import (
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastResult is a physics ray hit resolved back to its scene object.
type RaycastResult struct {
	GameObject *GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Raycast casts a ray through the physics world and returns the closest hit
// whose collision object belongs to a live object of this scene. Sensors are
// never hit.
func (s *Scene) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastResult, bool) {
	return s.RaycastFiltered(origin, direction, maxDistance, physics.AllFilter)
}

func (s *Scene) RaycastFiltered(origin, direction rl.Vector3, maxDistance float32, mask int32) (RaycastResult, bool) {
	if s.closed {
		return RaycastResult{}, false
	}
	hit, ok := s.world.Raycast(origin, direction, maxDistance, mask)
	if !ok {
		return RaycastResult{}, false
	}
	g, ok := ObjectOf(hit.Object)
	if !ok || g.scene != s {
		return RaycastResult{}, false
	}
	return RaycastResult{GameObject: g, Point: hit.Point, Normal: hit.Normal, Distance: hit.Distance}, true
}

// ObjectOf returns the live object owning a collision object, as recorded in
// its user data by the physics components.
func ObjectOf(o *physics.CollisionObject) (*GameObject, bool) {
	if o == nil {
		return nil, false
	}
	c, ok := o.UserData().(Component)
	if !ok {
		return nil, false
	}
	g := c.GameObject()
	if g == nil || !g.Alive() {
		return nil, false
	}
	return g, true
}
