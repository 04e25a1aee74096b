package physics

// GhostObject is a non-responding collision object that tracks what overlaps
// it. The overlap list is refreshed on every simulation substep.
type GhostObject struct {
	CollisionObject
	overlapping []*CollisionObject
}

func NewGhostObject(shape Shape, t Transform) *GhostObject {
	g := &GhostObject{CollisionObject: newCollisionObject(shape, t)}
	g.flags = CollisionFlagNoContactResponse
	g.ghost = g
	g.updateAABB()
	return g
}

func (g *GhostObject) NumOverlappingObjects() int { return len(g.overlapping) }

func (g *GhostObject) OverlappingObject(i int) *CollisionObject { return g.overlapping[i] }

// OverlappingObjects returns a copy of the current overlap list.
func (g *GhostObject) OverlappingObjects() []*CollisionObject {
	out := make([]*CollisionObject, len(g.overlapping))
	copy(out, g.overlapping)
	return out
}

func (g *GhostObject) addOverlap(o *CollisionObject) {
	for _, existing := range g.overlapping {
		if existing == o {
			return
		}
	}
	g.overlapping = append(g.overlapping, o)
}

func (g *GhostObject) removeOverlap(o *CollisionObject) {
	for i, existing := range g.overlapping {
		if existing == o {
			g.overlapping = append(g.overlapping[:i], g.overlapping[i+1:]...)
			return
		}
	}
}
