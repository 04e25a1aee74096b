package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type compoundChild struct {
	transform   Transform
	shape       Shape
	baseScaling rl.Vector3
}

// CompoundShape aggregates child shapes at local offsets. Scaling the
// compound scales both the child offsets and the child shapes.
type CompoundShape struct {
	scaling
	children []compoundChild
}

func NewCompoundShape() *CompoundShape {
	return &CompoundShape{scaling: unitScaling()}
}

func (c *CompoundShape) Kind() ShapeKind { return ShapeCompound }

func (c *CompoundShape) AddChildShape(local Transform, shape Shape) {
	child := compoundChild{transform: local, shape: shape, baseScaling: shape.LocalScaling()}
	shape.SetLocalScaling(mulVec(child.baseScaling, c.scale))
	c.children = append(c.children, child)
}

// RemoveChildShape removes the first child using shape and restores its scaling.
func (c *CompoundShape) RemoveChildShape(shape Shape) bool {
	for i, child := range c.children {
		if child.shape == shape {
			shape.SetLocalScaling(child.baseScaling)
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

func (c *CompoundShape) NumChildShapes() int { return len(c.children) }

func (c *CompoundShape) ChildShape(i int) Shape { return c.children[i].shape }

// ChildTransform returns the child's offset with the compound scaling applied.
func (c *CompoundShape) ChildTransform(i int) Transform {
	t := c.children[i].transform
	t.Origin = mulVec(t.Origin, c.scale)
	return t
}

func (c *CompoundShape) SetLocalScaling(s rl.Vector3) {
	c.scale = s
	for _, child := range c.children {
		child.shape.SetLocalScaling(mulVec(child.baseScaling, s))
	}
}

func (c *CompoundShape) LocalAABB() AABB {
	box := EmptyAABB()
	for i, child := range c.children {
		box = box.Merge(child.shape.LocalAABB().Transformed(c.ChildTransform(i)))
	}
	return box
}

// CalculateLocalInertia approximates the compound by its bounding box.
func (c *CompoundShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	box := c.LocalAABB()
	if box.IsEmpty() {
		return rl.Vector3Zero()
	}
	return boxInertia(mass, box.HalfExtents())
}
