package engine

import (
	"reflect"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GameObject is a node of the scene graph: a local transform, an ordered
// list of components, and parent/child links held as handles into the
// owning Scene. Objects are created with Scene.CreateGameObject only.
type GameObject struct {
	Name string
	Tags []string

	guid   uuid.UUID
	handle Handle
	scene  *Scene

	parent   Handle
	children []Handle

	components []Component

	position rl.Vector3
	rotation rl.Quaternion
	scale    rl.Vector3

	// Invariant: a node with worldDirty set has every descendant worldDirty too.
	localDirty   bool
	worldDirty   bool
	local        rl.Matrix
	localInverse rl.Matrix
	world        rl.Matrix
	worldInverse rl.Matrix

	pendingDestroy bool
}

func newGameObject(s *Scene, name string, id uuid.UUID) *GameObject {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &GameObject{
		Name:       name,
		guid:       id,
		scene:      s,
		rotation:   rl.QuaternionIdentity(),
		scale:      rl.Vector3{X: 1, Y: 1, Z: 1},
		localDirty: true,
		worldDirty: true,
	}
}

func (g *GameObject) GUID() uuid.UUID { return g.guid }

func (g *GameObject) Handle() Handle { return g.handle }

func (g *GameObject) Scene() *Scene { return g.scene }

// Alive reports whether the object is still in its scene and not queued for deletion.
func (g *GameObject) Alive() bool {
	if g.scene == nil || g.pendingDestroy {
		return false
	}
	_, ok := g.scene.arena.get(g.handle)
	return ok
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) logger() *zap.Logger {
	if g.scene == nil {
		return zap.NewNop()
	}
	return g.scene.logger
}

func (g *GameObject) resolve(h Handle) (*GameObject, bool) {
	if g.scene == nil {
		return nil, false
	}
	return g.scene.arena.get(h)
}

// Position is the local position relative to the parent.
func (g *GameObject) Position() rl.Vector3 { return g.position }

func (g *GameObject) SetPosition(p rl.Vector3) {
	g.position = p
	g.markLocalDirty()
}

// Rotation is the local rotation relative to the parent.
func (g *GameObject) Rotation() rl.Quaternion { return g.rotation }

func (g *GameObject) SetRotation(q rl.Quaternion) {
	g.rotation = rl.QuaternionNormalize(q)
	g.markLocalDirty()
}

// SetRotationEuler sets the local rotation from X/Y/Z angles in degrees.
func (g *GameObject) SetRotationEuler(degrees rl.Vector3) {
	g.SetRotation(rl.QuaternionFromEuler(degrees.X*rl.Deg2rad, degrees.Y*rl.Deg2rad, degrees.Z*rl.Deg2rad))
}

// RotationEuler returns the local rotation as X/Y/Z angles in degrees.
func (g *GameObject) RotationEuler() rl.Vector3 {
	return rl.Vector3Scale(rl.QuaternionToEuler(g.rotation), rl.Rad2deg)
}

func (g *GameObject) Scale() rl.Vector3 { return g.scale }

// SetScale accepts non-uniform and negative scales.
func (g *GameObject) SetScale(s rl.Vector3) {
	g.scale = s
	g.markLocalDirty()
}

func (g *GameObject) markLocalDirty() {
	g.localDirty = true
	g.markWorldDirty()
}

func (g *GameObject) markWorldDirty() {
	if g.worldDirty {
		return
	}
	g.worldDirty = true
	for _, h := range g.children {
		if c, ok := g.resolve(h); ok {
			c.markWorldDirty()
		}
	}
}

// RefreshTransform rebuilds any stale cached matrices.
func (g *GameObject) RefreshTransform() {
	if g.localDirty {
		g.local = rl.MatrixMultiply(
			rl.MatrixMultiply(rl.MatrixScale(g.scale.X, g.scale.Y, g.scale.Z), rl.QuaternionToMatrix(g.rotation)),
			rl.MatrixTranslate(g.position.X, g.position.Y, g.position.Z),
		)
		g.localInverse = rl.MatrixInvert(g.local)
		g.localDirty = false
	}
	if g.worldDirty {
		if p := g.Parent(); p != nil {
			g.world = rl.MatrixMultiply(g.local, p.Transform())
		} else {
			g.world = g.local
		}
		g.worldInverse = rl.MatrixInvert(g.world)
		g.worldDirty = false
	}
}

// LocalTransform returns scale, then rotation, then translation as one matrix.
func (g *GameObject) LocalTransform() rl.Matrix {
	g.RefreshTransform()
	return g.local
}

func (g *GameObject) InverseLocalTransform() rl.Matrix {
	g.RefreshTransform()
	return g.localInverse
}

// Transform returns the world matrix: the local matrix followed by the parent's world matrix.
func (g *GameObject) Transform() rl.Matrix {
	g.RefreshTransform()
	return g.world
}

func (g *GameObject) InverseTransform() rl.Matrix {
	g.RefreshTransform()
	return g.worldInverse
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	m := g.Transform()
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	if p := g.Parent(); p != nil {
		return rl.QuaternionNormalize(rl.QuaternionMultiply(p.WorldRotation(), g.rotation))
	}
	return g.rotation
}

// WorldScale is the product of the scales up the hierarchy.
func (g *GameObject) WorldScale() rl.Vector3 {
	if p := g.Parent(); p != nil {
		ps := p.WorldScale()
		return rl.Vector3{X: ps.X * g.scale.X, Y: ps.Y * g.scale.Y, Z: ps.Z * g.scale.Z}
	}
	return g.scale
}

// SetWorldPosition converts p into the parent's space before storing it.
func (g *GameObject) SetWorldPosition(p rl.Vector3) {
	if parent := g.Parent(); parent != nil {
		p = rl.Vector3Transform(p, parent.InverseTransform())
	}
	g.SetPosition(p)
}

// SetWorldRotation converts q into the parent's space before storing it.
func (g *GameObject) SetWorldRotation(q rl.Quaternion) {
	if parent := g.Parent(); parent != nil {
		q = rl.QuaternionMultiply(rl.QuaternionInvert(parent.WorldRotation()), q)
	}
	g.SetRotation(q)
}

// Parent returns nil for roots and for parents that no longer exist.
func (g *GameObject) Parent() *GameObject {
	p, _ := g.resolve(g.parent)
	return p
}

func (g *GameObject) ParentHandle() Handle { return g.parent }

// Children returns the live children in order.
func (g *GameObject) Children() []*GameObject {
	out := make([]*GameObject, 0, len(g.children))
	for _, h := range g.children {
		if c, ok := g.resolve(h); ok {
			out = append(out, c)
		}
	}
	return out
}

func (g *GameObject) isAncestorOf(other *GameObject) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == g {
			return true
		}
	}
	return false
}

// AddChild makes child a child of g, detaching it from its previous parent.
// Adding an existing child is a logged no-op.
func (g *GameObject) AddChild(child *GameObject) {
	if child == nil || child == g {
		return
	}
	if child.scene != g.scene {
		g.logger().Warn("cannot parent across scenes", zap.String("parent", g.Name), zap.String("child", child.Name))
		return
	}
	if child.parent == g.handle {
		g.logger().Warn("object is already a child", zap.String("parent", g.Name), zap.String("child", child.Name))
		return
	}
	if child.isAncestorOf(g) {
		g.logger().Warn("refusing to create a parent cycle", zap.String("parent", g.Name), zap.String("child", child.Name))
		return
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
	child.parent = g.handle
	g.children = append(g.children, child.handle)
	child.markWorldDirty()
}

// RemoveChild detaches child and reports whether it was a child of g.
func (g *GameObject) RemoveChild(child *GameObject) bool {
	if child == nil {
		return false
	}
	for i, h := range g.children {
		if h == child.handle {
			g.children = append(g.children[:i], g.children[i+1:]...)
			child.parent = NilHandle
			child.markWorldDirty()
			return true
		}
	}
	return false
}

// SetParent reparents g; nil makes it a root.
func (g *GameObject) SetParent(parent *GameObject) {
	if parent == nil {
		if p := g.Parent(); p != nil {
			p.RemoveChild(g)
		}
		g.parent = NilHandle
		return
	}
	parent.AddChild(g)
}

// purgeChildren drops child handles that no longer resolve.
func (g *GameObject) purgeChildren() {
	kept := g.children[:0]
	for _, h := range g.children {
		if _, ok := g.resolve(h); ok {
			kept = append(kept, h)
		}
	}
	g.children = kept
}

// Update runs every enabled component, then refreshes the transform and drops
// expired children.
func (g *GameObject) Update(deltaTime float32) {
	for i := 0; i < len(g.components); i++ {
		c := g.components[i]
		if !c.Enabled() {
			continue
		}
		if u, ok := c.(Updater); ok {
			u.Update(deltaTime)
		}
	}
	g.RefreshTransform()
	g.purgeChildren()
}

// Components returns the attached components in attachment order.
func (g *GameObject) Components() []Component {
	out := make([]Component, len(g.components))
	copy(out, g.components)
	return out
}

// AddComponent attaches c, calls OnLoad, and calls Awake when the scene is
// already awake. A second component of the same concrete type is rejected.
func (g *GameObject) AddComponent(c Component) error {
	b := c.base()
	if b.gameObject != nil {
		return errors.Wrapf(ErrComponentAttached, "%T on %q", c, g.Name)
	}
	typ := reflect.TypeOf(c)
	for _, existing := range g.components {
		if reflect.TypeOf(existing) == typ {
			return errors.Wrapf(ErrDuplicateComponent, "%s on %q", typ, g.Name)
		}
	}

	b.gameObject = g
	g.components = append(g.components, c)
	g.scene.components.add(c)

	if l, ok := c.(Loader); ok {
		l.OnLoad()
	}
	if g.scene.awake {
		if err := wake(c); err != nil {
			return errors.Wrapf(err, "awake %s on %q", typ, g.Name)
		}
	}
	return nil
}

// RemoveComponent detaches c, calling its OnDestroy hook.
func (g *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range g.components {
		if existing == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			g.detachComponent(c)
			return true
		}
	}
	return false
}

func (g *GameObject) detachComponent(c Component) {
	if d, ok := c.(Destroyer); ok {
		d.OnDestroy()
	}
	g.scene.components.remove(c)
	c.base().gameObject = nil
	c.base().awoken = false
}

// Add creates a registered component of type T and attaches it to g.
func Add[T Component](g *GameObject) (T, error) {
	var zero T
	if Has[T](g) {
		return zero, errors.Wrapf(ErrDuplicateComponent, "%s on %q", reflect.TypeFor[T](), g.Name)
	}
	tag, ok := TagFor[T](g.scene.registry)
	if !ok {
		return zero, errors.Wrapf(ErrUnregisteredComponent, "%s", reflect.TypeFor[T]())
	}
	c, err := g.scene.registry.Create(tag)
	if err != nil {
		return zero, err
	}
	typed := c.(T)
	return typed, g.AddComponent(typed)
}

// MustAdd is Add for authoring code: a failure is a programming error and panics.
func MustAdd[T Component](g *GameObject) T {
	c, err := Add[T](g)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the component of concrete type T.
func Get[T Component](g *GameObject) (T, bool) {
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func Has[T Component](g *GameObject) bool {
	_, ok := Get[T](g)
	return ok
}

// GetComponent returns the first component assignable to T, which may be an
// interface, or the zero value.
func GetComponent[T any](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}
