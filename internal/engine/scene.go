package engine

import (
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultMaxSubSteps = 10
)

type Option func(*sceneOptions)

type sceneOptions struct {
	logger        *zap.Logger
	gravity       *rl.Vector3
	maxSubSteps   int
	fixedTimeStep float32
	physicsOpts   []physics.Option
}

func WithLogger(l *zap.Logger) Option {
	return func(o *sceneOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithGravity(g rl.Vector3) Option {
	return func(o *sceneOptions) { o.gravity = &g }
}

// WithStepping sets the substep limit and fixed step passed to the physics world.
func WithStepping(maxSubSteps int, fixedTimeStep float32) Option {
	return func(o *sceneOptions) {
		o.maxSubSteps = maxSubSteps
		o.fixedTimeStep = fixedTimeStep
	}
}

// WithPhysicsOptions forwards options to the scene's physics world.
func WithPhysicsOptions(opts ...physics.Option) Option {
	return func(o *sceneOptions) { o.physicsOpts = append(o.physicsOpts, opts...) }
}

// Scene owns its objects, their components and the physics world they are
// simulated in. Objects are only ever destroyed through the deletion queue.
type Scene struct {
	Name string

	// IsPlaying gates the physics step. While false DoPhysics still pushes
	// node state into the world but never advances it.
	IsPlaying bool

	ObjectCreated   Event[*GameObject]
	ObjectDestroyed Event[*GameObject]

	logger     *zap.Logger
	registry   *Registry
	components *ComponentManager
	world      *physics.World

	arena         nodeArena
	objects       []Handle
	deletionQueue []Handle

	awake         bool
	closed        bool
	mainCamera    uuid.UUID
	maxSubSteps   int
	fixedTimeStep float32
}

func NewScene(name string, registry *Registry, opts ...Option) *Scene {
	o := sceneOptions{
		logger:        zap.NewNop(),
		maxSubSteps:   DefaultMaxSubSteps,
		fixedTimeStep: physics.DefaultFixedTimeStep,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if registry == nil {
		registry = NewRegistry()
	}
	logger := o.logger.With(zap.String("scene", name))

	physicsOpts := append([]physics.Option{physics.WithLogger(logger.Named("physics"))}, o.physicsOpts...)
	if o.gravity != nil {
		physicsOpts = append(physicsOpts, physics.WithGravity(*o.gravity))
	}
	return &Scene{
		Name:          name,
		logger:        logger,
		registry:      registry,
		components:    NewComponentManager(registry),
		world:         physics.NewWorld(physicsOpts...),
		maxSubSteps:   o.maxSubSteps,
		fixedTimeStep: o.fixedTimeStep,
	}
}

func (s *Scene) Logger() *zap.Logger { return s.logger }

func (s *Scene) Registry() *Registry { return s.registry }

func (s *Scene) Components() *ComponentManager { return s.components }

// Physics returns the scene's physics world.
func (s *Scene) Physics() *physics.World { return s.world }

func (s *Scene) IsAwake() bool { return s.awake }

func (s *Scene) Gravity() rl.Vector3 { return s.world.Gravity() }

func (s *Scene) SetGravity(g rl.Vector3) { s.world.SetGravity(g) }

// CreateGameObject adds a new root object with a fresh GUID.
func (s *Scene) CreateGameObject(name string) *GameObject {
	return s.CreateGameObjectWithGUID(name, uuid.Nil)
}

// CreateGameObjectWithGUID adds a new root object with a persisted GUID. A nil
// GUID is replaced with a fresh one.
func (s *Scene) CreateGameObjectWithGUID(name string, id uuid.UUID) *GameObject {
	g := newGameObject(s, name, id)
	g.handle = s.arena.insert(g)
	s.objects = append(s.objects, g.handle)
	s.ObjectCreated.Invoke(g)
	return g
}

// Resolve returns the object for h if it is still alive.
func (s *Scene) Resolve(h Handle) (*GameObject, bool) {
	return s.arena.get(h)
}

// Objects returns the live objects in creation order, including those queued
// for deletion this frame.
func (s *Scene) Objects() []*GameObject {
	out := make([]*GameObject, 0, len(s.objects))
	for _, h := range s.objects {
		if g, ok := s.arena.get(h); ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *Scene) NumObjects() int { return s.arena.len() }

func (s *Scene) FindObjectByName(name string) (*GameObject, bool) {
	for _, h := range s.objects {
		if g, ok := s.arena.get(h); ok && g.Name == name {
			return g, true
		}
	}
	return nil, false
}

func (s *Scene) FindObjectByGUID(id uuid.UUID) (*GameObject, bool) {
	for _, h := range s.objects {
		if g, ok := s.arena.get(h); ok && g.guid == id {
			return g, true
		}
	}
	return nil, false
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.Objects() {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

// SetMainCamera records the GUID of the component used as the main camera.
func (s *Scene) SetMainCamera(c Component) {
	if c == nil {
		s.mainCamera = uuid.Nil
		return
	}
	s.mainCamera = c.GUID()
}

func (s *Scene) SetMainCameraGUID(id uuid.UUID) { s.mainCamera = id }

func (s *Scene) MainCameraGUID() uuid.UUID { return s.mainCamera }

// MainCamera resolves the main camera GUID to its live component.
func (s *Scene) MainCamera() (Component, bool) {
	if s.mainCamera == uuid.Nil {
		return nil, false
	}
	return GetComponentByGUID[Component](s.components, s.mainCamera)
}

// Awake wakes every component attached so far. Later components are woken as
// they are attached. Errors from individual components are collected.
func (s *Scene) Awake() error {
	if s.closed {
		return ErrSceneClosed
	}
	if s.awake {
		return nil
	}
	s.awake = true
	var errs error
	for _, g := range s.Objects() {
		for _, c := range g.Components() {
			if err := wake(c); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "awake %T on %q", c, g.Name))
			}
		}
	}
	if errs != nil {
		s.logger.Error("scene awake failed", zap.Error(errs))
	}
	return errs
}

// RemoveGameObject queues g and its descendants for deletion at the next
// frame boundary. It never destroys synchronously.
func (s *Scene) RemoveGameObject(g *GameObject) {
	if g == nil || g.scene != s || g.pendingDestroy {
		return
	}
	if _, ok := s.arena.get(g.handle); !ok {
		return
	}
	g.pendingDestroy = true
	s.deletionQueue = append(s.deletionQueue, g.handle)
}

func (s *Scene) flushDeletions() {
	for len(s.deletionQueue) > 0 {
		queue := s.deletionQueue
		s.deletionQueue = nil
		for _, h := range queue {
			if g, ok := s.arena.get(h); ok {
				s.destroy(g)
			}
		}
	}
	live := s.objects[:0]
	for _, h := range s.objects {
		if _, ok := s.arena.get(h); ok {
			live = append(live, h)
		}
	}
	s.objects = live
}

// destroy removes g and its subtree immediately. Only called while flushing.
func (s *Scene) destroy(g *GameObject) {
	for _, child := range g.Children() {
		s.destroy(child)
	}
	if p := g.Parent(); p != nil {
		p.RemoveChild(g)
	}
	for i := len(g.components) - 1; i >= 0; i-- {
		g.detachComponent(g.components[i])
	}
	g.components = nil
	s.arena.remove(g.handle)
	g.pendingDestroy = true
	s.ObjectDestroyed.Invoke(g)
	s.logger.Debug("object destroyed", zap.String("name", g.Name), zap.Stringer("guid", g.guid))
}

// Update flushes pending deletions, updates every object, then flushes again
// so objects queued during this frame are gone before the next one.
func (s *Scene) Update(deltaTime float32) {
	if s.closed {
		return
	}
	s.flushDeletions()
	for i := 0; i < len(s.objects); i++ {
		if g, ok := s.arena.get(s.objects[i]); ok {
			g.Update(deltaTime)
		}
	}
	s.flushDeletions()
}

// DoPhysics pushes every physics body into the world, then, while playing,
// steps the world and pulls the results back.
func (s *Scene) DoPhysics(deltaTime float32) {
	if s.closed {
		return
	}
	for _, g := range s.Objects() {
		g.RefreshTransform()
	}
	Each(s.components, func(b PhysicsBody) { b.PhysicsPreStep(deltaTime) })
	if !s.IsPlaying {
		return
	}
	s.world.StepSimulation(deltaTime, s.maxSubSteps, s.fixedTimeStep)
	Each(s.components, func(b PhysicsBody) { b.PhysicsPostStep(deltaTime) })
}

// DrawPhysicsDebug forwards the world's debug geometry to d.
func (s *Scene) DrawPhysicsDebug(d physics.DebugDrawer) {
	if s.closed {
		return
	}
	s.world.DebugDraw(d)
}

// Close destroys every object and then the physics world.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	for _, g := range s.Objects() {
		if g.Parent() == nil {
			s.RemoveGameObject(g)
		}
	}
	s.flushDeletions()
	s.world.Destroy()
	s.closed = true
}
