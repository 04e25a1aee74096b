package engine

import "github.com/google/uuid"

// Component is anything that can be attached to a GameObject. Implementations
// embed BaseComponent, which also provides the enable flag and GUID.
type Component interface {
	base() *BaseComponent
	GameObject() *GameObject
	Enabled() bool
	SetEnabled(enabled bool)
	GUID() uuid.UUID
}

// Loader is called right after the component is attached.
type Loader interface {
	OnLoad()
}

// Awaker is called once: immediately on attach if the scene is already awake,
// otherwise from Scene.Awake.
type Awaker interface {
	Awake() error
}

type Updater interface {
	Update(deltaTime float32)
}

// Destroyer is called when the component is removed or its node is destroyed.
type Destroyer interface {
	OnDestroy()
}

// Serializable components round-trip through scene files.
type Serializable interface {
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any) error
}

// CollisionHandler is implemented by components that want to receive collision callbacks.
// Scripts can implement these methods to react to collisions.
type CollisionHandler interface {
	OnCollisionEnter(other *GameObject)
	OnCollisionExit(other *GameObject)
}

// PhysicsBody is a component synchronized with the physics world around
// every simulation step.
type PhysicsBody interface {
	Component
	PhysicsPreStep(deltaTime float32)
	PhysicsPostStep(deltaTime float32)
}

// BaseComponent provides the shared part of every component.
type BaseComponent struct {
	gameObject *GameObject
	disabled   bool
	awoken     bool
	guid       uuid.UUID
}

func (b *BaseComponent) base() *BaseComponent { return b }

// wake calls Awake on c unless it already ran for the current attachment.
func wake(c Component) error {
	b := c.base()
	if b.awoken {
		return nil
	}
	b.awoken = true
	if a, ok := c.(Awaker); ok {
		return a.Awake()
	}
	return nil
}

func (b *BaseComponent) GameObject() *GameObject {
	return b.gameObject
}

func (b *BaseComponent) Enabled() bool { return !b.disabled }

func (b *BaseComponent) SetEnabled(enabled bool) { b.disabled = !enabled }

// GUID returns the component's id, assigning one on first use.
func (b *BaseComponent) GUID() uuid.UUID {
	if b.guid == uuid.Nil {
		b.guid = uuid.New()
	}
	return b.guid
}

// SetGUID restores a persisted id. Only meaningful before the component is attached.
func (b *BaseComponent) SetGUID(id uuid.UUID) { b.guid = id }

// Scene is a shortcut for GameObject().Scene(), nil when unattached.
func (b *BaseComponent) Scene() *Scene {
	if b.gameObject == nil {
		return nil
	}
	return b.gameObject.scene
}
