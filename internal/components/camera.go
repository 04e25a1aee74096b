package components

import (
	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Camera struct {
	engine.BaseComponent
	FOV        float32
	Near       float32
	Far        float32
	Projection rl.CameraProjection
}

func NewCamera() *Camera {
	return &Camera{
		FOV:        45.0,
		Near:       0.1,
		Far:        1000.0,
		Projection: rl.CameraPerspective,
	}
}

// IsMain reports whether the scene uses this camera as its main camera.
func (c *Camera) IsMain() bool {
	s := c.Scene()
	return s != nil && s.MainCameraGUID() == c.GUID()
}

// Forward is the node's world -Z axis.
func (c *Camera) Forward() rl.Vector3 {
	g := c.GameObject()
	if g == nil {
		return rl.Vector3{Z: -1}
	}
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: -1}, g.WorldRotation())
}

// RaylibCamera builds a raylib camera looking down the node's forward axis.
func (c *Camera) RaylibCamera() rl.Camera3D {
	g := c.GameObject()
	if g == nil {
		return rl.Camera3D{}
	}
	eye := g.WorldPosition()
	return rl.Camera3D{
		Position:   eye,
		Target:     rl.Vector3Add(eye, c.Forward()),
		Up:         rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, g.WorldRotation()),
		Fovy:       c.FOV,
		Projection: c.Projection,
	}
}

func (c *Camera) TypeName() string { return "Camera" }

func (c *Camera) Serialize() map[string]any {
	return map[string]any{
		"fov":          c.FOV,
		"near":         c.Near,
		"far":          c.Far,
		"orthographic": c.Projection == rl.CameraOrthographic,
	}
}

func (c *Camera) Deserialize(data map[string]any) error {
	if err := readFloat(data, "fov", &c.FOV); err != nil {
		return err
	}
	if err := readFloat(data, "near", &c.Near); err != nil {
		return err
	}
	if err := readFloat(data, "far", &c.Far); err != nil {
		return err
	}
	var ortho bool
	if err := readBool(data, "orthographic", &ortho); err != nil {
		return err
	}
	if ortho {
		c.Projection = rl.CameraOrthographic
	} else {
		c.Projection = rl.CameraPerspective
	}
	return nil
}
