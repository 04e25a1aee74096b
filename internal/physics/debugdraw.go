package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// DebugDrawer receives world geometry from DebugDraw.
type DebugDrawer interface {
	DrawLine(from, to rl.Vector3, color rl.Color)
	DrawContactPoint(point, normal rl.Vector3, distance float32, color rl.Color)
}

var (
	debugActive    = rl.Green
	debugSleeping  = rl.Gray
	debugStatic    = rl.White
	debugGhost     = rl.Yellow
	debugContact   = rl.Red
	debugPlaneSize = float32(10)
)

// DebugDraw emits object bounds and contact points.
func (w *World) DebugDraw(d DebugDrawer) {
	for _, o := range w.objects {
		color := debugActive
		switch {
		case o.ghost != nil:
			color = debugGhost
		case o.IsStaticOrKinematicObject():
			color = debugStatic
		case !o.IsActive():
			color = debugSleeping
		}
		for _, p := range collectProxies(o.shape, o.transform, nil) {
			drawProxy(d, p, color)
		}
	}
	for _, m := range w.manifolds {
		for _, p := range m.Points {
			d.DrawContactPoint(p.PositionWorldOnB, p.NormalWorldOnB, p.Distance, debugContact)
		}
	}
}

func drawProxy(d DebugDrawer, p proxy, color rl.Color) {
	switch p.kind {
	case proxyPlane:
		center := rl.Vector3Scale(p.normal, p.constant)
		u := rl.Vector3Scale(anyPerpendicular(p.normal), debugPlaneSize)
		v := rl.Vector3Scale(cross(p.normal, anyPerpendicular(p.normal)), debugPlaneSize)
		d.DrawLine(rl.Vector3Subtract(center, u), rl.Vector3Add(center, u), color)
		d.DrawLine(rl.Vector3Subtract(center, v), rl.Vector3Add(center, v), color)
		d.DrawLine(center, rl.Vector3Add(center, p.normal), color)
	case proxySphere:
		drawBox(d, NewOBB(p.center, rl.Vector3{X: p.radius, Y: p.radius, Z: p.radius}, p.rotation), color)
	case proxyCapsule:
		drawBox(d, NewOBB(p.center, rl.Vector3{X: p.radius, Y: p.radius, Z: p.half + p.radius}, p.rotation), color)
	default:
		drawBox(d, p.obb(), color)
	}
}

// boxEdges indexes OBB.Vertices; neighbours differ in exactly one bit.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawBox(d DebugDrawer, box OBB, color rl.Color) {
	v := box.Vertices()
	for _, e := range boxEdges {
		d.DrawLine(v[e[0]], v[e[1]], color)
	}
}
