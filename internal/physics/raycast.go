package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Object   *CollisionObject
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast returns the closest hit along the ray within maxDistance. Ghost
// objects and objects outside mask are skipped.
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32, mask int32) (RaycastHit, bool) {
	direction = normalizeOr(direction, rl.Vector3Zero())
	if isZero(direction) {
		return RaycastHit{}, false
	}
	closest := RaycastHit{Distance: maxDistance}
	hit := false

	for _, obj := range w.objects {
		if obj.ghost != nil || obj.group&mask == 0 {
			continue
		}
		for _, p := range collectProxies(obj.shape, obj.transform, nil) {
			h, ok := raycastProxy(origin, direction, p, closest.Distance)
			if ok && h.Distance <= closest.Distance {
				closest = h
				closest.Object = obj
				hit = true
			}
		}
	}
	return closest, hit
}

func raycastProxy(origin, direction rl.Vector3, p proxy, maxDistance float32) (RaycastHit, bool) {
	switch p.kind {
	case proxySphere:
		return raycastSphere(origin, direction, p.center, p.radius, maxDistance)
	case proxyBox:
		return raycastBox(origin, direction, p.obb(), maxDistance)
	case proxyPlane:
		return raycastPlane(origin, direction, p.normal, p.constant, maxDistance)
	case proxyCapsule:
		a, b := p.segment()
		best := RaycastHit{Distance: maxDistance}
		found := false
		for _, c := range [2]rl.Vector3{a, b} {
			if h, ok := raycastSphere(origin, direction, c, p.radius, best.Distance); ok {
				best, found = h, true
			}
		}
		body := NewOBB(p.center, rl.Vector3{X: p.radius, Y: p.radius, Z: p.half}, p.rotation)
		if h, ok := raycastBox(origin, direction, body, best.Distance); ok {
			best, found = h, true
		}
		return best, found
	}
	return RaycastHit{}, false
}

// raycastBox runs the slab test in the box's own frame.
func raycastBox(origin, direction rl.Vector3, box OBB, maxDistance float32) (RaycastHit, bool) {
	o := box.Local(origin)
	d := rl.Vector3{X: dot(direction, box.Axes[0]), Y: dot(direction, box.Axes[1]), Z: dot(direction, box.Axes[2])}
	ori := [3]float32{o.X, o.Y, o.Z}
	dir := [3]float32{d.X, d.Y, d.Z}
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}

	tmin, tmax := float32(-1e30), float32(1e30)
	enterAxis, enterSign := -1, float32(0)
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if ori[i] < -half[i] || ori[i] > half[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-half[i] - ori[i]) / dir[i]
		t2 := (half[i] - ori[i]) / dir[i]
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis, enterSign = i, sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}
	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	t := tmin
	if t < 0 {
		// Origin inside the box.
		t = 0
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Negate(direction)
	if enterAxis >= 0 {
		normal = rl.Vector3Scale(box.Axes[enterAxis], enterSign)
	}
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	b := dot(oc, direction)
	c := dot(oc, oc) - radius*radius

	discriminant := b*b - c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	root := math32.Sqrt(discriminant)
	t := -b - root
	if t < 0 {
		t = -b + root
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := normalizeOr(rl.Vector3Subtract(point, center), rl.Vector3Negate(direction))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastPlane(origin, direction, normal rl.Vector3, constant, maxDistance float32) (RaycastHit, bool) {
	denom := dot(normal, direction)
	if math32.Abs(denom) < epsilon {
		return RaycastHit{}, false
	}
	t := (constant - dot(normal, origin)) / denom
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}
	n := normal
	if denom > 0 {
		n = rl.Vector3Negate(normal)
	}
	return RaycastHit{Point: rl.Vector3Add(origin, rl.Vector3Scale(direction, t)), Normal: n, Distance: t}, true
}
