package physics

import (
	"sort"

	"github.com/chewxy/math32"
)

// DefaultCellSize is the edge length of a spatial hash cell.
const DefaultCellSize = 5.0

// maxCellsPerObject sends bigger objects to the large list, which is tested
// against everything instead of being hashed.
const maxCellsPerObject = 64

type cellKey struct {
	X, Y, Z int
}

type pairKey struct {
	a, b int
}

func makePairKey(a, b *CollisionObject) pairKey {
	if a.id > b.id {
		a, b = b, a
	}
	return pairKey{a: a.id, b: b.id}
}

// spatialGrid is a uniform hash grid over object AABBs.
type spatialGrid struct {
	cellSize float32
	cells    map[cellKey][]*CollisionObject
	large    []*CollisionObject
	all      []*CollisionObject
}

func newSpatialGrid(cellSize float32) *spatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*CollisionObject),
	}
}

func (g *spatialGrid) posToCell(x, y, z float32) cellKey {
	return cellKey{
		X: int(math32.Floor(x / g.cellSize)),
		Y: int(math32.Floor(y / g.cellSize)),
		Z: int(math32.Floor(z / g.cellSize)),
	}
}

// rebuild clears and repopulates the grid.
func (g *spatialGrid) rebuild(objects []*CollisionObject) {
	for k := range g.cells {
		delete(g.cells, k)
	}
	g.large = g.large[:0]
	g.all = g.all[:0]

	for _, obj := range objects {
		if obj.activation == ActivationDisableSimulation || obj.aabb.IsEmpty() {
			continue
		}
		g.all = append(g.all, obj)
		lo := g.posToCell(obj.aabb.Min.X, obj.aabb.Min.Y, obj.aabb.Min.Z)
		hi := g.posToCell(obj.aabb.Max.X, obj.aabb.Max.Y, obj.aabb.Max.Z)
		count := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
		if count > maxCellsPerObject || count <= 0 {
			g.large = append(g.large, obj)
			continue
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					key := cellKey{x, y, z}
					g.cells[key] = append(g.cells[key], obj)
				}
			}
		}
	}
}

// pairs calls fn once for every filtered pair with overlapping AABBs, in
// ascending id order.
func (g *spatialGrid) pairs(fn func(a, b *CollisionObject)) {
	checked := make(map[pairKey]bool)
	var found [][2]*CollisionObject
	visit := func(a, b *CollisionObject) {
		if a == b {
			return
		}
		key := makePairKey(a, b)
		if checked[key] {
			return
		}
		checked[key] = true
		if !canCollide(a, b) || !a.aabb.Intersects(b.aabb) {
			return
		}
		if a.id > b.id {
			a, b = b, a
		}
		found = append(found, [2]*CollisionObject{a, b})
	}

	for _, bucket := range g.cells {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				visit(bucket[i], bucket[j])
			}
		}
	}
	for _, big := range g.large {
		for _, other := range g.all {
			visit(big, other)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i][0].id != found[j][0].id {
			return found[i][0].id < found[j][0].id
		}
		return found[i][1].id < found[j][1].id
	})
	for _, p := range found {
		fn(p[0], p[1])
	}
}

// query returns every object whose AABB intersects box.
func (g *spatialGrid) query(box AABB) []*CollisionObject {
	var out []*CollisionObject
	for _, obj := range g.all {
		if obj.aabb.Intersects(box) {
			out = append(out, obj)
		}
	}
	return out
}
