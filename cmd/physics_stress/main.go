// Stress test comparing the spatial-hash broadphase of the physics world
// against a naive all-pairs overlap test.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"otter/internal/physics"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type sphere struct {
	center rl.Vector3
	radius float32
}

func main() {
	cellSize := flag.Float64("cell", physics.DefaultCellSize, "broadphase cell size")
	flag.Parse()

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		testBroadPhase(count, float32(*cellSize))
	}
}

func testBroadPhase(count int, cellSize float32) {
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0

	spheres := make([]sphere, count)
	world := physics.NewWorld(physics.WithGravity(rl.Vector3{}), physics.WithCellSize(cellSize))
	defer world.Destroy()

	for i := range spheres {
		s := sphere{
			center: rl.Vector3{
				X: rng.Float32()*spawnSize - spawnSize/2,
				Y: rng.Float32()*spawnSize - spawnSize/2,
				Z: rng.Float32()*spawnSize - spawnSize/2,
			},
			radius: 0.5 + rng.Float32()*0.5, // 0.5 to 1.0 radius
		}
		spheres[i] = s

		ms := physics.NewDefaultMotionState(physics.NewTransform(s.center, rl.QuaternionIdentity()))
		shape := physics.NewSphereShape(s.radius)
		body := physics.NewRigidBody(physics.NewRigidBodyConstructionInfo(1, ms, shape, shape.CalculateLocalInertia(1)))
		world.AddRigidBody(body)
	}

	// Warm up
	world.PerformDiscreteCollisionDetection()

	const iterations = 10
	gridStart := time.Now()
	for i := 0; i < iterations; i++ {
		world.PerformDiscreteCollisionDetection()
	}
	gridTime := time.Since(gridStart) / iterations
	gridPairs := len(world.ContactPairs())

	naiveStart := time.Now()
	var naivePairs int
	for iter := 0; iter < iterations; iter++ {
		naivePairs = 0
		for i := 0; i < len(spheres); i++ {
			for j := i + 1; j < len(spheres); j++ {
				dist := math32.Sqrt(rl.Vector3LengthSqr(rl.Vector3Subtract(spheres[i].center, spheres[j].center)))
				if dist < spheres[i].radius+spheres[j].radius {
					naivePairs++
				}
			}
		}
	}
	naiveTime := time.Since(naiveStart) / iterations

	stepStart := time.Now()
	world.StepSimulation(1.0/60.0, 1, physics.DefaultFixedTimeStep)
	stepTime := time.Since(stepStart)

	speedup := float64(naiveTime) / float64(gridTime)
	fmt.Printf("%5d objects: grid %8v (%4d pairs) | naive %10v (%4d pairs) | %.1fx | step %v\n",
		count, gridTime.Round(time.Microsecond), gridPairs,
		naiveTime.Round(time.Microsecond), naivePairs, speedup,
		stepTime.Round(time.Microsecond))
}
