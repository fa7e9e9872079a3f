// Package sim implements a 2-D toroidal foraging world: creatures steer by a
// retina-style eye wired to an evolved feed-forward brain, eat food, and are
// bred by the genetic engine at the end of every generation. It is the
// fitness provider for evolution runs; all randomness flows through
// caller-provided sources.
package sim

import (
	"fmt"
	"math"
)

// Food is a point in the unit square.
type Food struct {
	X float32
	Y float32
}

// Eye divides a creature's field of view into cells. Each food within range
// and view adds energy to the cell covering its relative angle; closer food
// contributes more.
type Eye struct {
	// FOVRange is the sight distance in world units.
	FOVRange float32
	// FOVAngle is the width of the field of view in radians.
	FOVAngle float32
	// Cells is the retina resolution.
	Cells int
}

func NewEye(fovRange, fovAngle float32, cells int) (Eye, error) {
	if fovRange <= 0 {
		return Eye{}, fmt.Errorf("fov range must be > 0, got %v", fovRange)
	}
	if fovAngle <= 0 {
		return Eye{}, fmt.Errorf("fov angle must be > 0, got %v", fovAngle)
	}
	if cells <= 0 {
		return Eye{}, fmt.Errorf("eye cells must be > 0, got %d", cells)
	}
	return Eye{FOVRange: fovRange, FOVAngle: fovAngle, Cells: cells}, nil
}

// Vision returns one energy value per retina cell for a viewer at (x, y)
// facing rotation. Distances and angles are torus-aware, so food close across
// the wrap edge is seen as close.
func (e Eye) Vision(x, y, rotation float32, foods []Food) []float32 {
	cells := make([]float32, e.Cells)
	for _, food := range foods {
		dx := wrapDelta(food.X - x)
		dy := wrapDelta(food.Y - y)
		dist := float32(math.Hypot(float64(dx), float64(dy)))
		if dist >= e.FOVRange {
			continue
		}

		angle := normalizeAngle(float32(math.Atan2(float64(dy), float64(dx))) - rotation)
		if angle < -e.FOVAngle/2 || angle > e.FOVAngle/2 {
			continue
		}

		cell := int((angle + e.FOVAngle/2) / e.FOVAngle * float32(e.Cells))
		if cell >= e.Cells {
			cell = e.Cells - 1
		}
		cells[cell] += (e.FOVRange - dist) / e.FOVRange
	}
	return cells
}

// wrapDelta maps a coordinate difference to the shortest torus displacement
// in [-0.5, 0.5).
func wrapDelta(d float32) float32 {
	for d >= 0.5 {
		d -= 1
	}
	for d < -0.5 {
		d += 1
	}
	return d
}

// normalizeAngle maps an angle to (-pi, pi].
func normalizeAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// wrapCoordinate maps a coordinate to [0, 1).
func wrapCoordinate(c float32) float32 {
	for c >= 1 {
		c -= 1
	}
	for c < 0 {
		c += 1
	}
	return c
}
