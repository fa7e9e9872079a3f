package sim

import (
	"math"
	"testing"
)

func testEye(t *testing.T) Eye {
	t.Helper()
	eye, err := NewEye(0.25, math.Pi+math.Pi/4, 9)
	if err != nil {
		t.Fatalf("new eye: %v", err)
	}
	return eye
}

func TestNewEyeValidation(t *testing.T) {
	cases := []struct {
		name     string
		fovRange float32
		fovAngle float32
		cells    int
	}{
		{"zero range", 0, math.Pi, 9},
		{"zero angle", 0.25, 0, 9},
		{"zero cells", 0.25, math.Pi, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEye(tc.fovRange, tc.fovAngle, tc.cells); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestVisionFoodStraightAheadLightsCenterCell(t *testing.T) {
	eye := testEye(t)

	// Viewer at the center facing +x, food directly ahead within range.
	vision := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.6, Y: 0.5}})
	if len(vision) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(vision))
	}

	center := 4
	if vision[center] <= 0 {
		t.Fatalf("expected energy in center cell, got %v", vision)
	}
	for i, energy := range vision {
		if i != center && energy != 0 {
			t.Fatalf("expected only center cell lit, got energy %v in cell %d", energy, i)
		}
	}
}

func TestVisionFoodOutOfRangeIsDark(t *testing.T) {
	eye := testEye(t)

	vision := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.9, Y: 0.5}})
	for i, energy := range vision {
		if energy != 0 {
			t.Fatalf("expected dark retina, got energy %v in cell %d", energy, i)
		}
	}
}

func TestVisionFoodBehindIsDark(t *testing.T) {
	eye := testEye(t)

	// Food directly behind the viewer, outside the FOV cone.
	vision := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.45, Y: 0.5}})
	for i, energy := range vision {
		if energy != 0 {
			t.Fatalf("expected dark retina, got energy %v in cell %d", energy, i)
		}
	}
}

func TestVisionCloserFoodIsBrighter(t *testing.T) {
	eye := testEye(t)

	near := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.55, Y: 0.5}})
	far := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.7, Y: 0.5}})

	if near[4] <= far[4] {
		t.Fatalf("expected closer food to be brighter: near=%v far=%v", near[4], far[4])
	}
}

func TestVisionSeesAcrossWrapEdge(t *testing.T) {
	eye := testEye(t)

	// Viewer near the right edge facing +x; food just past the wrap.
	vision := eye.Vision(0.95, 0.5, 0, []Food{{X: 0.05, Y: 0.5}})
	if vision[4] <= 0 {
		t.Fatalf("expected wrap-adjacent food to be visible, got %v", vision)
	}
}

func TestVisionSideFoodLandsOffCenter(t *testing.T) {
	eye := testEye(t)

	// Food up and to the left relative to facing +x: positive angle, upper
	// half of the retina.
	vision := eye.Vision(0.5, 0.5, 0, []Food{{X: 0.52, Y: 0.6}})
	lit := -1
	for i, energy := range vision {
		if energy > 0 {
			if lit >= 0 {
				t.Fatalf("expected a single lit cell, got %v", vision)
			}
			lit = i
		}
	}
	if lit <= 4 {
		t.Fatalf("expected lit cell above center, got cell %d (%v)", lit, vision)
	}
}

func TestWrapDelta(t *testing.T) {
	cases := []struct {
		in   float32
		want float32
	}{
		{0.2, 0.2},
		{-0.2, -0.2},
		{0.8, -0.2},
		{-0.7, 0.3},
	}
	for _, tc := range cases {
		got := wrapDelta(tc.in)
		if math.Abs(float64(got-tc.want)) > 1e-6 {
			t.Fatalf("wrapDelta(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestWrapCoordinate(t *testing.T) {
	cases := []struct {
		in   float32
		want float32
	}{
		{0.3, 0.3},
		{1.2, 0.2},
		{-0.1, 0.9},
	}
	for _, tc := range cases {
		got := wrapCoordinate(tc.in)
		if math.Abs(float64(got-tc.want)) > 1e-6 {
			t.Fatalf("wrapCoordinate(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
