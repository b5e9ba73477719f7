package domain

import (
	"math"
	"testing"
)

func TestBoundingBox(t *testing.T) {
	path := PathSample{
		{X: 10, Y: 50},
		{X: -5, Y: 20},
		{X: 30, Y: 80},
	}

	minX, minY, maxX, maxY, ok := path.BoundingBox()
	if !ok {
		t.Fatal("bounding box missing for non-empty path")
	}
	if minX != -5 || minY != 20 || maxX != 30 || maxY != 80 {
		t.Fatalf("bounds = (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}

	if _, _, _, _, ok := PathSample(nil).BoundingBox(); ok {
		t.Fatal("bounding box reported for empty path")
	}
}

func TestNormalize(t *testing.T) {
	path := PathSample{
		{X: 100, Y: 200, Timestamp: 1},
		{X: 300, Y: 600, Timestamp: 2},
		{X: 200, Y: 400, Timestamp: 3},
	}

	out := path.Normalize()
	if len(out) != len(path) {
		t.Fatalf("len = %d, want %d", len(out), len(path))
	}
	for _, p := range out {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Fatalf("point %+v outside unit box", p)
		}
	}
	if out[0].X != 0 || out[1].X != 1 {
		t.Errorf("x extremes not mapped to 0 and 1: %+v", out)
	}
	if math.Abs(out[2].Y-0.5) > 1e-9 {
		t.Errorf("midpoint y = %f, want 0.5", out[2].Y)
	}
	if out[0].Timestamp != 1 {
		t.Error("timestamps not preserved")
	}
}

func TestNormalizeDegenerateAxis(t *testing.T) {
	// A horizontal line has zero height; normalization must stay defined.
	line := PathSample{{X: 0, Y: 5}, {X: 10, Y: 5}}

	out := line.Normalize()
	for _, p := range out {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("NaN in normalized output: %+v", out)
		}
	}
	if out[0].Y != 0 || out[1].Y != 0 {
		t.Errorf("degenerate axis not pinned to 0: %+v", out)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if out := PathSample(nil).Normalize(); out != nil {
		t.Fatalf("normalized empty path = %v", out)
	}
}
