package handmodel

import (
	"math"
	"testing"
)

func TestProjectionRoundTrip(t *testing.T) {
	cache := ProjectionCache{ResolutionX: 320, ResolutionY: 240, XZFactor: 1.12, YZFactor: 0.84}

	cases := []struct {
		x, y  int
		depth float64
	}{
		{0, 0, 500},
		{160, 120, 700},
		{319, 239, 2500},
		{50, 200, 1000},
	}

	for _, c := range cases {
		world := cache.Project(c.x, c.y, c.depth)
		gotX, gotY := cache.Unproject(world)
		if math.Abs(gotX-float64(c.x)) > 1e-6 {
			t.Errorf("Project/Unproject(%d,%d,%v): x round-trip = %v, want %v", c.x, c.y, c.depth, gotX, c.x)
		}
		if math.Abs(gotY-float64(c.y)) > 1e-6 {
			t.Errorf("Project/Unproject(%d,%d,%v): y round-trip = %v, want %v", c.x, c.y, c.depth, gotY, c.y)
		}
	}
}

func TestProjectionUnprojectZeroDepthIsSafe(t *testing.T) {
	cache := ProjectionCache{ResolutionX: 320, ResolutionY: 240, XZFactor: 1.12, YZFactor: 0.84}
	x, y := cache.Unproject(Vector3{})
	if x != 0 || y != 0 {
		t.Fatalf("expected zero-depth world point to unproject safely to (0,0), got (%v,%v)", x, y)
	}
}

func TestProjectionScaledDividesResolution(t *testing.T) {
	cache := ProjectionCache{ResolutionX: 320, ResolutionY: 240, XZFactor: 1.12, YZFactor: 0.84}
	scaled := cache.Scaled(4)
	if scaled.ResolutionX != 80 || scaled.ResolutionY != 60 {
		t.Fatalf("expected 320x240 scaled by 4 to be 80x60, got %dx%d", scaled.ResolutionX, scaled.ResolutionY)
	}
	if scaled.XZFactor != cache.XZFactor || scaled.YZFactor != cache.YZFactor {
		t.Fatal("expected mm-per-unit factors to be preserved by Scaled")
	}
}
