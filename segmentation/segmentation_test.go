package segmentation

import (
	"math"
	"testing"

	"github.com/kestrelcam/handtrace/handmodel"
)

func testProjection() handmodel.ProjectionCache {
	return handmodel.ProjectionCache{
		ResolutionX: 80,
		ResolutionY: 60,
		XZFactor:    1.12,
		YZFactor:    0.84,
	}
}

// diskContext builds a Context over a working-resolution depth matrix
// containing a constant-depth disk on a far background, mirroring the
// synthetic scenes end-to-end tests use.
func diskContext(t *testing.T, settings handmodel.HandSettings, cx, cy, radius int, diskDepth, backgroundDepth float32) *Context {
	t.Helper()
	proj := testProjection()
	depth := handmodel.NewMatrix(settings.ProcessingSizeWidth, settings.ProcessingSizeHeight)
	for y := 0; y < depth.Height; y++ {
		for x := 0; x < depth.Width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				depth.Set(x, y, diskDepth)
			} else {
				depth.Set(x, y, backgroundDepth)
			}
		}
	}
	area := handmodel.NewMatrix(0, 0)
	areaSqrt := handmodel.NewMatrix(0, 0)
	integral := handmodel.NewMatrix(0, 0)
	worldPoints := handmodel.NewVec3Matrix(0, 0)
	ComputeAreaMatrices(depth, proj, area, areaSqrt, integral, worldPoints)
	return NewContext(settings, proj, depth, area, areaSqrt, integral, worldPoints)
}

func TestQueryIntegralAreaMatchesDirectSum(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	ctx := diskContext(t, settings, 20, 15, 8, 700, 3000)

	rects := [][4]int{
		{0, 0, 5, 5},
		{10, 10, 30, 20},
		{0, 0, ctx.Depth.Width - 1, ctx.Depth.Height - 1},
		{15, 8, 25, 22},
	}

	for _, r := range rects {
		x0, y0, x1, y1 := r[0], r[1], r[2], r[3]
		got := QueryIntegralArea(ctx.IntegralArea, x0, y0, x1, y1)

		var want float64
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				want += float64(ctx.Area.At(x, y))
			}
		}

		if math.Abs(float64(got)-want) > 1e-3*math.Max(1, math.Abs(want)) {
			t.Errorf("rect %v: integral=%v direct=%v", r, got, want)
		}
	}
}

func TestTestPointInRange(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	ctx := diskContext(t, settings, 20, 15, 8, 700, 2000)

	if !TestPointInRange(ctx, handmodel.Point2{X: 20, Y: 15}) {
		t.Fatal("expected in-range depth to pass")
	}
	if !TestPointInRange(ctx, handmodel.Point2{X: 0, Y: 0}) {
		t.Fatal("background depth 2000 should be within [minDepth, maxDepth)")
	}
	if TestPointInRange(ctx, handmodel.Point2{X: -1, Y: -1}) {
		t.Fatal("out-of-bounds point should fail")
	}
}

func TestTestPointAreaIntegralPassesOnDisk(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	settings.AreaMin = 100
	settings.AreaMax = 1e9
	ctx := diskContext(t, settings, 20, 15, 8, 700, 3000)

	if !TestPointAreaIntegral(ctx, handmodel.Point2{X: 20, Y: 15}) {
		t.Fatal("expected disk center to pass area test with permissive bounds")
	}

	settings.AreaMax = 1
	ctx = diskContext(t, settings, 20, 15, 8, 700, 3000)
	if TestPointAreaIntegral(ctx, handmodel.Point2{X: 20, Y: 15}) {
		t.Fatal("expected disk center to fail area test with a near-zero max area")
	}
}

func TestTestForegroundRadiusPercentageOnUniformDisk(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	// Make radii small enough in pixel terms to stay inside a disk of
	// radius 25 at the chosen depth/projection.
	settings.ForegroundRadius1 = 5
	settings.ForegroundRadius2 = 15
	settings.Radius1MinPercent = 0.5
	settings.Radius2MinPercent = 0.1
	ctx := diskContext(t, settings, 40, 30, 25, 700, 3000)

	if !TestForegroundRadiusPercentage(ctx, handmodel.Point2{X: 40, Y: 30}) {
		t.Fatal("expected center of a large uniform disk to pass radius percentage test")
	}
}

func TestTestNaturalEdgesFindsBoundedObject(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	settings.NaturalEdgeMinPassRays = 4
	ctx := diskContext(t, settings, 40, 30, 6, 700, 3000)

	if !TestNaturalEdges(ctx, handmodel.Point2{X: 40, Y: 30}) {
		t.Fatal("expected a small disk to have nearby edges in most compass directions")
	}
}

func TestSegmentForegroundGrowsDiskAndRespectsSearched(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	ctx := diskContext(t, settings, 40, 30, 10, 700, 3000)

	layer := handmodel.NewByteMatrix(ctx.Depth.Width, ctx.Depth.Height)
	searched := handmodel.NewByteMatrix(ctx.Depth.Width, ctx.Depth.Height)

	result, err := SegmentForeground(ctx, handmodel.Point2{X: 40, Y: 30}, layer, searched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PixelCount == 0 {
		t.Fatal("expected a non-empty region")
	}
	// Disk area is pi*r^2 ~= 314 pixels; flood fill should recover most of it.
	if result.PixelCount < 200 {
		t.Errorf("expected flood fill to cover most of the disk, got %d pixels", result.PixelCount)
	}
	if got := result.Centroid; math.Abs(float64(got.X-40)) > 2 || math.Abs(float64(got.Y-30)) > 2 {
		t.Errorf("centroid %v too far from disk center (40,30)", got)
	}

	// Re-running the same seed should fail: it is already searched.
	if _, err := SegmentForeground(ctx, handmodel.Point2{X: 40, Y: 30}, layer, searched); err == nil {
		t.Fatal("expected re-segmenting an already-searched seed to fail")
	}
}

func TestSegmentForegroundBudgetExceeded(t *testing.T) {
	settings := handmodel.DefaultHandSettings()
	settings.MaxFloodFillVisitBudget = 5
	ctx := diskContext(t, settings, 40, 30, 30, 700, 700) // whole frame in-band

	layer := handmodel.NewByteMatrix(ctx.Depth.Width, ctx.Depth.Height)
	searched := handmodel.NewByteMatrix(ctx.Depth.Width, ctx.Depth.Height)

	_, err := SegmentForeground(ctx, handmodel.Point2{X: 40, Y: 30}, layer, searched)
	if err != ErrVisitBudgetExceeded {
		t.Fatalf("expected ErrVisitBudgetExceeded, got %v", err)
	}
}

func TestFindNextVelocitySeedPixelOrderingAndSearched(t *testing.T) {
	signal := handmodel.NewByteMatrix(4, 3)
	signal.Set(3, 0, 1)
	signal.Set(1, 1, 1)
	signal.Set(0, 2, 1)
	searched := handmodel.NewByteMatrix(4, 3)

	p, next, ok := FindNextVelocitySeedPixel(signal, searched, 0)
	if !ok || p != (handmodel.Point2{X: 3, Y: 0}) {
		t.Fatalf("expected first seed at (3,0), got %v ok=%v", p, ok)
	}
	searched.Set(p.X, p.Y, 1)

	p, next, ok = FindNextVelocitySeedPixel(signal, searched, next)
	if !ok || p != (handmodel.Point2{X: 1, Y: 1}) {
		t.Fatalf("expected second seed at (1,1), got %v ok=%v", p, ok)
	}
	searched.Set(p.X, p.Y, 1)

	p, next, ok = FindNextVelocitySeedPixel(signal, searched, next)
	if !ok || p != (handmodel.Point2{X: 0, Y: 2}) {
		t.Fatalf("expected third seed at (0,2), got %v ok=%v", p, ok)
	}
	searched.Set(p.X, p.Y, 1)

	if _, _, ok = FindNextVelocitySeedPixel(signal, searched, next); ok {
		t.Fatal("expected no more seeds once all are searched")
	}
}
