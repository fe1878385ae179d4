package segmentation

import (
	"math"

	"github.com/kestrelcam/handtrace/handmodel"
)

// windowSideMM sizes the square window test_point_area_integral samples
// around a candidate point. No dedicated setting names this in the source
// excerpt; twice the outer foreground radius approximates a full hand span
// and reuses an already-configured physical size instead of inventing a
// new tunable.
func windowSideMM(settings handmodel.HandSettings) float64 {
	return 2 * settings.ForegroundRadius2
}

// inBand reports whether depth lies within bandWidth of the seed depth and
// is itself a plausible reading (not the zero/sentinel "no data" value).
func inBand(depth, seedDepth, bandWidth float64) bool {
	if depth <= 0 {
		return false
	}
	return math.Abs(depth-seedDepth) <= bandWidth
}

// TestPointInRange reports whether the depth at p lies within
// [minDepth, maxDepth). Matches HandRecord invariant "worldPosition.z > 0
// for every Active or Candidate point": a point failing this test never
// carries a physically valid depth.
func TestPointInRange(ctx *Context, p handmodel.Point2) bool {
	if !ctx.Depth.InBounds(p.X, p.Y) {
		return false
	}
	d := float64(ctx.Depth.At(p.X, p.Y))
	return d >= ctx.Settings.MinDepth && d < ctx.Settings.MaxDepth
}

// TestPointAreaIntegral estimates the physical area (mm^2) of in-band
// foreground pixels inside a square window centered at p and passes iff
// that area lies in [areaMin, areaMax]. matIntegralArea provides a cheap
// upper bound (the window's total physical area, ignoring band
// membership) to reject sparse or empty windows before the exact banded
// scan runs.
func TestPointAreaIntegral(ctx *Context, p handmodel.Point2) bool {
	if !ctx.Depth.InBounds(p.X, p.Y) {
		return false
	}
	seedDepth := float64(ctx.Depth.At(p.X, p.Y))
	if seedDepth <= 0 {
		return false
	}

	sidePixels := ctx.Mapper.MillimetersToPixels(windowSideMM(ctx.Settings), seedDepth)
	half := int(sidePixels/2 + 0.5)
	if half < 1 {
		half = 1
	}
	x0, y0 := p.X-half, p.Y-half
	x1, y1 := p.X+half, p.Y+half

	totalArea := QueryIntegralArea(ctx.IntegralArea, x0, y0, x1, y1)
	if float64(totalArea) < ctx.Settings.AreaMin {
		return false
	}

	bandWidth := ctx.Settings.SegmentBandWidth
	var foregroundArea float64
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !ctx.Depth.InBounds(x, y) {
				continue
			}
			d := float64(ctx.Depth.At(x, y))
			if inBand(d, seedDepth, bandWidth) {
				foregroundArea += float64(ctx.Area.At(x, y))
			}
		}
	}

	return foregroundArea >= ctx.Settings.AreaMin && foregroundArea <= ctx.Settings.AreaMax
}

// circleSampleCount is the number of points sampled around each
// concentric circle in TestForegroundRadiusPercentage.
const circleSampleCount = 16

func sampleCirclePercentage(ctx *Context, center handmodel.Point2, radiusMM, seedDepth float64) float64 {
	radiusPixels := ctx.Mapper.MillimetersToPixels(radiusMM, seedDepth)
	if radiusPixels <= 0 {
		return 0
	}
	bandWidth := ctx.Settings.SegmentBandWidth
	hits := 0
	for i := 0; i < circleSampleCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(circleSampleCount)
		x := center.X + int(math.Round(radiusPixels*math.Cos(angle)))
		y := center.Y + int(math.Round(radiusPixels*math.Sin(angle)))
		if !ctx.Depth.InBounds(x, y) {
			continue
		}
		d := float64(ctx.Depth.At(x, y))
		if inBand(d, seedDepth, bandWidth) {
			hits++
		}
	}
	return float64(hits) / float64(circleSampleCount)
}

// TestForegroundRadiusPercentage samples two concentric circles around p
// (foregroundRadius1 inside foregroundRadius2) and passes iff the fraction
// of in-band samples on each circle clears that circle's configured
// minimum percentage.
func TestForegroundRadiusPercentage(ctx *Context, p handmodel.Point2) bool {
	if !ctx.Depth.InBounds(p.X, p.Y) {
		return false
	}
	seedDepth := float64(ctx.Depth.At(p.X, p.Y))
	if seedDepth <= 0 {
		return false
	}

	pct1 := sampleCirclePercentage(ctx, p, ctx.Settings.ForegroundRadius1, seedDepth)
	if pct1 < ctx.Settings.Radius1MinPercent {
		return false
	}
	pct2 := sampleCirclePercentage(ctx, p, ctx.Settings.ForegroundRadius2, seedDepth)
	return pct2 >= ctx.Settings.Radius2MinPercent
}

// compassDirections are the eight ray directions test_natural_edges walks.
var compassDirections = [8]handmodel.Point2{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// TestNaturalEdges walks a ray in each compass direction from p, counting
// how many leave the in-band foreground within maxEdgeDistance millimeters.
// A hand is a bounded object: at least naturalEdgeMinPassRays rays should
// find an edge nearby, unlike a wall or floor that fills the whole frame.
func TestNaturalEdges(ctx *Context, p handmodel.Point2) bool {
	if !ctx.Depth.InBounds(p.X, p.Y) {
		return false
	}
	seedDepth := float64(ctx.Depth.At(p.X, p.Y))
	if seedDepth <= 0 {
		return false
	}
	bandWidth := ctx.Settings.SegmentBandWidth
	maxEdgePixels := ctx.Mapper.MillimetersToPixels(ctx.Settings.MaxEdgeDistance, seedDepth)
	if maxEdgePixels <= 0 {
		return false
	}
	steps := int(maxEdgePixels + 0.5)
	if steps < 1 {
		steps = 1
	}

	passed := 0
	for _, dir := range compassDirections {
		for step := 1; step <= steps; step++ {
			x := p.X + dir.X*step
			y := p.Y + dir.Y*step
			if !ctx.Depth.InBounds(x, y) {
				passed++
				break
			}
			d := float64(ctx.Depth.At(x, y))
			if !inBand(d, seedDepth, bandWidth) {
				passed++
				break
			}
		}
	}

	return passed >= ctx.Settings.NaturalEdgeMinPassRays
}
