package segmentation

import "github.com/kestrelcam/handtrace/handmodel"

// WindowCentroid recomputes a foreground mask inside a fixed square window
// (rather than growing a connected region) and returns its area-weighted
// centroid. This backs full-resolution refinement, where the working-
// resolution position is already known and only a small local correction
// is needed instead of a full flood fill.
func WindowCentroid(ctx *Context, center handmodel.Point2, halfSide int, seedDepth float64) (SegmentResult, bool) {
	var result SegmentResult
	result.Seed = center

	if seedDepth <= 0 || !ctx.Depth.InBounds(center.X, center.Y) {
		return result, false
	}
	bandWidth := ctx.Settings.SegmentBandWidth

	x0, y0 := center.X-halfSide, center.Y-halfSide
	x1, y1 := center.X+halfSide, center.Y+halfSide

	var (
		sumX, sumY float64
		sumWorld   handmodel.Vector3
		sumArea    float64
		count      int
		minX, minY = center.X, center.Y
		maxX, maxY = center.X, center.Y
	)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !ctx.Depth.InBounds(x, y) {
				continue
			}
			d := float64(ctx.Depth.At(x, y))
			if !inBand(d, seedDepth, bandWidth) {
				continue
			}
			world := ctx.WorldPoints.At(x, y)
			area := float64(ctx.Area.At(x, y))
			count++
			sumX += float64(x)
			sumY += float64(y)
			sumArea += area
			sumWorld = sumWorld.Add(world.Scale(area))
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if count == 0 {
		return result, false
	}

	result.PixelCount = count
	result.Area = sumArea
	result.BoundsMin = handmodel.Point2{X: minX, Y: minY}
	result.BoundsMax = handmodel.Point2{X: maxX, Y: maxY}
	result.Centroid = handmodel.Point2{
		X: int(sumX/float64(count) + 0.5),
		Y: int(sumY/float64(count) + 0.5),
	}
	if sumArea > 0 {
		result.WorldCentroid = sumWorld.Scale(1 / sumArea)
	} else {
		result.WorldCentroid = ctx.WorldPoints.At(center.X, center.Y)
	}
	return result, true
}
