package segmentation

import (
	"fmt"

	"github.com/kestrelcam/handtrace/handmodel"
)

// SegmentResult is the connected foreground region grown from a seed:
// its centroid (both pixel and world space), its bounding box, pixel
// count, physical area, and the farthest any included pixel strayed from
// the seed (used as a rough edge-distance signal for debug views).
type SegmentResult struct {
	Seed          handmodel.Point2
	Centroid      handmodel.Point2
	WorldCentroid handmodel.Vector3
	BoundsMin     handmodel.Point2
	BoundsMax     handmodel.Point2
	PixelCount    int
	Area          float64
	MaxEdgeDist   float64
}

// ErrVisitBudgetExceeded is returned when a flood fill visits more pixels
// than settings.MaxFloodFillVisitBudget allows without terminating; the
// caller must treat the seed as failed rather than use the partial result.
var ErrVisitBudgetExceeded = fmt.Errorf("segmentation: flood fill exceeded visit budget")

type queueEntry struct {
	p handmodel.Point2
}

// SegmentForeground grows a connected region from seed by breadth-first
// search: a pixel joins the region iff it is in bounds, its depth lies
// within bandWidth of the seed's depth, and its world distance from the
// seed's world point is at most maxSegmentRadius. Visited pixels are
// marked in layer (the output mask) and searched (the shared
// already-claimed mask passed in by the caller, not cleared between
// create/update phases per the tie-breaking rule).
func SegmentForeground(ctx *Context, seed handmodel.Point2, layer, searched *handmodel.ByteMatrix) (SegmentResult, error) {
	var result SegmentResult
	result.Seed = seed

	if !ctx.Depth.InBounds(seed.X, seed.Y) {
		return result, fmt.Errorf("segmentation: seed %v out of bounds", seed)
	}
	if searched.At(seed.X, seed.Y) != 0 {
		return result, fmt.Errorf("segmentation: seed %v already searched", seed)
	}

	seedDepth := float64(ctx.Depth.At(seed.X, seed.Y))
	if seedDepth <= 0 {
		return result, fmt.Errorf("segmentation: seed %v has invalid depth", seed)
	}
	seedWorld := ctx.WorldPoints.At(seed.X, seed.Y)
	bandWidth := ctx.Settings.SegmentBandWidth
	maxRadius := ctx.Settings.MaxSegmentRadius

	budget := ctx.Settings.MaxFloodFillVisitBudget
	if budget <= 0 {
		budget = 20000
	}

	queue := make([]queueEntry, 0, 64)
	queue = append(queue, queueEntry{seed})
	searched.Set(seed.X, seed.Y, 1)

	var (
		sumX, sumY   float64
		sumWorld     handmodel.Vector3
		sumArea      float64
		count        int
		minX, minY   = seed.X, seed.Y
		maxX, maxY   = seed.X, seed.Y
		maxEdgeDist  float64
		visitedTotal int
	)

	neighbors := [4]handmodel.Point2{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

	for len(queue) > 0 {
		visitedTotal++
		if visitedTotal > budget {
			return result, ErrVisitBudgetExceeded
		}

		cur := queue[0]
		queue = queue[1:]
		p := cur.p

		world := ctx.WorldPoints.At(p.X, p.Y)

		layer.Set(p.X, p.Y, 1)
		count++
		sumX += float64(p.X)
		sumY += float64(p.Y)
		area := float64(ctx.Area.At(p.X, p.Y))
		sumArea += area
		sumWorld = sumWorld.Add(world.Scale(area))

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
		if dist := seedWorld.Distance(world); dist > maxEdgeDist {
			maxEdgeDist = dist
		}

		for _, off := range neighbors {
			np := handmodel.Point2{X: p.X + off.X, Y: p.Y + off.Y}
			if !ctx.Depth.InBounds(np.X, np.Y) {
				continue
			}
			if searched.At(np.X, np.Y) != 0 {
				continue
			}
			nd := float64(ctx.Depth.At(np.X, np.Y))
			if !inBand(nd, seedDepth, bandWidth) {
				continue
			}
			nworld := ctx.WorldPoints.At(np.X, np.Y)
			if seedWorld.Distance(nworld) > maxRadius {
				continue
			}
			searched.Set(np.X, np.Y, 1)
			queue = append(queue, queueEntry{np})
		}
	}

	if count == 0 {
		return result, fmt.Errorf("segmentation: seed %v produced empty region", seed)
	}

	result.PixelCount = count
	result.Area = sumArea
	result.BoundsMin = handmodel.Point2{X: minX, Y: minY}
	result.BoundsMax = handmodel.Point2{X: maxX, Y: maxY}
	result.MaxEdgeDist = maxEdgeDist
	result.Centroid = handmodel.Point2{
		X: int(sumX/float64(count) + 0.5),
		Y: int(sumY/float64(count) + 0.5),
	}
	if sumArea > 0 {
		result.WorldCentroid = sumWorld.Scale(1 / sumArea)
	} else {
		result.WorldCentroid = seedWorld
	}
	return result, nil
}
