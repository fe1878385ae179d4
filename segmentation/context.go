package segmentation

import (
	"math"

	"github.com/kestrelcam/handtrace/handmodel"
)

// Context bundles the frame-scoped matrices the geometric tests and flood
// fill read from: the depth this pass operates on (working- or
// full-resolution, depending on the caller), the per-pixel physical area
// derived from it, its summed-area table, the back-projected world points,
// and a coordinate mapper built for that resolution's projection cache.
// The owner (the point processor) allocates these once and reuses them
// across frames via Resize, per the one-allocation-per-dimension-change
// rule.
type Context struct {
	Settings handmodel.HandSettings

	Depth        *handmodel.Matrix
	Area         *handmodel.Matrix
	AreaSqrt     *handmodel.Matrix
	IntegralArea *handmodel.Matrix
	WorldPoints  *handmodel.Vec3Matrix

	Projection handmodel.ProjectionCache
	Mapper     ScalingCoordinateMapper
}

// NewContext wires the matrices and settings into a Context. The caller
// owns the matrices' lifetime; NewContext does not allocate them.
func NewContext(settings handmodel.HandSettings, projection handmodel.ProjectionCache, depth *handmodel.Matrix, area, areaSqrt, integralArea *handmodel.Matrix, worldPoints *handmodel.Vec3Matrix) *Context {
	return &Context{
		Settings:     settings,
		Depth:        depth,
		Area:         area,
		AreaSqrt:     areaSqrt,
		IntegralArea: integralArea,
		WorldPoints:  worldPoints,
		Projection:   projection,
		Mapper:       NewScalingCoordinateMapper(projection, 1),
	}
}

// ComputeAreaMatrices fills area, areaSqrt, integralArea and worldPoints
// from depth and projection, resizing each destination matrix first. This
// is the "matArea, matAreaSqrt, matIntegralArea, worldPoints" half of
// initialize_common_calculations; it lives here because it is Segmentation's
// integral-area machinery, exercised directly by the geometric tests below.
func ComputeAreaMatrices(depth *handmodel.Matrix, projection handmodel.ProjectionCache, area, areaSqrt, integralArea *handmodel.Matrix, worldPoints *handmodel.Vec3Matrix) {
	w, h := depth.Width, depth.Height
	area.Resize(w, h)
	areaSqrt.Resize(w, h)
	integralArea.Resize(w, h)
	worldPoints.Resize(w, h)

	resX := float64(projection.ResolutionX)
	resY := float64(projection.ResolutionY)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := float64(depth.At(x, y))
			worldPoints.Set(x, y, projection.Project(x, y, d))

			var a float64
			if resX != 0 && resY != 0 {
				mmPerPixelX := d * projection.XZFactor / resX
				mmPerPixelY := d * projection.YZFactor / resY
				a = math.Abs(mmPerPixelX * mmPerPixelY)
			}
			area.Set(x, y, float32(a))
			areaSqrt.Set(x, y, float32(math.Sqrt(a)))
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := area.At(x, y)
			if x > 0 {
				v += integralArea.At(x-1, y)
			}
			if y > 0 {
				v += integralArea.At(x, y-1)
			}
			if x > 0 && y > 0 {
				v -= integralArea.At(x-1, y-1)
			}
			integralArea.Set(x, y, v)
		}
	}
}

// QueryIntegralArea sums matArea over the inclusive pixel rectangle
// [x0,y0]-[x1,y1] in O(1) using the standard summed-area-table
// inclusion-exclusion identity. Coordinates are clamped into the matrix's
// bounds, so pixels outside the matrix contribute nothing.
func QueryIntegralArea(integralArea *handmodel.Matrix, x0, y0, x1, y1 int) float32 {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, integralArea.Width-1), min(y1, integralArea.Height-1)
	if x1 < x0 || y1 < y0 {
		return 0
	}
	sum := integralArea.At(x1, y1)
	sum -= integralArea.At(x0-1, y1)
	sum -= integralArea.At(x1, y0-1)
	sum += integralArea.At(x0-1, y0-1)
	return sum
}
