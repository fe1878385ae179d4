// Package segmentation implements the geometric tests and flood-fill
// operations of spec.md §4.2: deciding whether a seed pixel belongs to a
// hand, and extracting its connected foreground region and centroid.
package segmentation

import (
	"math"

	"github.com/kestrelcam/handtrace/handmodel"
)

// ScalingCoordinateMapper converts a physical length in millimeters, at a
// given depth, to a pixel length at the working resolution (and back). The
// conversion composes the projection cache's mm-per-normalized-unit
// factors with the downscale ratio between the camera's full resolution
// and the working resolution — the same formula
// HandTracker::overlay_circle used to build a mapper for its debug circle
// overlay, minus the rendering.
type ScalingCoordinateMapper struct {
	cache        handmodel.ProjectionCache
	resizeFactor float64
}

// NewScalingCoordinateMapper builds a mapper for a projection cache defined
// at full camera resolution and a downscale ratio (full / working).
func NewScalingCoordinateMapper(cache handmodel.ProjectionCache, resizeFactor float64) ScalingCoordinateMapper {
	if resizeFactor <= 0 {
		resizeFactor = 1
	}
	return ScalingCoordinateMapper{cache: cache, resizeFactor: resizeFactor}
}

// MillimetersToPixels converts a physical length in millimeters to a
// working-resolution pixel length, at the given depth.
func (m ScalingCoordinateMapper) MillimetersToPixels(mm float64, depthMM float64) float64 {
	if depthMM <= 0 {
		return 0
	}
	// Pixels-per-mm at full resolution along X, derived by differentiating
	// ProjectionCache.Project with respect to the normalized pixel
	// coordinate: d(wx)/d(x) = depthMM * xzFactor / resolutionX.
	mmPerFullPixel := depthMM * m.cache.XZFactor / float64(m.cache.ResolutionX)
	if mmPerFullPixel == 0 {
		return 0
	}
	fullPixels := mm / math.Abs(mmPerFullPixel)
	return fullPixels / m.resizeFactor
}

// PixelsToMillimeters is the inverse of MillimetersToPixels.
func (m ScalingCoordinateMapper) PixelsToMillimeters(pixels float64, depthMM float64) float64 {
	if depthMM <= 0 {
		return 0
	}
	mmPerFullPixel := depthMM * m.cache.XZFactor / float64(m.cache.ResolutionX)
	fullPixels := pixels * m.resizeFactor
	return fullPixels * math.Abs(mmPerFullPixel)
}
