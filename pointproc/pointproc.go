// Package pointproc implements the Point Processor: the tracked-point
// database and the state machine that evolves it frame to frame, per
// spec.md §4.3.
package pointproc

import (
	"github.com/kestrelcam/handtrace/handmodel"
	"github.com/kestrelcam/handtrace/segmentation"
)

// PointProcessor owns the ordered collection of TrackedPoints and the
// frame-scoped matrices Segmentation reads from. Its identity for a point
// is always TrackingID, never the point's position in the slice.
type PointProcessor struct {
	settings handmodel.HandSettings

	workWidth, workHeight int
	fullWidth, fullHeight int

	points         []*handmodel.TrackedPoint
	nextTrackingID uint32

	matArea         *handmodel.Matrix
	matAreaSqrt     *handmodel.Matrix
	matIntegralArea *handmodel.Matrix
	worldPoints     *handmodel.Vec3Matrix

	fullMatArea         *handmodel.Matrix
	fullMatAreaSqrt     *handmodel.Matrix
	fullMatIntegralArea *handmodel.Matrix
	fullWorldPoints     *handmodel.Vec3Matrix

	// updateForegroundSearched and createForegroundSearched are two
	// independent visited-pixel masks, one per phase: the update phase's
	// flood fills accumulate into the former across every existing point,
	// the create phase's seed search and flood fills accumulate into the
	// latter across every seed pixel. Each is zeroed once at the start of
	// the frame and never cleared again until the next frame, but neither
	// phase ever sees the other's mask.
	updateForegroundSearched *handmodel.ByteMatrix
	createForegroundSearched *handmodel.ByteMatrix
	scratchLayer             *handmodel.ByteMatrix

	workCtx *segmentation.Context
	fullCtx *segmentation.Context
}

// New constructs a PointProcessor for the given working and full
// resolutions. settings must already be validated.
func New(settings handmodel.HandSettings, workWidth, workHeight, fullWidth, fullHeight int) *PointProcessor {
	return &PointProcessor{
		settings:  settings,
		workWidth: workWidth, workHeight: workHeight,
		fullWidth: fullWidth, fullHeight: fullHeight,
		nextTrackingID: 0,

		matArea:         handmodel.NewMatrix(0, 0),
		matAreaSqrt:     handmodel.NewMatrix(0, 0),
		matIntegralArea: handmodel.NewMatrix(0, 0),
		worldPoints:     handmodel.NewVec3Matrix(0, 0),

		fullMatArea:         handmodel.NewMatrix(0, 0),
		fullMatAreaSqrt:     handmodel.NewMatrix(0, 0),
		fullMatIntegralArea: handmodel.NewMatrix(0, 0),
		fullWorldPoints:     handmodel.NewVec3Matrix(0, 0),

		updateForegroundSearched: handmodel.NewByteMatrix(workWidth, workHeight),
		createForegroundSearched: handmodel.NewByteMatrix(workWidth, workHeight),
		scratchLayer:             handmodel.NewByteMatrix(workWidth, workHeight),
	}
}

// Points returns the live (non-Dead) tracked points in container order,
// for callers that need read access outside the pipeline (tests, debug
// views).
func (pp *PointProcessor) Points() []*handmodel.TrackedPoint {
	out := make([]*handmodel.TrackedPoint, 0, len(pp.points))
	for _, tp := range pp.points {
		if tp.IsActive() {
			out = append(out, tp)
		}
	}
	return out
}

// Reset drops every tracked point and clears frame-scoped state, but does
// not rewind the trackingId counter: ids are never reused within the
// lifetime of the process.
func (pp *PointProcessor) Reset() {
	pp.points = nil
	pp.updateForegroundSearched.Zero()
	pp.createForegroundSearched.Zero()
}

// InitializeCommonCalculations computes matArea, matAreaSqrt,
// matIntegralArea and worldPoints for both the working-resolution depth
// and (when provided) the full-resolution depth, and re-zeroes both
// foreground-searched masks for the new frame. It must run once per frame
// before any geometric test or flood fill.
func (pp *PointProcessor) InitializeCommonCalculations(matDepth *handmodel.Matrix, projection handmodel.ProjectionCache, matDepthFullSize *handmodel.Matrix, fullProjection handmodel.ProjectionCache) {
	segmentation.ComputeAreaMatrices(matDepth, projection, pp.matArea, pp.matAreaSqrt, pp.matIntegralArea, pp.worldPoints)
	pp.workCtx = segmentation.NewContext(pp.settings, projection, matDepth, pp.matArea, pp.matAreaSqrt, pp.matIntegralArea, pp.worldPoints)

	if matDepthFullSize != nil {
		segmentation.ComputeAreaMatrices(matDepthFullSize, fullProjection, pp.fullMatArea, pp.fullMatAreaSqrt, pp.fullMatIntegralArea, pp.fullWorldPoints)
		pp.fullCtx = segmentation.NewContext(pp.settings, fullProjection, matDepthFullSize, pp.fullMatArea, pp.fullMatAreaSqrt, pp.fullMatIntegralArea, pp.fullWorldPoints)
	}

	if pp.updateForegroundSearched.Width != matDepth.Width || pp.updateForegroundSearched.Height != matDepth.Height {
		pp.updateForegroundSearched.Resize(matDepth.Width, matDepth.Height)
		pp.createForegroundSearched.Resize(matDepth.Width, matDepth.Height)
		pp.scratchLayer.Resize(matDepth.Width, matDepth.Height)
		pp.workWidth, pp.workHeight = matDepth.Width, matDepth.Height
	} else {
		pp.updateForegroundSearched.Zero()
		pp.createForegroundSearched.Zero()
	}
}
