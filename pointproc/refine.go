package pointproc

import (
	"github.com/kestrelcam/handtrace/handmodel"
	"github.com/kestrelcam/handtrace/segmentation"
)

// UpdateFullResolutionPoints refines every non-Dead point's position at
// full camera resolution: a window of fullSizeWindowSide pixels around the
// working-resolution position (scaled up) is rescanned for foreground, and
// the resulting centroid becomes the point's fullSize* fields. If the
// window contains no foreground, the fullSize fields fall back to the
// working-resolution values instead of going stale.
func (pp *PointProcessor) UpdateFullResolutionPoints() {
	if pp.fullCtx == nil || pp.workWidth == 0 || pp.workHeight == 0 {
		return
	}
	scaleX := float64(pp.fullWidth) / float64(pp.workWidth)
	scaleY := float64(pp.fullHeight) / float64(pp.workHeight)
	halfSide := pp.settings.FullSizeWindowSide / 2
	if halfSide < 1 {
		halfSide = 1
	}

	for _, tp := range pp.points {
		if !tp.IsActive() {
			continue
		}

		fullPos := handmodel.Point2{
			X: int(float64(tp.Position.X)*scaleX + 0.5),
			Y: int(float64(tp.Position.Y)*scaleY + 0.5),
		}

		seedDepth := float64(pp.fullCtx.Depth.At(fullPos.X, fullPos.Y))
		result, ok := segmentation.WindowCentroid(pp.fullCtx, fullPos, halfSide, seedDepth)
		prevWorld := tp.FullSizeWorldPosition

		if !ok {
			tp.FullSizePosition = tp.Position
			tp.FullSizeWorldPosition = tp.WorldPosition
		} else {
			tp.FullSizePosition = result.Centroid
			tp.FullSizeWorldPosition = result.WorldCentroid
		}
		tp.FullSizeWorldDeltaPosition = tp.FullSizeWorldPosition.Sub(prevWorld)
	}
}

// UpdateTrajectories pushes each non-Dead point's current world position
// into its bounded trajectory ring and recomputes worldDeltaPosition as
// current minus the previous entry.
func (pp *PointProcessor) UpdateTrajectories() {
	for _, tp := range pp.points {
		if !tp.IsActive() {
			continue
		}
		tp.PushTrajectory(tp.WorldPosition)
	}
}
