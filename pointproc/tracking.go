package pointproc

import (
	"github.com/kestrelcam/handtrace/handmodel"
	"github.com/kestrelcam/handtrace/segmentation"
)

// passesGeometricTests runs the full battery of create/update-phase
// geometric tests at p. Nothing in spec.md distinguishes which subset
// applies to which phase, so both phases apply all four.
func passesGeometricTests(ctx *segmentation.Context, p handmodel.Point2) bool {
	return segmentation.TestPointInRange(ctx, p) &&
		segmentation.TestPointAreaIntegral(ctx, p) &&
		segmentation.TestForegroundRadiusPercentage(ctx, p) &&
		segmentation.TestNaturalEdges(ctx, p)
}

// applySegmentationSuccess records a successful segmentation for tp:
// position/world updated from the flood-filled centroid, and the
// lifecycle promoted per the state table. A Lost point only recovers to
// Tracking if the success arrives before lostTimeout frames of inactivity
// have elapsed; past that window it keeps its refreshed position but stays
// Lost for this frame. Every success resets inactiveFrameCount to 0, so a
// further success on the next frame returns it to Tracking.
func (pp *PointProcessor) applySegmentationSuccess(tp *handmodel.TrackedPoint, result segmentation.SegmentResult) {
	framesSinceLastSuccess := tp.InactiveFrameCount
	wasLost := tp.State == handmodel.Lost

	tp.Position = result.Centroid
	tp.WorldPosition = result.WorldCentroid
	tp.FailedTestCount = 0
	tp.InactiveFrameCount = 0
	tp.ConsecutiveTrackedFrames++

	switch {
	case tp.State == handmodel.Candidate:
		if tp.ConsecutiveTrackedFrames >= pp.settings.SecondChanceMinTrackingID {
			tp.State = handmodel.Tracking
		}
	case wasLost:
		if framesSinceLastSuccess < pp.settings.LostTimeout {
			tp.State = handmodel.Tracking
		}
	default:
		tp.State = handmodel.Tracking
	}
}

// applySegmentationFailure records a failed or empty segmentation for tp,
// advancing failedTestCount/inactiveFrameCount and demoting Tracking
// points to Lost. Dead-by-failedTestCount is applied here; dead-by-timeout
// is applied later by RemoveOldOrDeadPoints since it depends on the
// deadTimeout threshold rather than an immediate failure.
func (pp *PointProcessor) applySegmentationFailure(tp *handmodel.TrackedPoint) {
	tp.FailedTestCount++
	tp.InactiveFrameCount++
	tp.ConsecutiveTrackedFrames = 0

	if tp.State == handmodel.Tracking {
		tp.State = handmodel.Lost
	}
	if tp.FailedTestCount >= pp.settings.MaxFailedTests {
		tp.State = handmodel.Dead
	}
}

// UpdateTrackedPoints runs one segmentation attempt per existing non-Dead
// point, anchored at the point's last working-resolution position, and
// applies the update-phase state transition. Every attempt flood-fills
// into updateForegroundSearched.
func (pp *PointProcessor) UpdateTrackedPoints() {
	for _, tp := range pp.points {
		if !tp.IsActive() {
			continue
		}
		pp.attemptUpdate(tp, tp.Position, pp.updateForegroundSearched)
	}
}

// attemptUpdate runs the update-phase tests and, on pass, a flood fill
// seeded at seed into searched, then applies the resulting success/failure
// transition to tp. It reports whether the update succeeded. Callers pass
// updateForegroundSearched for the update phase proper and
// createForegroundSearched when recovering an existing point from a
// create-phase seed, so each phase's visited-pixel accounting stays
// independent.
func (pp *PointProcessor) attemptUpdate(tp *handmodel.TrackedPoint, seed handmodel.Point2, searched *handmodel.ByteMatrix) bool {
	ctx := pp.workCtx
	if !passesGeometricTests(ctx, seed) {
		pp.applySegmentationFailure(tp)
		return false
	}

	pp.scratchLayer.Zero()
	result, err := segmentation.SegmentForeground(ctx, seed, pp.scratchLayer, searched)
	if err != nil {
		pp.applySegmentationFailure(tp)
		return false
	}

	pp.applySegmentationSuccess(tp, result)
	return true
}

// RemoveDuplicatePoints marks the higher-trackingId point of every pair
// whose world positions lie within duplicateWorldRadius mm as Dead. O(n^2)
// pairwise scan, matching the tie-breaking rule that the lower id
// survives.
func (pp *PointProcessor) RemoveDuplicatePoints() {
	radius := pp.settings.DuplicateWorldRadius
	for i := 0; i < len(pp.points); i++ {
		a := pp.points[i]
		if !a.IsActive() {
			continue
		}
		for j := i + 1; j < len(pp.points); j++ {
			b := pp.points[j]
			if !b.IsActive() {
				continue
			}
			if a.WorldPosition.Distance(b.WorldPosition) <= radius {
				if a.TrackingID < b.TrackingID {
					b.State = handmodel.Dead
				} else {
					a.State = handmodel.Dead
				}
			}
		}
	}
}

// UpdateTrackedPointOrCreateNewPointFromSeedPosition first looks for an
// existing point within recoverWorldRadius mm of the seed's back-projected
// world position and, if found, treats the seed as an update for that
// point. Otherwise it runs the create-phase tests and, on pass, floods the
// seed and creates a new Candidate point.
func (pp *PointProcessor) UpdateTrackedPointOrCreateNewPointFromSeedPosition(seed handmodel.Point2) {
	ctx := pp.workCtx
	seedWorld := ctx.WorldPoints.At(seed.X, seed.Y)

	recoverRadius := pp.settings.RecoverWorldRadius
	for _, tp := range pp.points {
		if !tp.IsActive() {
			continue
		}
		if tp.WorldPosition.Distance(seedWorld) <= recoverRadius {
			pp.attemptUpdate(tp, seed, pp.createForegroundSearched)
			return
		}
	}

	if !passesGeometricTests(ctx, seed) {
		return
	}

	pp.scratchLayer.Zero()
	result, err := segmentation.SegmentForeground(ctx, seed, pp.scratchLayer, pp.createForegroundSearched)
	if err != nil {
		return
	}

	id := pp.nextTrackingID
	pp.nextTrackingID++
	trajectoryCapacity := pp.settings.TrajectoryHistoryLength
	tp := handmodel.NewTrackedPoint(id, result.Centroid, result.WorldCentroid, trajectoryCapacity)
	tp.ConsecutiveTrackedFrames = 1
	pp.points = append(pp.points, tp)
}

// RunSeedCreationPass iterates every unclaimed velocity seed pixel and
// attempts recovery-or-create for each, in the deterministic row-major
// order find_next_velocity_seed_pixel guarantees.
func (pp *PointProcessor) RunSeedCreationPass(velocitySignal *handmodel.ByteMatrix) {
	searchStart := 0
	for {
		seed, next, ok := segmentation.FindNextVelocitySeedPixel(velocitySignal, pp.createForegroundSearched, searchStart)
		if !ok {
			return
		}
		searchStart = next
		pp.UpdateTrackedPointOrCreateNewPointFromSeedPosition(seed)
	}
}

// RemoveOldOrDeadPoints drops points in state Dead or whose
// inactiveFrameCount has reached deadTimeout, preserving the relative
// order of survivors.
func (pp *PointProcessor) RemoveOldOrDeadPoints() {
	deadTimeout := pp.settings.DeadTimeout
	survivors := pp.points[:0]
	for _, tp := range pp.points {
		if tp.State == handmodel.Dead {
			continue
		}
		if tp.InactiveFrameCount >= deadTimeout {
			continue
		}
		survivors = append(survivors, tp)
	}
	pp.points = survivors
}
