package pointproc

import "github.com/kestrelcam/handtrace/handmodel"

// qualifiesForEmission mirrors HandTracker::update_hand_frame's filter:
// only points currently Tracking or Lost are ever candidates for
// emission, and a point still in Candidate state is only included when
// includeCandidatePoints is set.
func (pp *PointProcessor) qualifiesForEmission(tp *handmodel.TrackedPoint) bool {
	switch tp.State {
	case handmodel.Tracking, handmodel.Lost:
		return true
	case handmodel.Candidate:
		return pp.settings.IncludeCandidatePoints
	default:
		return false
	}
}

// Emit builds the fixed-size HandFrame for frameIndex: every unused slot
// is the empty record (trackingId = -1, status = NotTracking), and
// qualifying points fill the first handCount slots in container
// (insertion) order. Points beyond maxHandCount are dropped, later
// insertions losing out to earlier ones.
func (pp *PointProcessor) Emit(frameIndex uint64) handmodel.HandFrame {
	frame := handmodel.NewHandFrame(frameIndex, pp.settings.MaxHandCount)
	count := 0
	for _, tp := range pp.points {
		if count >= pp.settings.MaxHandCount {
			break
		}
		if !pp.qualifiesForEmission(tp) {
			continue
		}
		frame.Hands[count] = handmodel.RecordFromTrackedPoint(tp)
		count++
	}
	frame.HandCount = count
	return frame
}
