package handmodel

// HandStatus is the status value carried on an emitted HandRecord. It is
// the output-facing counterpart of LifecycleState: Dead points are never
// emitted, so HandStatus has no Dead value.
type HandStatus int

const (
	// HandNotTracking marks an unused output slot.
	HandNotTracking HandStatus = iota
	HandTrackingStatus
	HandLost
	HandCandidate
)

func (s HandStatus) String() string {
	switch s {
	case HandNotTracking:
		return "NotTracking"
	case HandTrackingStatus:
		return "Tracking"
	case HandLost:
		return "Lost"
	case HandCandidate:
		return "Candidate"
	default:
		return "Unknown"
	}
}

// fromLifecycle converts a TrackedPoint's internal state to the output
// status. Only called for states the emission filter has already decided
// to include.
func fromLifecycle(s LifecycleState) HandStatus {
	switch s {
	case Tracking:
		return HandTrackingStatus
	case Lost:
		return HandLost
	case Candidate:
		return HandCandidate
	default:
		return HandNotTracking
	}
}

// HandRecord is one emitted hand: identity, position, and status as of the
// frame it was produced for.
type HandRecord struct {
	TrackingID         int32
	Position           Point2
	WorldPosition      Vector3
	WorldDeltaPosition Vector3
	Status             HandStatus
}

// emptyHandRecord is the value every unused slot carries: trackingId = -1,
// status = NotTracking, all positions zeroed.
func emptyHandRecord() HandRecord {
	return HandRecord{TrackingID: -1, Status: HandNotTracking}
}

// RecordFromTrackedPoint builds the output record for a point the emission
// filter has already approved.
func RecordFromTrackedPoint(tp *TrackedPoint) HandRecord {
	return HandRecord{
		TrackingID:         int32(tp.TrackingID),
		Position:           tp.FullSizePosition,
		WorldPosition:      tp.FullSizeWorldPosition,
		WorldDeltaPosition: tp.FullSizeWorldDeltaPosition,
		Status:             fromLifecycle(tp.State),
	}
}

// HandFrame is the fixed-size result produced once per input depth frame.
type HandFrame struct {
	FrameIndex uint64
	HandCount  int
	Hands      []HandRecord
}

// NewHandFrame allocates a HandFrame with maxHands slots, every slot
// initialized to the empty/unused record.
func NewHandFrame(frameIndex uint64, maxHands int) HandFrame {
	hands := make([]HandRecord, maxHands)
	for i := range hands {
		hands[i] = emptyHandRecord()
	}
	return HandFrame{FrameIndex: frameIndex, Hands: hands}
}
