package handmodel

// LifecycleState is the tagged variant replacing the original two-axis
// (TrackingStatus, TrackedPointType) pair: CandidatePoint/ActivePoint
// collapses into Candidate versus the three active states.
type LifecycleState int

const (
	// NotTracking is the zero state: never assigned to a live point, only
	// used to mark an unused output slot.
	NotTracking LifecycleState = iota
	// Candidate is a newly created point that has not yet survived the
	// promotion threshold (secondChanceMinTrackingId consecutive tracked
	// frames).
	Candidate
	// Tracking is a point with a successful segmentation this frame.
	Tracking
	// Lost is a point whose segmentation failed or came back empty, and
	// whose inactiveFrameCount has not yet reached deadTimeout.
	Lost
	// Dead is terminal: the point is removed from the tracked set at the
	// end of the frame that assigns it.
	Dead
)

// String renders the state for logs and test failure messages.
func (s LifecycleState) String() string {
	switch s {
	case NotTracking:
		return "NotTracking"
	case Candidate:
		return "Candidate"
	case Tracking:
		return "Tracking"
	case Lost:
		return "Lost"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// trajectoryCapacityDefault bounds the ring when a TrackedPoint is created
// without an explicit capacity (HandSettings.TrajectoryHistoryLength <= 0).
const trajectoryCapacityDefault = 8

// trajectoryRing is a bounded ring of recent world positions, oldest
// entries dropped first once capacity is reached.
type trajectoryRing struct {
	entries  []Vector3
	capacity int
}

func newTrajectoryRing(capacity int) *trajectoryRing {
	if capacity <= 0 {
		capacity = trajectoryCapacityDefault
	}
	return &trajectoryRing{capacity: capacity}
}

// push appends a world position, evicting the oldest entry if full.
func (r *trajectoryRing) push(p Vector3) {
	if len(r.entries) >= r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, p)
}

// last returns the most recently pushed entry and whether one exists.
func (r *trajectoryRing) last() (Vector3, bool) {
	if len(r.entries) == 0 {
		return Vector3{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// previous returns the entry pushed before the most recent one, if any.
func (r *trajectoryRing) previous() (Vector3, bool) {
	if len(r.entries) < 2 {
		return Vector3{}, false
	}
	return r.entries[len(r.entries)-2], true
}

// TrackedPoint is the identity and kinematic state of a single tracked
// hand, working-resolution and full-resolution. Its identity is
// TrackingID, never its position in any container.
type TrackedPoint struct {
	TrackingID uint32

	Position      Point2
	WorldPosition Vector3

	WorldDeltaPosition Vector3

	FullSizePosition           Point2
	FullSizeWorldPosition      Vector3
	FullSizeWorldDeltaPosition Vector3

	State LifecycleState

	// InactiveFrameCount counts frames since the last confirmed update
	// (a successful segmentation). Reset to 0 on every confirmed update.
	InactiveFrameCount int
	// FailedTestCount counts frames since the last passing geometry test.
	// Reset to 0 on every passing test.
	FailedTestCount int
	// ConsecutiveTrackedFrames counts consecutive frames a Candidate has
	// passed its update-phase test; it gates the Candidate->Tracking
	// promotion at HandSettings.SecondChanceMinTrackingID. Reset to 0 on
	// any failed test or Lost transition.
	ConsecutiveTrackedFrames int

	trajectory *trajectoryRing
}

// NewTrackedPoint creates a freshly spawned Candidate point at the given
// working-resolution position and world position.
func NewTrackedPoint(id uint32, position Point2, world Vector3, trajectoryCapacity int) *TrackedPoint {
	tp := &TrackedPoint{
		TrackingID:            id,
		Position:              position,
		WorldPosition:         world,
		FullSizePosition:      position,
		FullSizeWorldPosition: world,
		State:                 Candidate,
		trajectory:            newTrajectoryRing(trajectoryCapacity),
	}
	tp.trajectory.push(world)
	return tp
}

// IsActive reports whether the point still participates in tracking (not
// yet Dead).
func (tp *TrackedPoint) IsActive() bool {
	return tp.State != Dead
}

// PushTrajectory appends the current world position to the trajectory ring
// and recomputes WorldDeltaPosition as current minus the previous entry.
func (tp *TrackedPoint) PushTrajectory(world Vector3) {
	if tp.trajectory == nil {
		tp.trajectory = newTrajectoryRing(trajectoryCapacityDefault)
	}
	prev, hadPrev := tp.trajectory.last()
	tp.trajectory.push(world)
	if hadPrev {
		tp.WorldDeltaPosition = world.Sub(prev)
	} else {
		tp.WorldDeltaPosition = Vector3{}
	}
}

// TrajectoryLen reports how many positions are currently in the ring,
// exposed for tests that assert bounded growth.
func (tp *TrackedPoint) TrajectoryLen() int {
	if tp.trajectory == nil {
		return 0
	}
	return len(tp.trajectory.entries)
}
