// Package handtracker wires the Depth Utility, Segmentation Engine, and
// Point Processor into the single per-frame entry point external
// collaborators call, per spec.md §6.
package handtracker

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/kestrelcam/handtrace/depthutil"
	"github.com/kestrelcam/handtrace/handmodel"
	"github.com/kestrelcam/handtrace/pointproc"
)

// DebugHandViewType selects which internal buffer DebugBuffer returns, per
// spec.md §6's contract that the core may be asked which buffer to
// visualize without owning the rendering itself.
type DebugHandViewType int

const (
	DebugViewNone DebugHandViewType = iota
	DebugViewDepthFilled
	DebugViewDepthAvg
	DebugViewDepthVelocity
	DebugViewDepthVelocityEroded
	DebugViewVelocitySignal
)

// HandTracker is the single owner of one stream's tracking state: it holds
// the Depth Utility's temporal history and the Point Processor's tracked
// points, and exposes on_frame as its only per-frame entry point.
type HandTracker struct {
	sessionID string
	settings  handmodel.HandSettings

	depth *depthutil.DepthUtility
	pp    *pointproc.PointProcessor

	fullWidth, fullHeight int
	workWidth, workHeight int

	hasHandConsumers  bool
	hasDebugConsumers bool

	lastVelocitySignal *handmodel.ByteMatrix

	frameIndex uint64
	logger     *log.Logger
}

// New constructs a HandTracker for one stream. settings is validated here;
// an invalid configuration is rejected at construction rather than surfaced
// mid-stream, per spec.md §7.
func New(settings handmodel.HandSettings, fullWidth, fullHeight int, logger *log.Logger) (*HandTracker, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("handtracker: %w", err)
	}
	if fullWidth <= 0 || fullHeight <= 0 {
		return nil, fmt.Errorf("handtracker: full resolution must be positive, got %dx%d", fullWidth, fullHeight)
	}
	if logger == nil {
		logger = log.Default()
	}

	ht := &HandTracker{
		sessionID:         uuid.New().String(),
		settings:          settings,
		depth:             depthutil.NewDepthUtility(settings),
		fullWidth:         fullWidth,
		fullHeight:        fullHeight,
		workWidth:         settings.ProcessingSizeWidth,
		workHeight:        settings.ProcessingSizeHeight,
		hasHandConsumers:  true,
		hasDebugConsumers: false,
		logger:            logger,
	}
	ht.pp = pointproc.New(settings, ht.workWidth, ht.workHeight, fullWidth, fullHeight)
	return ht, nil
}

// SessionID identifies this tracker instance for logs and persisted
// session summaries.
func (ht *HandTracker) SessionID() string {
	return ht.sessionID
}

// SetHandConsumers toggles whether any collaborator is attached to the
// hand-record output stream; when false and no debug consumer is attached,
// OnFrame skips all work after preprocessing per the backpressure contract
// in spec.md §5.
func (ht *HandTracker) SetHandConsumers(attached bool) {
	ht.hasHandConsumers = attached
}

// SetDebugConsumers toggles whether a debug-visualization consumer is
// attached.
func (ht *HandTracker) SetDebugConsumers(attached bool) {
	ht.hasDebugConsumers = attached
}

// HasHandConsumers reports the current hand-stream attachment state.
func (ht *HandTracker) HasHandConsumers() bool {
	return ht.hasHandConsumers
}

// HasDebugConsumers reports the current debug-stream attachment state.
func (ht *HandTracker) HasDebugConsumers() bool {
	return ht.hasDebugConsumers
}

// Reset drops all tracking history: the Depth Utility's frame ring and the
// Point Processor's tracked points. TrackingIDs already allocated are
// never reused.
func (ht *HandTracker) Reset() {
	ht.depth.Reset()
	ht.pp.Reset()
}

// Close releases every native resource this tracker owns.
func (ht *HandTracker) Close() {
	ht.depth.Close()
}

// OnFrame is the single per-frame entry point: it runs preprocessing,
// common calculations, the update/dedupe/create/evict/refine/trajectory
// pipeline, and returns the emitted hand frame. Ordering matches
// spec.md §5: later stages depend on mutations earlier stages made to the
// shared frame-scoped matrices.
func (ht *HandTracker) OnFrame(raw *handmodel.DepthFrame, projection handmodel.ProjectionCache) (handmodel.HandFrame, error) {
	if raw == nil {
		return handmodel.HandFrame{}, fmt.Errorf("handtracker: nil depth frame")
	}
	ht.frameIndex = raw.FrameIndex

	preprocessed, err := ht.depth.ProcessDepthToVelocitySignal(raw)
	if err != nil {
		return handmodel.HandFrame{}, fmt.Errorf("handtracker: preprocessing failed: %w", err)
	}
	ht.lastVelocitySignal = preprocessed.MatVelocitySignal

	if !ht.hasHandConsumers && !ht.hasDebugConsumers {
		// Backpressure: skip everything past preprocessing when nobody is
		// listening for hand records or debug buffers.
		return handmodel.NewHandFrame(raw.FrameIndex, ht.settings.MaxHandCount), nil
	}

	workScale := float64(raw.Width) / float64(ht.workWidth)
	workProjection := projection.Scaled(workScale)

	ht.pp.InitializeCommonCalculations(preprocessed.MatDepth, workProjection, preprocessed.MatDepthFullSize, projection)

	ht.pp.UpdateTrackedPoints()
	ht.pp.RemoveDuplicatePoints()
	ht.pp.RunSeedCreationPass(preprocessed.MatVelocitySignal)
	ht.pp.RemoveOldOrDeadPoints()
	ht.pp.UpdateFullResolutionPoints()
	ht.pp.UpdateTrajectories()

	frame := ht.pp.Emit(raw.FrameIndex)
	return frame, nil
}

// DebugBuffer returns the internal matrix backing view. It returns nil when
// debug consumers are not attached or view has no float buffer
// (DebugViewNone, DebugViewVelocitySignal); a buffer with no data yet is
// returned as a zeroed working-resolution matrix.
func (ht *HandTracker) DebugBuffer(view DebugHandViewType) *handmodel.Matrix {
	if !ht.hasDebugConsumers {
		return nil
	}
	switch view {
	case DebugViewDepthFilled:
		return ht.depth.MatDepthFilled()
	case DebugViewDepthAvg:
		return ht.depth.MatDepthAvg()
	case DebugViewDepthVelocity:
		return ht.depth.MatDepthVel()
	case DebugViewDepthVelocityEroded:
		return ht.depth.MatDepthVelErode()
	default:
		return nil
	}
}

// DebugVelocitySignal exposes the last computed binary motion mask for
// visualization; unlike the float buffers above it is a byte mask, so it
// gets its own accessor instead of squeezing into DebugBuffer.
func (ht *HandTracker) DebugVelocitySignal() *handmodel.ByteMatrix {
	if !ht.hasDebugConsumers || ht.lastVelocitySignal == nil {
		return nil
	}
	return ht.lastVelocitySignal
}

// TrackedPointCount reports how many non-Dead points are currently held,
// exposed for session summaries and debug logging.
func (ht *HandTracker) TrackedPointCount() int {
	return len(ht.pp.Points())
}
