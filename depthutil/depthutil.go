// Package depthutil implements the Depth Utility component: per-frame
// depth preprocessing (downscaling, hole filling, temporal averaging) and
// velocity-signal extraction, per spec.md §4.1.
package depthutil

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/kestrelcam/handtrace/handmodel"
)

// sentinelDepth stands in for "no reading" (raw depth == 0) so that holes
// don't register as motion against real depth when differenced against the
// temporal average.
const sentinelDepth = 1 << 16

// DepthUtility holds the per-stream history (the ring of recent
// downscaled frames) needed to compute a temporal average and a velocity
// signal. It is owned by a single HandTracker and reset whenever the
// upstream frame dimensions change.
type DepthUtility struct {
	settings handmodel.HandSettings

	fullWidth, fullHeight int
	workWidth, workHeight int

	ring       []gocv.Mat
	ringCursor int
	ringFilled int

	matDepthFilled gocv.Mat
	matDepthAvg    gocv.Mat
	matDepthVel    gocv.Mat
	matDepthVelEro gocv.Mat

	kernel gocv.Mat

	initialized bool
}

// NewDepthUtility constructs a DepthUtility for the given working
// resolution. settings.ProcessingSizeWidth/Height must be positive;
// callers are expected to have already run HandSettings.Validate.
func NewDepthUtility(settings handmodel.HandSettings) *DepthUtility {
	du := &DepthUtility{
		settings:  settings,
		workWidth: settings.ProcessingSizeWidth,
		workHeight: settings.ProcessingSizeHeight,
	}
	size := settings.ErosionSize
	if size <= 0 {
		size = 3
	}
	du.kernel = gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
	return du
}

// Close releases every gocv.Mat this DepthUtility owns. Safe to call once
// the owning HandTracker is done with the stream.
func (du *DepthUtility) Close() {
	du.closeRing()
	closeIfOpen(&du.matDepthFilled)
	closeIfOpen(&du.matDepthAvg)
	closeIfOpen(&du.matDepthVel)
	closeIfOpen(&du.matDepthVelEro)
	closeIfOpen(&du.kernel)
}

func closeIfOpen(m *gocv.Mat) {
	if !m.Empty() {
		m.Close()
	}
}

func (du *DepthUtility) closeRing() {
	for i := range du.ring {
		du.ring[i].Close()
	}
	du.ring = nil
	du.ringCursor = 0
	du.ringFilled = 0
}

// Reset clears all internal history. The next call to
// ProcessDepthToVelocitySignal treats its input as a fresh baseline.
func (du *DepthUtility) Reset() {
	du.closeRing()
	du.initialized = false
}

// Result is the output of one preprocessing pass: the working-resolution
// depth, the full-resolution depth, and the binary motion mask.
type Result struct {
	MatDepth         *handmodel.Matrix
	MatDepthFullSize *handmodel.Matrix
	MatVelocitySignal *handmodel.ByteMatrix
}

// ProcessDepthToVelocitySignal runs the seven-step pipeline from spec.md
// §4.1 against one raw depth frame. If the frame's dimensions differ from
// the previous call's, the utility resets and the returned velocity mask
// is empty (spec.md §4.1 "Failure").
func (du *DepthUtility) ProcessDepthToVelocitySignal(raw *handmodel.DepthFrame) (Result, error) {
	if raw == nil {
		return Result{}, fmt.Errorf("depthutil: nil depth frame")
	}
	if err := raw.Validate(); err != nil {
		return Result{}, err
	}

	dimensionsChanged := du.initialized && (du.fullWidth != raw.Width || du.fullHeight != raw.Height)
	if dimensionsChanged {
		du.Reset()
	}
	firstFrameOfStream := !du.initialized
	du.fullWidth, du.fullHeight = raw.Width, raw.Height
	du.initialized = true

	fullSizeMat, err := du.buildFullSizeMat(raw)
	if err != nil {
		return Result{}, err
	}
	defer fullSizeMat.Close()

	workMat, err := du.downscale(fullSizeMat)
	if err != nil {
		return Result{}, err
	}
	defer workMat.Close()

	du.matDepthFilled = du.holeFill(workMat, du.matDepthFilled)

	du.pushRing(workMat)
	du.matDepthAvg = du.temporalAverage(workMat, du.matDepthAvg)

	du.matDepthVel = velocityMagnitude(workMat, du.matDepthAvg, du.matDepthVel, float32(du.settings.MaxDepth))

	du.matDepthVelEro = du.erodeVelocity(du.matDepthVel, du.matDepthVelEro)

	fullSizeMatrix := matToMatrix(fullSizeMat)
	workMatrix := matToMatrix(workMat)

	var signal *handmodel.ByteMatrix
	if firstFrameOfStream {
		// Baseline frame: no motion mask yet (nothing to compare against).
		signal = handmodel.NewByteMatrix(du.workWidth, du.workHeight)
	} else {
		signal = du.buildVelocitySignal(workMatrix)
	}

	return Result{
		MatDepth:          workMatrix,
		MatDepthFullSize:  fullSizeMatrix,
		MatVelocitySignal: signal,
	}, nil
}

// MatDepthFilled exposes the hole-filled working-resolution depth for
// debug visualization (spec.md §6 DebugHandViewType).
func (du *DepthUtility) MatDepthFilled() *handmodel.Matrix {
	if du.matDepthFilled.Empty() {
		return handmodel.NewMatrix(du.workWidth, du.workHeight)
	}
	return matToMatrix(du.matDepthFilled)
}

// MatDepthAvg exposes the temporally-averaged working-resolution depth for
// debug visualization.
func (du *DepthUtility) MatDepthAvg() *handmodel.Matrix {
	if du.matDepthAvg.Empty() {
		return handmodel.NewMatrix(du.workWidth, du.workHeight)
	}
	return matToMatrix(du.matDepthAvg)
}

// MatDepthVel exposes the raw velocity magnitude for debug visualization.
func (du *DepthUtility) MatDepthVel() *handmodel.Matrix {
	if du.matDepthVel.Empty() {
		return handmodel.NewMatrix(du.workWidth, du.workHeight)
	}
	return matToMatrix(du.matDepthVel)
}

// MatDepthVelErode exposes the eroded velocity signal for debug
// visualization.
func (du *DepthUtility) MatDepthVelErode() *handmodel.Matrix {
	if du.matDepthVelEro.Empty() {
		return handmodel.NewMatrix(du.workWidth, du.workHeight)
	}
	return matToMatrix(du.matDepthVelEro)
}
