package depthutil

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/kestrelcam/handtrace/handmodel"
)

// buildFullSizeMat copies the raw u16 depth into a CV_32FC1 Mat, turning
// "no reading" zeros into sentinelDepth so that holes never look like
// fast-approaching foreground to the velocity stage.
func (du *DepthUtility) buildFullSizeMat(raw *handmodel.DepthFrame) (gocv.Mat, error) {
	mat := gocv.NewMatWithSize(raw.Height, raw.Width, gocv.MatTypeCV32F)
	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			v := raw.At(x, y)
			if v == 0 {
				mat.SetFloatAt(y, x, sentinelDepth)
			} else {
				mat.SetFloatAt(y, x, float32(v))
			}
		}
	}
	return mat, nil
}

// downscale resizes the full-size depth Mat to the configured working
// resolution using nearest-neighbor interpolation, which avoids blending
// depths across object boundaries the way area-averaging would.
func (du *DepthUtility) downscale(fullSize gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()
	gocv.Resize(fullSize, &dst, image.Pt(du.workWidth, du.workHeight), 0, 0, gocv.InterpolationNearestNeighbor)
	return dst, nil
}

// holeFill runs a small morphological closing on the working-resolution
// depth to fill single-pixel dropouts.
func (du *DepthUtility) holeFill(work gocv.Mat, dst gocv.Mat) gocv.Mat {
	if dst.Empty() {
		dst = gocv.NewMat()
	}
	gocv.MorphologyEx(work, &dst, gocv.MorphClose, du.kernel)
	return dst
}

// pushRing stores a copy of the working-resolution depth into the ring
// buffer used for the temporal average, evicting the oldest entry once the
// configured window is full.
func (du *DepthUtility) pushRing(work gocv.Mat) {
	window := du.settings.DepthSmoothingFrames
	if window <= 0 {
		window = 5
	}
	frame := gocv.NewMat()
	work.CopyTo(&frame)

	if len(du.ring) < window {
		du.ring = append(du.ring, frame)
	} else {
		du.ring[du.ringCursor].Close()
		du.ring[du.ringCursor] = frame
	}
	du.ringCursor = (du.ringCursor + 1) % window
	if du.ringFilled < window {
		du.ringFilled++
	}
}

// temporalAverage computes the per-pixel mean of the ring over valid
// (non-sentinel) samples. Pixels with no valid sample in the ring fall
// back to the current frame's own value.
func (du *DepthUtility) temporalAverage(work gocv.Mat, dst gocv.Mat) gocv.Mat {
	if dst.Empty() {
		dst = gocv.NewMatWithSize(du.workHeight, du.workWidth, gocv.MatTypeCV32F)
	}

	for y := 0; y < du.workHeight; y++ {
		for x := 0; x < du.workWidth; x++ {
			sum := float32(0)
			count := 0
			for _, frame := range du.ring {
				v := frame.GetFloatAt(y, x)
				if v < sentinelDepth {
					sum += v
					count++
				}
			}
			if count == 0 {
				dst.SetFloatAt(y, x, work.GetFloatAt(y, x))
			} else {
				dst.SetFloatAt(y, x, sum/float32(count))
			}
		}
	}
	return dst
}

// velocityMagnitude computes |work - avg| capped to maxVelocity.
func velocityMagnitude(work, avg gocv.Mat, dst gocv.Mat, maxVelocity float32) gocv.Mat {
	if dst.Empty() {
		dst = gocv.NewMatWithSize(work.Rows(), work.Cols(), gocv.MatTypeCV32F)
	}
	gocv.AbsDiff(work, avg, &dst)

	for y := 0; y < dst.Rows(); y++ {
		for x := 0; x < dst.Cols(); x++ {
			v := dst.GetFloatAt(y, x)
			if v > maxVelocity {
				dst.SetFloatAt(y, x, maxVelocity)
			}
		}
	}
	return dst
}

// erodeVelocity zeroes velocity magnitudes at or below VelocityThreshold
// and erodes the result with the configured kernel to suppress isolated
// noise pixels; surviving pixels keep their velocity magnitude.
func (du *DepthUtility) erodeVelocity(vel gocv.Mat, dst gocv.Mat) gocv.Mat {
	thresholded := gocv.NewMat()
	defer thresholded.Close()
	gocv.Threshold(vel, &thresholded, float32(du.settings.VelocityThreshold), 1.0, gocv.ThresholdToZero)

	if dst.Empty() {
		dst = gocv.NewMat()
	}
	gocv.Erode(thresholded, &dst, du.kernel)
	return dst
}

// buildVelocitySignal applies the final per-pixel gate from spec.md §4.1
// step 7: eroded velocity must clear the threshold and the working depth
// must lie within [minDepth, maxDepth].
func (du *DepthUtility) buildVelocitySignal(workMatrix *handmodel.Matrix) *handmodel.ByteMatrix {
	signal := handmodel.NewByteMatrix(du.workWidth, du.workHeight)
	threshold := float32(du.settings.VelocityThreshold)
	minDepth := float32(du.settings.MinDepth)
	maxDepth := float32(du.settings.MaxDepth)

	for y := 0; y < du.workHeight; y++ {
		for x := 0; x < du.workWidth; x++ {
			eroded := du.matDepthVelEro.GetFloatAt(y, x)
			depth := workMatrix.At(x, y)
			if eroded > threshold && depth >= minDepth && depth < maxDepth {
				signal.Set(x, y, 1)
			}
		}
	}
	return signal
}

// matToMatrix copies a CV_32FC1 Mat into an owned handmodel.Matrix.
func matToMatrix(mat gocv.Mat) *handmodel.Matrix {
	width, height := mat.Cols(), mat.Rows()
	m := handmodel.NewMatrix(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Set(x, y, mat.GetFloatAt(y, x))
		}
	}
	return m
}
