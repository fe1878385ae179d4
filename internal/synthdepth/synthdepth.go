// Package synthdepth generates synthetic depth frames for demos and tests
// that need controllable, reproducible scenes instead of a real camera —
// the depth-frame analogue of the fixture landmarks a detector test double
// would hand back.
package synthdepth

import "github.com/kestrelcam/handtrace/handmodel"

// Disk describes a circular constant-depth region against a uniform
// background, the standard synthetic scene shape used to exercise
// segmentation and tracking end to end.
type Disk struct {
	CenterX, CenterY int
	RadiusPixels     int
	DepthMM          uint16
}

// EmptyScene returns a frame of the given size with every pixel at
// backgroundDepth (raw depth 0 means "no reading"; pass a real background
// depth like 3000 for "wall far away", or 0 for "empty room").
func EmptyScene(width, height int, backgroundDepth uint16, frameIndex uint64) *handmodel.DepthFrame {
	f := handmodel.NewDepthFrame(width, height, frameIndex)
	if backgroundDepth != 0 {
		for i := range f.Depth {
			f.Depth[i] = backgroundDepth
		}
	}
	return f
}

// DiskScene returns a frame with one or more disks painted over a uniform
// background. Later disks in the slice paint over earlier ones where they
// overlap.
func DiskScene(width, height int, backgroundDepth uint16, frameIndex uint64, disks ...Disk) *handmodel.DepthFrame {
	f := EmptyScene(width, height, backgroundDepth, frameIndex)
	for _, disk := range disks {
		r2 := disk.RadiusPixels * disk.RadiusPixels
		for y := disk.CenterY - disk.RadiusPixels; y <= disk.CenterY+disk.RadiusPixels; y++ {
			for x := disk.CenterX - disk.RadiusPixels; x <= disk.CenterX+disk.RadiusPixels; x++ {
				dx, dy := x-disk.CenterX, y-disk.CenterY
				if dx*dx+dy*dy > r2 {
					continue
				}
				f.Set(x, y, disk.DepthMM)
			}
		}
	}
	return f
}

// StandardProjection returns a plausible projection cache for a camera of
// the given full resolution, with factors in the range typical structured-
// light sensors report (roughly a 60-degree horizontal field of view).
func StandardProjection(resolutionX, resolutionY int) handmodel.ProjectionCache {
	return handmodel.ProjectionCache{
		ResolutionX: resolutionX,
		ResolutionY: resolutionY,
		XZFactor:    1.12,
		YZFactor:    0.84,
	}
}

// WorldCentroid projects a disk's pixel center to a world point using the
// given full-resolution projection cache, for tests asserting a tracked
// point's worldPosition lands near the scene's true centroid.
func (d Disk) WorldCentroid(projection handmodel.ProjectionCache) handmodel.Vector3 {
	return projection.Project(d.CenterX, d.CenterY, float64(d.DepthMM))
}
