package handmodel

// ProjectionCache is the immutable per-stream lens mapping between pixel
// space (at the camera's full resolution) and world space. It is supplied
// by the camera-driver collaborator (out of scope here) and consumed
// read-only by every component below it.
//
// Formula transcribed from the original depth-to-world conversion
// (orbbec_xs PointProcessor::calculate_point_frame):
//
//	wx = (x/resX - 0.5) * depth * xzFactor
//	wy = (0.5 - y/resY) * depth * yzFactor
//	wz = depth
type ProjectionCache struct {
	ResolutionX, ResolutionY int
	XZFactor, YZFactor       float64
}

// Project maps a pixel at the cache's resolution plus a depth in
// millimeters to a world point in millimeters.
func (c ProjectionCache) Project(x, y int, depthMM float64) Vector3 {
	normalizedX := float64(x)/float64(c.ResolutionX) - 0.5
	normalizedY := 0.5 - float64(y)/float64(c.ResolutionY)

	return Vector3{
		X: normalizedX * depthMM * c.XZFactor,
		Y: normalizedY * depthMM * c.YZFactor,
		Z: depthMM,
	}
}

// Unproject is the inverse of Project: given a world point whose Z is the
// original depth, it recovers the originating pixel coordinate at the
// cache's resolution. Used by the projection round-trip property (spec.md
// §8 property 5) and by anything that needs to re-derive a pixel from a
// world position (e.g. seed recovery).
func (c ProjectionCache) Unproject(world Vector3) (x, y float64) {
	if world.Z == 0 || c.XZFactor == 0 || c.YZFactor == 0 {
		return 0, 0
	}
	normalizedX := world.X / (world.Z * c.XZFactor)
	normalizedY := world.Y / (world.Z * c.YZFactor)

	x = (normalizedX + 0.5) * float64(c.ResolutionX)
	y = (0.5 - normalizedY) * float64(c.ResolutionY)
	return x, y
}

// Scaled returns a copy of the cache whose resolution is divided by factor
// (the downscale ratio between full camera resolution and the processing
// resolution), leaving the mm-per-unit factors untouched. This is how
// working-resolution world points are computed with the same cache used
// for full-resolution refinement.
func (c ProjectionCache) Scaled(factor float64) ProjectionCache {
	if factor <= 0 {
		factor = 1
	}
	return ProjectionCache{
		ResolutionX: int(float64(c.ResolutionX) / factor),
		ResolutionY: int(float64(c.ResolutionY) / factor),
		XZFactor:    c.XZFactor,
		YZFactor:    c.YZFactor,
	}
}
