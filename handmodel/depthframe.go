package handmodel

import "fmt"

// DepthFrame is a raw camera reading: a row-major grid of 16-bit millimeter
// depths at full camera resolution. A depth of 0 means "no reading."
type DepthFrame struct {
	Width, Height int
	Depth         []uint16
	FrameIndex    uint64
}

// NewDepthFrame allocates a zeroed DepthFrame of the given dimensions.
func NewDepthFrame(width, height int, frameIndex uint64) *DepthFrame {
	return &DepthFrame{
		Width:      width,
		Height:     height,
		Depth:      make([]uint16, width*height),
		FrameIndex: frameIndex,
	}
}

// Validate reports whether the frame's dimensions are consistent with its
// backing slice.
func (f *DepthFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("handmodel: depth frame dimensions must be positive, got %dx%d", f.Width, f.Height)
	}
	if len(f.Depth) != f.Width*f.Height {
		return fmt.Errorf("handmodel: depth frame has %d samples, want %d for %dx%d", len(f.Depth), f.Width*f.Height, f.Width, f.Height)
	}
	return nil
}

// At returns the raw depth at (x, y) in millimeters, or 0 if out of bounds.
func (f *DepthFrame) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Depth[y*f.Width+x]
}

// Set writes the raw depth at (x, y). Out-of-bounds writes are ignored.
func (f *DepthFrame) Set(x, y int, depth uint16) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Depth[y*f.Width+x] = depth
}
