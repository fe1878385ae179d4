package segmentation

import "github.com/kestrelcam/handtrace/handmodel"

// FindNextVelocitySeedPixel scans signal in row-major order starting at the
// flat offset searchStart, returning the first pixel that is set in signal
// and not already marked in searched. It reports the pixel found, the flat
// offset to resume scanning from on the next call (one past the match), and
// whether a match was found at all. The scan order is stable and
// deterministic for a given frame, matching the tie-breaking rule that
// later seeds in the same region lose to earlier ones.
func FindNextVelocitySeedPixel(signal, searched *handmodel.ByteMatrix, searchStart int) (handmodel.Point2, int, bool) {
	total := signal.Width * signal.Height
	for i := searchStart; i < total; i++ {
		if signal.Data[i] == 0 {
			continue
		}
		if searched.Data[i] != 0 {
			continue
		}
		x := i % signal.Width
		y := i / signal.Width
		return handmodel.Point2{X: x, Y: y}, i + 1, true
	}
	return handmodel.Point2{}, total, false
}
