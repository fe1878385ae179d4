package handmodel

import "testing"

func TestMatrixResizeReallocatesOnlyOnDimensionChange(t *testing.T) {
	m := NewMatrix(4, 3)
	m.Set(1, 1, 42)
	data := m.Data

	m.Resize(4, 3)
	if &m.Data[0] != &data[0] {
		t.Fatal("expected Resize with unchanged dimensions to reuse the backing array")
	}
	if m.At(1, 1) != 0 {
		t.Fatal("expected Resize to zero the buffer even when reusing it")
	}

	m.Set(2, 2, 7)
	m.Resize(8, 8)
	if len(m.Data) != 64 {
		t.Fatalf("expected reallocation on dimension change, got len=%d", len(m.Data))
	}
}

func TestMatrixOutOfBoundsIsSafe(t *testing.T) {
	m := NewMatrix(4, 3)
	if m.At(-1, 0) != 0 || m.At(0, -1) != 0 || m.At(4, 0) != 0 || m.At(0, 3) != 0 {
		t.Fatal("expected out-of-bounds reads to return zero")
	}
	m.Set(-1, 0, 5) // must not panic
}

func TestByteMatrixCountNonZero(t *testing.T) {
	m := NewByteMatrix(3, 3)
	m.Set(0, 0, 1)
	m.Set(2, 2, 1)
	if got := m.CountNonZero(); got != 2 {
		t.Fatalf("expected 2 set pixels, got %d", got)
	}
}

func TestTrackedPointTrajectoryBoundedAndDelta(t *testing.T) {
	tp := NewTrackedPoint(1, Point2{X: 1, Y: 1}, Vector3{X: 0, Y: 0, Z: 500}, 3)
	tp.PushTrajectory(Vector3{X: 10, Y: 0, Z: 500})
	if got := tp.WorldDeltaPosition; got != (Vector3{X: 10, Y: 0, Z: 0}) {
		t.Fatalf("expected delta (10,0,0), got %v", got)
	}
	tp.PushTrajectory(Vector3{X: 20, Y: 0, Z: 500})
	tp.PushTrajectory(Vector3{X: 30, Y: 0, Z: 500})
	if got := tp.TrajectoryLen(); got != 3 {
		t.Fatalf("expected trajectory capped at capacity 3, got %d", got)
	}
}

func TestHandFrameEmptySlotsAreSentinel(t *testing.T) {
	frame := NewHandFrame(7, 2)
	if frame.HandCount != 0 {
		t.Fatalf("expected new frame to start with handCount 0, got %d", frame.HandCount)
	}
	for i, h := range frame.Hands {
		if h.TrackingID != -1 || h.Status != HandNotTracking {
			t.Fatalf("slot %d: expected sentinel record, got %+v", i, h)
		}
	}
}

func TestHandSettingsValidateRejectsInconsistentConfig(t *testing.T) {
	s := DefaultHandSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("expected default settings to validate, got %v", err)
	}

	bad := s
	bad.ProcessingSizeWidth = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected zero processing width to fail validation")
	}

	bad = s
	bad.MaxDepth = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected zero maxDepth to fail validation")
	}

	bad = s
	bad.MinDepth = bad.MaxDepth
	if err := bad.Validate(); err == nil {
		t.Fatal("expected minDepth >= maxDepth to fail validation")
	}
}
