package handmodel

import "fmt"

// HandSettings enumerates every tunable of the pipeline (spec.md §6).
// Constructed once, validated at construction time, and treated as
// immutable by every component that receives it.
type HandSettings struct {
	ProcessingSizeWidth  int
	ProcessingSizeHeight int

	// Depth Utility.
	MaxDepth             float64
	MinDepth             float64
	VelocityThreshold    float64
	DepthSmoothingFrames int
	ErosionSize          int

	// Segmentation.
	SegmentBandWidth        float64
	MaxSegmentRadius        float64
	AreaMin                 float64
	AreaMax                 float64
	ForegroundRadius1       float64
	ForegroundRadius2       float64
	Radius1MinPercent       float64
	Radius2MinPercent       float64
	MaxEdgeDistance         float64
	NaturalEdgeMinPassRays  int
	MaxFloodFillVisitBudget int

	// Point Processor.
	MaxHandCount              int
	LostTimeout               int
	DeadTimeout               int
	MaxFailedTests            int
	DuplicateWorldRadius      float64
	RecoverWorldRadius        float64
	SecondChanceMinTrackingID int
	FullSizeWindowSide        int
	TrajectoryHistoryLength   int
	IncludeCandidatePoints    bool
}

// DefaultHandSettings returns a HandSettings populated with the defaults
// spec.md §9 suggests where the source excerpt was silent (3x3 erosion,
// 5-frame temporal average), plus reasonable values for every other field.
func DefaultHandSettings() HandSettings {
	return HandSettings{
		ProcessingSizeWidth:  80,
		ProcessingSizeHeight: 60,

		MaxDepth:             3000,
		MinDepth:             50,
		VelocityThreshold:    0.02,
		DepthSmoothingFrames: 5,
		ErosionSize:          3,

		SegmentBandWidth:        60,
		MaxSegmentRadius:        250,
		AreaMin:                 6000,
		AreaMax:                 100000,
		ForegroundRadius1:       40,
		ForegroundRadius2:       80,
		Radius1MinPercent:       0.9,
		Radius2MinPercent:       0.5,
		MaxEdgeDistance:         300,
		NaturalEdgeMinPassRays:  5,
		MaxFloodFillVisitBudget: 20000,

		MaxHandCount:              2,
		LostTimeout:               10,
		DeadTimeout:               30,
		MaxFailedTests:            30,
		DuplicateWorldRadius:      80,
		RecoverWorldRadius:        100,
		SecondChanceMinTrackingID: 3,
		FullSizeWindowSide:        60,
		TrajectoryHistoryLength:   8,
		IncludeCandidatePoints:    false,
	}
}

// Validate rejects an inconsistent configuration at construction time, per
// spec.md §7: the core never starts with processingSize <= 0 or
// maxDepth <= 0.
func (s HandSettings) Validate() error {
	if s.ProcessingSizeWidth <= 0 || s.ProcessingSizeHeight <= 0 {
		return fmt.Errorf("handmodel: processing size must be positive, got %dx%d", s.ProcessingSizeWidth, s.ProcessingSizeHeight)
	}
	if s.MaxDepth <= 0 {
		return fmt.Errorf("handmodel: maxDepth must be positive, got %f", s.MaxDepth)
	}
	if s.MinDepth < 0 || s.MinDepth >= s.MaxDepth {
		return fmt.Errorf("handmodel: minDepth must be in [0, maxDepth), got %f", s.MinDepth)
	}
	if s.MaxHandCount <= 0 {
		return fmt.Errorf("handmodel: maxHandCount must be positive, got %d", s.MaxHandCount)
	}
	if s.AreaMin < 0 || s.AreaMax < s.AreaMin {
		return fmt.Errorf("handmodel: areaMin/areaMax inconsistent, got [%f, %f]", s.AreaMin, s.AreaMax)
	}
	if s.ForegroundRadius1 <= 0 || s.ForegroundRadius2 <= s.ForegroundRadius1 {
		return fmt.Errorf("handmodel: foregroundRadius1 < foregroundRadius2 required, got [%f, %f]", s.ForegroundRadius1, s.ForegroundRadius2)
	}
	if s.LostTimeout <= 0 || s.DeadTimeout <= s.LostTimeout {
		return fmt.Errorf("handmodel: lostTimeout < deadTimeout required, got [%d, %d]", s.LostTimeout, s.DeadTimeout)
	}
	return nil
}
