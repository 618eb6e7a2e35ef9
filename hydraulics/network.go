package hydraulics

import "gonum.org/v1/gonum/floats"

// TotalRequiredHead 对所有管段求损失之和，作为系统所需扬程。
// 所有管段先校验，任何一段不合法都不会开始计算。
func TotalRequiredHead(flowLs float64, segments []Segment) (float64, []SegmentLossResult, error) {
	if len(segments) == 0 {
		return 0, nil, ErrNoSegments
	}
	if !ValidFlow(flowLs) {
		return 0, nil, ErrInvalidFlow
	}
	for i, s := range segments {
		if err := validateSegment(i, s); err != nil {
			return 0, nil, err
		}
	}

	results := make([]SegmentLossResult, 0, len(segments))
	losses := make([]float64, 0, len(segments))
	for i, s := range segments {
		r, err := segmentLoss(i, flowLs, s)
		if err != nil {
			return 0, nil, err
		}
		results = append(results, r)
		losses = append(losses, r.TotalLossM)
	}
	return floats.Sum(losses), results, nil
}
