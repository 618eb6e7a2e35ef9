package hydraulics

import "math"

func area(d float64) float64 {
	return math.Pi * d * d / 4.0
}

// Reynolds 返回圆管雷诺数。nu<=0 时取 20°C 清水运动粘度。
func Reynolds(flowM3s, diameterM, nu float64) (float64, error) {
	if diameterM <= 0 {
		return 0, ErrInvalidGeometry
	}
	if nu <= 0 {
		nu = KinematicViscosityWater
	}
	v := flowM3s / area(diameterM)
	return v * diameterM / nu, nil
}

// FrictionFactor Swamee–Jain 显式公式近似 Colebrook。
// Q=50 L/s、D=0.15 m、L=100 m 钢管得 f≈0.0166、hf≈4.52 m。
// Re<=0 返回 FallbackFrictionFactor，层流区（Re<2300）不单独处理。
func FrictionFactor(re, relativeRoughness float64) float64 {
	if re <= 0 {
		return FallbackFrictionFactor
	}
	a := relativeRoughness/3.7 + 5.74/math.Pow(re, 0.9)
	l := math.Log10(a)
	return 0.25 / (l * l)
}

func Laminar(re float64) bool {
	return re > 0 && re < LaminarReynolds
}

func validateSegment(idx int, s Segment) error {
	switch {
	case !(s.LengthM > 0):
		return &SegmentError{Index: idx, Name: s.Name, Field: "lengthM", Value: s.LengthM, Err: ErrInvalidGeometry}
	case !(s.DiameterM > 0):
		return &SegmentError{Index: idx, Name: s.Name, Field: "diameterM", Value: s.DiameterM, Err: ErrInvalidGeometry}
	case s.MinorLossCoefficient < 0:
		return &SegmentError{Index: idx, Name: s.Name, Field: "minorLossCoefficient", Value: s.MinorLossCoefficient, Err: ErrInvalidGeometry}
	case s.RoughnessM < 0:
		return &SegmentError{Index: idx, Name: s.Name, Field: "roughnessM", Value: s.RoughnessM, Err: ErrInvalidGeometry}
	case math.IsNaN(s.ElevationDeltaM) || math.IsInf(s.ElevationDeltaM, 0):
		return &SegmentError{Index: idx, Name: s.Name, Field: "elevationDeltaM", Value: s.ElevationDeltaM, Err: ErrInvalidGeometry}
	}
	return nil
}

// ValidFlow 流量必须有限且 >= 0，NaN 不通过
func ValidFlow(flowLs float64) bool {
	return flowLs >= 0 && !math.IsInf(flowLs, 0)
}

// SegmentLoss 计算单段管道的沿程损失、局部损失和总水头（含高差）。
func SegmentLoss(flowLs float64, s Segment) (SegmentLossResult, error) {
	return segmentLoss(0, flowLs, s)
}

func segmentLoss(idx int, flowLs float64, s Segment) (SegmentLossResult, error) {
	if !ValidFlow(flowLs) {
		return SegmentLossResult{}, ErrInvalidFlow
	}
	if err := validateSegment(idx, s); err != nil {
		return SegmentLossResult{}, err
	}

	q := flowLs / 1000.0
	v := q / area(s.DiameterM)
	re, err := Reynolds(q, s.DiameterM, KinematicViscosityWater)
	if err != nil {
		return SegmentLossResult{}, &SegmentError{Index: idx, Name: s.Name, Field: "diameterM", Value: s.DiameterM, Err: err}
	}
	f := FrictionFactor(re, s.Roughness()/s.DiameterM)

	velocityHead := v * v / (2 * G)
	hf := f * (s.LengthM / s.DiameterM) * velocityHead
	hm := s.MinorLossCoefficient * velocityHead

	return SegmentLossResult{
		Segment:        s,
		VelocityMS:     v,
		Reynolds:       re,
		FrictionFactor: f,
		FrictionLossM:  hf,
		MinorLossM:     hm,
		TotalLossM:     s.ElevationDeltaM + hf + hm,
	}, nil
}
