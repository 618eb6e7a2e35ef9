package hydraulics

const (
	G   = 9.81   // 重力加速度 m/s^2
	Rho = 1000.0 // 水的密度 kg/m^3

	// KinematicViscosityWater 20°C 清水运动粘度 m^2/s
	KinematicViscosityWater = 1e-6

	// DefaultRoughness 商用钢管绝对粗糙度 m
	DefaultRoughness = 4.6e-5

	// DefaultEfficiency 泵没有效率曲线时的假定效率
	DefaultEfficiency = 0.75

	// FallbackFrictionFactor Re<=0 时的兜底摩阻系数，不是层流模型
	FallbackFrictionFactor = 0.02

	LaminarReynolds = 2300.0

	KWToHP = 1.34102209
)

const (
	CurveHead       = "head"
	CurveEfficiency = "efficiency"
)

type Segment struct {
	Name                 string  `json:"name"`
	LengthM              float64 `json:"lengthM"`
	DiameterM            float64 `json:"diameterM"`
	ElevationDeltaM      float64 `json:"elevationDeltaM"`
	MinorLossCoefficient float64 `json:"minorLossCoefficient"`
	RoughnessM           float64 `json:"roughnessM"`
}

// Roughness 返回管段粗糙度，未填写时取 DefaultRoughness
func (s Segment) Roughness() float64 {
	if s.RoughnessM == 0 {
		return DefaultRoughness
	}
	return s.RoughnessM
}

type CurvePoint struct {
	Flow  float64 `json:"flow"`
	Value float64 `json:"value"`
}

type PumpSpec struct {
	ID              string       `json:"id"`
	Brand           string       `json:"brand"`
	Model           string       `json:"model"`
	HeadCurve       []CurvePoint `json:"headCurve"`
	EfficiencyCurve []CurvePoint `json:"efficiencyCurve,omitempty"`
	NPSHRequiredM   *float64     `json:"npshRequiredM,omitempty"`
}

type SegmentLossResult struct {
	Segment        Segment `json:"segment"`
	VelocityMS     float64 `json:"velocityMS"`
	Reynolds       float64 `json:"reynolds"`
	FrictionFactor float64 `json:"frictionFactor"`
	FrictionLossM  float64 `json:"frictionLossM"`
	MinorLossM     float64 `json:"minorLossM"`
	TotalLossM     float64 `json:"totalLossM"`
}

type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// EvaluationRequest 管段非空时为高级模式，否则必须给出 ManualHeadM。
type EvaluationRequest struct {
	FlowLs      float64
	ManualHeadM *float64
	Segments    []Segment
	Pump        PumpSpec
}

func (r EvaluationRequest) Mode() Mode {
	if len(r.Segments) > 0 {
		return ModeAdvanced
	}
	return ModeBasic
}

type SystemResult struct {
	Mode               Mode                `json:"mode"`
	RequiredHeadM      float64             `json:"requiredHeadM"`
	FlowLs             float64             `json:"flowLs"`
	UnitsInSeries      int                 `json:"unitsInSeries"`
	HeadPerUnitM       float64             `json:"headPerUnitM"`
	EfficiencyFraction float64             `json:"efficiencyFraction"`
	PowerKW            float64             `json:"powerKW"`
	NPSHRequiredM      *float64            `json:"npshRequiredM,omitempty"`
	SegmentResults     []SegmentLossResult `json:"segmentResults"`
	// LowReynolds 至少一段 Re<2300，摩阻结果不可靠
	LowReynolds bool `json:"lowReynolds,omitempty"`
}
