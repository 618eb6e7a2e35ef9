package service

import "pumpstation/hydraulics"

const (
	LoadOversized = "oversized"
	LoadOptimal   = "optimal"
	LoadLimit     = "limit"

	BandHigh       = "high"
	BandMedium     = "medium"
	BandLow        = "low"
	BandAcceptable = "acceptable"
)

type EvaluateInput struct {
	PumpID      string               `json:"pumpId"`
	FlowLs      float64              `json:"flowLs"`
	ManualHeadM *float64             `json:"manualHeadM,omitempty"`
	Segments    []hydraulics.Segment `json:"segments,omitempty"`
	// NPSHAvailableM 直接给出装置汽蚀余量；为空时按 Suction 计算
	NPSHAvailableM *float64          `json:"npshAvailableM,omitempty"`
	Suction        *SuctionCondition `json:"suction,omitempty"`
}

type Evaluation struct {
	Pump       PumpSummary              `json:"pump"`
	Result     *hydraulics.SystemResult `json:"result"`
	Assessment Assessment               `json:"assessment"`
}

type PumpSummary struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// Assessment 工况点评价，阈值与选型报表一致
type Assessment struct {
	Horsepower     float64  `json:"horsepower"`
	StagedHeadM    float64  `json:"stagedHeadM"`
	LoadRatio      float64  `json:"loadRatio"`
	LoadBand       string   `json:"loadBand"`
	EfficiencyBand string   `json:"efficiencyBand"`
	PowerBand      string   `json:"powerBand"`
	NPSHAvailableM *float64 `json:"npshAvailableM,omitempty"`
	NPSHMarginM    *float64 `json:"npshMarginM,omitempty"`
	NPSHOK         *bool    `json:"npshOk,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

type ImportPumpsResult struct {
	ImportedPumps int `json:"importedPumps"`
	ImportedRows  int `json:"importedRows"`
	SkippedRows   int `json:"skippedRows"`
}

type PumpCurve struct {
	PumpID     string                  `json:"pumpId"`
	Head       []hydraulics.CurvePoint `json:"head"`
	Efficiency []hydraulics.CurvePoint `json:"efficiency,omitempty"`
	// OperatingPoint 若请求带流量，给出该流量下的单泵扬程
	OperatingPoint *hydraulics.CurvePoint `json:"operatingPoint,omitempty"`
	// System 管路特性曲线 H_sys(Q)，与 Head 同一组流量
	System []hydraulics.CurvePoint `json:"system,omitempty"`
}
