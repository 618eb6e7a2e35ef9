package hydraulics

import (
	"fmt"
	"math"
)

// EvaluateSystem 依次计算所需扬程、单泵工况点、串联台数和功率。
// 纯函数，不保留任何状态，可并发调用。
func EvaluateSystem(req EvaluationRequest) (*SystemResult, error) {
	if !ValidFlow(req.FlowLs) {
		return nil, ErrInvalidFlow
	}
	if len(req.Pump.HeadCurve) == 0 {
		return nil, &CurveError{PumpID: req.Pump.ID, Curve: CurveHead, Flow: req.FlowLs, Err: ErrDegenerateCurve}
	}

	result := &SystemResult{
		Mode:          req.Mode(),
		FlowLs:        req.FlowLs,
		NPSHRequiredM: req.Pump.NPSHRequiredM,
	}

	switch result.Mode {
	case ModeAdvanced:
		head, segs, err := TotalRequiredHead(req.FlowLs, req.Segments)
		if err != nil {
			return nil, err
		}
		// 下坡管网总水头为负，视为扬程不合法
		if head < 0 {
			return nil, fmt.Errorf("%w: network head %.2f m is negative", ErrInvalidHead, head)
		}
		result.RequiredHeadM = head
		result.SegmentResults = segs
		for _, s := range segs {
			if Laminar(s.Reynolds) {
				result.LowReynolds = true
			}
		}
	default:
		if req.ManualHeadM == nil {
			return nil, ErrInvalidHead
		}
		h := *req.ManualHeadM
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return nil, ErrInvalidHead
		}
		result.RequiredHeadM = h
		result.SegmentResults = []SegmentLossResult{}
	}

	perUnit, eff := EvaluatePump(req.FlowLs, req.Pump)
	units, err := UnitsInSeries(result.RequiredHeadM, perUnit)
	if err != nil {
		return nil, &CurveError{PumpID: req.Pump.ID, Curve: CurveHead, Flow: req.FlowLs, Err: err}
	}
	power, err := HydraulicPowerKW(req.FlowLs, result.RequiredHeadM, eff)
	if err != nil {
		return nil, &CurveError{PumpID: req.Pump.ID, Curve: CurveEfficiency, Flow: req.FlowLs, Err: err}
	}

	result.HeadPerUnitM = perUnit
	result.EfficiencyFraction = eff
	result.UnitsInSeries = units
	result.PowerKW = power
	return result, nil
}
