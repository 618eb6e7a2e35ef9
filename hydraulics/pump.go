package hydraulics

import "math"

// seriesTolerance 吸收 required/perUnit 的浮点误差，如 1.1/0.1=11.000000000000002
const seriesTolerance = 1e-9

// EvaluatePump 返回给定流量下单泵扬程和效率。
// 没有效率曲线或插值结果 <=0 时使用 DefaultEfficiency。
func EvaluatePump(flowLs float64, pump PumpSpec) (headPerUnitM, efficiency float64) {
	headPerUnitM = Interpolate(flowLs, pump.HeadCurve)

	efficiency = DefaultEfficiency
	if len(pump.EfficiencyCurve) > 0 {
		if eta := Interpolate(flowLs, pump.EfficiencyCurve); eta > 0 {
			efficiency = math.Min(eta, 1)
		}
	}
	return headPerUnitM, efficiency
}

// UnitsInSeries 返回满足 n*headPerUnit >= required 的最小整数 n，至少为 1。
func UnitsInSeries(requiredHeadM, headPerUnitM float64) (int, error) {
	if !(headPerUnitM > 0) {
		return 0, ErrDegenerateCurve
	}
	if math.IsNaN(requiredHeadM) || math.IsInf(requiredHeadM, 0) {
		return 0, ErrInvalidHead
	}
	if requiredHeadM <= 0 {
		return 1, nil
	}
	n := int(math.Ceil(requiredHeadM/headPerUnitM - seriesTolerance))
	if n < 1 {
		n = 1
	}
	return n, nil
}
