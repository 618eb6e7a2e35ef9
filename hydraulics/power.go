package hydraulics

// HydraulicPowerKW 轴功率 P = ρ·g·Q·H/η，返回 kW
func HydraulicPowerKW(flowLs, headM, efficiency float64) (float64, error) {
	if !(efficiency > 0) {
		return 0, ErrInvalidEfficiency
	}
	q := flowLs / 1000.0
	pw := Rho * G * q * headM / efficiency
	return pw / 1000.0, nil
}

func HorsepowerFromKW(kw float64) float64 {
	return kw * KWToHP
}
