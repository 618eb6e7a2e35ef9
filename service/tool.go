package service

import (
	"fmt"
	"math"

	"pumpstation/hydraulics"
)

func powerBand(kw float64) string {
	switch {
	case kw < 10:
		return BandLow
	case kw < 30:
		return BandMedium
	default:
		return BandHigh
	}
}

func efficiencyBand(eff float64) string {
	switch {
	case eff >= 0.75:
		return BandHigh
	case eff >= 0.65:
		return BandAcceptable
	default:
		return BandLow
	}
}

// loadBand 按所需扬程占串联总扬程的比例判断
func loadBand(ratio float64) string {
	switch {
	case ratio < 0.8:
		return LoadOversized
	case ratio > 0.95:
		return LoadLimit
	default:
		return LoadOptimal
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// assess 工况点评价
func assess(r *hydraulics.SystemResult, npshAvailable *float64) Assessment {
	staged := float64(r.UnitsInSeries) * r.HeadPerUnitM
	ratio := r.RequiredHeadM / staged

	a := Assessment{
		Horsepower:     hydraulics.HorsepowerFromKW(r.PowerKW),
		StagedHeadM:    staged,
		LoadRatio:      ratio,
		LoadBand:       loadBand(ratio),
		EfficiencyBand: efficiencyBand(r.EfficiencyFraction),
		PowerBand:      powerBand(r.PowerKW),
		NPSHAvailableM: npshAvailable,
	}

	if r.LowReynolds {
		a.Warnings = append(a.Warnings, "存在雷诺数小于 2300 的管段，摩阻结果仅供参考")
	}
	if r.NPSHRequiredM != nil && npshAvailable != nil {
		margin := *npshAvailable - *r.NPSHRequiredM
		ok := margin >= 0
		a.NPSHMarginM = &margin
		a.NPSHOK = &ok
		if !ok {
			a.Warnings = append(a.Warnings, fmt.Sprintf("NPSHa %.2f m 小于 NPSHr %.2f m，存在汽蚀风险", *npshAvailable, *r.NPSHRequiredM))
		}
	}
	return a
}
