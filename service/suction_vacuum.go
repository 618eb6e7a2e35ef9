package service

import (
	"pumpstation/hydraulics"
)

// SuctionCondition 吸入侧条件，用于计算装置汽蚀余量 NPSHa
type SuctionCondition struct {
	PatmPa float64 `json:"patmPa"` // 液面压力，Pa（默认 101325）
	// VaporPressurePa 饱和蒸汽压，Pa（默认 20°C 清水 2339）
	VaporPressurePa float64 `json:"vaporPressurePa"`
	// StaticHeadM 液面高于泵中心线为正（灌注），低于为负（吸上）
	StaticHeadM float64              `json:"staticHeadM"`
	Segments    []hydraulics.Segment `json:"segments,omitempty"`
}

const (
	defaultPatmPa        = 101325.0
	defaultVaporPressure = 2339.0
)

func (c SuctionCondition) withDefaults() SuctionCondition {
	if c.PatmPa == 0 {
		c.PatmPa = defaultPatmPa
	}
	if c.VaporPressurePa == 0 {
		c.VaporPressurePa = defaultVaporPressure
	}
	return c
}

// calcNPSHAvailable NPSHa = (Patm - Pv)/(ρg) + Hs - 吸入管沿程及局部损失
// 吸入管段的高差不计入，静压头统一由 StaticHeadM 给出
func calcNPSHAvailable(flowLs float64, c SuctionCondition) (float64, error) {
	c = c.withDefaults()
	pressureHead := (c.PatmPa - c.VaporPressurePa) / (hydraulics.Rho * hydraulics.G)

	var losses float64
	if len(c.Segments) > 0 {
		_, segs, err := hydraulics.TotalRequiredHead(flowLs, c.Segments)
		if err != nil {
			return 0, err
		}
		for _, s := range segs {
			losses += s.FrictionLossM + s.MinorLossM
		}
	}
	return pressureHead + c.StaticHeadM - losses, nil
}
