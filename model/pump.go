package model

import (
	"time"

	"pumpstation/hydraulics"
)

const TableNamePump = "pumps"

// Pump 泵型目录表，曲线以 JSON 存储
type Pump struct {
	ID              string                  `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	CreatedAt       time.Time               `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time               `gorm:"column:updated_at" json:"updatedAt"`
	Brand           string                  `gorm:"column:brand;type:varchar(128)" json:"brand"`
	Model           string                  `gorm:"column:model;type:varchar(128)" json:"model"`
	HeadCurve       []hydraulics.CurvePoint `gorm:"column:head_curve;type:text;serializer:json" json:"headCurve"`
	EfficiencyCurve []hydraulics.CurvePoint `gorm:"column:efficiency_curve;type:text;serializer:json" json:"efficiencyCurve"`
	NPSHRequired    *float64                `gorm:"column:npsh_required" json:"npshRequired"`
}

func (*Pump) TableName() string {
	return TableNamePump
}

func (p *Pump) Spec() hydraulics.PumpSpec {
	return hydraulics.PumpSpec{
		ID:              p.ID,
		Brand:           p.Brand,
		Model:           p.Model,
		HeadCurve:       p.HeadCurve,
		EfficiencyCurve: p.EfficiencyCurve,
		NPSHRequiredM:   p.NPSHRequired,
	}
}

func PumpFromSpec(s hydraulics.PumpSpec) Pump {
	return Pump{
		ID:              s.ID,
		Brand:           s.Brand,
		Model:           s.Model,
		HeadCurve:       s.HeadCurve,
		EfficiencyCurve: s.EfficiencyCurve,
		NPSHRequired:    s.NPSHRequiredM,
	}
}
