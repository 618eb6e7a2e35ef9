package service

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "结果"

// ExportEvaluation 把一次计算结果写成 xlsx：表头、管段表、结果汇总
func (s *Service) ExportEvaluation(w io.Writer, ev *Evaluation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	r := ev.Result
	rows := [][]any{
		{"泵站选型计算"},
		{"日期", time.Now().Format(time.DateTime)},
		{"泵型", ev.Pump.ID, ev.Pump.Brand, ev.Pump.Model},
		{"模式", string(r.Mode)},
		{},
		{"管段", "长度 (m)", "管径 (m)", "高差 (m)", "局部阻力系数", "流速 (m/s)", "雷诺数", "摩阻系数", "沿程损失 (m)", "局部损失 (m)", "总损失 (m)"},
	}
	for _, sr := range r.SegmentResults {
		seg := sr.Segment
		rows = append(rows, []any{
			seg.Name, seg.LengthM, seg.DiameterM, seg.ElevationDeltaM, seg.MinorLossCoefficient,
			round2(sr.VelocityMS), round2(sr.Reynolds), sr.FrictionFactor,
			round2(sr.FrictionLossM), round2(sr.MinorLossM), round2(sr.TotalLossM),
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"流量 (L/s)", r.FlowLs},
		[]any{"所需扬程 (m)", round2(r.RequiredHeadM)},
		[]any{"单泵扬程 (m)", round2(r.HeadPerUnitM)},
		[]any{"串联台数", r.UnitsInSeries},
		[]any{"效率", round2(r.EfficiencyFraction * 100)},
		[]any{"功率 (kW)", round2(r.PowerKW)},
		[]any{"功率 (hp)", round2(ev.Assessment.Horsepower)},
		[]any{"负荷率", round2(ev.Assessment.LoadRatio * 100)},
	)
	if r.NPSHRequiredM != nil {
		rows = append(rows, []any{"NPSHr (m)", *r.NPSHRequiredM})
	}
	if ev.Assessment.NPSHAvailableM != nil {
		rows = append(rows, []any{"NPSHa (m)", round2(*ev.Assessment.NPSHAvailableM)})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
