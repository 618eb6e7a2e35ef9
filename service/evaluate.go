package service

import (
	"time"

	"pumpstation/hydraulics"
	"pumpstation/pkg/logger"
	"pumpstation/pkg/metrics"
)

// Evaluate 按当前目录中的泵型计算系统工况
func (s *Service) Evaluate(in EvaluateInput) (*Evaluation, error) {
	start := time.Now()
	req := hydraulics.EvaluationRequest{
		FlowLs:      in.FlowLs,
		ManualHeadM: in.ManualHeadM,
		Segments:    in.Segments,
	}
	mode := string(req.Mode())

	ev, err := s.evaluate(req, in)
	status := "success"
	if err != nil {
		status = "error"
		logger.Logger.Warnw("工况计算失败", "pumpId", in.PumpID, "mode", mode, "flowLs", in.FlowLs, "error", err)
	}
	metrics.RecordEvaluation(mode, status, time.Since(start))
	return ev, err
}

func (s *Service) evaluate(req hydraulics.EvaluationRequest, in EvaluateInput) (*Evaluation, error) {
	pump, err := s.GetPump(in.PumpID)
	if err != nil {
		return nil, err
	}
	req.Pump = pump

	result, err := hydraulics.EvaluateSystem(req)
	if err != nil {
		return nil, err
	}

	npsha := in.NPSHAvailableM
	if npsha == nil && in.Suction != nil {
		v, err := calcNPSHAvailable(in.FlowLs, *in.Suction)
		if err != nil {
			return nil, err
		}
		npsha = &v
	}

	return &Evaluation{
		Pump: PumpSummary{
			ID:    pump.ID,
			Brand: pump.Brand,
			Model: pump.Model,
		},
		Result:     result,
		Assessment: assess(result, npsha),
	}, nil
}
