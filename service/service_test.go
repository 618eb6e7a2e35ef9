package service

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pumpstation/catalog"
	"pumpstation/hydraulics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pumpsJSON = `[
  {"id": "p1", "brand": "KSB", "model": "Etanorm",
   "curva": [{"Q": 0, "H": 60}, {"Q": 100, "H": 40}],
   "efficiency": [{"Q": 0, "eta": 0.5}, {"Q": 50, "eta": 0.8}, {"Q": 100, "eta": 0.6}],
   "NPSHr": 4.5},
  {"id": "p2", "brand": "Grundfos", "model": "NK",
   "curva": [{"Q": 0, "H": 120}, {"Q": 50, "H": 110}, {"Q": 100, "H": 80}]}
]`

func ptr(v float64) *float64 { return &v }

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pumps.json")
	require.NoError(t, os.WriteFile(path, []byte(pumpsJSON), 0o644))

	s := NewService(nil, path)
	require.NoError(t, s.ReloadCatalog())
	return s
}

func TestReloadCatalog(t *testing.T) {
	s := newTestService(t)
	assert.Equal(t, 2, s.Catalog().Len())

	bad := NewService(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, bad.ReloadCatalog())
	assert.Equal(t, 0, bad.Catalog().Len())
}

func TestEvaluate_Basic(t *testing.T) {
	s := newTestService(t)

	ev, err := s.Evaluate(EvaluateInput{PumpID: "p1", FlowLs: 50, ManualHeadM: ptr(105)})
	require.NoError(t, err)

	assert.Equal(t, "KSB", ev.Pump.Brand)
	assert.Equal(t, 3, ev.Result.UnitsInSeries)
	assert.InDelta(t, 0.8, ev.Result.EfficiencyFraction, 1e-12)
	assert.InDelta(t, 1000*9.81*0.05*105/0.8/1000, ev.Result.PowerKW, 1e-9)

	a := ev.Assessment
	assert.InDelta(t, 150, a.StagedHeadM, 1e-9)
	assert.InDelta(t, 0.7, a.LoadRatio, 1e-9)
	assert.Equal(t, LoadOversized, a.LoadBand)
	assert.Equal(t, BandHigh, a.EfficiencyBand)
	assert.Equal(t, BandHigh, a.PowerBand)
	assert.InDelta(t, ev.Result.PowerKW*hydraulics.KWToHP, a.Horsepower, 1e-9)
	assert.Nil(t, a.NPSHOK)
}

func TestEvaluate_Advanced(t *testing.T) {
	s := newTestService(t)

	ev, err := s.Evaluate(EvaluateInput{
		PumpID: "p2",
		FlowLs: 50,
		Segments: []hydraulics.Segment{
			{Name: "impulsion", LengthM: 100, DiameterM: 0.15, ElevationDeltaM: 90},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, hydraulics.ModeAdvanced, ev.Result.Mode)
	assert.InDelta(t, 94.52, ev.Result.RequiredHeadM, 0.05)
	assert.Equal(t, 1, ev.Result.UnitsInSeries)
	assert.Equal(t, hydraulics.DefaultEfficiency, ev.Result.EfficiencyFraction)
	assert.Equal(t, LoadOptimal, ev.Assessment.LoadBand)
}

func TestEvaluate_Errors(t *testing.T) {
	s := newTestService(t)

	_, err := s.Evaluate(EvaluateInput{PumpID: "nope", FlowLs: 50, ManualHeadM: ptr(10)})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.True(t, IsInputError(err))

	_, err = s.Evaluate(EvaluateInput{PumpID: "p1", FlowLs: 50})
	assert.ErrorIs(t, err, hydraulics.ErrInvalidHead)

	_, err = s.Evaluate(EvaluateInput{PumpID: "p1", FlowLs: 50, Segments: []hydraulics.Segment{{Name: "x", LengthM: 10}}})
	assert.ErrorIs(t, err, hydraulics.ErrInvalidGeometry)
	assert.True(t, IsInputError(err))
}

func TestEvaluate_NPSH(t *testing.T) {
	s := newTestService(t)

	ev, err := s.Evaluate(EvaluateInput{PumpID: "p1", FlowLs: 50, ManualHeadM: ptr(40), NPSHAvailableM: ptr(3)})
	require.NoError(t, err)
	require.NotNil(t, ev.Assessment.NPSHOK)
	assert.False(t, *ev.Assessment.NPSHOK)
	assert.InDelta(t, -1.5, *ev.Assessment.NPSHMarginM, 1e-12)
	assert.NotEmpty(t, ev.Assessment.Warnings)

	ev, err = s.Evaluate(EvaluateInput{
		PumpID:      "p1",
		FlowLs:      50,
		ManualHeadM: ptr(40),
		Suction:     &SuctionCondition{StaticHeadM: -2},
	})
	require.NoError(t, err)
	require.NotNil(t, ev.Assessment.NPSHAvailableM)
	assert.InDelta(t, (101325.0-2339.0)/(1000*9.81)-2, *ev.Assessment.NPSHAvailableM, 1e-9)
	assert.True(t, *ev.Assessment.NPSHOK)
}

func TestCalcNPSHAvailable_SuctionLosses(t *testing.T) {
	seg := hydraulics.Segment{LengthM: 10, DiameterM: 0.15, ElevationDeltaM: 100, MinorLossCoefficient: 1}
	got, err := calcNPSHAvailable(50, SuctionCondition{PatmPa: 101325, VaporPressurePa: 2339, StaticHeadM: 1, Segments: []hydraulics.Segment{seg}})
	require.NoError(t, err)

	loss, err := hydraulics.SegmentLoss(50, seg)
	require.NoError(t, err)
	want := (101325.0-2339.0)/(1000*9.81) + 1 - loss.FrictionLossM - loss.MinorLossM
	assert.InDelta(t, want, got, 1e-9)
}

func TestBands(t *testing.T) {
	assert.Equal(t, BandLow, powerBand(9.99))
	assert.Equal(t, BandMedium, powerBand(10))
	assert.Equal(t, BandHigh, powerBand(30))

	assert.Equal(t, BandHigh, efficiencyBand(0.75))
	assert.Equal(t, BandAcceptable, efficiencyBand(0.65))
	assert.Equal(t, BandLow, efficiencyBand(0.64))

	assert.Equal(t, LoadOversized, loadBand(0.79))
	assert.Equal(t, LoadOptimal, loadBand(0.8))
	assert.Equal(t, LoadOptimal, loadBand(0.95))
	assert.Equal(t, LoadLimit, loadBand(0.96))
}

func TestPumpCurve(t *testing.T) {
	s := newTestService(t)

	pc, err := s.PumpCurve("p2", 5, ptr(25), nil)
	require.NoError(t, err)
	assert.Len(t, pc.Head, 5)
	assert.Nil(t, pc.Efficiency)
	require.NotNil(t, pc.OperatingPoint)
	assert.InDelta(t, 115, pc.OperatingPoint.Value, 1e-12)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = s.PumpCurve("p2", 5, ptr(bad), nil)
		assert.ErrorIs(t, err, hydraulics.ErrInvalidFlow, "flow=%v", bad)
	}

	_, err = s.PumpCurve("nope", 5, nil, nil)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPumpCurve_System(t *testing.T) {
	s := newTestService(t)
	segs := []hydraulics.Segment{{Name: "impulsion", LengthM: 100, DiameterM: 0.15, ElevationDeltaM: 90}}

	pc, err := s.PumpCurve("p2", 3, nil, segs)
	require.NoError(t, err)
	require.Len(t, pc.System, 3)
	for i, pt := range pc.System {
		assert.Equal(t, pc.Head[i].Flow, pt.Flow)
	}
	assert.InDelta(t, 90, pc.System[0].Value, 1e-9)
	assert.InDelta(t, 94.52, pc.System[1].Value, 0.05)

	_, err = s.PumpCurve("p2", 3, nil, []hydraulics.Segment{{Name: "x", LengthM: 1}})
	assert.ErrorIs(t, err, hydraulics.ErrInvalidGeometry)
}

func buildImportSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestImportPumps(t *testing.T) {
	s := newTestService(t)

	buf := buildImportSheet(t, [][]any{
		{"id", "brand", "model", "NPSHr", "Q", "H", "eta"},
		{"p3", "Ebara", "3M", 3.1, 0, 50, 0.4},
		{"p3", "Ebara", "3M", "", 20, 45, 0.7},
		{"p3", "Ebara", "3M", "", 40, 30, 0.6},
		{"p1", "KSB", "Etanorm v2", "", 0, 70},
		{"", "bad", "row", "", 1, 1},
		{"p4", "x", "y", "", "abc", 10},
	})

	res, err := s.ImportPumps(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedPumps)
	assert.Equal(t, 4, res.ImportedRows)
	assert.Equal(t, 2, res.SkippedRows)

	assert.Equal(t, 3, s.Catalog().Len())
	p3, err := s.GetPump("p3")
	require.NoError(t, err)
	assert.Len(t, p3.HeadCurve, 3)
	assert.Len(t, p3.EfficiencyCurve, 3)
	require.NotNil(t, p3.NPSHRequiredM)
	assert.Equal(t, 3.1, *p3.NPSHRequiredM)

	p1, err := s.GetPump("p1")
	require.NoError(t, err)
	assert.Equal(t, "Etanorm v2", p1.Model)
	assert.Nil(t, p1.EfficiencyCurve)
}

func TestImportPumps_Empty(t *testing.T) {
	s := newTestService(t)

	_, err := s.ImportPumps(buildImportSheet(t, [][]any{{"id", "brand", "model", "NPSHr", "Q", "H", "eta"}}))
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestImportPumps_InvalidEfficiency(t *testing.T) {
	s := newTestService(t)

	_, err := s.ImportPumps(buildImportSheet(t, [][]any{
		{"id", "brand", "model", "NPSHr", "Q", "H", "eta"},
		{"p9", "x", "y", "", 0, 50, 78},
	}))
	assert.ErrorIs(t, err, catalog.ErrInvalidPump)
	assert.Equal(t, 2, s.Catalog().Len())
}

func TestExportEvaluation(t *testing.T) {
	s := newTestService(t)
	ev, err := s.Evaluate(EvaluateInput{
		PumpID:   "p2",
		FlowLs:   50,
		Segments: []hydraulics.Segment{{Name: "tramo 1", LengthM: 100, DiameterM: 0.15, ElevationDeltaM: 20}},
	})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, s.ExportEvaluation(buf, ev))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Equal(t, "泵站选型计算", rows[0][0])
	assert.Equal(t, "tramo 1", rows[6][0])

	found := false
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "串联台数" {
			found = true
			assert.Equal(t, "1", row[1])
		}
	}
	assert.True(t, found)
}

func TestImportPumps_Concurrent(t *testing.T) {
	s := newTestService(t)

	const n = 8
	sheets := make([]*bytes.Buffer, n)
	for i := range sheets {
		sheets[i] = buildImportSheet(t, [][]any{
			{"id", "brand", "model", "NPSHr", "Q", "H", "eta"},
			{fmt.Sprintf("c%d", i), "x", "y", "", 0, 40},
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range sheets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.ImportPumps(sheets[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 2+n, s.Catalog().Len())
}

func TestImportPumps_BeginFails(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:x@tcp(127.0.0.1:1)/pumpstation?timeout=1s",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)

	s := NewService(db, "")
	_, err = s.ImportPumps(buildImportSheet(t, [][]any{
		{"id", "brand", "model", "NPSHr", "Q", "H", "eta"},
		{"p1", "x", "y", "", 0, 40},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "开启事务失败")
	assert.Equal(t, 0, s.Catalog().Len())
}

func TestEvaluate_Concurrent(t *testing.T) {
	s := newTestService(t)
	in := EvaluateInput{
		PumpID:   "p2",
		FlowLs:   50,
		Segments: []hydraulics.Segment{{Name: "impulsion", LengthM: 100, DiameterM: 0.15, ElevationDeltaM: 90}},
	}
	want, err := s.Evaluate(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Evaluation, 32)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				_ = s.ReloadCatalog()
			}
			results[i], errs[i] = s.Evaluate(in)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want.Result, results[i].Result)
	}
}
