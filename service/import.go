package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pumpstation/catalog"
	"pumpstation/hydraulics"
	"pumpstation/model"
	"pumpstation/pkg/logger"
	"pumpstation/pkg/metrics"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm/clause"
)

var ErrEmptySheet = errors.New("文件内容为空")

// 导入表格列：id | brand | model | NPSHr | Q | H | eta，每行一个曲线点
const (
	colID = iota
	colBrand
	colModel
	colNPSHr
	colQ
	colH
	colEta
	importColumns
)

// ImportPumps 从 Excel 导入泵型曲线，同 id 的行合并为一台泵，整表校验通过后写库
func (s *Service) ImportPumps(file io.Reader) (*ImportPumpsResult, error) {
	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		logger.Logger.Errorf("open excel file error: %v", err)
		return nil, err
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(xlsx.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	specs, imported, skipped := parsePumpRows(rows[1:])
	if len(specs) == 0 {
		return nil, ErrEmptySheet
	}
	parsed, err := catalog.New(specs)
	if err != nil {
		return nil, err
	}

	if s.db == nil {
		s.mergeCatalog(parsed)
	} else {
		if err := s.savePumps(parsed.List()); err != nil {
			return nil, err
		}
		if err := s.ReloadCatalog(); err != nil {
			return nil, err
		}
	}

	metrics.ImportedRowsTotal.Add(float64(imported))
	return &ImportPumpsResult{
		ImportedPumps: parsed.Len(),
		ImportedRows:  imported,
		SkippedRows:   skipped,
	}, nil
}

func parsePumpRows(rows [][]string) (specs []hydraulics.PumpSpec, imported, skipped int) {
	index := make(map[string]int)
	for rowNum, row := range rows {
		if len(row) < colH+1 {
			logger.Logger.Warnf("第 %d 行列数不足（%d/%d），跳过", rowNum+2, len(row), colH+1)
			skipped++
			continue
		}
		id := strings.TrimSpace(row[colID])
		q, errQ := cast.ToFloat64E(strings.TrimSpace(row[colQ]))
		h, errH := cast.ToFloat64E(strings.TrimSpace(row[colH]))
		if id == "" || errQ != nil || errH != nil {
			logger.Logger.Warnf("第 %d 行数据格式错误，已跳过", rowNum+2)
			skipped++
			continue
		}

		i, ok := index[id]
		if !ok {
			i = len(specs)
			index[id] = i
			specs = append(specs, hydraulics.PumpSpec{
				ID:    id,
				Brand: strings.TrimSpace(row[colBrand]),
				Model: strings.TrimSpace(row[colModel]),
			})
		}
		p := &specs[i]

		if v := cell(row, colNPSHr); v != "" && p.NPSHRequiredM == nil {
			if npsh, err := cast.ToFloat64E(v); err == nil {
				p.NPSHRequiredM = &npsh
			}
		}
		p.HeadCurve = append(p.HeadCurve, hydraulics.CurvePoint{Flow: q, Value: h})
		if v := cell(row, colEta); v != "" {
			if eta, err := cast.ToFloat64E(v); err == nil {
				p.EfficiencyCurve = append(p.EfficiencyCurve, hydraulics.CurvePoint{Flow: q, Value: eta})
			}
		}
		imported++
	}
	return specs, imported, skipped
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func (s *Service) savePumps(specs []hydraulics.PumpSpec) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	batch := make([]model.Pump, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&batch).Error
		batch = batch[:0]
		return err
	}

	for _, p := range specs {
		batch = append(batch, model.PumpFromSpec(p))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				tx.Rollback()
				return fmt.Errorf("写入泵型批次时出错: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		tx.Rollback()
		return fmt.Errorf("写入最后批次时出错: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("事务提交失败: %w", err)
	}
	return nil
}
