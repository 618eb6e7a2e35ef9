package service

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"pumpstation/catalog"
	"pumpstation/hydraulics"
	"pumpstation/model"
	"pumpstation/pkg/logger"
	"pumpstation/pkg/metrics"

	"gorm.io/gorm"
)

const batchSize = 400

type Service struct {
	db          *gorm.DB
	catalogPath string
	cat         atomic.Pointer[catalog.Catalog]
	// mu 串行化目录写入（重新加载、导入合并），读取不加锁
	mu sync.Mutex
}

// NewService db 可为 nil，此时只使用 JSON 目录文件
func NewService(db *gorm.DB, catalogPath string) *Service {
	s := &Service{
		db:          db,
		catalogPath: catalogPath,
	}
	s.cat.Store(catalog.Empty())
	return s
}

// Catalog 当前会话的泵型目录快照
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat.Load()
}

// SetCatalog 直接替换目录，供 CLI 和测试使用
func (s *Service) SetCatalog(c *catalog.Catalog) {
	s.cat.Store(c)
	metrics.RecordCatalog(c.Len(), nil)
}

// mergeCatalog 把导入结果合并进当前目录
func (s *Service) mergeCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCatalog(s.Catalog().Merge(c))
}

// ReloadCatalog 重新构建目录：JSON 文件为底，数据库同 id 记录覆盖文件中的
func (s *Service) ReloadCatalog() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.buildCatalog()
	metrics.RecordCatalog(catalogLen(c), err)
	if err != nil {
		logger.Logger.Errorf("加载泵型目录失败: %v", err)
		return err
	}
	s.cat.Store(c)
	logger.Logger.Infof("泵型目录已加载，共 %d 台", c.Len())
	return nil
}

func catalogLen(c *catalog.Catalog) int {
	if c == nil {
		return 0
	}
	return c.Len()
}

func (s *Service) buildCatalog() (*catalog.Catalog, error) {
	base := catalog.Empty()
	if s.catalogPath != "" {
		c, err := catalog.Load(s.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("目录文件 %s: %w", s.catalogPath, err)
		}
		base = c
	}
	if s.db == nil {
		return base, nil
	}

	var rows []model.Pump
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询泵型表失败: %w", err)
	}
	specs := make([]hydraulics.PumpSpec, 0, len(rows))
	for i := range rows {
		specs = append(specs, rows[i].Spec())
	}
	fromDB, err := catalog.New(specs)
	if err != nil {
		return nil, err
	}
	return base.Merge(fromDB), nil
}

func (s *Service) ListPumps() []hydraulics.PumpSpec {
	return s.Catalog().List()
}

func (s *Service) GetPump(id string) (hydraulics.PumpSpec, error) {
	return s.Catalog().Get(id)
}

// PumpCurve 在曲线流量范围内取样，flowLs 非空时附带该流量下的工况点；
// segments 非空时按同一组流量计算管路特性曲线
func (s *Service) PumpCurve(id string, points int, flowLs *float64, segments []hydraulics.Segment) (*PumpCurve, error) {
	p, err := s.GetPump(id)
	if err != nil {
		return nil, err
	}
	pc := &PumpCurve{
		PumpID:     p.ID,
		Head:       hydraulics.Sample(p.HeadCurve, points),
		Efficiency: hydraulics.Sample(p.EfficiencyCurve, points),
	}
	if flowLs != nil {
		if !hydraulics.ValidFlow(*flowLs) {
			return nil, hydraulics.ErrInvalidFlow
		}
		head, _ := hydraulics.EvaluatePump(*flowLs, p)
		pc.OperatingPoint = &hydraulics.CurvePoint{Flow: *flowLs, Value: head}
	}
	if len(segments) > 0 {
		pc.System = make([]hydraulics.CurvePoint, 0, len(pc.Head))
		for _, pt := range pc.Head {
			h, _, err := hydraulics.TotalRequiredHead(pt.Flow, segments)
			if err != nil {
				return nil, err
			}
			pc.System = append(pc.System, hydraulics.CurvePoint{Flow: pt.Flow, Value: h})
		}
	}
	return pc, nil
}

// IsInputError 判断是否为调用方输入问题（而非服务内部错误）
func IsInputError(err error) bool {
	for _, target := range []error{
		hydraulics.ErrInvalidGeometry,
		hydraulics.ErrDegenerateCurve,
		hydraulics.ErrInvalidEfficiency,
		hydraulics.ErrInvalidFlow,
		hydraulics.ErrInvalidHead,
		hydraulics.ErrNoSegments,
		catalog.ErrInvalidPump,
		catalog.ErrDuplicateID,
		catalog.ErrNotFound,
		ErrEmptySheet,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
