// Package catalog 泵型目录：加载一次，会话期间只读。
package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"pumpstation/hydraulics"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidPump = errors.New("catalog: invalid pump")
	ErrDuplicateID = errors.New("catalog: duplicate pump id")
	ErrNotFound    = errors.New("catalog: pump not found")
)

// PumpError 指出目录中哪台泵的哪个字段不合法
type PumpError struct {
	Index  int
	PumpID string
	Field  string
	Err    error
}

func (e *PumpError) Error() string {
	return fmt.Sprintf("pump #%d %q: %s: %v", e.Index, e.PumpID, e.Field, e.Err)
}

func (e *PumpError) Unwrap() error { return e.Err }

// Catalog 不可变；替换目录时整体新建一个。
type Catalog struct {
	pumps []hydraulics.PumpSpec
	index map[string]int
}

// 外部目录文件格式 [{id, brand, model, curva:[{Q,H}], efficiency:[{Q,eta}], NPSHr}]
type (
	pumpDoc struct {
		ID         string    `json:"id"`
		Brand      string    `json:"brand"`
		Model      string    `json:"model"`
		Curva      []headDoc `json:"curva"`
		Efficiency []etaDoc  `json:"efficiency,omitempty"`
		NPSHr      *float64  `json:"NPSHr,omitempty"`
	}
	headDoc struct {
		Q float64 `json:"Q"`
		H float64 `json:"H"`
	}
	etaDoc struct {
		Q   float64 `json:"Q"`
		Eta float64 `json:"eta"`
	}
)

func (d pumpDoc) spec() hydraulics.PumpSpec {
	p := hydraulics.PumpSpec{
		ID:            d.ID,
		Brand:         d.Brand,
		Model:         d.Model,
		NPSHRequiredM: d.NPSHr,
	}
	for _, c := range d.Curva {
		p.HeadCurve = append(p.HeadCurve, hydraulics.CurvePoint{Flow: c.Q, Value: c.H})
	}
	for _, e := range d.Efficiency {
		p.EfficiencyCurve = append(p.EfficiencyCurve, hydraulics.CurvePoint{Flow: e.Q, Value: e.Eta})
	}
	return p
}

func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Catalog, error) {
	var docs []pumpDoc
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode pump catalog: %w", err)
	}
	specs := make([]hydraulics.PumpSpec, 0, len(docs))
	for _, d := range docs {
		specs = append(specs, d.spec())
	}
	return New(specs)
}

// New 校验并建立索引，入参会被深拷贝。
func New(specs []hydraulics.PumpSpec) (*Catalog, error) {
	c := &Catalog{
		pumps: make([]hydraulics.PumpSpec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for i, p := range specs {
		if err := Validate(i, p); err != nil {
			return nil, err
		}
		if _, ok := c.index[p.ID]; ok {
			return nil, &PumpError{Index: i, PumpID: p.ID, Field: "id", Err: ErrDuplicateID}
		}
		c.index[p.ID] = len(c.pumps)
		c.pumps = append(c.pumps, clone(p))
	}
	return c, nil
}

// Validate 目录边界校验：id 非空，扬程曲线非空，Q>=0，效率在 (0,1]，NPSHr>=0
func Validate(i int, p hydraulics.PumpSpec) error {
	fail := func(field string, format string, args ...any) error {
		return &PumpError{Index: i, PumpID: p.ID, Field: field, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidPump}, args...)...)}
	}

	if p.ID == "" {
		return fail("id", "empty id")
	}
	if len(p.HeadCurve) == 0 {
		return fail("curva", "empty head curve")
	}
	for j, pt := range p.HeadCurve {
		if !finite(pt.Flow) || pt.Flow < 0 || !finite(pt.Value) {
			return fail("curva", "point %d (Q=%g, H=%g)", j, pt.Flow, pt.Value)
		}
	}
	for j, pt := range p.EfficiencyCurve {
		if !finite(pt.Flow) || pt.Flow < 0 || !(pt.Value > 0 && pt.Value <= 1) {
			return fail("efficiency", "point %d (Q=%g, eta=%g)", j, pt.Flow, pt.Value)
		}
	}
	if p.NPSHRequiredM != nil && (!finite(*p.NPSHRequiredM) || *p.NPSHRequiredM < 0) {
		return fail("NPSHr", "%g", *p.NPSHRequiredM)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clone(p hydraulics.PumpSpec) hydraulics.PumpSpec {
	out := p
	out.HeadCurve = append([]hydraulics.CurvePoint(nil), p.HeadCurve...)
	if p.EfficiencyCurve != nil {
		out.EfficiencyCurve = append([]hydraulics.CurvePoint(nil), p.EfficiencyCurve...)
	}
	if p.NPSHRequiredM != nil {
		v := *p.NPSHRequiredM
		out.NPSHRequiredM = &v
	}
	return out
}

// Get 返回泵型副本，调用方修改不会影响目录
func (c *Catalog) Get(id string) (hydraulics.PumpSpec, error) {
	i, ok := c.index[id]
	if !ok {
		return hydraulics.PumpSpec{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return clone(c.pumps[i]), nil
}

func (c *Catalog) List() []hydraulics.PumpSpec {
	out := make([]hydraulics.PumpSpec, len(c.pumps))
	for i, p := range c.pumps {
		out[i] = clone(p)
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.pumps)
}

// Merge 以 c 为底，other 中同 id 的泵型覆盖 c 的
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{index: make(map[string]int, c.Len()+other.Len())}
	for _, p := range c.pumps {
		if _, ok := other.index[p.ID]; ok {
			continue
		}
		out.index[p.ID] = len(out.pumps)
		out.pumps = append(out.pumps, clone(p))
	}
	for _, p := range other.pumps {
		out.index[p.ID] = len(out.pumps)
		out.pumps = append(out.pumps, clone(p))
	}
	return out
}

func Empty() *Catalog {
	return &Catalog{index: map[string]int{}}
}
