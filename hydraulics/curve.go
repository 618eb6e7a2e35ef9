package hydraulics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

func sortedCopy(points []CurvePoint) []CurvePoint {
	sorted := make([]CurvePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Flow < sorted[j].Flow
	})
	return sorted
}

// Interpolate 在 (流量, 值) 曲线上做分段线性插值，两端截断不外推。
// 空曲线返回 0，表示“没有曲线数据”；单点曲线对任意 x 返回该点的值。
func Interpolate(x float64, points []CurvePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	p := sortedCopy(points)

	first, last := p[0], p[len(p)-1]
	if x <= first.Flow {
		return first.Value
	}
	if x >= last.Flow {
		return last.Value
	}

	for i := 0; i < len(p)-1; i++ {
		x0, x1 := p[i].Flow, p[i+1].Flow
		if x < x0 || x > x1 {
			continue
		}
		y0, y1 := p[i].Value, p[i+1].Value
		if x1 == x0 {
			return y0
		}
		return y0 + (y1-y0)*(x-x0)/(x1-x0)
	}
	return last.Value
}

// Sample 在曲线流量范围内等距取 n 个点，供 H-Q 图使用
func Sample(points []CurvePoint, n int) []CurvePoint {
	if len(points) == 0 {
		return nil
	}
	if n < 2 {
		n = 2
	}
	p := sortedCopy(points)

	flows := floats.Span(make([]float64, n), p[0].Flow, p[len(p)-1].Flow)
	out := make([]CurvePoint, n)
	for i, q := range flows {
		out[i] = CurvePoint{Flow: q, Value: Interpolate(q, p)}
	}
	return out
}
