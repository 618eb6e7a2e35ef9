package hydraulics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry 管段长度或管径不为正
	ErrInvalidGeometry = errors.New("hydraulics: invalid geometry")

	// ErrDegenerateCurve 扬程曲线在该流量下给出的单泵扬程 <= 0
	ErrDegenerateCurve = errors.New("hydraulics: degenerate curve")

	// ErrInvalidEfficiency 效率 <= 0
	ErrInvalidEfficiency = errors.New("hydraulics: invalid efficiency")

	ErrInvalidFlow = errors.New("hydraulics: invalid flow")
	ErrInvalidHead = errors.New("hydraulics: invalid head")

	// ErrNoSegments 高级模式没有管段，调用方需改用手动扬程
	ErrNoSegments = errors.New("hydraulics: no segments")
)

// SegmentError 指出哪一段管段的哪个字段不合法，前端据此高亮输入框。
type SegmentError struct {
	Index int
	Name  string
	Field string
	Value float64
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment #%d %q: %s=%g: %v", e.Index, e.Name, e.Field, e.Value, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// CurveError 指出哪台泵的哪条曲线在什么流量下不可用。
type CurveError struct {
	PumpID string
	Curve  string
	Flow   float64
	Err    error
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("pump %q %s curve at Q=%g L/s: %v", e.PumpID, e.Curve, e.Flow, e.Err)
}

func (e *CurveError) Unwrap() error { return e.Err }
