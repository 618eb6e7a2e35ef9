package handler

import (
	"errors"
	"net/http"

	"pumpstation/catalog"
	"pumpstation/hydraulics"
	"pumpstation/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

const requestIDHeader = "X-Request-ID"

// requestID 为每个请求生成 id，日志和响应头共用
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func codeOf(err error) errcode {
	switch {
	case errors.Is(err, hydraulics.ErrInvalidGeometry):
		return errInvalidGeometry
	case errors.Is(err, hydraulics.ErrDegenerateCurve):
		return errDegenerateCurve
	case errors.Is(err, hydraulics.ErrInvalidEfficiency):
		return errInvalidEfficiency
	case errors.Is(err, hydraulics.ErrInvalidFlow):
		return errInvalidFlow
	case errors.Is(err, hydraulics.ErrInvalidHead):
		return errInvalidHead
	case errors.Is(err, hydraulics.ErrNoSegments):
		return errNoSegments
	case errors.Is(err, catalog.ErrNotFound):
		return errPumpNotFound
	case errors.Is(err, catalog.ErrInvalidPump), errors.Is(err, catalog.ErrDuplicateID):
		return errInvalidPump
	case service.IsInputError(err):
		return errBadRequest
	default:
		return errInternalServer
	}
}

func detailOf(err error) *errDetail {
	var segErr *hydraulics.SegmentError
	if errors.As(err, &segErr) {
		idx := segErr.Index
		return &errDetail{Index: &idx, Name: segErr.Name, Field: segErr.Field, Value: segErr.Value}
	}
	var curveErr *hydraulics.CurveError
	if errors.As(err, &curveErr) {
		return &errDetail{PumpID: curveErr.PumpID, Curve: curveErr.Curve, Value: curveErr.Flow}
	}
	var pumpErr *catalog.PumpError
	if errors.As(err, &pumpErr) {
		idx := pumpErr.Index
		return &errDetail{Index: &idx, PumpID: pumpErr.PumpID, Field: pumpErr.Field}
	}
	return nil
}

// failWith 按错误类型选择状态码：输入问题 422/404，其余 500
func failWith(c *gin.Context, err error) {
	code := codeOf(err)
	status := http.StatusUnprocessableEntity
	switch code {
	case errInternalServer:
		status = http.StatusInternalServerError
	case errPumpNotFound:
		status = http.StatusNotFound
	}
	resp := fail(code, err.Error())
	resp.Detail = detailOf(err)
	c.JSON(status, resp)
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return cast.ToIntE(raw)
}
