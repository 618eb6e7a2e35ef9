package handler

import (
	"mime/multipart"

	"pumpstation/hydraulics"
	"pumpstation/service"
)

type errcode int

const (
	errBadRequest errcode = 10001 + iota
	errInternalServer
	errInvalidGeometry
	errDegenerateCurve
	errInvalidEfficiency
	errInvalidFlow
	errInvalidHead
	errNoSegments
	errPumpNotFound
	errInvalidPump
)

func (e errcode) String() string {
	switch e {
	case errBadRequest:
		return "请求内容有误"
	case errInternalServer:
		return "服务处理错误"
	case errInvalidGeometry:
		return "管段几何参数不合法"
	case errDegenerateCurve:
		return "泵曲线在该流量下扬程无效"
	case errInvalidEfficiency:
		return "效率不合法"
	case errInvalidFlow:
		return "流量不合法"
	case errInvalidHead:
		return "扬程不合法"
	case errNoSegments:
		return "没有管段"
	case errPumpNotFound:
		return "泵型不存在"
	case errInvalidPump:
		return "泵型数据不合法"
	default:
		return "未知错误"
	}
}

type apiResponse struct {
	Code    errcode    `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Detail  *errDetail `json:"detail,omitempty"`
}

// errDetail 指出出错的输入，前端据此高亮对应字段
type errDetail struct {
	Index  *int    `json:"index,omitempty"`
	Name   string  `json:"name,omitempty"`
	Field  string  `json:"field,omitempty"`
	PumpID string  `json:"pumpId,omitempty"`
	Curve  string  `json:"curve,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

func success(data any) apiResponse {
	return apiResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func fail(code errcode, message string) apiResponse {
	return apiResponse{
		Code:    code,
		Message: message,
	}
}

type evaluateRequest struct {
	PumpID         string                    `json:"pumpId" binding:"required"`
	FlowLs         *float64                  `json:"flowLs" binding:"required,gte=0"`
	ManualHeadM    *float64                  `json:"manualHeadM"`
	Segments       []hydraulics.Segment      `json:"segments"`
	NPSHAvailableM *float64                  `json:"npshAvailableM"`
	Suction        *service.SuctionCondition `json:"suction"`
}

func (r evaluateRequest) input() service.EvaluateInput {
	return service.EvaluateInput{
		PumpID:         r.PumpID,
		FlowLs:         *r.FlowLs,
		ManualHeadM:    r.ManualHeadM,
		Segments:       r.Segments,
		NPSHAvailableM: r.NPSHAvailableM,
		Suction:        r.Suction,
	}
}

type curveRequest struct {
	Points   int                  `json:"points" binding:"omitempty,min=2,max=1000"`
	FlowLs   *float64             `json:"flowLs"`
	Segments []hydraulics.Segment `json:"segments"`
}

type importPumpsRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

type pumpUri struct {
	ID string `uri:"id" binding:"required"`
}
