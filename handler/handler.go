package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"pumpstation/pkg/logger"
	"pumpstation/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc         *service.Service
	chartPoints int
}

func NewHandler(svc *service.Service, chartPoints int) *Handler {
	if chartPoints < 2 {
		chartPoints = 50
	}
	return &Handler{svc: svc, chartPoints: chartPoints}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(requestID())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/v1")
	{
		api.POST("/evaluate", h.Evaluate)
		api.POST("/evaluate/export", h.ExportEvaluation)
		api.GET("/pumps", h.ListPumps)
		api.GET("/pumps/:id", h.GetPump)
		api.GET("/pumps/:id/curve", h.GetPumpCurve)
		api.POST("/pumps/:id/curve", h.PostPumpCurve)
		api.POST("/pumps/import", h.ImportPumps)
		api.POST("/pumps/reload", h.ReloadCatalog)
	}
}

func (h *Handler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	ev, err := h.svc.Evaluate(req.input())
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(ev))
}

func (h *Handler) ExportEvaluation(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	ev, err := h.svc.Evaluate(req.input())
	if err != nil {
		failWith(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.ExportEvaluation(&buf, ev); err != nil {
		logger.Logger.Errorf("导出计算结果失败: %v", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}

	name := fmt.Sprintf("pumping_%s.xlsx", uuid.NewString())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) ListPumps(c *gin.Context) {
	c.JSON(http.StatusOK, success(h.svc.ListPumps()))
}

func (h *Handler) GetPump(c *gin.Context) {
	var uri pumpUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	p, err := h.svc.GetPump(uri.ID)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(p))
}

// GetPumpCurve ?points=取样点数&flow=工况流量(L/s)
func (h *Handler) GetPumpCurve(c *gin.Context) {
	var uri pumpUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	points, err := queryInt(c, "points", h.chartPoints)
	if err != nil || points < 2 || points > 1000 {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, "invalid points"))
		return
	}
	flow, err := queryFloat(c, "flow")
	if err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, "invalid flow"))
		return
	}

	curve, err := h.svc.PumpCurve(uri.ID, points, flow, nil)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(curve))
}

// PostPumpCurve 同 GetPumpCurve，请求体带管段时附带管路特性曲线
func (h *Handler) PostPumpCurve(c *gin.Context) {
	var uri pumpUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	var req curveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	points := req.Points
	if points == 0 {
		points = h.chartPoints
	}

	curve, err := h.svc.PumpCurve(uri.ID, points, req.FlowLs, req.Segments)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(curve))
}

func (h *Handler) ImportPumps(c *gin.Context) {
	var req importPumpsRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Logger.Errorf("获取上传的文件失败: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		logger.Logger.Errorf("无法打开文件: %v", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	defer file.Close()

	res, err := h.svc.ImportPumps(file)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))

	logger.Logger.Infof("导入 %s 成功！", req.File.Filename)
}

func (h *Handler) ReloadCatalog(c *gin.Context) {
	if err := h.svc.ReloadCatalog(); err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"pumps": h.svc.Catalog().Len()}))
}
