package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service/report"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// ReportHandler PDF 报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// BookingReport 已完成预约的会后报告
// GET /api/v1/bookings/:id/report
func (h *ReportHandler) BookingReport(c *gin.Context) {
	data, filename, err := h.reportSvc.BookingReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.File(c, "application/pdf", filename, data)
}

// HallReport 研讨厅区间报表
// GET /api/v1/halls/:id/report?from=2025-01-01&to=2025-01-31
func (h *ReportHandler) HallReport(c *gin.Context) {
	var req dto.HallReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	data, filename, err := h.reportSvc.HallReport(c.Request.Context(), c.Param("id"), req.From, req.To)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.File(c, "application/pdf", filename, data)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrBookingNotFound):
		response.NotFound(c, 30001, err.Error())
	case errors.Is(err, report.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, report.ErrReportNotCompleted):
		response.BadRequest(c, 37001, err.Error())
	case errors.Is(err, report.ErrRangeInvalid):
		response.BadRequest(c, 37002, err.Error())
	default:
		response.InternalError(c)
	}
}
