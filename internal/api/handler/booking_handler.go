package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// BookingHandler 预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// CheckAvailability 查询时间段是否可预约
// GET /api/v1/bookings/availability?hall_id=&start=&end=
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	conflicts, err := h.bookingSvc.CheckAvailability(c.Request.Context(), req.HallID, req.Start, req.End, req.ExcludeID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, dto.AvailabilityResponse{Available: len(conflicts) == 0, Conflicts: conflicts})
}

// Create 提交预约申请
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// ListMine 我的预约
// GET /api/v1/bookings/mine?status=&page=&page_size=
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	list, total, err := h.bookingSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListPending HOD 待审批预约
// GET /api/v1/bookings/pending
func (h *BookingHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.bookingSvc.ListPendingForHOD(c.Request.Context(), userID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, list)
}

// Get 预约详情
// GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// ListLogs 预约审计日志
// GET /api/v1/bookings/:id/logs
func (h *BookingHandler) ListLogs(c *gin.Context) {
	logs, err := h.bookingSvc.ListLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, logs)
}

// ExportICS 下载日历邀请
// GET /api/v1/bookings/:id/calendar
func (h *BookingHandler) ExportICS(c *gin.Context) {
	data, filename, err := h.bookingSvc.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.File(c, "text/calendar; charset=utf-8", filename, data)
}

// Approve HOD 批准预约
// POST /api/v1/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Approve(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// Reject HOD 拒绝预约
// POST /api/v1/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, service.ErrRejectReasonRequired.Error())
		return
	}

	booking, err := h.bookingSvc.Reject(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// Cancel 申请人取消预约
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "invalid request parameters")
			return
		}
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// AddSummary 提交会后总结
// PUT /api/v1/bookings/:id/summary
func (h *BookingHandler) AddSummary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.AddSummary(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 30001, err.Error())
	case errors.Is(err, service.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, service.ErrBookingTimeInvalid):
		response.BadRequest(c, 30002, err.Error())
	case errors.Is(err, service.ErrBookingInPast):
		response.BadRequest(c, 30003, err.Error())
	case errors.Is(err, service.ErrCapacityExceeded):
		response.BadRequest(c, 30004, err.Error())
	case errors.Is(err, service.ErrPurposeRequired):
		response.BadRequest(c, 30005, err.Error())
	case errors.Is(err, service.ErrPermissionLetterRequired):
		response.BadRequest(c, 30006, err.Error())
	case errors.Is(err, service.ErrRejectReasonRequired):
		response.BadRequest(c, 30010, err.Error())
	case errors.Is(err, service.ErrSummaryRequired):
		response.BadRequest(c, 30013, err.Error())
	case errors.Is(err, service.ErrBookingConflict):
		response.Conflict(c, 30007, err.Error())
	case errors.Is(err, service.ErrNotDepartmentHOD):
		response.Forbidden(c, 30008, err.Error())
	case errors.Is(err, service.ErrNotHOD):
		response.Forbidden(c, 30009, err.Error())
	case errors.Is(err, service.ErrNotBookingOwner):
		response.Forbidden(c, 30011, err.Error())
	case errors.Is(err, service.ErrSummaryNotAllowed):
		response.Conflict(c, 30012, err.Error())
	case errors.Is(err, service.ErrCalendarUnavailable):
		response.Conflict(c, 30014, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 30015, err.Error())
	case errors.Is(err, pkgerrors.ErrStaleStatus):
		response.Conflict(c, 30016, "booking was modified concurrently, please refresh")
	default:
		response.InternalError(c)
	}
}
