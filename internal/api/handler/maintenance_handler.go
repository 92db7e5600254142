package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// MaintenanceHandler 维修申请 HTTP 处理器
type MaintenanceHandler struct {
	maintenanceSvc service.MaintenanceService
}

// NewMaintenanceHandler 创建 MaintenanceHandler
func NewMaintenanceHandler(maintenanceSvc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceSvc: maintenanceSvc}
}

// Create 提交维修申请
// POST /api/v1/maintenance
func (h *MaintenanceHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	mr, err := h.maintenanceSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.Created(c, mr)
}

// List 维修申请列表
// GET /api/v1/maintenance?scope=mine|department&hall_id=&status=
func (h *MaintenanceHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MaintenanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	list, err := h.maintenanceSvc.List(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, list)
}

// Approve HOD 批准维修申请
// POST /api/v1/maintenance/:id/approve
func (h *MaintenanceHandler) Approve(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	mr, err := h.maintenanceSvc.Approve(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, mr)
}

// Reject HOD 拒绝维修申请
// POST /api/v1/maintenance/:id/reject
func (h *MaintenanceHandler) Reject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, service.ErrRejectReasonRequired.Error())
		return
	}

	mr, err := h.maintenanceSvc.Reject(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, mr)
}

// Complete 维修完成
// POST /api/v1/maintenance/:id/complete
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	mr, err := h.maintenanceSvc.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, mr)
}

func (h *MaintenanceHandler) handleMaintenanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaintenanceNotFound):
		response.NotFound(c, 33001, err.Error())
	case errors.Is(err, service.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, service.ErrEquipmentNotFound):
		response.NotFound(c, 32001, err.Error())
	case errors.Is(err, service.ErrComponentNotFound):
		response.NotFound(c, 32002, err.Error())
	case errors.Is(err, service.ErrMaintenanceTargetBoth):
		response.BadRequest(c, 33002, err.Error())
	case errors.Is(err, service.ErrTargetNotInHall):
		response.BadRequest(c, 33003, err.Error())
	case errors.Is(err, service.ErrMaintenanceScopeRequired):
		response.BadRequest(c, 33004, err.Error())
	case errors.Is(err, service.ErrRejectReasonRequired):
		response.BadRequest(c, 30010, err.Error())
	case errors.Is(err, service.ErrMaintenanceNotPending):
		response.Conflict(c, 33005, err.Error())
	case errors.Is(err, service.ErrMaintenanceNotApproved):
		response.Conflict(c, 33006, err.Error())
	case errors.Is(err, service.ErrMaintenanceForbidden):
		response.Forbidden(c, 33007, err.Error())
	case errors.Is(err, service.ErrNotTechStaff):
		response.Forbidden(c, 31003, err.Error())
	case errors.Is(err, service.ErrNotDepartmentHOD):
		response.Forbidden(c, 30008, err.Error())
	case errors.Is(err, service.ErrNotHOD):
		response.Forbidden(c, 30009, err.Error())
	default:
		response.InternalError(c)
	}
}
