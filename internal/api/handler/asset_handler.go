package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// AssetHandler 设备与部件 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// ── 设备 ──

// ListEquipment 研讨厅设备列表
// GET /api/v1/halls/:id/equipment
func (h *AssetHandler) ListEquipment(c *gin.Context) {
	list, err := h.assetSvc.ListEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, list)
}

// CreateEquipment 新增设备
// POST /api/v1/halls/:id/equipment
func (h *AssetHandler) CreateEquipment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	e, err := h.assetSvc.CreateEquipment(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.Created(c, e)
}

// UpdateEquipmentStatus 更新设备状态
// PATCH /api/v1/equipment/:id/status
func (h *AssetHandler) UpdateEquipmentStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	e, err := h.assetSvc.UpdateEquipmentStatus(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, e)
}

// ListEquipmentLogs 设备状态日志
// GET /api/v1/equipment/:id/logs
func (h *AssetHandler) ListEquipmentLogs(c *gin.Context) {
	logs, err := h.assetSvc.ListEquipmentLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, logs)
}

// ── 部件 ──

// ListComponents 研讨厅部件列表
// GET /api/v1/halls/:id/components
func (h *AssetHandler) ListComponents(c *gin.Context) {
	list, err := h.assetSvc.ListComponents(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, list)
}

// CreateComponent 新增部件
// POST /api/v1/halls/:id/components
func (h *AssetHandler) CreateComponent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	comp, err := h.assetSvc.CreateComponent(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.Created(c, comp)
}

// UpdateComponentStatus 更新部件状态
// PATCH /api/v1/components/:id/status
func (h *AssetHandler) UpdateComponentStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	comp, err := h.assetSvc.UpdateComponentStatus(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, comp)
}

// ListComponentLogs 部件状态日志
// GET /api/v1/components/:id/logs
func (h *AssetHandler) ListComponentLogs(c *gin.Context) {
	logs, err := h.assetSvc.ListComponentLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, logs)
}

func (h *AssetHandler) handleAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, service.ErrEquipmentNotFound):
		response.NotFound(c, 32001, err.Error())
	case errors.Is(err, service.ErrComponentNotFound):
		response.NotFound(c, 32002, err.Error())
	case errors.Is(err, service.ErrInvalidAssetStatus):
		response.BadRequest(c, 32003, err.Error())
	case errors.Is(err, service.ErrNotHallManager):
		response.Forbidden(c, 32004, err.Error())
	case errors.Is(err, service.ErrAssetStatusChanged):
		response.Conflict(c, 32005, err.Error())
	default:
		response.InternalError(c)
	}
}
