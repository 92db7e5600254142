package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// HallHandler 研讨厅模块 HTTP 处理器
type HallHandler struct {
	hallSvc service.HallService
}

// NewHallHandler 创建 HallHandler
func NewHallHandler(hallSvc service.HallService) *HallHandler {
	return &HallHandler{hallSvc: hallSvc}
}

// List 研讨厅列表
// GET /api/v1/halls?department_id=
func (h *HallHandler) List(c *gin.Context) {
	var req dto.HallListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	halls, err := h.hallSvc.List(c.Request.Context(), req.DepartmentID)
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.OK(c, halls)
}

// Get 研讨厅详情（含设备与部件）
// GET /api/v1/halls/:id
func (h *HallHandler) Get(c *gin.Context) {
	hall, err := h.hallSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.OK(c, hall)
}

// Create 新建研讨厅
// POST /api/v1/halls
func (h *HallHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	hall, err := h.hallSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.Created(c, hall)
}

// Update 更新研讨厅
// PUT /api/v1/halls/:id
func (h *HallHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	hall, err := h.hallSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.OK(c, hall)
}

// AssignTechStaff 指派技术人员
// PUT /api/v1/halls/:id/tech-staff
func (h *HallHandler) AssignTechStaff(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignTechStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	hall, err := h.hallSvc.AssignTechStaff(c.Request.Context(), c.Param("id"), req.ProfileID, userID)
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.OK(c, hall)
}

// SetImage 设置或清除封面图
// PUT /api/v1/halls/:id/image
func (h *HallHandler) SetImage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetHallImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	hall, err := h.hallSvc.SetImage(c.Request.Context(), c.Param("id"), req.ImageURL, userID)
	if err != nil {
		h.handleHallError(c, err)
		return
	}

	response.OK(c, hall)
}

func (h *HallHandler) handleHallError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 31002, err.Error())
	case errors.Is(err, service.ErrNotTechStaff):
		response.BadRequest(c, 31003, err.Error())
	case errors.Is(err, service.ErrHallNameRequired):
		response.BadRequest(c, 31004, err.Error())
	case errors.Is(err, service.ErrHallNameTaken):
		response.Conflict(c, 31005, err.Error())
	case errors.Is(err, service.ErrNotDepartmentHOD):
		response.Forbidden(c, 30008, err.Error())
	default:
		response.InternalError(c)
	}
}
