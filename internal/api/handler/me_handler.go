package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// MeHandler 当前用户 HTTP 处理器
type MeHandler struct {
	profileSvc service.ProfileService
}

// NewMeHandler 创建 MeHandler
func NewMeHandler(profileSvc service.ProfileService) *MeHandler {
	return &MeHandler{profileSvc: profileSvc}
}

// GetMe 获取当前用户档案与角色
// GET /api/v1/me
func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	me, err := h.profileSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 20001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, me)
}

// ListDepartments 院系列表
// GET /api/v1/departments
func (h *MeHandler) ListDepartments(c *gin.Context) {
	depts, err := h.profileSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, depts)
}
