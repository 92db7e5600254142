package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// UploadHandler 文件上传 HTTP 处理器
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Presign 申请预签名上传地址
// POST /api/v1/uploads/presign
func (h *UploadHandler) Presign(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	signed, err := h.uploadSvc.Presign(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, storage.ErrExtensionMismatch) {
			response.ErrorWithDetails(c, http.StatusBadRequest, 35004, err.Error(),
				fmt.Sprintf("%s allows: %s", req.ContentType, strings.Join(storage.AllowedExtensions(req.ContentType), ", ")))
			return
		}
		h.handleUploadError(c, err)
		return
	}

	response.OK(c, signed)
}

// Delete 按地址删除已上传对象
// DELETE /api/v1/uploads
func (h *UploadHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.uploadSvc.Delete(c.Request.Context(), req.FileURL, userID); err != nil {
		h.handleUploadError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *UploadHandler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrUnsupportedKind),
		errors.Is(err, storage.ErrContentTypeRejected),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFileName):
		response.BadRequest(c, 35001, err.Error())
	case errors.Is(err, storage.ErrForeignURL):
		response.BadRequest(c, 35002, err.Error())
	case errors.Is(err, service.ErrHallNotFound):
		response.NotFound(c, 31001, err.Error())
	case errors.Is(err, service.ErrNotHallManager):
		response.Forbidden(c, 32004, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		response.BadGateway(c, 35003, "storage unavailable")
	default:
		response.InternalError(c)
	}
}
