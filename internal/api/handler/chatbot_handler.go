package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service/chatbot"
)

// ChatbotHandler 聊天机器人 HTTP 处理器
// 对外契约 POST /api/chatbot，响应体为裸 JSON，不走统一信封
type ChatbotHandler struct {
	chatbotSvc service.ChatbotService
	logger     *zap.Logger
}

// NewChatbotHandler 创建 ChatbotHandler
func NewChatbotHandler(chatbotSvc service.ChatbotService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{chatbotSvc: chatbotSvc, logger: logger}
}

// Reply 回答自然语言查询
// POST /api/chatbot
func (h *ChatbotHandler) Reply(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	// profileId 仅作兼容字段，必须与令牌主体一致
	if req.ProfileID != "" && req.ProfileID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "profileId does not match the authenticated user"})
		return
	}

	reply, err := h.chatbotSvc.Reply(c.Request.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, chatbot.ErrUnknownProfile) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("聊天机器人查询失败", zap.String("profile_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, dto.ChatbotResponse{Reply: reply})
}
