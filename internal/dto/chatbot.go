package dto

// ChatbotRequest 聊天机器人请求（外部契约：POST /api/chatbot）
type ChatbotRequest struct {
	Message   string `json:"message"   binding:"required,max=1000"`
	ProfileID string `json:"profileId" binding:"omitempty,uuid"`
}

// ChatbotResponse 聊天机器人响应
type ChatbotResponse struct {
	Reply string `json:"reply"`
}
