package dto

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	Title                string  `json:"title"`
	Message              string  `json:"message"`
	IsRead               bool    `json:"is_read"`
	BookingID            *string `json:"booking_id,omitempty"`
	MaintenanceRequestID *string `json:"maintenance_request_id,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse 全部已读响应
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
