package dto

import "time"

// ── 预约模块 DTO ──

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	HallID               string    `json:"hall_id"               binding:"required,uuid"`
	StartTime            time.Time `json:"start_time"            binding:"required"`
	EndTime              time.Time `json:"end_time"              binding:"required"`
	Purpose              string    `json:"purpose"               binding:"required,min=3,max=1000"`
	ExpectedParticipants int       `json:"expected_participants" binding:"min=0"`
	PermissionLetterURL  string    `json:"permission_letter_url" binding:"required,url"`
}

// RejectBookingRequest 拒绝预约请求
type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=500"`
}

// CancelBookingRequest 取消预约请求
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// AddSummaryRequest 会后总结请求
type AddSummaryRequest struct {
	SessionSummary *string `json:"session_summary" binding:"omitempty,max=5000"`
	AISummary      *string `json:"ai_summary"      binding:"omitempty,max=5000"`
}

// BookingListRequest 我的预约列表查询参数
type BookingListRequest struct {
	Status string `form:"status" binding:"omitempty,booking_status"`
	PaginationRequest
}

// AvailabilityRequest 可用性查询参数
type AvailabilityRequest struct {
	HallID    string    `form:"hall_id"    binding:"required,uuid"`
	Start     time.Time `form:"start"      binding:"required"      time_format:"2006-01-02T15:04:05Z07:00"`
	End       time.Time `form:"end"        binding:"required"      time_format:"2006-01-02T15:04:05Z07:00"`
	ExcludeID string    `form:"exclude_id" binding:"omitempty,uuid"`
}

// ExportBookingsRequest 导出预约查询参数
type ExportBookingsRequest struct {
	From   time.Time `form:"from"    binding:"required"      time_format:"2006-01-02"`
	To     time.Time `form:"to"      binding:"required"      time_format:"2006-01-02"`
	HallID string    `form:"hall_id" binding:"omitempty,uuid"`
	Status string    `form:"status"  binding:"omitempty,booking_status"`
}

// ── 响应 ──

// BookingResponse 预约响应
type BookingResponse struct {
	ID                   string        `json:"id"`
	HallID               string        `json:"hall_id"`
	HallName             string        `json:"hall_name,omitempty"`
	Teacher              *ProfileBrief `json:"teacher,omitempty"`
	HOD                  *ProfileBrief `json:"hod,omitempty"`
	BookingDate          string        `json:"booking_date"`
	StartTime            string        `json:"start_time"`
	EndTime              string        `json:"end_time"`
	Purpose              string        `json:"purpose"`
	Status               string        `json:"status"`
	RejectionReason      *string       `json:"rejection_reason,omitempty"`
	SessionSummary       *string       `json:"session_summary,omitempty"`
	AISummary            *string       `json:"ai_summary,omitempty"`
	PermissionLetterURL  string        `json:"permission_letter_url,omitempty"`
	ExpectedParticipants int           `json:"expected_participants"`
	ApprovedAt           *string       `json:"approved_at,omitempty"`
	CancelledAt          *string       `json:"cancelled_at,omitempty"`
	CompletedAt          *string       `json:"completed_at,omitempty"`
	CreatedAt            string        `json:"created_at"`
}

// BookingLogResponse 预约审计日志响应
type BookingLogResponse struct {
	ID             string        `json:"id"`
	Action         string        `json:"action"`
	PreviousStatus string        `json:"previous_status,omitempty"`
	NewStatus      string        `json:"new_status"`
	PerformedBy    *ProfileBrief `json:"performed_by"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      string        `json:"created_at"`
}

// AvailabilityResponse 可用性查询响应
type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []BookingResponse `json:"conflicts"`
}
