package model

import "time"

// 通知类型
const (
	NotifyBookingPending       = "booking_pending"
	NotifyBookingApproved      = "booking_approved"
	NotifyBookingRejected      = "booking_rejected"
	NotifyBookingCancelled     = "booking_cancelled"
	NotifyBookingCompleted     = "booking_completed"
	NotifyMaintenancePending   = "maintenance_pending"
	NotifyMaintenanceApproved  = "maintenance_approved"
	NotifyMaintenanceRejected  = "maintenance_rejected"
	NotifyMaintenanceCompleted = "maintenance_completed"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	ProfileID            string    `gorm:"type:uuid;not null"                             json:"profile_id"`
	Type                 string    `gorm:"type:varchar(40);not null"                      json:"type"`
	Title                string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Message              string    `gorm:"type:text;not null"                             json:"message"`
	IsRead               bool      `gorm:"not null;default:false"                         json:"is_read"`
	BookingID            *string   `gorm:"type:uuid"                                      json:"booking_id,omitempty"`
	MaintenanceRequestID *string   `gorm:"type:uuid"                                      json:"maintenance_request_id,omitempty"`
	CreatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
