package model

import "time"

// 预约状态
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// BlockingStatuses 参与冲突检测的状态
var BlockingStatuses = []string{BookingPending, BookingApproved}

// 预约日志动作
const (
	ActionCreated       = "created"
	ActionApproved      = "approved"
	ActionRejected      = "rejected"
	ActionCancelled     = "cancelled"
	ActionAutoRejected  = "auto_rejected"
	ActionAutoCompleted = "auto_completed"
)

// Booking 预约表，对应 bookings
type Booking struct {
	BookingID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	HallID               string     `gorm:"type:uuid;not null"                             json:"hall_id"`
	TeacherID            string     `gorm:"type:uuid;not null"                             json:"teacher_id"`
	HODID                *string    `gorm:"column:hod_id;type:uuid"                        json:"hod_id,omitempty"`
	BookingDate          time.Time  `gorm:"type:date;not null"                             json:"booking_date"`
	StartTime            time.Time  `gorm:"not null"                                       json:"start_time"`
	EndTime              time.Time  `gorm:"not null"                                       json:"end_time"`
	Purpose              string     `gorm:"type:text;not null"                             json:"purpose"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected | cancelled | completed
	RejectionReason      *string    `gorm:"type:text"                                      json:"rejection_reason,omitempty"`
	SessionSummary       *string    `gorm:"type:text"                                      json:"session_summary,omitempty"`
	AISummary            *string    `gorm:"column:ai_summary;type:text"                    json:"ai_summary,omitempty"`
	PermissionLetterURL  string     `gorm:"type:text"                                      json:"permission_letter_url,omitempty"`
	ExpectedParticipants int        `gorm:"not null;default:0"                             json:"expected_participants"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	Hall    *SeminarHall `gorm:"foreignKey:HallID;references:HallID"       json:"hall,omitempty"`
	Teacher *Profile     `gorm:"foreignKey:TeacherID;references:ProfileID" json:"teacher,omitempty"`
	HOD     *Profile     `gorm:"foreignKey:HODID;references:ProfileID"     json:"hod,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }

// BookingLog 预约审计日志，对应 booking_logs（只追加，不修改不删除）
type BookingLog struct {
	LogID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	BookingID      string    `gorm:"type:uuid;not null"                             json:"booking_id"`
	Action         string    `gorm:"type:varchar(30);not null"                      json:"action"`
	PreviousStatus string    `gorm:"type:varchar(20)"                               json:"previous_status,omitempty"`
	NewStatus      string    `gorm:"type:varchar(20);not null"                      json:"new_status"`
	PerformedBy    string    `gorm:"type:uuid;not null"                             json:"performed_by"`
	Notes          string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Performer *Profile `gorm:"foreignKey:PerformedBy;references:ProfileID" json:"performer,omitempty"`
}

// TableName 指定表名
func (BookingLog) TableName() string { return "booking_logs" }
