package model

import "time"

// 维修申请状态
const (
	MaintenancePending   = "pending"
	MaintenanceApproved  = "approved"
	MaintenanceRejected  = "rejected"
	MaintenanceCompleted = "completed"
)

// 维修优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// MaintenanceRequest 维修申请表，对应 maintenance_requests
// EquipmentID 与 ComponentID 至多设置一个
type MaintenanceRequest struct {
	RequestID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	HallID          string     `gorm:"type:uuid;not null"                             json:"hall_id"`
	EquipmentID     *string    `gorm:"type:uuid"                                      json:"equipment_id,omitempty"`
	ComponentID     *string    `gorm:"type:uuid"                                      json:"component_id,omitempty"`
	RequestedBy     string     `gorm:"type:uuid;not null"                             json:"requested_by"`
	ReviewedBy      *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	Type            string     `gorm:"type:varchar(20);not null"                      json:"type"` // repair | replacement | inspection | cleaning | upgrade
	Priority        string     `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"`
	Title           string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string     `gorm:"type:text"                                      json:"description,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	RejectionReason *string    `gorm:"type:text"                                      json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	Hall      *SeminarHall   `gorm:"foreignKey:HallID;references:HallID"           json:"hall,omitempty"`
	Equipment *Equipment     `gorm:"foreignKey:EquipmentID;references:EquipmentID" json:"equipment,omitempty"`
	Component *HallComponent `gorm:"foreignKey:ComponentID;references:ComponentID" json:"component,omitempty"`
	Requester *Profile       `gorm:"foreignKey:RequestedBy;references:ProfileID"   json:"requester,omitempty"`
}

// TableName 指定表名
func (MaintenanceRequest) TableName() string { return "maintenance_requests" }
