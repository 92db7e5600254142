package model

import "time"

// 设备状态
const (
	EquipmentActive      = "active"
	EquipmentNotWorking  = "not_working"
	EquipmentUnderRepair = "under_repair"
)

// 设施部件状态
const (
	ComponentOperational         = "operational"
	ComponentMaintenanceRequired = "maintenance_required"
	ComponentUnderMaintenance    = "under_maintenance"
	ComponentFaulty              = "faulty"
)

// IsEquipmentStatus 判断设备状态是否合法
func IsEquipmentStatus(s string) bool {
	switch s {
	case EquipmentActive, EquipmentNotWorking, EquipmentUnderRepair:
		return true
	}
	return false
}

// IsComponentStatus 判断部件状态是否合法
func IsComponentStatus(s string) bool {
	switch s {
	case ComponentOperational, ComponentMaintenanceRequired, ComponentUnderMaintenance, ComponentFaulty:
		return true
	}
	return false
}

// Equipment 设备表，对应 equipment
type Equipment struct {
	EquipmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipment_id"`
	HallID      string `gorm:"type:uuid;not null"                             json:"hall_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Type        string `gorm:"type:varchar(50);not null"                      json:"type"`
	SerialNo    string `gorm:"type:varchar(100)"                              json:"serial_no,omitempty"`
	Status      string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | not_working | under_repair
	BaseModel
}

// TableName 指定表名
func (Equipment) TableName() string { return "equipment" }

// EquipmentLog 设备状态变更日志，对应 equipment_logs（只追加）
type EquipmentLog struct {
	LogID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	EquipmentID    string    `gorm:"type:uuid;not null"                             json:"equipment_id"`
	PreviousStatus string    `gorm:"type:varchar(20)"                               json:"previous_status,omitempty"`
	NewStatus      string    `gorm:"type:varchar(20);not null"                      json:"new_status"`
	PerformedBy    string    `gorm:"type:uuid;not null"                             json:"performed_by"`
	Notes          string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (EquipmentLog) TableName() string { return "equipment_logs" }

// HallComponent 设施部件表，对应 hall_components
type HallComponent struct {
	ComponentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"component_id"`
	HallID      string `gorm:"type:uuid;not null"                              json:"hall_id"`
	Name        string `gorm:"type:varchar(100);not null"                      json:"name"`
	Category    string `gorm:"type:varchar(50);not null"                       json:"category"`
	Status      string `gorm:"type:varchar(30);not null;default:'operational'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (HallComponent) TableName() string { return "hall_components" }

// ComponentLog 部件状态变更日志，对应 component_logs（只追加）
type ComponentLog struct {
	LogID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	ComponentID    string    `gorm:"type:uuid;not null"                             json:"component_id"`
	PreviousStatus string    `gorm:"type:varchar(30)"                               json:"previous_status,omitempty"`
	NewStatus      string    `gorm:"type:varchar(30);not null"                      json:"new_status"`
	PerformedBy    string    `gorm:"type:uuid;not null"                             json:"performed_by"`
	Notes          string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ComponentLog) TableName() string { return "component_logs" }
