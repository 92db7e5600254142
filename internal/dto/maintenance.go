package dto

// ── 维修申请模块 DTO ──

// CreateMaintenanceRequest 创建维修申请
type CreateMaintenanceRequest struct {
	HallID      string  `json:"hall_id"      binding:"required,uuid"`
	EquipmentID *string `json:"equipment_id" binding:"omitempty,uuid"`
	ComponentID *string `json:"component_id" binding:"omitempty,uuid"`
	Type        string  `json:"type"         binding:"required,oneof=repair replacement inspection cleaning upgrade"`
	Priority    string  `json:"priority"     binding:"omitempty,oneof=low medium high urgent"`
	Title       string  `json:"title"        binding:"required,min=3,max=200"`
	Description string  `json:"description"  binding:"omitempty,max=2000"`
}

// RejectMaintenanceRequest 拒绝维修申请
type RejectMaintenanceRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=500"`
}

// MaintenanceListRequest 维修申请列表查询参数
// scope: mine（本人提交）| department（HOD 所在院系）| 空（需指定 hall_id）
type MaintenanceListRequest struct {
	Scope  string `form:"scope"   binding:"omitempty,oneof=mine department"`
	HallID string `form:"hall_id" binding:"omitempty,uuid"`
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected completed"`
}

// MaintenanceResponse 维修申请响应
type MaintenanceResponse struct {
	ID              string        `json:"id"`
	HallID          string        `json:"hall_id"`
	HallName        string        `json:"hall_name,omitempty"`
	EquipmentID     *string       `json:"equipment_id,omitempty"`
	ComponentID     *string       `json:"component_id,omitempty"`
	Target          string        `json:"target,omitempty"`
	Requester       *ProfileBrief `json:"requester,omitempty"`
	ReviewedBy      *string       `json:"reviewed_by,omitempty"`
	Type            string        `json:"type"`
	Priority        string        `json:"priority"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Status          string        `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	ReviewedAt      *string       `json:"reviewed_at,omitempty"`
	CompletedAt     *string       `json:"completed_at,omitempty"`
	CreatedAt       string        `json:"created_at"`
}
