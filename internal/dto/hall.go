package dto

import "time"

// ── 研讨厅模块 DTO ──

// CreateHallRequest 创建研讨厅请求
type CreateHallRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Capacity     int    `json:"capacity"      binding:"required,min=1,max=10000"`
	Location     string `json:"location"      binding:"required,max=200"`
	Description  string `json:"description"   binding:"omitempty,max=2000"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// UpdateHallRequest 更新研讨厅请求
type UpdateHallRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=1,max=10000"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// AssignTechStaffRequest 指派技术人员请求
type AssignTechStaffRequest struct {
	ProfileID string `json:"profile_id" binding:"required,uuid"`
}

// SetHallImageRequest 设置封面图请求，image_url 为空表示清除
type SetHallImageRequest struct {
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

// HallListRequest 研讨厅列表查询参数
type HallListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// HallReportRequest 研讨厅报表查询参数
type HallReportRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to"   binding:"required" time_format:"2006-01-02"`
}

// ── 设备/部件 ──

// CreateEquipmentRequest 新增设备请求
type CreateEquipmentRequest struct {
	Name     string `json:"name"      binding:"required,max=100"`
	Type     string `json:"type"      binding:"required,max=50"`
	SerialNo string `json:"serial_no" binding:"omitempty,max=100"`
}

// CreateComponentRequest 新增部件请求
type CreateComponentRequest struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Category string `json:"category" binding:"required,max=50"`
}

// UpdateAssetStatusRequest 更新设备/部件状态请求
type UpdateAssetStatusRequest struct {
	Status string `json:"status" binding:"required,max=30"`
	Notes  string `json:"notes"  binding:"omitempty,max=1000"`
}

// ── 响应 ──

// HallResponse 研讨厅响应
type HallResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Capacity    int              `json:"capacity"`
	Location    string           `json:"location"`
	Description string           `json:"description,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Department  *DepartmentBrief `json:"department,omitempty"`
	TechStaff   *ProfileBrief    `json:"tech_staff,omitempty"`
}

// HallDetailResponse 研讨厅详情（含设备与部件）
type HallDetailResponse struct {
	HallResponse
	Equipment  []EquipmentResponse `json:"equipment"`
	Components []ComponentResponse `json:"components"`
}

// EquipmentResponse 设备响应
type EquipmentResponse struct {
	ID       string `json:"id"`
	HallID   string `json:"hall_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	SerialNo string `json:"serial_no,omitempty"`
	Status   string `json:"status"`
}

// ComponentResponse 部件响应
type ComponentResponse struct {
	ID       string `json:"id"`
	HallID   string `json:"hall_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// AssetLogResponse 设备/部件状态日志响应
type AssetLogResponse struct {
	ID             string `json:"id"`
	PreviousStatus string `json:"previous_status,omitempty"`
	NewStatus      string `json:"new_status"`
	PerformedBy    string `json:"performed_by"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at"`
}
