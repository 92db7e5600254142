package dto

import "time"

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 档案 ──

// ProfileBrief 用户简要信息
type ProfileBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DepartmentBrief 院系简要信息
type DepartmentBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MeResponse 当前登录用户（GET /me）
type MeResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Roles      []string         `json:"roles"`
	Department *DepartmentBrief `json:"department,omitempty"`
	HeadsDept  bool             `json:"heads_department"`
}

// FormatTime 统一时间输出格式
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatTimePtr 可空时间输出
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
