package model

import "time"

// 角色
const (
	RoleTeacher   = "teacher"
	RoleHOD       = "hod"
	RoleTechStaff = "tech_staff"
)

// Profile 用户档案表，对应 profiles（主键即身份服务的用户 ID）
type Profile struct {
	ProfileID    string  `gorm:"type:uuid;primaryKey"          json:"profile_id"`
	Name         string  `gorm:"type:varchar(100);not null"    json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"    json:"email"`
	Phone        string  `gorm:"type:varchar(20)"              json:"phone,omitempty"`
	DepartmentID *string `gorm:"type:uuid"                     json:"department_id,omitempty"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Roles      []UserRole  `gorm:"foreignKey:ProfileID;references:ProfileID"      json:"roles,omitempty"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// HasRole 判断档案是否具备指定角色
func (p *Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// RoleNames 返回角色名列表
func (p *Profile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.Role)
	}
	return names
}

// UserRole 角色分配表，对应 user_roles
type UserRole struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ProfileID    string    `gorm:"type:uuid;not null"                             json:"profile_id"`
	Role         string    `gorm:"type:varchar(20);not null"                      json:"role"` // teacher | hod | tech_staff
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (UserRole) TableName() string { return "user_roles" }
