package model

// Department 院系表，对应 departments（每个院系至多一名 HOD）
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Code         string  `gorm:"type:varchar(20)"                               json:"code,omitempty"`
	HODProfileID *string `gorm:"column:hod_profile_id;type:uuid"                json:"hod_profile_id,omitempty"`
	BaseModel

	// 关联
	HOD *Profile `gorm:"foreignKey:HODProfileID;references:ProfileID" json:"hod,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
