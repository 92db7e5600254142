package model

// SeminarHall 研讨厅表，对应 seminar_halls
type SeminarHall struct {
	HallID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"hall_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity     int     `gorm:"not null"                                       json:"capacity"`
	Location     string  `gorm:"type:varchar(200);not null"                     json:"location"`
	Description  string  `gorm:"type:text"                                      json:"description,omitempty"`
	ImageURL     *string `gorm:"type:text"                                      json:"image_url,omitempty"`
	DepartmentID string  `gorm:"type:uuid;not null"                             json:"department_id"`
	TechStaffID  *string `gorm:"type:uuid"                                      json:"tech_staff_id,omitempty"`
	BaseModel

	// 关联
	Department *Department     `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	TechStaff  *Profile        `gorm:"foreignKey:TechStaffID;references:ProfileID"     json:"tech_staff,omitempty"`
	Equipment  []Equipment     `gorm:"foreignKey:HallID;references:HallID"             json:"equipment,omitempty"`
	Components []HallComponent `gorm:"foreignKey:HallID;references:HallID"             json:"components,omitempty"`
}

// TableName 指定表名
func (SeminarHall) TableName() string { return "seminar_halls" }
