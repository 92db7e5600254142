package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// DepartmentRepository 院系数据访问接口
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByHOD(ctx context.Context, hodProfileID string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Preload("HOD").
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByHOD(ctx context.Context, hodProfileID string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("hod_profile_id = ?", hodProfileID).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}
