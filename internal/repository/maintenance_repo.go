package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
)

// MaintenanceFilter 维修申请查询条件
type MaintenanceFilter struct {
	HallID       string
	DepartmentID string
	RequestedBy  string
	Statuses     []string
}

// MaintenanceRepository 维修申请数据访问接口
type MaintenanceRepository interface {
	Create(ctx context.Context, req *model.MaintenanceRequest) error
	GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	List(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id, from string, fields map[string]interface{}) error
}

// maintenanceRepo MaintenanceRepository 的 GORM 实现
type maintenanceRepo struct {
	db *gorm.DB
}

// NewMaintenanceRepo 创建 MaintenanceRepository 实例
func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	var req model.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Preload("Equipment").
		Preload("Component").
		Preload("Requester").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *maintenanceRepo) List(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRequest, error) {
	db := r.db.WithContext(ctx).
		Preload("Hall").
		Preload("Equipment").
		Preload("Component").
		Preload("Requester")

	if f.HallID != "" {
		db = db.Where("hall_id = ?", f.HallID)
	}
	if f.DepartmentID != "" {
		db = db.Where("hall_id IN (?)",
			r.db.Model(&model.SeminarHall{}).Select("hall_id").Where("department_id = ?", f.DepartmentID))
	}
	if f.RequestedBy != "" {
		db = db.Where("requested_by = ?", f.RequestedBy)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", f.Statuses)
	}

	var list []model.MaintenanceRequest
	err := db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *maintenanceRepo) UpdateStatus(ctx context.Context, id, from string, fields map[string]interface{}) error {
	fields["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&model.MaintenanceRequest{}).
		Where("request_id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleStatus
	}
	return nil
}
