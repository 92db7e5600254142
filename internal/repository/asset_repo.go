package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
)

// ── 设备 ──

// EquipmentRepository 设备数据访问接口
type EquipmentRepository interface {
	Create(ctx context.Context, e *model.Equipment) error
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	ListByHall(ctx context.Context, hallID string) ([]model.Equipment, error)
	ListByStatus(ctx context.Context, status string) ([]model.Equipment, error)
	// UpdateStatus 条件更新：仅当当前状态为 from 时写入 to
	UpdateStatus(ctx context.Context, id, from, to string) error
	AppendLog(ctx context.Context, log *model.EquipmentLog) error
	ListLogs(ctx context.Context, equipmentID string) ([]model.EquipmentLog, error)
}

// equipmentRepo EquipmentRepository 的 GORM 实现
type equipmentRepo struct {
	db *gorm.DB
}

// NewEquipmentRepo 创建 EquipmentRepository 实例
func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *equipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	var e model.Equipment
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepo) ListByHall(ctx context.Context, hallID string) ([]model.Equipment, error) {
	var list []model.Equipment
	err := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *equipmentRepo) ListByStatus(ctx context.Context, status string) ([]model.Equipment, error) {
	var list []model.Equipment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("hall_id, name ASC").
		Find(&list).Error
	return list, err
}

func (r *equipmentRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Equipment{}).
		Where("equipment_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleStatus
	}
	return nil
}

func (r *equipmentRepo) AppendLog(ctx context.Context, log *model.EquipmentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *equipmentRepo) ListLogs(ctx context.Context, equipmentID string) ([]model.EquipmentLog, error) {
	var logs []model.EquipmentLog
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// ── 设施部件 ──

// ComponentRepository 设施部件数据访问接口
type ComponentRepository interface {
	Create(ctx context.Context, c *model.HallComponent) error
	GetByID(ctx context.Context, id string) (*model.HallComponent, error)
	ListByHall(ctx context.Context, hallID string) ([]model.HallComponent, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
	AppendLog(ctx context.Context, log *model.ComponentLog) error
	ListLogs(ctx context.Context, componentID string) ([]model.ComponentLog, error)
}

// componentRepo ComponentRepository 的 GORM 实现
type componentRepo struct {
	db *gorm.DB
}

// NewComponentRepo 创建 ComponentRepository 实例
func NewComponentRepo(db *gorm.DB) ComponentRepository {
	return &componentRepo{db: db}
}

func (r *componentRepo) Create(ctx context.Context, c *model.HallComponent) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *componentRepo) GetByID(ctx context.Context, id string) (*model.HallComponent, error) {
	var c model.HallComponent
	err := r.db.WithContext(ctx).
		Where("component_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *componentRepo) ListByHall(ctx context.Context, hallID string) ([]model.HallComponent, error) {
	var list []model.HallComponent
	err := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *componentRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	result := r.db.WithContext(ctx).
		Model(&model.HallComponent{}).
		Where("component_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleStatus
	}
	return nil
}

func (r *componentRepo) AppendLog(ctx context.Context, log *model.ComponentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *componentRepo) ListLogs(ctx context.Context, componentID string) ([]model.ComponentLog, error) {
	var logs []model.ComponentLog
	err := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
