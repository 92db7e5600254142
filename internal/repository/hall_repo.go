package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// HallRepository 研讨厅数据访问接口
type HallRepository interface {
	Create(ctx context.Context, hall *model.SeminarHall) error
	GetByID(ctx context.Context, id string) (*model.SeminarHall, error)
	GetDetail(ctx context.Context, id string) (*model.SeminarHall, error)
	List(ctx context.Context, departmentID string) ([]model.SeminarHall, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// LockByID 在当前事务中对礼堂行加 FOR UPDATE 锁，串行化同一礼堂的预约写入
	LockByID(ctx context.Context, id string) (*model.SeminarHall, error)
}

// hallRepo HallRepository 的 GORM 实现
type hallRepo struct {
	db *gorm.DB
}

// NewHallRepo 创建 HallRepository 实例
func NewHallRepo(db *gorm.DB) HallRepository {
	return &hallRepo{db: db}
}

func (r *hallRepo) Create(ctx context.Context, hall *model.SeminarHall) error {
	return r.db.WithContext(ctx).Create(hall).Error
}

func (r *hallRepo) GetByID(ctx context.Context, id string) (*model.SeminarHall, error) {
	var hall model.SeminarHall
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("TechStaff").
		Where("hall_id = ?", id).
		First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepo) GetDetail(ctx context.Context, id string) (*model.SeminarHall, error) {
	var hall model.SeminarHall
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("TechStaff").
		Preload("Equipment", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("hall_id = ?", id).
		First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepo) List(ctx context.Context, departmentID string) ([]model.SeminarHall, error) {
	db := r.db.WithContext(ctx).
		Preload("Department").
		Preload("TechStaff")
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	var halls []model.SeminarHall
	err := db.Order("name ASC").Find(&halls).Error
	return halls, err
}

func (r *hallRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&model.SeminarHall{}).
		Where("hall_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *hallRepo) LockByID(ctx context.Context, id string) (*model.SeminarHall, error) {
	var hall model.SeminarHall
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hall_id = ?", id).
		First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}
