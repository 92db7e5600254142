package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	ListByRole(ctx context.Context, role string) ([]model.Profile, error)
	HasRole(ctx context.Context, profileID, role string) (bool, error)
}

// profileRepo ProfileRepository 的 GORM 实现
type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Department").
		Where("profile_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) ListByRole(ctx context.Context, role string) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ur ON ur.profile_id = profiles.profile_id").
		Where("ur.role = ?", role).
		Order("profiles.name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) HasRole(ctx context.Context, profileID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("profile_id = ? AND role = ?", profileID, role).
		Count(&count).Error
	return count > 0, err
}
