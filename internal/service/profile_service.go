package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ── 档案模块业务错误 ──

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoRole          = errors.New("profile has no role assigned")
)

// Identity 已认证调用方的身份上下文
type Identity struct {
	ProfileID    string
	Name         string
	Email        string
	Roles        []string
	DepartmentID string
	// HeadsDepartmentID 当前用户担任 HOD 的院系，非 HOD 为空
	HeadsDepartmentID string
}

// Has 判断是否具备指定角色
func (i *Identity) Has(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrimaryRole 主角色：hod > tech_staff > teacher
func (i *Identity) PrimaryRole() string {
	for _, r := range []string{model.RoleHOD, model.RoleTechStaff, model.RoleTeacher} {
		if i.Has(r) {
			return r
		}
	}
	return ""
}

// ProfileService 档案业务接口
type ProfileService interface {
	// Resolve 根据身份服务的用户 ID 加载档案与角色
	Resolve(ctx context.Context, profileID string) (*Identity, error)
	Me(ctx context.Context, profileID string) (*dto.MeResponse, error)
	// ListDepartments 全部院系，按名称排序
	ListDepartments(ctx context.Context) ([]dto.DepartmentBrief, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) Resolve(ctx context.Context, profileID string) (*Identity, error) {
	p, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询用户档案失败", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	if len(p.Roles) == 0 {
		return nil, ErrNoRole
	}

	id := &Identity{
		ProfileID: p.ProfileID,
		Name:      p.Name,
		Email:     p.Email,
		Roles:     p.RoleNames(),
	}
	if p.DepartmentID != nil {
		id.DepartmentID = *p.DepartmentID
	}

	if id.Has(model.RoleHOD) {
		dept, err := s.repo.Department.GetByHOD(ctx, p.ProfileID)
		switch {
		case err == nil:
			id.HeadsDepartmentID = dept.DepartmentID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warn("HOD 未绑定院系", zap.String("profile_id", p.ProfileID))
		default:
			return nil, err
		}
	}

	return id, nil
}

func (s *profileService) Me(ctx context.Context, profileID string) (*dto.MeResponse, error) {
	p, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	resp := &dto.MeResponse{
		ID:    p.ProfileID,
		Name:  p.Name,
		Email: p.Email,
		Phone: p.Phone,
		Roles: p.RoleNames(),
	}
	if p.Department != nil {
		resp.Department = &dto.DepartmentBrief{ID: p.Department.DepartmentID, Name: p.Department.Name}
	}
	if p.HasRole(model.RoleHOD) {
		if _, err := s.repo.Department.GetByHOD(ctx, p.ProfileID); err == nil {
			resp.HeadsDept = true
		}
	}
	return resp, nil
}

func (s *profileService) ListDepartments(ctx context.Context) ([]dto.DepartmentBrief, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询院系列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DepartmentBrief, 0, len(depts))
	for _, d := range depts {
		result = append(result, dto.DepartmentBrief{ID: d.DepartmentID, Name: d.Name})
	}
	return result, nil
}

func toProfileBrief(p *model.Profile) *dto.ProfileBrief {
	if p == nil {
		return nil
	}
	return &dto.ProfileBrief{ID: p.ProfileID, Name: p.Name, Email: p.Email}
}
