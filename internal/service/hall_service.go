package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service/chatbot"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// ── 研讨厅模块业务错误 ──

var (
	ErrHallNotFound       = errors.New("hall not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrNotTechStaff       = errors.New("profile does not hold the tech_staff role")
	ErrHallNameRequired   = errors.New("hall name is required")
	ErrHallNameTaken      = errors.New("a hall with this name already exists")
)

// HallService 研讨厅业务接口
type HallService interface {
	List(ctx context.Context, departmentID string) ([]dto.HallResponse, error)
	Get(ctx context.Context, id string) (*dto.HallDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateHallRequest, actorID string) (*dto.HallResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateHallRequest, actorID string) (*dto.HallResponse, error)
	AssignTechStaff(ctx context.Context, id, staffID, actorID string) (*dto.HallResponse, error)
	// SetImage 设置封面图；imageURL 为空时清除，旧对象从存储中删除
	SetImage(ctx context.Context, id, imageURL, actorID string) (*dto.HallResponse, error)
}

type hallService struct {
	repo   *repository.Repository
	store  storage.ObjectStore
	cache  chatbot.Cache
	logger *zap.Logger
}

// NewHallService 创建 HallService 实例；cache 为聊天机器人的礼堂名称缓存，可为 nil
func NewHallService(repo *repository.Repository, store storage.ObjectStore, cache chatbot.Cache, logger *zap.Logger) HallService {
	return &hallService{repo: repo, store: store, cache: cache, logger: logger}
}

func (s *hallService) List(ctx context.Context, departmentID string) ([]dto.HallResponse, error) {
	halls, err := s.repo.Hall.List(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询研讨厅列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.HallResponse, 0, len(halls))
	for i := range halls {
		result = append(result, *toHallResponse(&halls[i]))
	}
	return result, nil
}

func (s *hallService) Get(ctx context.Context, id string) (*dto.HallDetailResponse, error) {
	hall, err := s.repo.Hall.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}

	resp := &dto.HallDetailResponse{
		HallResponse: *toHallResponse(hall),
		Equipment:    make([]dto.EquipmentResponse, 0, len(hall.Equipment)),
		Components:   make([]dto.ComponentResponse, 0, len(hall.Components)),
	}
	for i := range hall.Equipment {
		resp.Equipment = append(resp.Equipment, *toEquipmentResponse(&hall.Equipment[i]))
	}
	for i := range hall.Components {
		resp.Components = append(resp.Components, *toComponentResponse(&hall.Components[i]))
	}
	return resp, nil
}

func (s *hallService) Create(ctx context.Context, req *dto.CreateHallRequest, actorID string) (*dto.HallResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrHallNameRequired
	}

	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	if !headsDepartment(dept, actorID) {
		return nil, ErrNotDepartmentHOD
	}

	hall := &model.SeminarHall{
		Name:         name,
		Capacity:     req.Capacity,
		Location:     strings.TrimSpace(req.Location),
		Description:  req.Description,
		DepartmentID: dept.DepartmentID,
	}
	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrHallNameTaken
		}
		s.logger.Error("创建研讨厅失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("研讨厅已创建", zap.String("hall_id", hall.HallID), zap.String("department_id", dept.DepartmentID))
	s.invalidateNames(ctx, hall.HallID)
	hall.Department = dept
	return toHallResponse(hall), nil
}

func (s *hallService) Update(ctx context.Context, id string, req *dto.UpdateHallRequest, actorID string) (*dto.HallResponse, error) {
	if _, err := s.loadManaged(ctx, id, actorID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrHallNameRequired
		}
		fields["name"] = name
	}
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	return s.update(ctx, id, fields)
}

func (s *hallService) AssignTechStaff(ctx context.Context, id, staffID, actorID string) (*dto.HallResponse, error) {
	if _, err := s.loadManaged(ctx, id, actorID); err != nil {
		return nil, err
	}

	ok, err := s.repo.Profile.HasRole(ctx, staffID, model.RoleTechStaff)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotTechStaff
	}
	return s.update(ctx, id, map[string]interface{}{"tech_staff_id": staffID})
}

func (s *hallService) SetImage(ctx context.Context, id, imageURL, actorID string) (*dto.HallResponse, error) {
	hall, err := s.loadManaged(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	var value interface{}
	if imageURL != "" {
		value = imageURL
	}
	resp, err := s.update(ctx, id, map[string]interface{}{"image_url": value})
	if err != nil {
		return nil, err
	}

	// 旧封面在记录更新成功后再删除，删除失败只告警
	if hall.ImageURL != nil && *hall.ImageURL != "" && *hall.ImageURL != imageURL && s.store != nil {
		if err := s.store.DeleteByURL(ctx, *hall.ImageURL); err != nil {
			s.logger.Warn("删除旧封面失败", zap.String("hall_id", id), zap.String("url", *hall.ImageURL), zap.Error(err))
		}
	}
	return resp, nil
}

// ── 内部辅助 ──

// loadManaged 加载研讨厅并校验调用方为所属院系 HOD
func (s *hallService) loadManaged(ctx context.Context, id, actorID string) (*model.SeminarHall, error) {
	hall, err := s.repo.Hall.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	if !headsDepartment(hall.Department, actorID) {
		return nil, ErrNotDepartmentHOD
	}
	return hall, nil
}

func (s *hallService) update(ctx context.Context, id string, fields map[string]interface{}) (*dto.HallResponse, error) {
	if len(fields) > 0 {
		if err := s.repo.Hall.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrHallNotFound
			}
			if pkgerrors.IsUniqueViolation(err) {
				return nil, ErrHallNameTaken
			}
			s.logger.Error("更新研讨厅失败", zap.String("hall_id", id), zap.Error(err))
			return nil, err
		}
		s.invalidateNames(ctx, id)
	}
	hall, err := s.repo.Hall.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toHallResponse(hall), nil
}

// invalidateNames 礼堂写入成功后清除聊天机器人的名称缓存，失败只告警
func (s *hallService) invalidateNames(ctx context.Context, id string) {
	if err := chatbot.InvalidateHalls(ctx, s.cache); err != nil {
		s.logger.Warn("清除礼堂名称缓存失败", zap.String("hall_id", id), zap.Error(err))
	}
}

func headsDepartment(dept *model.Department, profileID string) bool {
	return dept != nil && dept.HODProfileID != nil && *dept.HODProfileID == profileID
}

func hallNameOf(h *model.SeminarHall) string {
	if h == nil {
		return ""
	}
	return h.Name
}

// ── 响应转换器 ──

func toHallResponse(h *model.SeminarHall) *dto.HallResponse {
	resp := &dto.HallResponse{
		ID:          h.HallID,
		Name:        h.Name,
		Capacity:    h.Capacity,
		Location:    h.Location,
		Description: h.Description,
		ImageURL:    h.ImageURL,
		TechStaff:   toProfileBrief(h.TechStaff),
	}
	if h.Department != nil {
		resp.Department = &dto.DepartmentBrief{ID: h.Department.DepartmentID, Name: h.Department.Name}
	}
	return resp
}

func toEquipmentResponse(e *model.Equipment) *dto.EquipmentResponse {
	return &dto.EquipmentResponse{
		ID:       e.EquipmentID,
		HallID:   e.HallID,
		Name:     e.Name,
		Type:     e.Type,
		SerialNo: e.SerialNo,
		Status:   e.Status,
	}
}

func toComponentResponse(c *model.HallComponent) *dto.ComponentResponse {
	return &dto.ComponentResponse{
		ID:       c.ComponentID,
		HallID:   c.HallID,
		Name:     c.Name,
		Category: c.Category,
		Status:   c.Status,
	}
}
