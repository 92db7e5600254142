package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
)

// ── 设备/部件模块业务错误 ──

var (
	ErrEquipmentNotFound  = errors.New("equipment not found")
	ErrComponentNotFound  = errors.New("component not found")
	ErrInvalidAssetStatus = errors.New("invalid status for this asset")
	ErrNotHallManager     = errors.New("only the hall's tech staff or department HOD can manage its assets")
	ErrAssetStatusChanged = errors.New("asset status was changed concurrently, please retry")
)

// AssetService 设备与设施部件业务接口
type AssetService interface {
	CreateEquipment(ctx context.Context, hallID string, req *dto.CreateEquipmentRequest, actorID string) (*dto.EquipmentResponse, error)
	ListEquipment(ctx context.Context, hallID string) ([]dto.EquipmentResponse, error)
	UpdateEquipmentStatus(ctx context.Context, id string, req *dto.UpdateAssetStatusRequest, actorID string) (*dto.EquipmentResponse, error)
	ListEquipmentLogs(ctx context.Context, id string) ([]dto.AssetLogResponse, error)

	CreateComponent(ctx context.Context, hallID string, req *dto.CreateComponentRequest, actorID string) (*dto.ComponentResponse, error)
	ListComponents(ctx context.Context, hallID string) ([]dto.ComponentResponse, error)
	UpdateComponentStatus(ctx context.Context, id string, req *dto.UpdateAssetStatusRequest, actorID string) (*dto.ComponentResponse, error)
	ListComponentLogs(ctx context.Context, id string) ([]dto.AssetLogResponse, error)
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger}
}

// ────────────────────── 设备 ──────────────────────

func (s *assetService) CreateEquipment(ctx context.Context, hallID string, req *dto.CreateEquipmentRequest, actorID string) (*dto.EquipmentResponse, error) {
	if _, err := s.loadManagedHall(ctx, hallID, actorID); err != nil {
		return nil, err
	}

	e := &model.Equipment{
		HallID:   hallID,
		Name:     req.Name,
		Type:     req.Type,
		SerialNo: req.SerialNo,
		Status:   model.EquipmentActive,
	}
	if err := s.repo.Equipment.Create(ctx, e); err != nil {
		s.logger.Error("新增设备失败", zap.String("hall_id", hallID), zap.Error(err))
		return nil, err
	}
	return toEquipmentResponse(e), nil
}

func (s *assetService) ListEquipment(ctx context.Context, hallID string) ([]dto.EquipmentResponse, error) {
	list, err := s.repo.Equipment.ListByHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.EquipmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEquipmentResponse(&list[i]))
	}
	return result, nil
}

func (s *assetService) UpdateEquipmentStatus(ctx context.Context, id string, req *dto.UpdateAssetStatusRequest, actorID string) (*dto.EquipmentResponse, error) {
	if !model.IsEquipmentStatus(req.Status) {
		return nil, ErrInvalidAssetStatus
	}

	e, err := s.repo.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	if _, err := s.loadManagedHall(ctx, e.HallID, actorID); err != nil {
		return nil, err
	}
	if e.Status == req.Status {
		return toEquipmentResponse(e), nil
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return setEquipmentStatus(ctx, tx, e, req.Status, actorID, req.Notes)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStaleStatus) {
			return nil, ErrAssetStatusChanged
		}
		s.logger.Error("更新设备状态失败", zap.String("equipment_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("设备状态已更新", zap.String("equipment_id", id), zap.String("status", e.Status))
	return toEquipmentResponse(e), nil
}

func (s *assetService) ListEquipmentLogs(ctx context.Context, id string) ([]dto.AssetLogResponse, error) {
	if _, err := s.repo.Equipment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	logs, err := s.repo.Equipment.ListLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AssetLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.AssetLogResponse{
			ID:             l.LogID,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			PerformedBy:    l.PerformedBy,
			Notes:          l.Notes,
			CreatedAt:      dto.FormatTime(l.CreatedAt),
		})
	}
	return result, nil
}

// ────────────────────── 设施部件 ──────────────────────

func (s *assetService) CreateComponent(ctx context.Context, hallID string, req *dto.CreateComponentRequest, actorID string) (*dto.ComponentResponse, error) {
	if _, err := s.loadManagedHall(ctx, hallID, actorID); err != nil {
		return nil, err
	}

	c := &model.HallComponent{
		HallID:   hallID,
		Name:     req.Name,
		Category: req.Category,
		Status:   model.ComponentOperational,
	}
	if err := s.repo.Component.Create(ctx, c); err != nil {
		s.logger.Error("新增部件失败", zap.String("hall_id", hallID), zap.Error(err))
		return nil, err
	}
	return toComponentResponse(c), nil
}

func (s *assetService) ListComponents(ctx context.Context, hallID string) ([]dto.ComponentResponse, error) {
	list, err := s.repo.Component.ListByHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ComponentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toComponentResponse(&list[i]))
	}
	return result, nil
}

func (s *assetService) UpdateComponentStatus(ctx context.Context, id string, req *dto.UpdateAssetStatusRequest, actorID string) (*dto.ComponentResponse, error) {
	if !model.IsComponentStatus(req.Status) {
		return nil, ErrInvalidAssetStatus
	}

	c, err := s.repo.Component.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	if _, err := s.loadManagedHall(ctx, c.HallID, actorID); err != nil {
		return nil, err
	}
	if c.Status == req.Status {
		return toComponentResponse(c), nil
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return setComponentStatus(ctx, tx, c, req.Status, actorID, req.Notes)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStaleStatus) {
			return nil, ErrAssetStatusChanged
		}
		s.logger.Error("更新部件状态失败", zap.String("component_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("部件状态已更新", zap.String("component_id", id), zap.String("status", c.Status))
	return toComponentResponse(c), nil
}

func (s *assetService) ListComponentLogs(ctx context.Context, id string) ([]dto.AssetLogResponse, error) {
	if _, err := s.repo.Component.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	logs, err := s.repo.Component.ListLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AssetLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.AssetLogResponse{
			ID:             l.LogID,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			PerformedBy:    l.PerformedBy,
			Notes:          l.Notes,
			CreatedAt:      dto.FormatTime(l.CreatedAt),
		})
	}
	return result, nil
}

// ── 内部辅助 ──

// loadManagedHall 校验调用方为研讨厅的技术人员或所属院系 HOD
func (s *assetService) loadManagedHall(ctx context.Context, hallID, actorID string) (*model.SeminarHall, error) {
	hall, err := s.repo.Hall.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	if !managesHall(hall, actorID) {
		return nil, ErrNotHallManager
	}
	return hall, nil
}

func managesHall(hall *model.SeminarHall, profileID string) bool {
	if hall.TechStaffID != nil && *hall.TechStaffID == profileID {
		return true
	}
	return headsDepartment(hall.Department, profileID)
}

// setEquipmentStatus 在调用方事务内更新设备状态并追加日志
func setEquipmentStatus(ctx context.Context, tx *repository.Repository, e *model.Equipment, to, actorID, notes string) error {
	if err := tx.Equipment.UpdateStatus(ctx, e.EquipmentID, e.Status, to); err != nil {
		return err
	}
	if err := tx.Equipment.AppendLog(ctx, &model.EquipmentLog{
		EquipmentID:    e.EquipmentID,
		PreviousStatus: e.Status,
		NewStatus:      to,
		PerformedBy:    actorID,
		Notes:          notes,
	}); err != nil {
		return err
	}
	e.Status = to
	return nil
}

// setComponentStatus 在调用方事务内更新部件状态并追加日志
func setComponentStatus(ctx context.Context, tx *repository.Repository, c *model.HallComponent, to, actorID, notes string) error {
	if err := tx.Component.UpdateStatus(ctx, c.ComponentID, c.Status, to); err != nil {
		return err
	}
	if err := tx.Component.AppendLog(ctx, &model.ComponentLog{
		ComponentID:    c.ComponentID,
		PreviousStatus: c.Status,
		NewStatus:      to,
		PerformedBy:    actorID,
		Notes:          notes,
	}); err != nil {
		return err
	}
	c.Status = to
	return nil
}
