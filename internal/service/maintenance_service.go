package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
)

// ── 维修模块业务错误 ──

var (
	ErrMaintenanceNotFound      = errors.New("maintenance request not found")
	ErrMaintenanceTargetBoth    = errors.New("a request can target equipment or a component, not both")
	ErrTargetNotInHall          = errors.New("the selected asset does not belong to this hall")
	ErrMaintenanceNotPending    = errors.New("maintenance request is no longer pending")
	ErrMaintenanceNotApproved   = errors.New("only approved maintenance requests can be completed")
	ErrMaintenanceForbidden     = errors.New("only the requester or the hall's tech staff can complete this request")
	ErrMaintenanceScopeRequired = errors.New("hall_id is required when no scope is given")
)

// MaintenanceService 维修申请业务接口
type MaintenanceService interface {
	Create(ctx context.Context, req *dto.CreateMaintenanceRequest, actorID string) (*dto.MaintenanceResponse, error)
	Approve(ctx context.Context, id, hodID string) (*dto.MaintenanceResponse, error)
	Reject(ctx context.Context, id, hodID, reason string) (*dto.MaintenanceResponse, error)
	Complete(ctx context.Context, id, actorID string) (*dto.MaintenanceResponse, error)
	List(ctx context.Context, req *dto.MaintenanceListRequest, actorID string) ([]dto.MaintenanceResponse, error)
}

type maintenanceService struct {
	repo   *repository.Repository
	out    *dispatcher
	now    func() time.Time
	logger *zap.Logger
}

// NewMaintenanceService 创建 MaintenanceService 实例
func NewMaintenanceService(repo *repository.Repository, out *dispatcher, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{repo: repo, out: out, now: time.Now, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *maintenanceService) Create(ctx context.Context, req *dto.CreateMaintenanceRequest, actorID string) (*dto.MaintenanceResponse, error) {
	if req.EquipmentID != nil && req.ComponentID != nil {
		return nil, ErrMaintenanceTargetBoth
	}

	ok, err := s.repo.Profile.HasRole(ctx, actorID, model.RoleTechStaff)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotTechStaff
	}

	hall, err := s.repo.Hall.GetByID(ctx, req.HallID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}

	mr := &model.MaintenanceRequest{
		HallID:      hall.HallID,
		RequestedBy: actorID,
		Type:        req.Type,
		Priority:    req.Priority,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      model.MaintenancePending,
	}
	if mr.Priority == "" {
		mr.Priority = model.PriorityMedium
	}

	if req.EquipmentID != nil {
		e, err := s.repo.Equipment.GetByID(ctx, *req.EquipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEquipmentNotFound
			}
			return nil, err
		}
		if e.HallID != hall.HallID {
			return nil, ErrTargetNotInHall
		}
		mr.EquipmentID = &e.EquipmentID
		mr.Equipment = e
	}
	if req.ComponentID != nil {
		c, err := s.repo.Component.GetByID(ctx, *req.ComponentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrComponentNotFound
			}
			return nil, err
		}
		if c.HallID != hall.HallID {
			return nil, ErrTargetNotInHall
		}
		mr.ComponentID = &c.ComponentID
		mr.Component = c
	}

	if err := s.repo.Maintenance.Create(ctx, mr); err != nil {
		s.logger.Error("创建维修申请失败", zap.String("hall_id", hall.HallID), zap.Error(err))
		return nil, err
	}
	mr.Hall = hall

	s.logger.Info("维修申请已创建",
		zap.String("request_id", mr.RequestID),
		zap.String("hall_id", hall.HallID),
		zap.String("priority", mr.Priority),
	)

	// 通知院系 HOD
	if dept := hall.Department; dept != nil && dept.HODProfileID != nil {
		s.out.notify(ctx, &model.Notification{
			ProfileID:            *dept.HODProfileID,
			Type:                 model.NotifyMaintenancePending,
			Title:                "New maintenance request",
			Message:              fmt.Sprintf("%s (%s priority) for %s", mr.Title, mr.Priority, hall.Name),
			MaintenanceRequestID: strPtr(mr.RequestID),
		})
		if hod, err := s.repo.Profile.GetByID(ctx, *dept.HODProfileID); err == nil {
			s.out.email(ctx, mailer.MaintenanceRequestedMessage(s.maintenanceMail(mr, hod.Email, hod.Name)))
		}
	}
	s.out.publish(ctx, events.MaintenanceCreated, mr.RequestID, maintenancePayload(mr))

	return toMaintenanceResponse(mr), nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *maintenanceService) Approve(ctx context.Context, id, hodID string) (*dto.MaintenanceResponse, error) {
	mr, err := s.loadForHOD(ctx, id, hodID)
	if err != nil {
		return nil, err
	}
	if mr.Status != model.MaintenancePending {
		return nil, ErrMaintenanceNotPending
	}

	now := s.now()
	notes := "Maintenance approved: " + mr.Title
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Maintenance.UpdateStatus(ctx, mr.RequestID, model.MaintenancePending, map[string]interface{}{
			"status":      model.MaintenanceApproved,
			"reviewed_by": hodID,
			"reviewed_at": now,
		}); err != nil {
			return err
		}
		// 目标设备/部件进入维修状态
		if mr.Equipment != nil && mr.Equipment.Status != model.EquipmentUnderRepair {
			if err := setEquipmentStatus(ctx, tx, mr.Equipment, model.EquipmentUnderRepair, hodID, notes); err != nil {
				return err
			}
		}
		if mr.Component != nil && mr.Component.Status != model.ComponentUnderMaintenance {
			if err := setComponentStatus(ctx, tx, mr.Component, model.ComponentUnderMaintenance, hodID, notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapStale("批准维修申请失败", id, err, ErrMaintenanceNotPending)
	}

	mr.Status = model.MaintenanceApproved
	mr.ReviewedBy = &hodID
	mr.ReviewedAt = &now
	s.logger.Info("维修申请已批准", zap.String("request_id", id), zap.String("hod_id", hodID))

	s.notifyRequester(ctx, mr, model.NotifyMaintenanceApproved, "Maintenance request approved",
		fmt.Sprintf("Your request %q for %s was approved", mr.Title, hallNameOf(mr.Hall)))
	if mr.Requester != nil {
		s.out.email(ctx, mailer.MaintenanceApprovedMessage(s.maintenanceMail(mr, mr.Requester.Email, mr.Requester.Name)))
	}
	s.out.publish(ctx, events.MaintenanceApproved, mr.RequestID, maintenancePayload(mr))
	return toMaintenanceResponse(mr), nil
}

func (s *maintenanceService) Reject(ctx context.Context, id, hodID, reason string) (*dto.MaintenanceResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	mr, err := s.loadForHOD(ctx, id, hodID)
	if err != nil {
		return nil, err
	}
	if mr.Status != model.MaintenancePending {
		return nil, ErrMaintenanceNotPending
	}

	now := s.now()
	err = s.repo.Maintenance.UpdateStatus(ctx, mr.RequestID, model.MaintenancePending, map[string]interface{}{
		"status":           model.MaintenanceRejected,
		"reviewed_by":      hodID,
		"reviewed_at":      now,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, s.mapStale("拒绝维修申请失败", id, err, ErrMaintenanceNotPending)
	}

	mr.Status = model.MaintenanceRejected
	mr.ReviewedBy = &hodID
	mr.ReviewedAt = &now
	mr.RejectionReason = &reason
	s.logger.Info("维修申请已拒绝", zap.String("request_id", id), zap.String("hod_id", hodID))

	s.notifyRequester(ctx, mr, model.NotifyMaintenanceRejected, "Maintenance request rejected",
		fmt.Sprintf("Your request %q for %s was rejected: %s", mr.Title, hallNameOf(mr.Hall), reason))
	if mr.Requester != nil {
		mail := s.maintenanceMail(mr, mr.Requester.Email, mr.Requester.Name)
		mail.Reason = reason
		s.out.email(ctx, mailer.MaintenanceRejectedMessage(mail))
	}
	s.out.publish(ctx, events.MaintenanceRejected, mr.RequestID, maintenancePayload(mr))
	return toMaintenanceResponse(mr), nil
}

// ────────────────────── Complete ──────────────────────

func (s *maintenanceService) Complete(ctx context.Context, id, actorID string) (*dto.MaintenanceResponse, error) {
	mr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	isStaff := mr.Hall != nil && mr.Hall.TechStaffID != nil && *mr.Hall.TechStaffID == actorID
	if mr.RequestedBy != actorID && !isStaff {
		return nil, ErrMaintenanceForbidden
	}
	if mr.Status != model.MaintenanceApproved {
		return nil, ErrMaintenanceNotApproved
	}

	now := s.now()
	notes := "Maintenance completed: " + mr.Title
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Maintenance.UpdateStatus(ctx, mr.RequestID, model.MaintenanceApproved, map[string]interface{}{
			"status":       model.MaintenanceCompleted,
			"completed_at": now,
		}); err != nil {
			return err
		}
		// 目标设备/部件恢复可用
		if mr.Equipment != nil && mr.Equipment.Status != model.EquipmentActive {
			if err := setEquipmentStatus(ctx, tx, mr.Equipment, model.EquipmentActive, actorID, notes); err != nil {
				return err
			}
		}
		if mr.Component != nil && mr.Component.Status != model.ComponentOperational {
			if err := setComponentStatus(ctx, tx, mr.Component, model.ComponentOperational, actorID, notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapStale("完成维修申请失败", id, err, ErrMaintenanceNotApproved)
	}

	mr.Status = model.MaintenanceCompleted
	mr.CompletedAt = &now
	s.logger.Info("维修申请已完成", zap.String("request_id", id))

	if mr.RequestedBy != actorID {
		s.notifyRequester(ctx, mr, model.NotifyMaintenanceCompleted, "Maintenance completed",
			fmt.Sprintf("The maintenance %q in %s was completed", mr.Title, hallNameOf(mr.Hall)))
	}
	s.out.publish(ctx, events.MaintenanceCompleted, mr.RequestID, maintenancePayload(mr))
	return toMaintenanceResponse(mr), nil
}

// ────────────────────── List ──────────────────────

func (s *maintenanceService) List(ctx context.Context, req *dto.MaintenanceListRequest, actorID string) ([]dto.MaintenanceResponse, error) {
	f := repository.MaintenanceFilter{HallID: req.HallID}
	if req.Status != "" {
		f.Statuses = []string{req.Status}
	}

	switch req.Scope {
	case "mine":
		f.RequestedBy = actorID
	case "department":
		dept, err := s.repo.Department.GetByHOD(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotHOD
			}
			return nil, err
		}
		f.DepartmentID = dept.DepartmentID
	default:
		if req.HallID == "" {
			return nil, ErrMaintenanceScopeRequired
		}
	}

	list, err := s.repo.Maintenance.List(ctx, f)
	if err != nil {
		s.logger.Error("查询维修申请失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.MaintenanceResponse, 0, len(list))
	for i := range list {
		result = append(result, *toMaintenanceResponse(&list[i]))
	}
	return result, nil
}

// ── 内部辅助 ──

func (s *maintenanceService) load(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	mr, err := s.repo.Maintenance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}
	return mr, nil
}

func (s *maintenanceService) loadForHOD(ctx context.Context, id, hodID string) (*model.MaintenanceRequest, error) {
	mr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if mr.Hall == nil {
		return nil, ErrHallNotFound
	}
	dept, err := s.repo.Department.GetByID(ctx, mr.Hall.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotDepartmentHOD
		}
		return nil, err
	}
	if !headsDepartment(dept, hodID) {
		return nil, ErrNotDepartmentHOD
	}
	return mr, nil
}

func (s *maintenanceService) mapStale(msg, id string, err, stale error) error {
	if errors.Is(err, pkgerrors.ErrStaleStatus) {
		return stale
	}
	s.logger.Error(msg, zap.String("request_id", id), zap.Error(err))
	return err
}

func (s *maintenanceService) notifyRequester(ctx context.Context, mr *model.MaintenanceRequest, typ, title, message string) {
	s.out.notify(ctx, &model.Notification{
		ProfileID:            mr.RequestedBy,
		Type:                 typ,
		Title:                title,
		Message:              message,
		MaintenanceRequestID: strPtr(mr.RequestID),
	})
}

func (s *maintenanceService) maintenanceMail(mr *model.MaintenanceRequest, to, recipient string) mailer.MaintenanceMail {
	d := mailer.MaintenanceMail{
		To:            to,
		RecipientName: recipient,
		Title:         mr.Title,
		Type:          mr.Type,
		Priority:      mr.Priority,
		Target:        maintenanceTarget(mr),
		Link:          s.out.maintenanceLink(mr.RequestID),
	}
	d.HallName = hallNameOf(mr.Hall)
	return d
}

func maintenanceTarget(mr *model.MaintenanceRequest) string {
	switch {
	case mr.Equipment != nil:
		return mr.Equipment.Name + " (equipment)"
	case mr.Component != nil:
		return mr.Component.Name + " (component)"
	}
	return ""
}

func maintenancePayload(mr *model.MaintenanceRequest) map[string]interface{} {
	return map[string]interface{}{
		"request_id":   mr.RequestID,
		"hall_id":      mr.HallID,
		"equipment_id": mr.EquipmentID,
		"component_id": mr.ComponentID,
		"status":       mr.Status,
		"priority":     mr.Priority,
	}
}

// ── 响应转换器 ──

func toMaintenanceResponse(mr *model.MaintenanceRequest) *dto.MaintenanceResponse {
	resp := &dto.MaintenanceResponse{
		ID:              mr.RequestID,
		HallID:          mr.HallID,
		EquipmentID:     mr.EquipmentID,
		ComponentID:     mr.ComponentID,
		Target:          maintenanceTarget(mr),
		Requester:       toProfileBrief(mr.Requester),
		ReviewedBy:      mr.ReviewedBy,
		Type:            mr.Type,
		Priority:        mr.Priority,
		Title:           mr.Title,
		Description:     mr.Description,
		Status:          mr.Status,
		RejectionReason: mr.RejectionReason,
		ReviewedAt:      dto.FormatTimePtr(mr.ReviewedAt),
		CompletedAt:     dto.FormatTimePtr(mr.CompletedAt),
		CreatedAt:       dto.FormatTime(mr.CreatedAt),
	}
	resp.HallName = hallNameOf(mr.Hall)
	return resp
}
