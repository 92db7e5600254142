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
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/calendar"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
)

// ── 预约模块业务错误 ──

var (
	ErrBookingNotFound          = errors.New("booking not found")
	ErrBookingTimeInvalid       = errors.New("end time must be after start time")
	ErrBookingInPast            = errors.New("booking start time must be in the future")
	ErrCapacityExceeded         = errors.New("expected participants exceed hall capacity")
	ErrPurposeRequired          = errors.New("purpose is required")
	ErrPermissionLetterRequired = errors.New("permission letter is required")
	ErrBookingConflict          = errors.New("hall is already booked for the selected time")
	ErrNotDepartmentHOD         = errors.New("only the HOD of the hall's department can perform this action")
	ErrNotHOD                   = errors.New("caller is not the head of any department")
	ErrRejectReasonRequired     = errors.New("rejection reason is required")
	ErrNotBookingOwner          = errors.New("only the requester can perform this action")
	ErrSummaryNotAllowed        = errors.New("summary can only be added to completed bookings")
	ErrSummaryRequired          = errors.New("session summary is required")
	ErrCalendarUnavailable      = errors.New("calendar invite is only available for approved or completed bookings")
)

// BookingService 预约业务接口
type BookingService interface {
	// CheckAvailability 返回与 [start, end) 冲突的 pending/approved 预约
	CheckAvailability(ctx context.Context, hallID string, start, end time.Time, excludeID string) ([]dto.BookingResponse, error)
	Create(ctx context.Context, req *dto.CreateBookingRequest, teacherID string) (*dto.BookingResponse, error)
	Approve(ctx context.Context, id, hodID string) (*dto.BookingResponse, error)
	Reject(ctx context.Context, id, hodID, reason string) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, id, teacherID, reason string) (*dto.BookingResponse, error)
	AddSummary(ctx context.Context, id, teacherID string, req *dto.AddSummaryRequest) (*dto.BookingResponse, error)
	Get(ctx context.Context, id string) (*dto.BookingResponse, error)
	ListMine(ctx context.Context, teacherID string, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error)
	ListPendingForHOD(ctx context.Context, hodID string) ([]dto.BookingResponse, error)
	ListLogs(ctx context.Context, bookingID string) ([]dto.BookingLogResponse, error)
	// ExportICS 生成日历文件，返回内容与建议文件名
	ExportICS(ctx context.Context, bookingID string) ([]byte, string, error)
}

type bookingService struct {
	repo   *repository.Repository
	out    *dispatcher
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, out *dispatcher, loc *time.Location, logger *zap.Logger) BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{repo: repo, out: out, loc: loc, now: time.Now, logger: logger}
}

// ────────────────────── CheckAvailability ──────────────────────

func (s *bookingService) CheckAvailability(ctx context.Context, hallID string, start, end time.Time, excludeID string) ([]dto.BookingResponse, error) {
	if !end.After(start) {
		return nil, ErrBookingTimeInvalid
	}

	conflicts, err := findConflicts(ctx, s.repo, hallID, start, end, model.BlockingStatuses, excludeID)
	if err != nil {
		s.logger.Error("冲突检测失败", zap.String("hall_id", hallID), zap.Error(err))
		return nil, err
	}
	return toBookingResponses(conflicts), nil
}

// ────────────────────── Create ──────────────────────

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest, teacherID string) (*dto.BookingResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrBookingTimeInvalid
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrBookingInPast
	}
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, ErrPurposeRequired
	}
	if strings.TrimSpace(req.PermissionLetterURL) == "" {
		return nil, ErrPermissionLetterRequired
	}

	hall, err := s.repo.Hall.GetByID(ctx, req.HallID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	if req.ExpectedParticipants > hall.Capacity {
		return nil, ErrCapacityExceeded
	}

	localStart := req.StartTime.In(s.loc)
	booking := &model.Booking{
		HallID:               hall.HallID,
		TeacherID:            teacherID,
		BookingDate:          time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:            req.StartTime.UTC(),
		EndTime:              req.EndTime.UTC(),
		Purpose:              purpose,
		Status:               model.BookingPending,
		PermissionLetterURL:  req.PermissionLetterURL,
		ExpectedParticipants: req.ExpectedParticipants,
	}

	// 锁住礼堂行后再检测冲突并插入，同一礼堂的并发创建在此串行化
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Hall.LockByID(ctx, hall.HallID); err != nil {
			return err
		}
		conflicts, err := findConflicts(ctx, tx, hall.HallID, booking.StartTime, booking.EndTime, model.BlockingStatuses, "")
		if err != nil {
			return fmt.Errorf("冲突检测失败: %w", err)
		}
		if len(conflicts) > 0 {
			return ErrBookingConflict
		}
		if err := tx.Booking.Create(ctx, booking); err != nil {
			return err
		}
		return tx.Booking.AppendLog(ctx, &model.BookingLog{
			BookingID:   booking.BookingID,
			Action:      model.ActionCreated,
			NewStatus:   model.BookingPending,
			PerformedBy: teacherID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrBookingConflict) {
			return nil, ErrBookingConflict
		}
		s.logger.Error("创建预约失败", zap.String("hall_id", hall.HallID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约已创建",
		zap.String("booking_id", booking.BookingID),
		zap.String("hall_id", hall.HallID),
		zap.String("teacher_id", teacherID),
	)

	booking.Hall = hall
	s.afterCreate(ctx, booking)
	return toBookingResponse(booking), nil
}

func (s *bookingService) afterCreate(ctx context.Context, b *model.Booking) {
	dept, err := s.repo.Department.GetByID(ctx, b.Hall.DepartmentID)
	if err != nil {
		s.logger.Warn("查询礼堂所属院系失败", zap.String("hall_id", b.HallID), zap.Error(err))
	} else if dept.HODProfileID != nil {
		s.out.notify(ctx, &model.Notification{
			ProfileID: *dept.HODProfileID,
			Type:      model.NotifyBookingPending,
			Title:     "New booking request",
			Message:   fmt.Sprintf("%s requested for %s", hallNameOf(b.Hall), mailer.FormatWindow(b.StartTime.In(s.loc), b.EndTime.In(s.loc))),
			BookingID: strPtr(b.BookingID),
		})
		if dept.HOD != nil {
			teacherName := ""
			if t, err := s.repo.Profile.GetByID(ctx, b.TeacherID); err == nil {
				teacherName = t.Name
			}
			s.out.email(ctx, mailer.BookingPendingMessage(s.bookingMail(b, dept.HOD.Email, dept.HOD.Name, teacherName)))
		}
	}

	s.out.publish(ctx, events.BookingCreated, b.BookingID, bookingPayload(b))
}

// ────────────────────── Approve ──────────────────────

func (s *bookingService) Approve(ctx context.Context, id, hodID string) (*dto.BookingResponse, error) {
	b, err := s.loadForHOD(ctx, id, hodID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, model.BookingApproved) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Hall.LockByID(ctx, b.HallID); err != nil {
			return err
		}
		conflicts, err := findConflicts(ctx, tx, b.HallID, b.StartTime, b.EndTime, []string{model.BookingApproved}, b.BookingID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrBookingConflict
		}
		return applyTransition(ctx, tx, b, transition{
			To:      model.BookingApproved,
			Action:  model.ActionApproved,
			ActorID: hodID,
			Fields: map[string]interface{}{
				"hod_id":      hodID,
				"approved_at": now,
			},
		})
	})
	if err != nil {
		return nil, s.mapTransitionError("批准预约失败", id, err)
	}

	b.HODID = &hodID
	b.ApprovedAt = &now
	s.logger.Info("预约已批准", zap.String("booking_id", id), zap.String("hod_id", hodID))

	s.afterApprove(ctx, b, hodID)
	return toBookingResponse(b), nil
}

func (s *bookingService) afterApprove(ctx context.Context, b *model.Booking, hodID string) {
	s.out.notify(ctx, &model.Notification{
		ProfileID: b.TeacherID,
		Type:      model.NotifyBookingApproved,
		Title:     "Booking approved",
		Message:   fmt.Sprintf("Your booking for %s on %s was approved", hallNameOf(b.Hall), mailer.FormatWindow(b.StartTime.In(s.loc), b.EndTime.In(s.loc))),
		BookingID: strPtr(b.BookingID),
	})

	if b.Teacher != nil {
		hodEmail := ""
		if hod, err := s.repo.Profile.GetByID(ctx, hodID); err == nil {
			hodEmail = hod.Email
			b.HOD = hod
		}
		invite, err := calendar.Build(s.invite(b, hodEmail), s.now())
		if err != nil {
			s.logger.Warn("生成日历邀请失败", zap.String("booking_id", b.BookingID), zap.Error(err))
		}
		s.out.email(ctx, mailer.BookingApprovedMessage(s.bookingMail(b, b.Teacher.Email, b.Teacher.Name, ""), invite))
	}

	s.out.publish(ctx, events.BookingApproved, b.BookingID, bookingPayload(b))
}

// ────────────────────── Reject ──────────────────────

func (s *bookingService) Reject(ctx context.Context, id, hodID, reason string) (*dto.BookingResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	b, err := s.loadForHOD(ctx, id, hodID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return applyTransition(ctx, tx, b, transition{
			To:      model.BookingRejected,
			Action:  model.ActionRejected,
			ActorID: hodID,
			Notes:   reason,
			Fields: map[string]interface{}{
				"hod_id":           hodID,
				"rejection_reason": reason,
			},
		})
	})
	if err != nil {
		return nil, s.mapTransitionError("拒绝预约失败", id, err)
	}

	b.HODID = &hodID
	b.RejectionReason = &reason
	s.logger.Info("预约已拒绝", zap.String("booking_id", id), zap.String("hod_id", hodID))

	s.notifyRejected(ctx, b, reason)
	s.out.publish(ctx, events.BookingRejected, b.BookingID, bookingPayload(b))
	return toBookingResponse(b), nil
}

// notifyRejected 拒绝（含自动拒绝）后的通知与邮件
func (s *bookingService) notifyRejected(ctx context.Context, b *model.Booking, reason string) {
	s.out.notify(ctx, &model.Notification{
		ProfileID: b.TeacherID,
		Type:      model.NotifyBookingRejected,
		Title:     "Booking rejected",
		Message:   fmt.Sprintf("Your booking for %s was rejected: %s", hallNameOf(b.Hall), reason),
		BookingID: strPtr(b.BookingID),
	})
	if b.Teacher != nil {
		mail := s.bookingMail(b, b.Teacher.Email, b.Teacher.Name, "")
		mail.Reason = reason
		s.out.email(ctx, mailer.BookingRejectedMessage(mail))
	}
}

// ────────────────────── Cancel ──────────────────────

func (s *bookingService) Cancel(ctx context.Context, id, teacherID, reason string) (*dto.BookingResponse, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.TeacherID != teacherID {
		return nil, ErrNotBookingOwner
	}

	wasApproved := b.Status == model.BookingApproved
	now := s.now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return applyTransition(ctx, tx, b, transition{
			To:      model.BookingCancelled,
			Action:  model.ActionCancelled,
			ActorID: teacherID,
			Notes:   strings.TrimSpace(reason),
			Fields:  map[string]interface{}{"cancelled_at": now},
		})
	})
	if err != nil {
		return nil, s.mapTransitionError("取消预约失败", id, err)
	}

	b.CancelledAt = &now
	s.logger.Info("预约已取消", zap.String("booking_id", id), zap.Bool("was_approved", wasApproved))

	if wasApproved && b.HODID != nil {
		s.out.notify(ctx, &model.Notification{
			ProfileID: *b.HODID,
			Type:      model.NotifyBookingCancelled,
			Title:     "Approved booking cancelled",
			Message:   fmt.Sprintf("The approved booking for %s on %s was cancelled by the requester", hallNameOf(b.Hall), mailer.FormatWindow(b.StartTime.In(s.loc), b.EndTime.In(s.loc))),
			BookingID: strPtr(b.BookingID),
		})
	}
	s.out.publish(ctx, events.BookingCancelled, b.BookingID, bookingPayload(b))
	return toBookingResponse(b), nil
}

// ────────────────────── AddSummary ──────────────────────

func (s *bookingService) AddSummary(ctx context.Context, id, teacherID string, req *dto.AddSummaryRequest) (*dto.BookingResponse, error) {
	if (req.SessionSummary == nil || strings.TrimSpace(*req.SessionSummary) == "") && req.AISummary == nil {
		return nil, ErrSummaryRequired
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.TeacherID != teacherID {
		return nil, ErrNotBookingOwner
	}
	if b.Status != model.BookingCompleted {
		return nil, ErrSummaryNotAllowed
	}

	if err := s.repo.Booking.UpdateSummary(ctx, id, req.SessionSummary, req.AISummary); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleStatus) {
			return nil, ErrSummaryNotAllowed
		}
		s.logger.Error("保存会后总结失败", zap.String("booking_id", id), zap.Error(err))
		return nil, err
	}

	if req.SessionSummary != nil {
		b.SessionSummary = req.SessionSummary
	}
	if req.AISummary != nil {
		b.AISummary = req.AISummary
	}
	return toBookingResponse(b), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *bookingService) Get(ctx context.Context, id string) (*dto.BookingResponse, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

func (s *bookingService) ListMine(ctx context.Context, teacherID string, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	f := repository.BookingFilter{
		TeacherID: teacherID,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	}
	if req.Status != "" {
		f.Statuses = []string{req.Status}
	}

	list, total, err := s.repo.Booking.List(ctx, f)
	if err != nil {
		s.logger.Error("查询我的预约失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, 0, err
	}
	return toBookingResponses(list), total, nil
}

func (s *bookingService) ListPendingForHOD(ctx context.Context, hodID string) ([]dto.BookingResponse, error) {
	dept, err := s.repo.Department.GetByHOD(ctx, hodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotHOD
		}
		return nil, err
	}

	list, _, err := s.repo.Booking.List(ctx, repository.BookingFilter{
		DepartmentID: dept.DepartmentID,
		Statuses:     []string{model.BookingPending},
	})
	if err != nil {
		s.logger.Error("查询待审批预约失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
		return nil, err
	}
	return toBookingResponses(list), nil
}

func (s *bookingService) ListLogs(ctx context.Context, bookingID string) ([]dto.BookingLogResponse, error) {
	if _, err := s.repo.Booking.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	logs, err := s.repo.Booking.ListLogs(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.BookingLogResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		performer := toProfileBrief(l.Performer)
		if performer == nil {
			performer = &dto.ProfileBrief{ID: l.PerformedBy}
		}
		result = append(result, dto.BookingLogResponse{
			ID:             l.LogID,
			Action:         l.Action,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			PerformedBy:    performer,
			Notes:          l.Notes,
			CreatedAt:      dto.FormatTime(l.CreatedAt),
		})
	}
	return result, nil
}

func (s *bookingService) ExportICS(ctx context.Context, bookingID string) ([]byte, string, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if b.Status != model.BookingApproved && b.Status != model.BookingCompleted {
		return nil, "", ErrCalendarUnavailable
	}

	hodEmail := ""
	if b.HOD != nil {
		hodEmail = b.HOD.Email
	}
	data, err := calendar.Build(s.invite(b, hodEmail), s.now())
	if err != nil {
		return nil, "", err
	}
	return data, "booking-" + b.BookingID + ".ics", nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *bookingService) load(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.repo.Booking.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预约失败", zap.String("booking_id", id), zap.Error(err))
		return nil, err
	}
	return b, nil
}

// loadForHOD 加载预约并校验调用方是礼堂所属院系的 HOD
func (s *bookingService) loadForHOD(ctx context.Context, id, hodID string) (*model.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Hall == nil || b.Hall.Department == nil ||
		b.Hall.Department.HODProfileID == nil || *b.Hall.Department.HODProfileID != hodID {
		return nil, ErrNotDepartmentHOD
	}
	return b, nil
}

func (s *bookingService) mapTransitionError(msg, id string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrBookingConflict),
		errors.Is(err, pkgerrors.ErrStaleStatus):
		return err
	case pkgerrors.IsExclusionViolation(err):
		return ErrBookingConflict
	}
	s.logger.Error(msg, zap.String("booking_id", id), zap.Error(err))
	return err
}

func (s *bookingService) bookingMail(b *model.Booking, to, recipient, teacherName string) mailer.BookingMail {
	return mailer.BookingMail{
		To:            to,
		RecipientName: recipient,
		TeacherName:   teacherName,
		HallName:      hallNameOf(b.Hall),
		Purpose:       b.Purpose,
		Start:         b.StartTime.In(s.loc),
		End:           b.EndTime.In(s.loc),
		Link:          s.out.bookingLink(b.BookingID),
	}
}

func (s *bookingService) invite(b *model.Booking, organizerEmail string) calendar.Invite {
	inv := calendar.Invite{
		UID:            b.BookingID,
		Summary:        b.Purpose,
		Description:    b.Purpose,
		Start:          b.StartTime,
		End:            b.EndTime,
		OrganizerEmail: organizerEmail,
		URL:            s.out.bookingLink(b.BookingID),
	}
	if b.Hall != nil {
		inv.Summary = b.Hall.Name + ": " + b.Purpose
		inv.Location = b.Hall.Name + ", " + b.Hall.Location
	}
	if b.Teacher != nil {
		inv.AttendeeEmail = b.Teacher.Email
	}
	return inv
}

func bookingPayload(b *model.Booking) map[string]interface{} {
	return map[string]interface{}{
		"booking_id": b.BookingID,
		"hall_id":    b.HallID,
		"teacher_id": b.TeacherID,
		"status":     b.Status,
		"start_time": b.StartTime,
		"end_time":   b.EndTime,
	}
}

// ── 响应转换器 ──

func toBookingResponses(list []model.Booking) []dto.BookingResponse {
	result := make([]dto.BookingResponse, 0, len(list))
	for i := range list {
		result = append(result, *toBookingResponse(&list[i]))
	}
	return result
}

func toBookingResponse(b *model.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:                   b.BookingID,
		HallID:               b.HallID,
		Teacher:              toProfileBrief(b.Teacher),
		HOD:                  toProfileBrief(b.HOD),
		BookingDate:          b.BookingDate.Format("2006-01-02"),
		StartTime:            dto.FormatTime(b.StartTime),
		EndTime:              dto.FormatTime(b.EndTime),
		Purpose:              b.Purpose,
		Status:               b.Status,
		RejectionReason:      b.RejectionReason,
		SessionSummary:       b.SessionSummary,
		AISummary:            b.AISummary,
		PermissionLetterURL:  b.PermissionLetterURL,
		ExpectedParticipants: b.ExpectedParticipants,
		ApprovedAt:           dto.FormatTimePtr(b.ApprovedAt),
		CancelledAt:          dto.FormatTimePtr(b.CancelledAt),
		CompletedAt:          dto.FormatTimePtr(b.CompletedAt),
		CreatedAt:            dto.FormatTime(b.CreatedAt),
	}
	resp.HallName = hallNameOf(b.Hall)
	if resp.Teacher == nil && b.TeacherID != "" {
		resp.Teacher = &dto.ProfileBrief{ID: b.TeacherID}
	}
	return resp
}
