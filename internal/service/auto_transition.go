package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
)

// AutoRejectReason 超时未审批的自动拒绝原因
const AutoRejectReason = "Automatically rejected: the session start time passed without HOD approval"

// AutoTransitionService 定时任务：超时自动拒绝与到期自动完成
type AutoTransitionService interface {
	// AutoReject 将 start_time <= now 的待审批预约置为 rejected，返回成功条数
	AutoReject(ctx context.Context, now time.Time) (int, error)
	// AutoComplete 将 end_time <= now 的已批准预约置为 completed，返回成功条数
	AutoComplete(ctx context.Context, now time.Time) (int, error)
}

type autoTransitionService struct {
	repo     *repository.Repository
	bookings *bookingService
	logger   *zap.Logger
}

// NewAutoTransitionService 创建 AutoTransitionService 实例
func NewAutoTransitionService(repo *repository.Repository, out *dispatcher, loc *time.Location, logger *zap.Logger) AutoTransitionService {
	return &autoTransitionService{
		repo:     repo,
		bookings: NewBookingService(repo, out, loc, logger).(*bookingService),
		logger:   logger,
	}
}

func (s *autoTransitionService) AutoReject(ctx context.Context, now time.Time) (int, error) {
	list, err := s.repo.Booking.ListPendingStarted(ctx, now)
	if err != nil {
		s.logger.Error("查询超时待审批预约失败", zap.Error(err))
		return 0, err
	}

	reason := AutoRejectReason
	count := 0
	for i := range list {
		b := &list[i]
		// 审计日志记在申请人名下
		err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			return applyTransition(ctx, tx, b, transition{
				To:      model.BookingRejected,
				Action:  model.ActionAutoRejected,
				ActorID: b.TeacherID,
				Notes:   reason,
				Fields:  map[string]interface{}{"rejection_reason": reason},
			})
		})
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrStaleStatus) {
				s.logger.Warn("自动拒绝预约失败", zap.String("booking_id", b.BookingID), zap.Error(err))
			}
			continue
		}

		b.RejectionReason = &reason
		count++
		s.bookings.notifyRejected(ctx, b, reason)
		s.bookings.out.publish(ctx, events.BookingAutoRejected, b.BookingID, bookingPayload(b))
	}

	if count > 0 {
		s.logger.Info("自动拒绝任务完成", zap.Int("rejected", count), zap.Int("candidates", len(list)))
	}
	return count, nil
}

func (s *autoTransitionService) AutoComplete(ctx context.Context, now time.Time) (int, error) {
	list, err := s.repo.Booking.ListApprovedEnded(ctx, now)
	if err != nil {
		s.logger.Error("查询已结束预约失败", zap.Error(err))
		return 0, err
	}

	count := 0
	for i := range list {
		b := &list[i]
		completedAt := now
		err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			return applyTransition(ctx, tx, b, transition{
				To:      model.BookingCompleted,
				Action:  model.ActionAutoCompleted,
				ActorID: b.TeacherID,
				Fields:  map[string]interface{}{"completed_at": completedAt},
			})
		})
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrStaleStatus) {
				s.logger.Warn("自动完成预约失败", zap.String("booking_id", b.BookingID), zap.Error(err))
			}
			continue
		}

		b.CompletedAt = &completedAt
		count++

		s.bookings.out.notify(ctx, &model.Notification{
			ProfileID: b.TeacherID,
			Type:      model.NotifyBookingCompleted,
			Title:     "Session completed",
			Message:   fmt.Sprintf("Your session in %s has ended. Please add a session summary.", hallNameOf(b.Hall)),
			BookingID: strPtr(b.BookingID),
		})
		s.bookings.out.publish(ctx, events.BookingCompleted, b.BookingID, bookingPayload(b))
	}

	if count > 0 {
		s.logger.Info("自动完成任务完成", zap.Int("completed", count), zap.Int("candidates", len(list)))
	}
	return count, nil
}
