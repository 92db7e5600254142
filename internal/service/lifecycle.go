package service

import (
	"context"
	"errors"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ErrInvalidTransition 状态机不允许的预约状态变更
var ErrInvalidTransition = errors.New("booking status does not allow this action")

// 预约状态机：rejected / cancelled / completed 为终态
var bookingTransitions = map[string][]string{
	model.BookingPending:  {model.BookingApproved, model.BookingRejected, model.BookingCancelled},
	model.BookingApproved: {model.BookingCompleted, model.BookingCancelled},
}

// CanTransition 判断 from → to 是否为合法变更
func CanTransition(from, to string) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal 判断是否为终态
func IsTerminal(status string) bool {
	return len(bookingTransitions[status]) == 0
}

// transition 一次状态变更
type transition struct {
	To      string
	Action  string
	ActorID string
	Notes   string
	Fields  map[string]interface{}
}

// applyTransition 在调用方事务内执行条件更新并追加一条审计日志
// 条件更新未命中时返回 ErrStaleStatus，日志不会写入
func applyTransition(ctx context.Context, tx *repository.Repository, b *model.Booking, tr transition) error {
	if !CanTransition(b.Status, tr.To) {
		return ErrInvalidTransition
	}

	fields := make(map[string]interface{}, len(tr.Fields)+1)
	for k, v := range tr.Fields {
		fields[k] = v
	}
	fields["status"] = tr.To

	if err := tx.Booking.UpdateStatus(ctx, b.BookingID, b.Status, fields); err != nil {
		return err
	}

	log := &model.BookingLog{
		BookingID:      b.BookingID,
		Action:         tr.Action,
		PreviousStatus: b.Status,
		NewStatus:      tr.To,
		PerformedBy:    tr.ActorID,
		Notes:          tr.Notes,
	}
	if err := tx.Booking.AppendLog(ctx, log); err != nil {
		return err
	}

	b.Status = tr.To
	return nil
}
