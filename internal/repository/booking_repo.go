package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
)

// BookingFilter 预约列表查询条件，零值字段不参与过滤
type BookingFilter struct {
	HallID       string
	TeacherID    string
	DepartmentID string
	Statuses     []string
	From         *time.Time // start_time >= From
	To           *time.Time // start_time < To
	Offset       int
	Limit        int
}

// BookingRepository 预约数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetDetail(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error)
	// FindOverlapping 返回与 [start, end) 相交的预约（半开区间，首尾相接不算冲突）
	FindOverlapping(ctx context.Context, hallID string, start, end time.Time, statuses []string, excludeID string) ([]model.Booking, error)
	ListPendingStarted(ctx context.Context, now time.Time) ([]model.Booking, error)
	ListApprovedEnded(ctx context.Context, now time.Time) ([]model.Booking, error)
	// UpdateStatus 条件更新：仅当当前状态为 from 时生效，否则返回 ErrStaleStatus
	UpdateStatus(ctx context.Context, id, from string, fields map[string]interface{}) error
	UpdateSummary(ctx context.Context, id string, summary, aiSummary *string) error
	AppendLog(ctx context.Context, log *model.BookingLog) error
	ListLogs(ctx context.Context, bookingID string) ([]model.BookingLog, error)
}

// bookingRepo BookingRepository 的 GORM 实现
type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Where("booking_id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) GetDetail(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Hall").Preload("Hall.Department").
		Preload("Teacher").
		Preload("HOD").
		Where("booking_id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Booking{})

	if f.HallID != "" {
		db = db.Where("bookings.hall_id = ?", f.HallID)
	}
	if f.TeacherID != "" {
		db = db.Where("bookings.teacher_id = ?", f.TeacherID)
	}
	if f.DepartmentID != "" {
		db = db.Where("bookings.hall_id IN (?)",
			r.db.Model(&model.SeminarHall{}).Select("hall_id").Where("department_id = ?", f.DepartmentID))
	}
	if len(f.Statuses) > 0 {
		db = db.Where("bookings.status IN ?", f.Statuses)
	}
	if f.From != nil {
		db = db.Where("bookings.start_time >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("bookings.start_time < ?", *f.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Preload("Hall").Preload("Teacher").Order("bookings.start_time ASC")
	if f.Limit > 0 {
		db = db.Offset(f.Offset).Limit(f.Limit)
	}

	var list []model.Booking
	err := db.Find(&list).Error
	return list, total, err
}

func (r *bookingRepo) FindOverlapping(ctx context.Context, hallID string, start, end time.Time, statuses []string, excludeID string) ([]model.Booking, error) {
	db := r.db.WithContext(ctx).
		Where("hall_id = ? AND status IN ? AND start_time < ? AND end_time > ?", hallID, statuses, end, start)
	if excludeID != "" {
		db = db.Where("booking_id <> ?", excludeID)
	}

	var list []model.Booking
	err := db.Order("start_time ASC").Find(&list).Error
	return list, err
}

func (r *bookingRepo) ListPendingStarted(ctx context.Context, now time.Time) ([]model.Booking, error) {
	var list []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Preload("Teacher").
		Where("status = ? AND start_time <= ?", model.BookingPending, now).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *bookingRepo) ListApprovedEnded(ctx context.Context, now time.Time) ([]model.Booking, error) {
	var list []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Preload("Teacher").
		Where("status = ? AND end_time <= ?", model.BookingApproved, now).
		Order("end_time ASC").
		Find(&list).Error
	return list, err
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id, from string, fields map[string]interface{}) error {
	fields["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleStatus
	}
	return nil
}

func (r *bookingRepo) UpdateSummary(ctx context.Context, id string, summary, aiSummary *string) error {
	fields := map[string]interface{}{"updated_at": gorm.Expr("NOW()")}
	if summary != nil {
		fields["session_summary"] = *summary
	}
	if aiSummary != nil {
		fields["ai_summary"] = *aiSummary
	}
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND status = ?", id, model.BookingCompleted).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleStatus
	}
	return nil
}

func (r *bookingRepo) AppendLog(ctx context.Context, log *model.BookingLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *bookingRepo) ListLogs(ctx context.Context, bookingID string) ([]model.BookingLog, error) {
	var logs []model.BookingLog
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
