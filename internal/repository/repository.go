package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Profile      ProfileRepository
	Department   DepartmentRepository
	Hall         HallRepository
	Equipment    EquipmentRepository
	Component    ComponentRepository
	Booking      BookingRepository
	Maintenance  MaintenanceRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Profile:      NewProfileRepo(db),
		Department:   NewDepartmentRepo(db),
		Hall:         NewHallRepo(db),
		Equipment:    NewEquipmentRepo(db),
		Component:    NewComponentRepo(db),
		Booking:      NewBookingRepo(db),
		Maintenance:  NewMaintenanceRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 返回错误时回滚
// 未绑定数据库（单元测试注入 mock）时直接以当前聚合执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
