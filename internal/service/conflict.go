package service

import (
	"context"
	"time"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// Overlaps 半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交，首尾相接不算冲突
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// findConflicts 查询与目标时段冲突的预约
// 结果再经 Overlaps 过滤，只保留真正相交的记录
func findConflicts(ctx context.Context, repo *repository.Repository, hallID string, start, end time.Time, statuses []string, excludeID string) ([]model.Booking, error) {
	candidates, err := repo.Booking.FindOverlapping(ctx, hallID, start, end, statuses, excludeID)
	if err != nil {
		return nil, err
	}

	conflicts := candidates[:0]
	for _, b := range candidates {
		if b.BookingID == excludeID {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
