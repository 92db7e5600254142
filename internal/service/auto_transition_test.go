package service

import (
	"context"
	"testing"
	"time"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
)

func setupTestAutoTransition() (*fixture, AutoTransitionService) {
	f := newFixture()
	return f, NewAutoTransitionService(f.repo, f.out, time.UTC, f.logger)
}

// ── AutoReject 测试 ──

func TestAutoTransition_AutoReject(t *testing.T) {
	f, svc := setupTestAutoTransition()
	f.seedBooking("started", hallMain, teacherA, model.BookingPending, testNow.Add(-time.Minute), time.Hour)
	f.seedBooking("starts-now", hallSmall, teacherB, model.BookingPending, testNow, time.Hour)
	f.seedBooking("future", hallMain, teacherA, model.BookingPending, testNow.Add(time.Hour), time.Hour)
	f.seedBooking("approved", hallFaraday, teacherB, model.BookingApproved, testNow.Add(-time.Hour), 2*time.Hour)

	n, err := svc.AutoReject(context.Background(), testNow)
	if err != nil {
		t.Fatalf("AutoReject 应成功: %v", err)
	}
	if n != 2 {
		t.Errorf("期望拒绝 2 条，实际=%d", n)
	}

	for _, id := range []string{"started", "starts-now"} {
		b := f.bookings.bookings[id]
		if b.Status != model.BookingRejected {
			t.Errorf("%s 期望 rejected，实际=%s", id, b.Status)
		}
		if b.RejectionReason == nil || *b.RejectionReason != AutoRejectReason {
			t.Errorf("%s 拒绝原因不符: %v", id, b.RejectionReason)
		}
		logs := f.bookings.logsFor(id)
		if len(logs) != 1 || logs[0].Action != model.ActionAutoRejected || logs[0].PerformedBy != b.TeacherID {
			t.Errorf("%s 期望一条记在申请人名下的 auto_rejected 日志，实际=%+v", id, logs)
		}
	}
	if f.bookings.bookings["future"].Status != model.BookingPending {
		t.Error("未开始的预约不应被拒绝")
	}
	if f.bookings.bookings["approved"].Status != model.BookingApproved {
		t.Error("已批准的预约不受自动拒绝影响")
	}

	if len(f.notifications.forProfile(teacherA)) != 1 || len(f.notifications.forProfile(teacherB)) != 1 {
		t.Error("每位申请人应收到一条拒绝通知")
	}
	autoRejected := 0
	for _, typ := range f.pub.types() {
		if typ == events.BookingAutoRejected {
			autoRejected++
		}
	}
	if autoRejected != 2 {
		t.Errorf("期望发布 2 条 booking.auto_rejected，实际=%d", autoRejected)
	}
}

func TestAutoTransition_AutoReject_SkipsStale(t *testing.T) {
	f, svc := setupTestAutoTransition()
	f.seedBooking("raced", hallMain, teacherA, model.BookingPending, testNow.Add(-time.Minute), time.Hour)
	f.seedBooking("ok", hallSmall, teacherB, model.BookingPending, testNow.Add(-time.Minute), time.Hour)
	f.bookings.staleOnUpdate["raced"] = true

	n, err := svc.AutoReject(context.Background(), testNow)
	if err != nil {
		t.Fatalf("单条失败不应中断任务: %v", err)
	}
	if n != 1 {
		t.Errorf("期望成功 1 条，实际=%d", n)
	}
	if len(f.bookings.logsFor("raced")) != 0 {
		t.Error("被抢先修改的预约不应写日志")
	}
	if len(f.notifications.forProfile(teacherA)) != 0 {
		t.Error("被抢先修改的预约不应发送通知")
	}
}

func TestAutoTransition_AutoReject_NothingDue(t *testing.T) {
	f, svc := setupTestAutoTransition()
	f.seedBooking("future", hallMain, teacherA, model.BookingPending, testNow.Add(time.Hour), time.Hour)

	n, err := svc.AutoReject(context.Background(), testNow)
	if err != nil || n != 0 {
		t.Errorf("期望 0 条且无错误，实际 n=%d err=%v", n, err)
	}
}

// ── AutoComplete 测试 ──

func TestAutoTransition_AutoComplete(t *testing.T) {
	f, svc := setupTestAutoTransition()
	f.seedBooking("ended", hallMain, teacherA, model.BookingApproved, testNow.Add(-3*time.Hour), 2*time.Hour)
	f.seedBooking("ends-now", hallSmall, teacherB, model.BookingApproved, testNow.Add(-time.Hour), time.Hour)
	f.seedBooking("running", hallFaraday, teacherA, model.BookingApproved, testNow.Add(-time.Hour), 2*time.Hour)
	f.seedBooking("pending-ended", hallMain, teacherB, model.BookingPending, testNow.Add(-6*time.Hour), time.Hour)

	n, err := svc.AutoComplete(context.Background(), testNow)
	if err != nil {
		t.Fatalf("AutoComplete 应成功: %v", err)
	}
	if n != 2 {
		t.Errorf("期望完成 2 条，实际=%d", n)
	}

	for _, id := range []string{"ended", "ends-now"} {
		b := f.bookings.bookings[id]
		if b.Status != model.BookingCompleted || b.CompletedAt == nil || !b.CompletedAt.Equal(testNow) {
			t.Errorf("%s 期望 completed@now，实际=%s %v", id, b.Status, b.CompletedAt)
		}
		logs := f.bookings.logsFor(id)
		if len(logs) != 1 || logs[0].Action != model.ActionAutoCompleted || logs[0].PreviousStatus != model.BookingApproved {
			t.Errorf("%s 期望 auto_completed 日志，实际=%+v", id, logs)
		}
	}
	if f.bookings.bookings["running"].Status != model.BookingApproved {
		t.Error("进行中的预约不应被完成")
	}
	if f.bookings.bookings["pending-ended"].Status != model.BookingPending {
		t.Error("pending 预约不属于自动完成范围")
	}

	notes := f.notifications.forProfile(teacherA)
	if len(notes) != 1 || notes[0].Type != model.NotifyBookingCompleted {
		t.Errorf("申请人应收到完成通知，实际=%d", len(notes))
	}
}

func TestAutoTransition_Idempotent(t *testing.T) {
	f, svc := setupTestAutoTransition()
	f.seedBooking("ended", hallMain, teacherA, model.BookingApproved, testNow.Add(-3*time.Hour), time.Hour)

	if n, _ := svc.AutoComplete(context.Background(), testNow); n != 1 {
		t.Fatalf("首次运行期望 1，实际=%d", n)
	}
	if n, _ := svc.AutoComplete(context.Background(), testNow); n != 0 {
		t.Errorf("重复运行不应再处理，实际=%d", n)
	}
	if len(f.bookings.logsFor("ended")) != 1 {
		t.Error("重复运行不应追加日志")
	}
}
