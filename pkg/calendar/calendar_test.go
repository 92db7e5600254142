package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
)

func TestBuild(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	data, err := Build(Invite{
		UID:           "b-1",
		Summary:       "Main Auditorium: Guest lecture",
		Location:      "Block A",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		AttendeeEmail: "teacher@example.edu",
	}, time.Now())
	if err != nil {
		t.Fatalf("Build 应成功: %v", err)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("生成的内容应可被解析: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("期望 1 个事件，实际 %d", len(events))
	}

	ev := events[0]
	if ev.Id() != "b-1@seminar-hub" {
		t.Errorf("UID 不符: %s", ev.Id())
	}
	got, err := ev.GetStartAt()
	if err != nil {
		t.Fatalf("读取开始时间失败: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("开始时间不符: 期望 %v，实际 %v", start.UTC(), got)
	}
	if !strings.Contains(string(data), "METHOD:REQUEST") {
		t.Error("应声明 METHOD:REQUEST")
	}
	if !strings.Contains(string(data), "mailto:teacher@example.edu") {
		t.Error("应包含参会人")
	}
}

func TestBuild_Cancelled(t *testing.T) {
	start := time.Now().Add(time.Hour)
	data, err := Build(Invite{UID: "b-2", Summary: "x", Start: start, End: start.Add(time.Hour), Cancelled: true}, time.Now())
	if err != nil {
		t.Fatalf("Build 应成功: %v", err)
	}
	if !strings.Contains(string(data), "METHOD:CANCEL") || !strings.Contains(string(data), "STATUS:CANCELLED") {
		t.Errorf("取消邀请内容不符:\n%s", data)
	}
}

func TestBuild_InvalidWindow(t *testing.T) {
	now := time.Now()
	if _, err := Build(Invite{UID: "b", Start: now, End: now}, now); err != ErrInvalidWindow {
		t.Errorf("期望 ErrInvalidWindow，实际 %v", err)
	}
}
