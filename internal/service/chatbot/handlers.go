package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

const upcomingLimit = 10

// ────────────────────── availability ──────────────────────

// defaultSlotNote 消息未给出时间时附在可用性回复末尾
const defaultSlotNote = "No time was mentioned, so I checked the default slot. Add a time such as \"from 2 pm to 4 pm\" to check another one."

func (b *Bot) availability(ctx context.Context, message string) (string, error) {
	hall, refs, err := b.resolve(ctx, message)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "No seminar halls are registered yet.", nil
	}

	w := ParseWindow(message, b.now(), b.loc, b.defaults)
	window := formatWindow(w.Start, w.End)

	if hall != nil {
		approved, pending, err := b.overlaps(ctx, hall.ID, w)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		if len(approved) == 0 {
			fmt.Fprintf(&sb, "%s is available on %s.\n%s", hall.Name, window, createToken(hall.ID, w.Start, w.End))
		} else {
			fmt.Fprintf(&sb, "%s is already booked on %s:", hall.Name, window)
			for i := range approved {
				a := &approved[i]
				fmt.Fprintf(&sb, "\n- %s (%s - %s) %s",
					oneLine(a.Purpose), a.StartTime.In(b.loc).Format("15:04"), a.EndTime.In(b.loc).Format("15:04"), openToken(a.BookingID))
			}
		}
		if pending > 0 {
			fmt.Fprintf(&sb, "\nNote: %s awaiting approval also overlap this time.", plural(pending, "request"))
		}
		if !w.HasTime {
			sb.WriteString("\n" + defaultSlotNote)
		}
		return sb.String(), nil
	}

	// 未指定礼堂时逐个列出
	var sb strings.Builder
	fmt.Fprintf(&sb, "Availability for %s:", window)
	for _, h := range refs {
		approved, _, err := b.overlaps(ctx, h.ID, w)
		if err != nil {
			return "", err
		}
		if len(approved) == 0 {
			fmt.Fprintf(&sb, "\n- %s: available %s", h.Name, createToken(h.ID, w.Start, w.End))
			continue
		}
		fmt.Fprintf(&sb, "\n- %s: booked", h.Name)
		for i := range approved {
			sb.WriteString(" " + openToken(approved[i].BookingID))
		}
	}
	if !w.HasTime {
		sb.WriteString("\n" + defaultSlotNote)
	}
	return sb.String(), nil
}

// overlaps 返回窗口内已批准的预约与待审批预约数
func (b *Bot) overlaps(ctx context.Context, hallID string, w Window) ([]model.Booking, int, error) {
	list, err := b.repo.Booking.FindOverlapping(ctx, hallID, w.Start, w.End, model.BlockingStatuses, "")
	if err != nil {
		return nil, 0, err
	}
	var approved []model.Booking
	pending := 0
	for _, bk := range list {
		switch bk.Status {
		case model.BookingApproved:
			approved = append(approved, bk)
		case model.BookingPending:
			pending++
		}
	}
	return approved, pending, nil
}

// ────────────────────── my_bookings ──────────────────────

func (b *Bot) myBookings(ctx context.Context, c *caller) (string, error) {
	now := b.now()
	list, _, err := b.repo.Booking.List(ctx, repository.BookingFilter{
		TeacherID: c.profile.ProfileID,
		Statuses:  model.BlockingStatuses,
		From:      &now,
		Limit:     upcomingLimit,
	})
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "You have no upcoming bookings.", nil
	}
	return bookingBlocks(list, b.loc), nil
}

// ────────────────────── hod_pending_bookings ──────────────────────

func (b *Bot) hodPending(ctx context.Context, c *caller) (string, error) {
	if !c.profile.HasRole(model.RoleHOD) {
		return "Only heads of department can view bookings awaiting approval.", nil
	}
	dept, err := b.repo.Department.GetByHOD(ctx, c.profile.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "You are not assigned as head of any department.", nil
		}
		return "", err
	}

	list, _, err := b.repo.Booking.List(ctx, repository.BookingFilter{
		DepartmentID: dept.DepartmentID,
		Statuses:     []string{model.BookingPending},
	})
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "There are no bookings awaiting your approval.", nil
	}
	return bookingBlocks(list, b.loc), nil
}

// ────────────────────── equipment ──────────────────────

func (b *Bot) equipment(ctx context.Context, message string) (string, error) {
	hall, refs, err := b.resolve(ctx, message)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if hall != nil {
		list, err := b.repo.Equipment.ListByHall(ctx, hall.ID)
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return fmt.Sprintf("No equipment is registered for %s.", hall.Name), nil
		}
		fmt.Fprintf(&sb, "Equipment in %s:", hall.Name)
		for _, e := range list {
			fmt.Fprintf(&sb, "\n- %s (%s): %s", e.Name, e.Type, e.Status)
		}
		return sb.String(), nil
	}

	list, err := b.repo.Equipment.ListByStatus(ctx, model.EquipmentNotWorking)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "All registered equipment is working.", nil
	}
	names := make(map[string]string, len(refs))
	for _, r := range refs {
		names[r.ID] = r.Name
	}
	sb.WriteString("Equipment currently not working:")
	for _, e := range list {
		fmt.Fprintf(&sb, "\n- %s (%s) in %s", e.Name, e.Type, names[e.HallID])
	}
	return sb.String(), nil
}

// ────────────────────── hall_info ──────────────────────

func (b *Bot) hallInfo(ctx context.Context, message string) (string, error) {
	ref, _, err := b.resolve(ctx, message)
	if err != nil {
		return "", err
	}

	if ref != nil {
		h, err := b.repo.Hall.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.WriteString(h.Name)
		fmt.Fprintf(&sb, "\nCapacity: %d", h.Capacity)
		fmt.Fprintf(&sb, "\nLocation: %s", h.Location)
		if h.Department != nil {
			fmt.Fprintf(&sb, "\nDepartment: %s", h.Department.Name)
		}
		if h.TechStaff != nil {
			fmt.Fprintf(&sb, "\nTech staff: %s", h.TechStaff.Name)
		}
		if h.Description != "" {
			fmt.Fprintf(&sb, "\n%s", h.Description)
		}
		return sb.String(), nil
	}

	halls, err := b.repo.Hall.List(ctx, "")
	if err != nil {
		return "", err
	}
	if len(halls) == 0 {
		return "No seminar halls are registered yet.", nil
	}
	var sb strings.Builder
	sb.WriteString("Seminar halls:")
	for _, h := range halls {
		fmt.Fprintf(&sb, "\n- %s (capacity %d, %s)", h.Name, h.Capacity, h.Location)
	}
	return sb.String(), nil
}

// ────────────────────── maintenance ──────────────────────

func (b *Bot) maintenance(ctx context.Context, c *caller, message string) (string, error) {
	hall, _, err := b.resolve(ctx, message)
	if err != nil {
		return "", err
	}

	if filing(strings.ToLower(message), c.role) {
		if hall == nil {
			return "Please mention which hall the issue is in so I can file a maintenance request.", nil
		}
		return b.fileMaintenance(ctx, c, hall, message)
	}

	f := repository.MaintenanceFilter{Statuses: []string{model.MaintenancePending, model.MaintenanceApproved}}
	if hall != nil {
		f.HallID = hall.ID
	}
	list, err := b.repo.Maintenance.List(ctx, f)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "There are no open maintenance requests.", nil
	}

	var sb strings.Builder
	sb.WriteString("Open maintenance requests:")
	for _, mr := range list {
		hallName := mr.HallID
		if mr.Hall != nil {
			hallName = mr.Hall.Name
		}
		fmt.Fprintf(&sb, "\n- [%s] %s in %s: %s", mr.Priority, mr.Title, hallName, mr.Status)
	}
	return sb.String(), nil
}

func (b *Bot) fileMaintenance(ctx context.Context, c *caller, hall *HallRef, message string) (string, error) {
	req := &dto.CreateMaintenanceRequest{
		HallID:      hall.ID,
		Type:        "repair",
		Priority:    model.PriorityMedium,
		Title:       maintenanceTitle(message),
		Description: strings.TrimSpace(message),
	}
	if reUrgent.MatchString(strings.ToLower(message)) {
		req.Priority = model.PriorityHigh
	}

	// 消息提到的设备作为维修对象
	equipment, err := b.repo.Equipment.ListByHall(ctx, hall.ID)
	if err != nil {
		return "", err
	}
	names := make([]string, len(equipment))
	for i := range equipment {
		names[i] = equipment[i].Name
	}
	target := ""
	if i := matchName(message, names); i >= 0 {
		req.EquipmentID = &equipment[i].EquipmentID
		target = " for " + equipment[i].Name
	}

	resp, err := b.maint.Create(ctx, req, c.profile.ProfileID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Maintenance request filed%s in %s with %s priority. Reference: %s",
		target, hall.Name, resp.Priority, resp.ID), nil
}

// maintenanceTitle 取消息首行作为标题，超长截断
func maintenanceTitle(message string) string {
	title := oneLine(message)
	if r := []rune(title); len(r) > 120 {
		title = string(r[:117]) + "..."
	}
	if len([]rune(title)) < 3 {
		title = "Maintenance request"
	}
	return title
}
