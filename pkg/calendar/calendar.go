package calendar

import (
	"errors"
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//Seminar Hub//Booking Calendar//EN"

// Invite 单个预约的日历邀请
type Invite struct {
	UID            string
	Summary        string
	Description    string
	Location       string
	Start          time.Time
	End            time.Time
	OrganizerEmail string
	AttendeeEmail  string
	URL            string
	Cancelled      bool
}

// ErrInvalidWindow 邀请时间段无效
var ErrInvalidWindow = errors.New("invite end must be after start")

// Build 生成 RFC 5545 日历内容（METHOD:REQUEST 或 CANCEL）
func Build(inv Invite, now time.Time) ([]byte, error) {
	if !inv.End.After(inv.Start) {
		return nil, ErrInvalidWindow
	}

	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	if inv.Cancelled {
		cal.SetMethod(ics.MethodCancel)
	} else {
		cal.SetMethod(ics.MethodRequest)
	}

	ev := cal.AddEvent(inv.UID + "@seminar-hub")
	ev.SetDtStampTime(now.UTC())
	ev.SetCreatedTime(now.UTC())
	ev.SetStartAt(inv.Start.UTC())
	ev.SetEndAt(inv.End.UTC())
	ev.SetSummary(inv.Summary)
	if inv.Location != "" {
		ev.SetLocation(inv.Location)
	}
	if inv.Description != "" {
		ev.SetDescription(inv.Description)
	}
	if inv.URL != "" {
		ev.SetURL(inv.URL)
	}
	if inv.OrganizerEmail != "" {
		ev.SetOrganizer("mailto:" + inv.OrganizerEmail)
	}
	if inv.AttendeeEmail != "" {
		ev.AddAttendee("mailto:"+inv.AttendeeEmail,
			ics.CalendarUserTypeIndividual,
			ics.ParticipationStatusAccepted,
		)
	}
	if inv.Cancelled {
		ev.SetStatus(ics.ObjectStatusCancelled)
	} else {
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}

	return []byte(cal.Serialize()), nil
}
