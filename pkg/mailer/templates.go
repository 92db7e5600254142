package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// BookingMail 预约类邮件的模板数据
type BookingMail struct {
	To            string
	RecipientName string
	TeacherName   string
	HallName      string
	Purpose       string
	Start         time.Time
	End           time.Time
	Reason        string
	Link          string
}

// MaintenanceMail 维修申请类邮件的模板数据
type MaintenanceMail struct {
	To            string
	RecipientName string
	HallName      string
	Title         string
	Type          string
	Priority      string
	Target        string
	Reason        string
	Link          string
}

// FormatWindow 格式化预约时间段
func FormatWindow(start, end time.Time) string {
	return fmt.Sprintf("%s, %s - %s",
		start.Format("Mon, 02 Jan 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)
}

const layout = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2933;">
<div style="max-width:560px;margin:0 auto;padding:24px;border:1px solid #e4e7eb;border-radius:8px;">
<h2 style="margin-top:0;color:%s;">%s</h2>
<p>Hello %s,</p>
%s
<table style="width:100%%;border-collapse:collapse;margin:16px 0;">%s</table>
%s
<p style="color:#7b8794;font-size:12px;">This is an automated message from Seminar Hub.</p>
</div></body></html>`

func render(color, heading, recipient, intro string, rows [][2]string, link string) string {
	var b strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b,
			`<tr><td style="padding:6px 8px;font-weight:bold;width:35%%;">%s</td><td style="padding:6px 8px;">%s</td></tr>`,
			html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	action := ""
	if link != "" {
		action = fmt.Sprintf(`<p><a href="%s" style="color:#2563eb;">Open in Seminar Hub</a></p>`, html.EscapeString(link))
	}
	if recipient == "" {
		recipient = "there"
	}
	return fmt.Sprintf(layout, color, html.EscapeString(heading), html.EscapeString(recipient),
		"<p>"+html.EscapeString(intro)+"</p>", b.String(), action)
}

// ── 预约 ──

// BookingPendingMessage 新预约待审批（发给 HOD）
func BookingPendingMessage(d BookingMail) Message {
	return Message{
		To:      []string{d.To},
		Subject: "New booking request: " + d.HallName,
		HTML: render("#b7791f", "Booking awaiting your approval", d.RecipientName,
			d.TeacherName+" has requested a seminar hall booking.",
			[][2]string{
				{"Hall", d.HallName},
				{"When", FormatWindow(d.Start, d.End)},
				{"Requested by", d.TeacherName},
				{"Purpose", d.Purpose},
			}, d.Link),
	}
}

// BookingApprovedMessage 预约已批准（发给教师，附日历邀请）
func BookingApprovedMessage(d BookingMail, invite []byte) Message {
	msg := Message{
		To:      []string{d.To},
		Subject: "Booking approved: " + d.HallName,
		HTML: render("#2f855a", "Your booking has been approved", d.RecipientName,
			"Your seminar hall booking has been approved. A calendar invite is attached.",
			[][2]string{
				{"Hall", d.HallName},
				{"When", FormatWindow(d.Start, d.End)},
				{"Purpose", d.Purpose},
			}, d.Link),
	}
	if len(invite) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:        "booking.ics",
			ContentType: "text/calendar; charset=utf-8; method=REQUEST",
			Data:        invite,
		})
	}
	return msg
}

// BookingRejectedMessage 预约被拒绝（含自动拒绝）
func BookingRejectedMessage(d BookingMail) Message {
	return Message{
		To:      []string{d.To},
		Subject: "Booking rejected: " + d.HallName,
		HTML: render("#c53030", "Your booking was rejected", d.RecipientName,
			"Unfortunately your seminar hall booking was not approved.",
			[][2]string{
				{"Hall", d.HallName},
				{"When", FormatWindow(d.Start, d.End)},
				{"Purpose", d.Purpose},
				{"Reason", d.Reason},
			}, d.Link),
	}
}

// ── 维修 ──

// MaintenanceRequestedMessage 新维修申请（发给 HOD）
func MaintenanceRequestedMessage(d MaintenanceMail) Message {
	return Message{
		To:      []string{d.To},
		Subject: "Maintenance request: " + d.Title,
		HTML: render("#b7791f", "Maintenance request awaiting review", d.RecipientName,
			"A maintenance request was raised for a hall in your department.",
			maintenanceRows(d), d.Link),
	}
}

// MaintenanceApprovedMessage 维修申请已批准
func MaintenanceApprovedMessage(d MaintenanceMail) Message {
	return Message{
		To:      []string{d.To},
		Subject: "Maintenance approved: " + d.Title,
		HTML: render("#2f855a", "Maintenance request approved", d.RecipientName,
			"Your maintenance request has been approved. Please proceed with the work.",
			maintenanceRows(d), d.Link),
	}
}

// MaintenanceRejectedMessage 维修申请被拒绝
func MaintenanceRejectedMessage(d MaintenanceMail) Message {
	return Message{
		To:      []string{d.To},
		Subject: "Maintenance rejected: " + d.Title,
		HTML: render("#c53030", "Maintenance request rejected", d.RecipientName,
			"Your maintenance request was not approved.",
			append(maintenanceRows(d), [2]string{"Reason", d.Reason}), d.Link),
	}
}

func maintenanceRows(d MaintenanceMail) [][2]string {
	return [][2]string{
		{"Hall", d.HallName},
		{"Title", d.Title},
		{"Type", d.Type},
		{"Priority", d.Priority},
		{"Target", d.Target},
	}
}
