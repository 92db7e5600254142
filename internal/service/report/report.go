// Package report 生成预约与研讨厅的 PDF 报表
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrReportNotCompleted = errors.New("Report allowed only for completed bookings")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrHallNotFound       = errors.New("hall not found")
	ErrRangeInvalid       = errors.New("report range end must not be before start")
)

// Generator 报表生成器
type Generator struct {
	repo   *repository.Repository
	images ImageFetcher
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewGenerator 创建 Generator
func NewGenerator(repo *repository.Repository, images ImageFetcher, loc *time.Location, logger *zap.Logger) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{repo: repo, images: images, loc: loc, now: time.Now, logger: logger}
}

// ────────────────────── BookingReport ──────────────────────

// BookingReport 已完成预约的会后报告，返回 PDF 内容与文件名
func (g *Generator) BookingReport(ctx context.Context, bookingID string) ([]byte, string, error) {
	b, err := g.repo.Booking.GetDetail(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBookingNotFound
		}
		return nil, "", err
	}
	if b.Status != model.BookingCompleted {
		return nil, "", ErrReportNotCompleted
	}

	logs, err := g.repo.Booking.ListLogs(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	doc := newDocument("Seminar Hall Booking Report", "Generated "+g.now().In(g.loc).Format("02 Jan 2006, 15:04"))

	doc.section("Booking")
	doc.keyValues([][2]string{
		{"Booking ID", b.BookingID},
		{"Status", b.Status},
		{"Date", b.StartTime.In(g.loc).Format("Monday, 02 January 2006")},
		{"Time", b.StartTime.In(g.loc).Format("15:04") + " - " + b.EndTime.In(g.loc).Format("15:04")},
		{"Purpose", b.Purpose},
		{"Participants", strconv.Itoa(b.ExpectedParticipants)},
		{"Requested by", profileName(b.Teacher, b.TeacherID)},
		{"Approved by", profileName(b.HOD, deref(b.HODID))},
		{"Approved at", g.formatPtr(b.ApprovedAt)},
		{"Completed at", g.formatPtr(b.CompletedAt)},
	})

	if b.Hall != nil {
		doc.section("Hall")
		g.hallDetails(doc, b.Hall)
		g.coverImage(ctx, doc, b.Hall)
	}

	doc.section("Session Summary")
	if b.SessionSummary != nil && strings.TrimSpace(*b.SessionSummary) != "" {
		doc.paragraph(*b.SessionSummary)
	} else {
		doc.note("No session summary was provided.")
	}
	if b.AISummary != nil && strings.TrimSpace(*b.AISummary) != "" {
		doc.section("AI Summary")
		doc.paragraph(*b.AISummary)
	}

	doc.section("Timeline")
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.CreatedAt.In(g.loc).Format("02 Jan 2006 15:04"),
			l.Action,
			l.PreviousStatus,
			l.NewStatus,
			profileName(l.Performer, l.PerformedBy),
			l.Notes,
		})
	}
	doc.table([]string{"Time", "Action", "From", "To", "By", "Notes"}, []float64{2.2, 1.6, 1.2, 1.2, 2, 3}, rows)

	data, err := doc.bytes()
	if err != nil {
		g.logger.Error("生成预约报告失败", zap.String("booking_id", bookingID), zap.Error(err))
		return nil, "", err
	}
	return data, "booking-report-" + b.BookingID + ".pdf", nil
}

// ────────────────────── HallReport ──────────────────────

// HallReport 研讨厅在 [from, to] 日期内的使用报表
func (g *Generator) HallReport(ctx context.Context, hallID string, from, to time.Time) ([]byte, string, error) {
	if to.Before(from) {
		return nil, "", ErrRangeInvalid
	}
	h, err := g.repo.Hall.GetDetail(ctx, hallID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrHallNotFound
		}
		return nil, "", err
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, g.loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, g.loc).AddDate(0, 0, 1)
	bookings, _, err := g.repo.Booking.List(ctx, repository.BookingFilter{HallID: hallID, From: &start, To: &end})
	if err != nil {
		return nil, "", err
	}

	period := start.Format("02 Jan 2006") + " - " + end.AddDate(0, 0, -1).Format("02 Jan 2006")
	doc := newDocument(h.Name+" Usage Report", period)

	doc.section("Hall")
	g.hallDetails(doc, h)
	g.coverImage(ctx, doc, h)

	doc.section("Equipment")
	if len(h.Equipment) == 0 {
		doc.note("No equipment is registered for this hall.")
	} else {
		rows := make([][]string, 0, len(h.Equipment))
		for _, e := range h.Equipment {
			rows = append(rows, []string{e.Name, e.Type, e.SerialNo, e.Status})
		}
		doc.table([]string{"Name", "Type", "Serial", "Status"}, []float64{3, 2, 2, 1.5}, rows)
	}

	doc.section("Components")
	if len(h.Components) == 0 {
		doc.note("No components are registered for this hall.")
	} else {
		rows := make([][]string, 0, len(h.Components))
		for _, c := range h.Components {
			rows = append(rows, []string{c.Name, c.Category, c.Status})
		}
		doc.table([]string{"Name", "Category", "Status"}, []float64{3, 2, 2}, rows)
	}

	doc.section("Bookings")
	totals := make(map[string]int)
	if len(bookings) == 0 {
		doc.note("No bookings in this period.")
	} else {
		rows := make([][]string, 0, len(bookings))
		for _, b := range bookings {
			totals[b.Status]++
			rows = append(rows, []string{
				b.StartTime.In(g.loc).Format("02 Jan 2006"),
				b.StartTime.In(g.loc).Format("15:04") + "-" + b.EndTime.In(g.loc).Format("15:04"),
				profileName(b.Teacher, b.TeacherID),
				b.Purpose,
				b.Status,
			})
		}
		doc.table([]string{"Date", "Time", "Requester", "Purpose", "Status"}, []float64{1.6, 1.4, 2, 3.5, 1.3}, rows)
	}

	doc.section("Totals")
	summary := make([][2]string, 0, 6)
	for _, st := range []string{model.BookingPending, model.BookingApproved, model.BookingRejected, model.BookingCancelled, model.BookingCompleted} {
		summary = append(summary, [2]string{strings.ToUpper(st[:1]) + st[1:], strconv.Itoa(totals[st])})
	}
	summary = append(summary, [2]string{"Total", strconv.Itoa(len(bookings))})
	doc.keyValues(summary)

	data, err := doc.bytes()
	if err != nil {
		g.logger.Error("生成研讨厅报表失败", zap.String("hall_id", hallID), zap.Error(err))
		return nil, "", err
	}
	name := fmt.Sprintf("hall-report-%s-%s-%s.pdf", h.HallID, start.Format("20060102"), end.AddDate(0, 0, -1).Format("20060102"))
	return data, name, nil
}

// ── 内部辅助 ──

func (g *Generator) hallDetails(doc *document, h *model.SeminarHall) {
	rows := [][2]string{
		{"Name", h.Name},
		{"Location", h.Location},
		{"Capacity", strconv.Itoa(h.Capacity)},
	}
	if h.Department != nil {
		rows = append(rows, [2]string{"Department", h.Department.Name})
	}
	if h.TechStaff != nil {
		rows = append(rows, [2]string{"Tech staff", h.TechStaff.Name})
	}
	if h.Description != "" {
		rows = append(rows, [2]string{"Description", h.Description})
	}
	doc.keyValues(rows)
}

// coverImage 单张图片失败只写提示，不中断整份报表
func (g *Generator) coverImage(ctx context.Context, doc *document, h *model.SeminarHall) {
	if h.ImageURL == nil || *h.ImageURL == "" || g.images == nil {
		return
	}
	data, imageType, err := g.images.Fetch(ctx, *h.ImageURL)
	if err != nil {
		g.logger.Warn("报表图片加载失败", zap.String("hall_id", h.HallID), zap.String("url", *h.ImageURL), zap.Error(err))
	}
	doc.image("hall-"+h.HallID, data, imageType, err)
}

func (g *Generator) formatPtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(g.loc).Format("02 Jan 2006, 15:04")
}

func profileName(p *model.Profile, fallback string) string {
	if p != nil {
		return p.Name
	}
	if fallback == "" {
		return "-"
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
