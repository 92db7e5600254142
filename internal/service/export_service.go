package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportRangeInvalid = errors.New("export range end must not be before start")
	ErrExportGenerateFail = errors.New("failed to generate spreadsheet")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportBookings 导出 HOD 所在院系在 [from, to] 日期内的预约
	ExportBookings(ctx context.Context, hodID string, req *dto.ExportBookingsRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, loc: loc, logger: logger}
}

var exportHeaders = []string{"Hall", "Requester", "Date", "Start", "End", "Status", "Purpose", "Participants"}

// ═══════════════════════════════════════════════════════════
// ExportBookings 导出预约为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Bookings"：每条预约一行
//   - Sheet "Summary"：按状态汇总
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportBookings(ctx context.Context, hodID string, req *dto.ExportBookingsRequest) (*bytes.Buffer, string, error) {
	if req.To.Before(req.From) {
		return nil, "", ErrExportRangeInvalid
	}

	// 1. 限定为 HOD 所在院系
	dept, err := s.repo.Department.GetByHOD(ctx, hodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotHOD
		}
		return nil, "", err
	}

	// 2. 日期按业务时区解释，结束日期含当天
	from := time.Date(req.From.Year(), req.From.Month(), req.From.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(req.To.Year(), req.To.Month(), req.To.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)

	f := repository.BookingFilter{
		DepartmentID: dept.DepartmentID,
		HallID:       req.HallID,
		From:         &from,
		To:           &to,
	}
	if req.Status != "" {
		f.Statuses = []string{req.Status}
	}
	list, _, err := s.repo.Booking.List(ctx, f)
	if err != nil {
		s.logger.Error("查询导出预约失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
		return nil, "", err
	}

	// 3. 生成 Excel
	buf, err := s.render(list)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("bookings_%s_%s_%s.xlsx", dept.Code, req.From.Format("20060102"), req.To.Format("20060102"))
	if dept.Code == "" {
		filename = fmt.Sprintf("bookings_%s_%s.xlsx", req.From.Format("20060102"), req.To.Format("20060102"))
	}
	s.logger.Info("预约导出完成", zap.String("department_id", dept.DepartmentID), zap.Int("rows", len(list)))
	return buf, filename, nil
}

func (s *exportService) render(list []model.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	widths := []float64{24, 22, 12, 8, 8, 12, 48, 12}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range exportHeaders {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	// 数据行
	totals := make(map[string]int)
	for i := range list {
		b := &list[i]
		row := i + 2
		requester := b.TeacherID
		if b.Teacher != nil {
			requester = b.Teacher.Name
		}
		start := b.StartTime.In(s.loc)
		end := b.EndTime.In(s.loc)

		f.SetCellValue(sheet, cell("A", row), hallNameOf(b.Hall))
		f.SetCellValue(sheet, cell("B", row), requester)
		f.SetCellValue(sheet, cell("C", row), start.Format("2006-01-02"))
		f.SetCellValue(sheet, cell("D", row), start.Format("15:04"))
		f.SetCellValue(sheet, cell("E", row), end.Format("15:04"))
		f.SetCellValue(sheet, cell("F", row), b.Status)
		f.SetCellValue(sheet, cell("G", row), b.Purpose)
		f.SetCellValue(sheet, cell("H", row), b.ExpectedParticipants)
		totals[b.Status]++
	}

	// 汇总
	summary := "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, err
	}
	f.SetColWidth(summary, "A", "A", 14)
	f.SetCellValue(summary, "A1", "Status")
	f.SetCellValue(summary, "B1", "Count")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)
	statuses := []string{model.BookingPending, model.BookingApproved, model.BookingRejected, model.BookingCancelled, model.BookingCompleted}
	for i, st := range statuses {
		f.SetCellValue(summary, cell("A", i+2), st)
		f.SetCellValue(summary, cell("B", i+2), totals[st])
	}
	f.SetCellValue(summary, cell("A", len(statuses)+2), "total")
	f.SetCellValue(summary, cell("B", len(statuses)+2), len(list))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
