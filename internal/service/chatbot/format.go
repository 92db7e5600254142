package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// createToken 客户端渲染为"立即预约"按钮
func createToken(hallID string, start, end time.Time) string {
	return fmt.Sprintf("[CREATE_BOOKING:%s|%s|%s]", hallID, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// openToken 客户端渲染为"查看预约"链接
func openToken(bookingID string) string {
	return "[OPEN_BOOKING:" + bookingID + "]"
}

func formatWindow(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format("Mon, 02 Jan 2006, 15:04") + " - " + end.Format("15:04")
	}
	return start.Format("Mon, 02 Jan 2006, 15:04") + " - " + end.Format("Mon, 02 Jan 2006, 15:04")
}

// bookingBlocks 按日期分组输出 DATE:/BOOKING: 结构化块，list 需已按开始时间排序
func bookingBlocks(list []model.Booking, loc *time.Location) string {
	var sb strings.Builder
	lastDate := ""
	for i := range list {
		b := &list[i]
		start := b.StartTime.In(loc)
		date := start.Format("2006-01-02")
		if date != lastDate {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("DATE: " + date + "\n")
			lastDate = date
		}
		hall := b.HallID
		if b.Hall != nil {
			hall = b.Hall.Name
		}
		sb.WriteString("BOOKING:\n")
		sb.WriteString("ID=" + b.BookingID + "\n")
		sb.WriteString("HALL=" + hall + "\n")
		sb.WriteString("START=" + start.Format(time.RFC3339) + "\n")
		sb.WriteString("END=" + b.EndTime.In(loc).Format(time.RFC3339) + "\n")
		sb.WriteString("STATUS=" + b.Status + "\n")
		sb.WriteString("PURPOSE=" + oneLine(b.Purpose) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// oneLine 块格式按行解析，值内换行替换为空格
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
