package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Window 从消息中解析出的时间窗口 [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
	// HasTime 消息中是否显式给出了时间
	HasTime bool
}

// WindowDefaults 未给出时间或只给出单个时间时的默认值
type WindowDefaults struct {
	StartHour int
	Duration  time.Duration
}

// DefaultWindow 09:00 开始、持续 2 小时
var DefaultWindow = WindowDefaults{StartHour: 9, Duration: 2 * time.Hour}

var (
	reISODate  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reDayAfter = regexp.MustCompile(`\bday\s+after\s+tomorrow\b`)
	reTomorrow = regexp.MustCompile(`\b(tomorrow|tmrw|tmr)\b`)
	reToday    = regexp.MustCompile(`\b(today|tonight)\b`)
	reWeekday  = regexp.MustCompile(`\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)

	clock      = `(\d{1,2})(?::([0-5]\d))?\s*(a\.m\.|p\.m\.|am\b|pm\b)?`
	reRange    = regexp.MustCompile(`\b` + clock + `\s*(?:-|–|to|until|till)\s*` + clock)
	reBareSpan = regexp.MustCompile(`\b(?:from|between)\s+(\d{1,2})\s*(?:-|–|to|until|till|and)\s*(\d{1,2})\b`)
	reMeridiem = regexp.MustCompile(`\b(\d{1,2})(?::([0-5]\d))?\s*(a\.m\.|p\.m\.|am\b|pm\b)`)
	re24h      = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// ParseWindow 解析消息中的日期与时间
//
// 日期：today / tomorrow / day after tomorrow / 星期名（含当天）/ yyyy-mm-dd，缺省为今天
// 时间：9 am、11:30 pm、2pm、14:00，以及 "from X to Y"、"X - Y" 区间
// 无上下午标记的整点区间（"from 10 to 12"）按工作时间解释，1-7 点视为下午
// 单个时间取 Duration 时长；未给出时间取 StartHour 起的默认窗口
func ParseWindow(message string, now time.Time, loc *time.Location, def WindowDefaults) Window {
	if loc == nil {
		loc = time.UTC
	}
	if def.Duration <= 0 {
		def = DefaultWindow
	}
	msg := strings.ToLower(message)
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	// ── 日期 ──
	switch {
	case reISODate.MatchString(msg):
		m := reISODate.FindStringSubmatch(msg)
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			day = time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
		}
		msg = reISODate.ReplaceAllString(msg, " ")
	case reDayAfter.MatchString(msg):
		day = day.AddDate(0, 0, 2)
	case reTomorrow.MatchString(msg):
		day = day.AddDate(0, 0, 1)
	case reToday.MatchString(msg):
	case reWeekday.MatchString(msg):
		want := weekdays[reWeekday.FindString(msg)]
		diff := (int(want) - int(day.Weekday()) + 7) % 7
		day = day.AddDate(0, 0, diff)
	}

	at := func(minutes int) time.Time {
		return day.Add(time.Duration(minutes) * time.Minute)
	}

	// ── 时间区间 ──
	if m := reRange.FindStringSubmatch(msg); m != nil && (m[3] != "" || m[6] != "" || m[2] != "" || m[5] != "") {
		endMer := m[6]
		startMer := m[3]
		if startMer == "" {
			startMer = endMer
		}
		end, okEnd := toMinutes(m[4], m[5], endMer)
		start, okStart := toMinutes(m[1], m[2], startMer)
		// "11 - 1pm" 沿用结束时间的 pm 会超过结束时间，改按上午解释
		if okStart && okEnd && start >= end && m[3] == "" && endMer != "" {
			start, okStart = toMinutes(m[1], m[2], "am")
		}
		if okStart && okEnd && start < end {
			return Window{Start: at(start), End: at(end), HasTime: true}
		}
	}

	if m := reBareSpan.FindStringSubmatch(msg); m != nil {
		start, okStart := workingHour(m[1])
		end, okEnd := workingHour(m[2])
		if okStart && okEnd && start < end {
			return Window{Start: at(start), End: at(end), HasTime: true}
		}
	}

	// ── 单个时间 ──
	if m := reMeridiem.FindStringSubmatch(msg); m != nil {
		if start, ok := toMinutes(m[1], m[2], m[3]); ok {
			s := at(start)
			return Window{Start: s, End: s.Add(def.Duration), HasTime: true}
		}
	}
	if m := re24h.FindStringSubmatch(msg); m != nil {
		if start, ok := toMinutes(m[1], m[2], ""); ok {
			s := at(start)
			return Window{Start: s, End: s.Add(def.Duration), HasTime: true}
		}
	}

	s := day.Add(time.Duration(def.StartHour) * time.Hour)
	return Window{Start: s, End: s.Add(def.Duration)}
}

// workingHour 无上下午标记的整点，8-23 原样，1-7 视为下午
func workingHour(hour string) (int, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 23 {
		return 0, false
	}
	if h < 8 {
		h += 12
	}
	return h * 60, true
}

// toMinutes 将时、分与上下午标记换算为当天分钟数
func toMinutes(hour, minute, meridiem string) (int, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return 0, false
	}
	m := 0
	if minute != "" {
		if m, err = strconv.Atoi(minute); err != nil {
			return 0, false
		}
	}
	switch strings.ReplaceAll(meridiem, ".", "") {
	case "am":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h != 12 {
			h += 12
		}
	default:
		// 无上下午标记时只接受 HH:MM
		if minute == "" || h > 23 {
			return 0, false
		}
	}
	return h*60 + m, true
}
