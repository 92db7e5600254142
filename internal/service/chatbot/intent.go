package chatbot

import (
	"regexp"
	"strings"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// Intent 聊天消息意图
type Intent string

const (
	IntentAvailability       Intent = "availability"
	IntentMyBookings         Intent = "my_bookings"
	IntentHODPendingBookings Intent = "hod_pending_bookings"
	IntentEquipment          Intent = "equipment"
	IntentHallInfo           Intent = "hall_info"
	IntentMaintenance        Intent = "maintenance"
	IntentUnknown            Intent = "unknown"
)

var (
	reAvailability = regexp.MustCompile(`\b(free|available|availability|vacant|occupied|booked\s+(on|at|for|tomorrow|today))\b`)
	reMyBookings   = regexp.MustCompile(`\bmy\s+((upcoming|pending)\s+)?(bookings?|reservations?|sessions?|requests?)\b|\bbookings?\s+i\s+(have|made)\b`)
	reHODPending   = regexp.MustCompile(`\bpending\s+(bookings?|approvals?|booking\s+requests?)\b|\bbookings?\s+(to|awaiting|pending)\s+(approv\w*|review)\b|\bawaiting\s+(my\s+)?approval\b`)
	reEquipment    = regexp.MustCompile(`\b(equipment|projectors?|microphones?|mics?|speakers?|screens?|computers?|laptops?|air\s*conditioners?|not\s+working|broken)\b`)
	reHallInfo     = regexp.MustCompile(`\b(halls?|auditoriums?|capacity|location|seats?|where\s+is)\b`)
	reMaintenance  = regexp.MustCompile(`\b(maintenance|repairs?|fix|issues?|report|raise|log)\b`)
	reReportVerb   = regexp.MustCompile(`\b(report|log|raise)\b`)
	reUrgent       = regexp.MustCompile(`\b(urgent|urgently|asap|emergency)\b`)
)

type rule struct {
	intent Intent
	match  func(msg, role string) bool
}

// rules 按顺序匹配，命中第一条即返回
var rules = []rule{
	{IntentAvailability, func(msg, _ string) bool { return reAvailability.MatchString(msg) }},
	{IntentMyBookings, func(msg, _ string) bool { return reMyBookings.MatchString(msg) }},
	{IntentHODPendingBookings, func(msg, _ string) bool { return reHODPending.MatchString(msg) }},
	{IntentEquipment, func(msg, role string) bool { return !filing(msg, role) && reEquipment.MatchString(msg) }},
	{IntentHallInfo, func(msg, role string) bool { return !filing(msg, role) && reHallInfo.MatchString(msg) }},
	{IntentMaintenance, func(msg, _ string) bool { return reMaintenance.MatchString(msg) }},
}

// filing 技术人员带有上报动词的消息视为提交维修申请
func filing(msg, role string) bool {
	return role == model.RoleTechStaff && reReportVerb.MatchString(msg)
}

// Classify 识别消息意图
func Classify(message, role string) Intent {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.match(msg, role) {
			return r.intent
		}
	}
	return IntentUnknown
}
