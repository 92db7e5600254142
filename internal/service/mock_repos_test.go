package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	pkgerrors "github.com/KGLikith/Seminar-Hub-sub000/pkg/errors"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) add(id, name string, roles ...string) *model.Profile {
	p := &model.Profile{ProfileID: id, Name: name, Email: id + "@example.edu"}
	for _, r := range roles {
		p.Roles = append(p.Roles, model.UserRole{ProfileID: id, Role: r})
	}
	m.profiles[id] = p
	return p
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) ListByRole(_ context.Context, role string) ([]model.Profile, error) {
	var result []model.Profile
	for _, p := range m.profiles {
		if p.HasRole(role) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProfileRepo) HasRole(_ context.Context, profileID, role string) (bool, error) {
	p, ok := m.profiles[profileID]
	if !ok {
		return false, nil
	}
	return p.HasRole(role), nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	profiles    *mockProfileRepo
}

func newMockDepartmentRepo(profiles *mockProfileRepo) *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department), profiles: profiles}
}

func (m *mockDepartmentRepo) withHOD(d *model.Department) *model.Department {
	cp := *d
	if d.HODProfileID != nil {
		if p, ok := m.profiles.profiles[*d.HODProfileID]; ok {
			cp.HOD = p
		}
	}
	return &cp
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return m.withHOD(d), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByHOD(_ context.Context, hodProfileID string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.HODProfileID != nil && *d.HODProfileID == hodProfileID {
			return m.withHOD(d), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock HallRepository ──

type mockHallRepo struct {
	halls       map[string]*model.SeminarHall
	departments *mockDepartmentRepo
	locked      []string
}

func newMockHallRepo(departments *mockDepartmentRepo) *mockHallRepo {
	return &mockHallRepo{halls: make(map[string]*model.SeminarHall), departments: departments}
}

func (m *mockHallRepo) withRelations(h *model.SeminarHall) *model.SeminarHall {
	cp := *h
	if d, ok := m.departments.departments[h.DepartmentID]; ok {
		cp.Department = m.departments.withHOD(d)
	}
	if h.TechStaffID != nil {
		if p, ok := m.departments.profiles.profiles[*h.TechStaffID]; ok {
			cp.TechStaff = p
		}
	}
	return &cp
}

func (m *mockHallRepo) Create(_ context.Context, hall *model.SeminarHall) error {
	if hall.HallID == "" {
		hall.HallID = "hall-" + hall.Name
	}
	m.halls[hall.HallID] = hall
	return nil
}

func (m *mockHallRepo) GetByID(_ context.Context, id string) (*model.SeminarHall, error) {
	if h, ok := m.halls[id]; ok {
		return m.withRelations(h), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHallRepo) GetDetail(ctx context.Context, id string) (*model.SeminarHall, error) {
	return m.GetByID(ctx, id)
}

func (m *mockHallRepo) List(_ context.Context, departmentID string) ([]model.SeminarHall, error) {
	var result []model.SeminarHall
	for _, h := range m.halls {
		if departmentID != "" && h.DepartmentID != departmentID {
			continue
		}
		result = append(result, *m.withRelations(h))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockHallRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	h, ok := m.halls[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			h.Name = v.(string)
		case "capacity":
			h.Capacity = v.(int)
		case "location":
			h.Location = v.(string)
		case "description":
			h.Description = v.(string)
		case "image_url":
			if url, ok := v.(string); ok {
				h.ImageURL = &url
			} else {
				h.ImageURL = nil
			}
		case "tech_staff_id":
			s := v.(string)
			h.TechStaffID = &s
		}
	}
	return nil
}

func (m *mockHallRepo) LockByID(ctx context.Context, id string) (*model.SeminarHall, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

// ── Mock EquipmentRepository ──

type mockEquipmentRepo struct {
	items map[string]*model.Equipment
	logs  []model.EquipmentLog
}

func newMockEquipmentRepo() *mockEquipmentRepo {
	return &mockEquipmentRepo{items: make(map[string]*model.Equipment)}
}

func (m *mockEquipmentRepo) Create(_ context.Context, e *model.Equipment) error {
	if e.EquipmentID == "" {
		e.EquipmentID = "eq-" + e.Name
	}
	cp := *e
	m.items[e.EquipmentID] = &cp
	return nil
}

func (m *mockEquipmentRepo) GetByID(_ context.Context, id string) (*model.Equipment, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) ListByHall(_ context.Context, hallID string) ([]model.Equipment, error) {
	var result []model.Equipment
	for _, e := range m.items {
		if e.HallID == hallID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEquipmentRepo) ListByStatus(_ context.Context, status string) ([]model.Equipment, error) {
	var result []model.Equipment
	for _, e := range m.items {
		if e.Status == status {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	e, ok := m.items[id]
	if !ok || e.Status != from {
		return pkgerrors.ErrStaleStatus
	}
	e.Status = to
	return nil
}

func (m *mockEquipmentRepo) AppendLog(_ context.Context, log *model.EquipmentLog) error {
	log.LogID = fmt.Sprintf("eqlog-%d", len(m.logs)+1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockEquipmentRepo) ListLogs(_ context.Context, equipmentID string) ([]model.EquipmentLog, error) {
	var result []model.EquipmentLog
	for _, l := range m.logs {
		if l.EquipmentID == equipmentID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock ComponentRepository ──

type mockComponentRepo struct {
	items map[string]*model.HallComponent
	logs  []model.ComponentLog
}

func newMockComponentRepo() *mockComponentRepo {
	return &mockComponentRepo{items: make(map[string]*model.HallComponent)}
}

func (m *mockComponentRepo) Create(_ context.Context, c *model.HallComponent) error {
	if c.ComponentID == "" {
		c.ComponentID = "comp-" + c.Name
	}
	cp := *c
	m.items[c.ComponentID] = &cp
	return nil
}

func (m *mockComponentRepo) GetByID(_ context.Context, id string) (*model.HallComponent, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockComponentRepo) ListByHall(_ context.Context, hallID string) ([]model.HallComponent, error) {
	var result []model.HallComponent
	for _, c := range m.items {
		if c.HallID == hallID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockComponentRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	c, ok := m.items[id]
	if !ok || c.Status != from {
		return pkgerrors.ErrStaleStatus
	}
	c.Status = to
	return nil
}

func (m *mockComponentRepo) AppendLog(_ context.Context, log *model.ComponentLog) error {
	log.LogID = fmt.Sprintf("complog-%d", len(m.logs)+1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockComponentRepo) ListLogs(_ context.Context, componentID string) ([]model.ComponentLog, error) {
	var result []model.ComponentLog
	for _, l := range m.logs {
		if l.ComponentID == componentID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.Booking
	logs     []model.BookingLog
	halls    *mockHallRepo
	profiles *mockProfileRepo
	seq      int

	// staleOnUpdate 模拟其他进程已抢先修改状态
	staleOnUpdate map[string]bool
}

func newMockBookingRepo(halls *mockHallRepo, profiles *mockProfileRepo) *mockBookingRepo {
	return &mockBookingRepo{
		bookings:      make(map[string]*model.Booking),
		halls:         halls,
		profiles:      profiles,
		staleOnUpdate: make(map[string]bool),
	}
}

func (m *mockBookingRepo) withRelations(b *model.Booking) *model.Booking {
	cp := *b
	if h, ok := m.halls.halls[b.HallID]; ok {
		cp.Hall = m.halls.withRelations(h)
	}
	if p, ok := m.profiles.profiles[b.TeacherID]; ok {
		cp.Teacher = p
	}
	if b.HODID != nil {
		if p, ok := m.profiles.profiles[*b.HODID]; ok {
			cp.HOD = p
		}
	}
	return &cp
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	if b.BookingID == "" {
		m.seq++
		b.BookingID = fmt.Sprintf("booking-%d", m.seq)
	}
	cp := *b
	cp.Hall, cp.Teacher, cp.HOD = nil, nil, nil
	m.bookings[b.BookingID] = &cp
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) GetDetail(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return m.withRelations(b), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int64, error) {
	var result []model.Booking
	for _, b := range m.sorted() {
		if f.HallID != "" && b.HallID != f.HallID {
			continue
		}
		if f.TeacherID != "" && b.TeacherID != f.TeacherID {
			continue
		}
		if f.DepartmentID != "" {
			h, ok := m.halls.halls[b.HallID]
			if !ok || h.DepartmentID != f.DepartmentID {
				continue
			}
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, b.Status) {
			continue
		}
		if f.From != nil && b.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.StartTime.Before(*f.To) {
			continue
		}
		result = append(result, *m.withRelations(b))
	}
	total := int64(len(result))
	if f.Offset > 0 {
		if f.Offset >= len(result) {
			result = nil
		} else {
			result = result[f.Offset:]
		}
	}
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, total, nil
}

func (m *mockBookingRepo) FindOverlapping(_ context.Context, hallID string, start, end time.Time, statuses []string, excludeID string) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.sorted() {
		if b.HallID != hallID || b.BookingID == excludeID || !contains(statuses, b.Status) {
			continue
		}
		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListPendingStarted(_ context.Context, now time.Time) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.sorted() {
		if b.Status == model.BookingPending && !b.StartTime.After(now) {
			result = append(result, *m.withRelations(b))
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListApprovedEnded(_ context.Context, now time.Time) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.sorted() {
		if b.Status == model.BookingApproved && !b.EndTime.After(now) {
			result = append(result, *m.withRelations(b))
		}
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id, from string, fields map[string]interface{}) error {
	b, ok := m.bookings[id]
	if !ok || b.Status != from || m.staleOnUpdate[id] {
		return pkgerrors.ErrStaleStatus
	}
	for k, v := range fields {
		switch k {
		case "status":
			b.Status = v.(string)
		case "hod_id":
			s := v.(string)
			b.HODID = &s
		case "rejection_reason":
			s := v.(string)
			b.RejectionReason = &s
		case "approved_at":
			t := v.(time.Time)
			b.ApprovedAt = &t
		case "cancelled_at":
			t := v.(time.Time)
			b.CancelledAt = &t
		case "completed_at":
			t := v.(time.Time)
			b.CompletedAt = &t
		}
	}
	return nil
}

func (m *mockBookingRepo) UpdateSummary(_ context.Context, id string, summary, aiSummary *string) error {
	b, ok := m.bookings[id]
	if !ok || b.Status != model.BookingCompleted {
		return pkgerrors.ErrStaleStatus
	}
	if summary != nil {
		b.SessionSummary = summary
	}
	if aiSummary != nil {
		b.AISummary = aiSummary
	}
	return nil
}

func (m *mockBookingRepo) AppendLog(_ context.Context, log *model.BookingLog) error {
	log.LogID = fmt.Sprintf("blog-%d", len(m.logs)+1)
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockBookingRepo) ListLogs(_ context.Context, bookingID string) ([]model.BookingLog, error) {
	var result []model.BookingLog
	for _, l := range m.logs {
		if l.BookingID == bookingID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) logsFor(bookingID string) []model.BookingLog {
	logs, _ := m.ListLogs(context.Background(), bookingID)
	return logs
}

func (m *mockBookingRepo) sorted() []*model.Booking {
	list := make([]*model.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list
}

// ── Mock MaintenanceRepository ──

type mockMaintenanceRepo struct {
	requests   map[string]*model.MaintenanceRequest
	halls      *mockHallRepo
	equipment  *mockEquipmentRepo
	components *mockComponentRepo
	profiles   *mockProfileRepo
	seq        int
}

func (m *mockMaintenanceRepo) withRelations(r *model.MaintenanceRequest) *model.MaintenanceRequest {
	cp := *r
	if h, ok := m.halls.halls[r.HallID]; ok {
		cp.Hall = m.halls.withRelations(h)
	}
	if r.EquipmentID != nil {
		if e, ok := m.equipment.items[*r.EquipmentID]; ok {
			ecp := *e
			cp.Equipment = &ecp
		}
	}
	if r.ComponentID != nil {
		if c, ok := m.components.items[*r.ComponentID]; ok {
			ccp := *c
			cp.Component = &ccp
		}
	}
	if p, ok := m.profiles.profiles[r.RequestedBy]; ok {
		cp.Requester = p
	}
	return &cp
}

func (m *mockMaintenanceRepo) Create(_ context.Context, r *model.MaintenanceRequest) error {
	if r.RequestID == "" {
		m.seq++
		r.RequestID = fmt.Sprintf("mr-%d", m.seq)
	}
	cp := *r
	cp.Hall, cp.Equipment, cp.Component, cp.Requester = nil, nil, nil, nil
	m.requests[r.RequestID] = &cp
	return nil
}

func (m *mockMaintenanceRepo) GetByID(_ context.Context, id string) (*model.MaintenanceRequest, error) {
	if r, ok := m.requests[id]; ok {
		return m.withRelations(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaintenanceRepo) List(_ context.Context, f repository.MaintenanceFilter) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, r := range m.requests {
		if f.HallID != "" && r.HallID != f.HallID {
			continue
		}
		if f.RequestedBy != "" && r.RequestedBy != f.RequestedBy {
			continue
		}
		if f.DepartmentID != "" {
			h, ok := m.halls.halls[r.HallID]
			if !ok || h.DepartmentID != f.DepartmentID {
				continue
			}
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
			continue
		}
		result = append(result, *m.withRelations(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, nil
}

func (m *mockMaintenanceRepo) UpdateStatus(_ context.Context, id, from string, fields map[string]interface{}) error {
	r, ok := m.requests[id]
	if !ok || r.Status != from {
		return pkgerrors.ErrStaleStatus
	}
	for k, v := range fields {
		switch k {
		case "status":
			r.Status = v.(string)
		case "reviewed_by":
			s := v.(string)
			r.ReviewedBy = &s
		case "rejection_reason":
			s := v.(string)
			r.RejectionReason = &s
		case "reviewed_at":
			t := v.(time.Time)
			r.ReviewedAt = &t
		case "completed_at":
			t := v.(time.Time)
			r.CompletedAt = &t
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items []*model.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.NotificationID = fmt.Sprintf("n-%d", len(m.items)+1)
	n.CreatedAt = time.Now()
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, profileID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.items {
		if n.ProfileID != profileID || (unreadOnly && n.IsRead) {
			continue
		}
		result = append(result, *n)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, total, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, profileID string) (int64, error) {
	var n int64
	for _, item := range m.items {
		if item.ProfileID == profileID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, profileID string) error {
	for _, n := range m.items {
		if n.NotificationID == id && n.ProfileID == profileID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, profileID string) (int64, error) {
	var updated int64
	for _, n := range m.items {
		if n.ProfileID == profileID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (m *mockNotificationRepo) forProfile(profileID string) []*model.Notification {
	var result []*model.Notification
	for _, n := range m.items {
		if n.ProfileID == profileID {
			result = append(result, n)
		}
	}
	return result
}

// ── Mock 下游：邮件、事件、对象存储 ──

type mockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, evt events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) types() []string {
	var result []string
	for _, e := range m.events {
		result = append(result, e.Type)
	}
	return result
}

// mockCache 内存版礼堂名称缓存
type mockCache struct {
	data      map[string][]byte
	deleteErr error
	deletes   int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{"chatbot:halls": []byte("[]")}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.deletes++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type mockStore struct {
	presignErr error
	deleteErr  error
	deleted    []string
}

func (m *mockStore) PresignUpload(_ context.Context, key, _ string) (*storage.PresignedUpload, error) {
	if m.presignErr != nil {
		return nil, m.presignErr
	}
	return &storage.PresignedUpload{
		UploadURL: "https://s3.example.com/bucket/" + key + "?X-Amz-Signature=abc",
		FileURL:   "https://s3.example.com/bucket/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (m *mockStore) DeleteByURL(_ context.Context, fileURL string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, fileURL)
	return nil
}

func (m *mockStore) PublicURL(key string) string {
	return "https://s3.example.com/bucket/" + key
}

// ═══════════════════════════════════════════════════════════
// 测试夹具
// ═══════════════════════════════════════════════════════════

const (
	deptCS      = "dept-cs"
	deptEE      = "dept-ee"
	hodCS       = "hod-cs"
	hodEE       = "hod-ee"
	teacherA    = "teacher-a"
	teacherB    = "teacher-b"
	staffA      = "staff-a"
	hallMain    = "hall-main"
	hallSmall   = "hall-small"
	hallFaraday = "hall-faraday"
)

type fixture struct {
	repo          *repository.Repository
	profiles      *mockProfileRepo
	departments   *mockDepartmentRepo
	halls         *mockHallRepo
	equipment     *mockEquipmentRepo
	components    *mockComponentRepo
	bookings      *mockBookingRepo
	maintenance   *mockMaintenanceRepo
	notifications *mockNotificationRepo
	mail          *mockMailer
	pub           *mockPublisher
	out           *dispatcher
	logger        *zap.Logger
}

// newFixture 两个院系（CS/EE）、三个研讨厅、两名教师、一名技术人员
func newFixture() *fixture {
	profiles := newMockProfileRepo()
	profiles.add(hodCS, "Dr. Rao", model.RoleHOD, model.RoleTeacher)
	profiles.add(hodEE, "Dr. Iyer", model.RoleHOD)
	profiles.add(teacherA, "Asha", model.RoleTeacher)
	profiles.add(teacherB, "Bala", model.RoleTeacher)
	profiles.add(staffA, "Sam", model.RoleTechStaff)

	departments := newMockDepartmentRepo(profiles)
	departments.departments[deptCS] = &model.Department{DepartmentID: deptCS, Name: "Computer Science", HODProfileID: strPtr(hodCS)}
	departments.departments[deptEE] = &model.Department{DepartmentID: deptEE, Name: "Electrical", HODProfileID: strPtr(hodEE)}

	halls := newMockHallRepo(departments)
	halls.halls[hallMain] = &model.SeminarHall{HallID: hallMain, Name: "Main Auditorium", Capacity: 200, Location: "Block A", DepartmentID: deptCS, TechStaffID: strPtr(staffA)}
	halls.halls[hallSmall] = &model.SeminarHall{HallID: hallSmall, Name: "Main", Capacity: 30, Location: "Block B", DepartmentID: deptCS}
	halls.halls[hallFaraday] = &model.SeminarHall{HallID: hallFaraday, Name: "Faraday Hall", Capacity: 80, Location: "EE Block", DepartmentID: deptEE}

	equipment := newMockEquipmentRepo()
	components := newMockComponentRepo()
	bookings := newMockBookingRepo(halls, profiles)
	maintenance := &mockMaintenanceRepo{
		requests:   make(map[string]*model.MaintenanceRequest),
		halls:      halls,
		equipment:  equipment,
		components: components,
		profiles:   profiles,
	}
	notifications := &mockNotificationRepo{}

	repo := &repository.Repository{
		Profile:      profiles,
		Department:   departments,
		Hall:         halls,
		Equipment:    equipment,
		Component:    components,
		Booking:      bookings,
		Maintenance:  maintenance,
		Notification: notifications,
	}

	mail := &mockMailer{}
	pub := &mockPublisher{}
	logger := zap.NewNop()

	return &fixture{
		repo:          repo,
		profiles:      profiles,
		departments:   departments,
		halls:         halls,
		equipment:     equipment,
		components:    components,
		bookings:      bookings,
		maintenance:   maintenance,
		notifications: notifications,
		mail:          mail,
		pub:           pub,
		out:           newDispatcher(repo, mail, pub, "https://hub.example.edu/", logger),
		logger:        logger,
	}
}

// seedBooking 直接写入一条预约
func (f *fixture) seedBooking(id, hallID, teacherID, status string, start time.Time, dur time.Duration) *model.Booking {
	b := &model.Booking{
		BookingID:           id,
		HallID:              hallID,
		TeacherID:           teacherID,
		BookingDate:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:           start,
		EndTime:             start.Add(dur),
		Purpose:             "Seminar " + id,
		Status:              status,
		PermissionLetterURL: "https://files.example.edu/letters/" + id + ".pdf",
	}
	f.bookings.bookings[id] = b
	return b
}

func (f *fixture) bookingService(now time.Time) *bookingService {
	s := NewBookingService(f.repo, f.out, time.UTC, f.logger).(*bookingService)
	s.now = func() time.Time { return now }
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
