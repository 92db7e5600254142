package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// store 聊天测试共用的内存数据
type store struct {
	profiles    map[string]*model.Profile
	departments map[string]*model.Department
	halls       []*model.SeminarHall
	equipment   []model.Equipment
	bookings    []model.Booking
	requests    []model.MaintenanceRequest
	hallLists   int
}

func newStore() *store {
	return &store{
		profiles:    make(map[string]*model.Profile),
		departments: make(map[string]*model.Department),
	}
}

func (s *store) addProfile(id string, roles ...string) {
	p := &model.Profile{ProfileID: id, Name: id, Email: id + "@example.edu"}
	for _, r := range roles {
		p.Roles = append(p.Roles, model.UserRole{ProfileID: id, Role: r})
	}
	s.profiles[id] = p
}

func (s *store) hall(id string) *model.SeminarHall {
	for _, h := range s.halls {
		if h.HallID == id {
			return h
		}
	}
	return nil
}

func (s *store) repo() *repository.Repository {
	return &repository.Repository{
		Profile:     profileRepo{s},
		Department:  departmentRepo{s},
		Hall:        hallRepo{s},
		Equipment:   equipmentRepo{s},
		Booking:     bookingRepo{s},
		Maintenance: maintenanceRepo{s},
	}
}

var errUnused = errors.New("not used in chatbot tests")

// ── Profile / Department ──

type profileRepo struct{ s *store }

func (r profileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := r.s.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r profileRepo) ListByRole(context.Context, string) ([]model.Profile, error) { return nil, errUnused }

func (r profileRepo) HasRole(_ context.Context, id, role string) (bool, error) {
	p, ok := r.s.profiles[id]
	return ok && p.HasRole(role), nil
}

type departmentRepo struct{ s *store }

func (r departmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := r.s.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r departmentRepo) GetByHOD(_ context.Context, hodID string) (*model.Department, error) {
	for _, d := range r.s.departments {
		if d.HODProfileID != nil && *d.HODProfileID == hodID {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r departmentRepo) List(context.Context) ([]model.Department, error) { return nil, errUnused }

// ── Hall / Equipment ──

type hallRepo struct{ s *store }

func (r hallRepo) Create(context.Context, *model.SeminarHall) error { return errUnused }

func (r hallRepo) GetByID(_ context.Context, id string) (*model.SeminarHall, error) {
	if h := r.s.hall(id); h != nil {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r hallRepo) GetDetail(ctx context.Context, id string) (*model.SeminarHall, error) {
	return r.GetByID(ctx, id)
}

func (r hallRepo) List(context.Context, string) ([]model.SeminarHall, error) {
	r.s.hallLists++
	result := make([]model.SeminarHall, 0, len(r.s.halls))
	for _, h := range r.s.halls {
		result = append(result, *h)
	}
	return result, nil
}

func (r hallRepo) Update(context.Context, string, map[string]interface{}) error { return errUnused }

func (r hallRepo) LockByID(context.Context, string) (*model.SeminarHall, error) { return nil, errUnused }

type equipmentRepo struct{ s *store }

func (r equipmentRepo) Create(context.Context, *model.Equipment) error { return errUnused }

func (r equipmentRepo) GetByID(context.Context, string) (*model.Equipment, error) {
	return nil, errUnused
}

func (r equipmentRepo) ListByHall(_ context.Context, hallID string) ([]model.Equipment, error) {
	var result []model.Equipment
	for _, e := range r.s.equipment {
		if e.HallID == hallID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r equipmentRepo) ListByStatus(_ context.Context, status string) ([]model.Equipment, error) {
	var result []model.Equipment
	for _, e := range r.s.equipment {
		if e.Status == status {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r equipmentRepo) UpdateStatus(context.Context, string, string, string) error { return errUnused }

func (r equipmentRepo) AppendLog(context.Context, *model.EquipmentLog) error { return errUnused }

func (r equipmentRepo) ListLogs(context.Context, string) ([]model.EquipmentLog, error) {
	return nil, errUnused
}

// ── Booking ──

type bookingRepo struct{ s *store }

func (r bookingRepo) Create(context.Context, *model.Booking) error { return errUnused }

func (r bookingRepo) GetByID(context.Context, string) (*model.Booking, error) { return nil, errUnused }

func (r bookingRepo) GetDetail(context.Context, string) (*model.Booking, error) {
	return nil, errUnused
}

func (r bookingRepo) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int64, error) {
	var result []model.Booking
	for _, b := range r.s.bookings {
		if f.TeacherID != "" && b.TeacherID != f.TeacherID {
			continue
		}
		if f.DepartmentID != "" {
			if h := r.s.hall(b.HallID); h == nil || h.DepartmentID != f.DepartmentID {
				continue
			}
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, b.Status) {
			continue
		}
		if f.From != nil && b.StartTime.Before(*f.From) {
			continue
		}
		b.Hall = r.s.hall(b.HallID)
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	total := int64(len(result))
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, total, nil
}

func (r bookingRepo) FindOverlapping(_ context.Context, hallID string, start, end time.Time, statuses []string, excludeID string) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range r.s.bookings {
		if b.HallID == hallID && b.BookingID != excludeID && contains(statuses, b.Status) &&
			b.StartTime.Before(end) && start.Before(b.EndTime) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r bookingRepo) ListPendingStarted(context.Context, time.Time) ([]model.Booking, error) {
	return nil, errUnused
}

func (r bookingRepo) ListApprovedEnded(context.Context, time.Time) ([]model.Booking, error) {
	return nil, errUnused
}

func (r bookingRepo) UpdateStatus(context.Context, string, string, map[string]interface{}) error {
	return errUnused
}

func (r bookingRepo) UpdateSummary(context.Context, string, *string, *string) error { return errUnused }

func (r bookingRepo) AppendLog(context.Context, *model.BookingLog) error { return errUnused }

func (r bookingRepo) ListLogs(context.Context, string) ([]model.BookingLog, error) {
	return nil, errUnused
}

// ── Maintenance ──

type maintenanceRepo struct{ s *store }

func (r maintenanceRepo) Create(context.Context, *model.MaintenanceRequest) error { return errUnused }

func (r maintenanceRepo) GetByID(context.Context, string) (*model.MaintenanceRequest, error) {
	return nil, errUnused
}

func (r maintenanceRepo) List(_ context.Context, f repository.MaintenanceFilter) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, mr := range r.s.requests {
		if f.HallID != "" && mr.HallID != f.HallID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, mr.Status) {
			continue
		}
		mr.Hall = r.s.hall(mr.HallID)
		result = append(result, mr)
	}
	return result, nil
}

func (r maintenanceRepo) UpdateStatus(context.Context, string, string, map[string]interface{}) error {
	return errUnused
}

// ── 下游 ──

// fakeMaintenance 记录机器人提交的维修申请
type fakeMaintenance struct {
	requests []*dto.CreateMaintenanceRequest
	actors   []string
}

func (f *fakeMaintenance) Create(_ context.Context, req *dto.CreateMaintenanceRequest, actorID string) (*dto.MaintenanceResponse, error) {
	f.requests = append(f.requests, req)
	f.actors = append(f.actors, actorID)
	return &dto.MaintenanceResponse{
		ID:       fmt.Sprintf("mr-%d", len(f.requests)),
		HallID:   req.HallID,
		Priority: req.Priority,
		Title:    req.Title,
		Status:   model.MaintenancePending,
	}, nil
}

// memCache 内存版 Cache
type memCache struct {
	data map[string][]byte
}

func (c *memCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
