package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ── 测试桩 ──

// bookingRepo 只实现报表用到的方法，其余调用会因嵌入的 nil 接口而 panic
type bookingRepo struct {
	repository.BookingRepository
	bookings map[string]*model.Booking
	logs     []model.BookingLog
	list     []model.Booking
	filter   repository.BookingFilter
}

func (r *bookingRepo) GetDetail(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *bookingRepo) ListLogs(context.Context, string) ([]model.BookingLog, error) {
	return r.logs, nil
}

func (r *bookingRepo) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int64, error) {
	r.filter = f
	return r.list, int64(len(r.list)), nil
}

type hallRepo struct {
	repository.HallRepository
	halls map[string]*model.SeminarHall
}

func (r *hallRepo) GetDetail(_ context.Context, id string) (*model.SeminarHall, error) {
	if h, ok := r.halls[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeFetcher struct {
	data []byte
	kind string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, string, error) {
	f.urls = append(f.urls, url)
	return f.data, f.kind, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
		img.Set(x, 1, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	reportNow = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	imageURL  = "https://cdn.example.edu/uploads/hall/hall-1/front.png"
)

func fixture(t *testing.T, fetcher ImageFetcher) (*Generator, *bookingRepo) {
	t.Helper()
	hod := "hod-1"
	summary := "Talk on distributed systems.\nQ&A followed."
	approvedAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	hall := &model.SeminarHall{
		HallID: "hall-1", Name: "Main Auditorium", Capacity: 200, Location: "Block A",
		Description: "Ground floor", ImageURL: &imageURL,
		Department: &model.Department{Name: "Computer Science"},
		Equipment:  []model.Equipment{{Name: "Projector", Type: "projector", Status: model.EquipmentActive}},
		Components: []model.HallComponent{{Name: "AC unit", Category: "hvac", Status: model.ComponentOperational}},
	}
	bookings := &bookingRepo{
		bookings: map[string]*model.Booking{
			"done": {
				BookingID: "done", HallID: "hall-1", TeacherID: "teacher-1", HODID: &hod,
				StartTime: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
				Purpose: "Guest lecture", Status: model.BookingCompleted, ExpectedParticipants: 120,
				SessionSummary: &summary, ApprovedAt: &approvedAt, CompletedAt: &completedAt,
				Hall: hall, Teacher: &model.Profile{Name: "Asha Rao"},
			},
			"open": {BookingID: "open", HallID: "hall-1", Status: model.BookingApproved},
		},
		logs: []model.BookingLog{
			{Action: model.ActionCreated, NewStatus: model.BookingPending, PerformedBy: "teacher-1", CreatedAt: approvedAt.Add(-time.Hour)},
			{Action: model.ActionApproved, PreviousStatus: model.BookingPending, NewStatus: model.BookingApproved, PerformedBy: hod, CreatedAt: approvedAt},
			{Action: model.ActionAutoCompleted, PreviousStatus: model.BookingApproved, NewStatus: model.BookingCompleted, PerformedBy: hod, CreatedAt: completedAt},
		},
	}
	repo := &repository.Repository{
		Booking: bookings,
		Hall:    &hallRepo{halls: map[string]*model.SeminarHall{"hall-1": hall}},
	}
	g := NewGenerator(repo, fetcher, time.UTC, zap.NewNop())
	g.now = func() time.Time { return reportNow }
	return g, bookings
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// ── BookingReport ──

func TestBookingReport_Completed(t *testing.T) {
	fetcher := &fakeFetcher{data: pngBytes(t), kind: "PNG"}
	g, _ := fixture(t, fetcher)

	data, name, err := g.BookingReport(context.Background(), "done")
	require.NoError(t, err)
	assert.True(t, isPDF(data))
	assert.Equal(t, "booking-report-done.pdf", name)
	assert.Equal(t, []string{imageURL}, fetcher.urls)
}

func TestBookingReport_ImageFailureStillRenders(t *testing.T) {
	g, _ := fixture(t, &fakeFetcher{err: errors.New("timeout")})

	data, _, err := g.BookingReport(context.Background(), "done")
	require.NoError(t, err)
	assert.True(t, isPDF(data))
}

func TestBookingReport_UndecodableImageStillRenders(t *testing.T) {
	g, _ := fixture(t, &fakeFetcher{data: []byte("not really a png"), kind: "PNG"})

	data, _, err := g.BookingReport(context.Background(), "done")
	require.NoError(t, err)
	assert.True(t, isPDF(data))
}

func TestBookingReport_Errors(t *testing.T) {
	g, _ := fixture(t, nil)

	_, _, err := g.BookingReport(context.Background(), "open")
	assert.ErrorIs(t, err, ErrReportNotCompleted)

	_, _, err = g.BookingReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// ── HallReport ──

func TestHallReport(t *testing.T) {
	g, bookings := fixture(t, nil)
	bookings.list = []model.Booking{
		{BookingID: "b1", TeacherID: "teacher-1", Status: model.BookingCompleted, Purpose: "Lecture",
			StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)},
		{BookingID: "b2", TeacherID: "teacher-2", Status: model.BookingRejected, Purpose: "Workshop",
			StartTime: time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	data, name, err := g.HallReport(context.Background(), "hall-1", from, to)
	require.NoError(t, err)
	assert.True(t, isPDF(data))
	assert.Equal(t, "hall-report-hall-1-20260301-20260331.pdf", name)

	// 结束日期按整天包含
	require.NotNil(t, bookings.filter.To)
	assert.Equal(t, "hall-1", bookings.filter.HallID)
	assert.Equal(t, from, *bookings.filter.From)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *bookings.filter.To)
}

func TestHallReport_SingleDayAndEmpty(t *testing.T) {
	g, bookings := fixture(t, nil)
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	data, name, err := g.HallReport(context.Background(), "hall-1", day, day)
	require.NoError(t, err)
	assert.True(t, isPDF(data))
	assert.Equal(t, "hall-report-hall-1-20260305-20260305.pdf", name)
	assert.Equal(t, day.AddDate(0, 0, 1), *bookings.filter.To)
}

func TestHallReport_Errors(t *testing.T) {
	g, _ := fixture(t, nil)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, _, err := g.HallReport(context.Background(), "hall-1", from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrRangeInvalid)

	_, _, err = g.HallReport(context.Background(), "missing", from, from)
	assert.ErrorIs(t, err, ErrHallNotFound)
}

// ── 图片下载 ──

func TestDetectImageType(t *testing.T) {
	kind, err := detectImageType(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "PNG", kind)

	kind, err = detectImageType([]byte("GIF89a\x01\x00\x01\x00"))
	require.NoError(t, err)
	assert.Equal(t, "GIF", kind)

	_, err = detectImageType([]byte("%PDF-1.4"))
	assert.Error(t, err)
}

func TestFitImage(t *testing.T) {
	small := pngBytes(t)
	data, kind, err := fitImage(small, "PNG")
	require.NoError(t, err)
	assert.Equal(t, "PNG", kind)
	assert.Equal(t, small, data, "小图原样返回")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3200, 800))))
	data, kind, err = fitImage(buf.Bytes(), "PNG")
	require.NoError(t, err)
	assert.Equal(t, "JPG", kind)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, maxImageSide, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	_, _, err = fitImage([]byte("\x89PNG\r\n\x1a\ngarbage"), "PNG")
	assert.Error(t, err)
}

func TestHTTPFetcher(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(img)
		case "/big.png":
			_, _ = w.Write(append(img, make([]byte, 64)...))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second, int64(len(img)+16))

	data, kind, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, "PNG", kind)
	assert.Equal(t, img, data)

	_, _, err = f.Fetch(context.Background(), srv.URL+"/big.png")
	assert.ErrorContains(t, err, "larger than")

	_, _, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "unexpected status 404")
}
