package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

func TestBuildObjectKey(t *testing.T) {
	ts := time.UnixMilli(1767225600123)

	key, err := BuildObjectKey(KindHall, "hall-1", "Main Hall Photo.JPG", "image/jpeg", ts)
	require.NoError(t, err)
	assert.Equal(t, "uploads/hall/hall-1/main-hall-photo-1767225600123.jpg", key)

	key, err = BuildObjectKey(KindBooking, "b-9", `C:\docs\Permission (signed).pdf`, "application/pdf", ts)
	require.NoError(t, err)
	assert.Equal(t, "uploads/booking/b-9/permission-signed-1767225600123.pdf", key)

	key, err = BuildObjectKey(KindBooking, "b-9", "...pdf", "application/pdf", ts)
	require.NoError(t, err)
	assert.Equal(t, "uploads/booking/b-9/file-1767225600123.pdf", key)
}

func TestBuildObjectKey_Rejects(t *testing.T) {
	ts := time.Now()

	_, err := BuildObjectKey("avatar", "x", "a.png", "image/png", ts)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = BuildObjectKey(KindHall, "../etc", "a.png", "image/png", ts)
	assert.ErrorIs(t, err, ErrInvalidFileName)

	_, err = BuildObjectKey(KindHall, "h1", "noext", "image/png", ts)
	assert.ErrorIs(t, err, ErrInvalidFileName)
}

func TestBuildObjectKey_ExtensionMustMatchType(t *testing.T) {
	ts := time.UnixMilli(1767225600123)

	_, err := BuildObjectKey(KindHall, "h1", "x.exe", "image/png", ts)
	assert.ErrorIs(t, err, ErrExtensionMismatch)

	_, err = BuildObjectKey(KindBooking, "b-1", "scan.png", "application/pdf", ts)
	assert.ErrorIs(t, err, ErrExtensionMismatch)

	key, err := BuildObjectKey(KindHall, "h1", "stage.jpeg", " Image/JPG ", ts)
	require.NoError(t, err)
	assert.Equal(t, "uploads/hall/h1/stage-1767225600123.jpeg", key)

	assert.Equal(t, []string{"jpg", "jpeg"}, AllowedExtensions("IMAGE/JPEG"))
	assert.Nil(t, AllowedExtensions("image/gif"))
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		contentType string
		size        int64
		wantErr     error
	}{
		{"hall png", KindHall, "image/png", 1024, nil},
		{"hall webp upper", KindHall, "IMAGE/WEBP", 1024, nil},
		{"hall pdf rejected", KindHall, "application/pdf", 1024, ErrContentTypeRejected},
		{"hall too large", KindHall, "image/jpeg", 5<<20 + 1, ErrFileTooLarge},
		{"hall at limit", KindHall, "image/jpeg", 5 << 20, nil},
		{"booking pdf", KindBooking, "application/pdf", 10 << 20, nil},
		{"booking too large", KindBooking, "application/pdf", 10<<20 + 1, ErrFileTooLarge},
		{"booking gif rejected", KindBooking, "image/gif", 10, ErrContentTypeRejected},
		{"empty file", KindBooking, "image/png", 0, ErrFileTooLarge},
		{"unknown kind", "profile", "image/png", 10, ErrUnsupportedKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.kind, tt.contentType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "期望 %v，实际 %v", tt.wantErr, err)
		})
	}
}

func newTestStore(t *testing.T) *MinioStore {
	t.Helper()
	s, err := NewMinio(&config.StorageConfig{
		Endpoint:      "localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio-secret",
		Bucket:        "seminar-hub",
		Region:        "us-east-1",
		PublicBaseURL: "http://cdn.example.edu/files/",
	})
	require.NoError(t, err)
	return s
}

func TestPublicURLRoundTrip(t *testing.T) {
	s := newTestStore(t)
	key := "uploads/hall/h1/cover photo-1.png"

	u := s.PublicURL(key)
	assert.Equal(t, "http://cdn.example.edu/files/seminar-hub/uploads/hall/h1/cover%20photo-1.png", u)

	got, err := s.KeyFromURL(u)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestKeyFromURL_Foreign(t *testing.T) {
	s := newTestStore(t)

	for _, u := range []string{
		"http://evil.example.com/files/seminar-hub/uploads/hall/h1/a.png",
		"http://cdn.example.edu/files/other-bucket/uploads/hall/h1/a.png",
		"http://cdn.example.edu/files/seminar-hub/private/a.png",
		"http://cdn.example.edu/files/seminar-hub/uploads/../secret.png",
		"::not a url",
	} {
		_, err := s.KeyFromURL(u)
		assert.ErrorIs(t, err, ErrForeignURL, u)
	}
}

func TestPresignUpload(t *testing.T) {
	s := newTestStore(t)

	up, err := s.PresignUpload(t.Context(), "uploads/hall/h1/a-1.png", "image/png")
	require.NoError(t, err)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "uploads/hall/h1/a-1.png", up.Key)
	assert.True(t, up.ExpiresAt.After(time.Now()))
}
