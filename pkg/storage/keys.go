package storage

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var (
	ErrUnsupportedKind     = errors.New("unsupported upload type")
	ErrContentTypeRejected = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidFileName     = errors.New("invalid file name")
	ErrExtensionMismatch   = errors.New("file extension does not match content type")
	ErrForeignURL          = errors.New("url does not belong to this storage")
)

// 上传类别
const (
	KindHall    = "hall"
	KindBooking = "booking"
)

// Policy 上传类别对应的内容类型白名单与大小上限
type Policy struct {
	ContentTypes map[string]bool
	MaxBytes     int64
}

var imageTypes = []string{"image/png", "image/jpg", "image/jpeg", "image/webp"}

// extensionsByType 内容类型允许的文件扩展名
var extensionsByType = map[string][]string{
	"image/png":       {"png"},
	"image/jpg":       {"jpg", "jpeg"},
	"image/jpeg":      {"jpg", "jpeg"},
	"image/webp":      {"webp"},
	"application/pdf": {"pdf"},
}

var policies = map[string]Policy{
	KindHall: {
		ContentTypes: setOf(imageTypes...),
		MaxBytes:     5 << 20,
	},
	KindBooking: {
		ContentTypes: setOf(append(imageTypes, "application/pdf")...),
		MaxBytes:     10 << 20,
	},
}

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// PolicyFor 返回上传类别的策略
func PolicyFor(kind string) (Policy, bool) {
	p, ok := policies[kind]
	return p, ok
}

// ValidateUpload 在任何 I/O 之前校验类别、内容类型与大小
func ValidateUpload(kind, contentType string, size int64) error {
	p, ok := policies[kind]
	if !ok {
		return ErrUnsupportedKind
	}
	if !p.ContentTypes[normalizeType(contentType)] {
		return ErrContentTypeRejected
	}
	if size <= 0 || size > p.MaxBytes {
		return fmt.Errorf("%w: max %d MiB", ErrFileTooLarge, p.MaxBytes>>20)
	}
	return nil
}

// AllowedExtensions 返回内容类型允许的扩展名，未知类型返回 nil
func AllowedExtensions(contentType string) []string {
	return extensionsByType[normalizeType(contentType)]
}

func normalizeType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(contentType))
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// BuildObjectKey 生成对象键 uploads/{kind}/{id}/{name}-{unixMillis}.{ext}
// 扩展名必须与 contentType 对应
func BuildObjectKey(kind, id, fileName, contentType string, ts time.Time) (string, error) {
	if _, ok := policies[kind]; !ok {
		return "", ErrUnsupportedKind
	}
	if id == "" || strings.ContainsAny(id, "/\\") {
		return "", ErrInvalidFileName
	}

	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if ext == "" {
		return "", ErrInvalidFileName
	}
	if !containsExt(AllowedExtensions(contentType), ext) {
		return "", ErrExtensionMismatch
	}
	name := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-")
	if name == "" {
		name = "file"
	}
	if len(name) > 64 {
		name = name[:64]
	}

	return fmt.Sprintf("uploads/%s/%s/%s-%d.%s", kind, id, name, ts.UnixMilli(), ext), nil
}

func containsExt(list []string, ext string) bool {
	for _, v := range list {
		if v == ext {
			return true
		}
	}
	return false
}
