package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

// PresignedUpload 预签名上传结果
type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStore 对象存储接口
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
	DeleteByURL(ctx context.Context, fileURL string) error
	PublicURL(key string) string
}

// MinioStore 基于 S3 兼容协议的对象存储
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL *url.URL
	ttl     time.Duration
}

// NewMinio 创建对象存储客户端（不发起网络请求）
func NewMinio(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("创建对象存储客户端失败: %w", err)
	}

	base, err := url.Parse(strings.TrimRight(cfg.PublicBaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("storage.public_base_url 无效: %q", cfg.PublicBaseURL)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, baseURL: base, ttl: ttl}, nil
}

// PresignUpload 签发 PUT 上传地址，Content-Type 固定为申请时声明的类型
func (s *MinioStore) PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, s.ttl, url.Values{}, headers)
	if err != nil {
		return nil, fmt.Errorf("签发上传地址失败: %w", err)
	}

	return &PresignedUpload{
		UploadURL: u.String(),
		FileURL:   s.PublicURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// DeleteByURL 将公开地址还原为对象键后删除
func (s *MinioStore) DeleteByURL(ctx context.Context, fileURL string) error {
	key, err := s.KeyFromURL(fileURL)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象失败: %w", err)
	}
	return nil
}

// PublicURL 对象键对应的公开访问地址
func (s *MinioStore) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL.String() + "/" + url.PathEscape(s.bucket) + "/" + strings.Join(segments, "/")
}

// KeyFromURL 解析公开地址得到对象键
func (s *MinioStore) KeyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host != s.baseURL.Host {
		return "", ErrForeignURL
	}

	p, err := url.PathUnescape(u.EscapedPath())
	if err != nil {
		return "", ErrForeignURL
	}

	prefix := strings.TrimRight(s.baseURL.Path, "/") + "/" + s.bucket + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(p, prefix)
	if !strings.HasPrefix(key, "uploads/") || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}
