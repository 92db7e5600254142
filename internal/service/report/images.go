package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// maxImageSide 嵌入 PDF 前图片的最长边（像素），超出时等比缩小
const maxImageSide = 1600

// ImageFetcher 下载报表内嵌图片
type ImageFetcher interface {
	// Fetch 返回图片内容与 fpdf 图片类型（PNG / JPG / GIF）
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

type httpFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher 带超时与大小上限的图片下载器
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) ImageFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &httpFetcher{client: &http.Client{Timeout: timeout}, maxBytes: maxBytes}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", fmt.Errorf("image larger than %d bytes", f.maxBytes)
	}

	imageType, err := detectImageType(data)
	if err != nil {
		return nil, "", err
	}
	return fitImage(data, imageType)
}

// fitImage 按 EXIF 方向摆正并缩小超大图片，缩放后统一编码为 JPG
func fitImage(data []byte, imageType string) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= maxImageSide && b.Dy() <= maxImageSide {
		return data, imageType, nil
	}

	var buf bytes.Buffer
	fitted := imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "JPG", nil
}

// detectImageType 按内容嗅探图片类型，仅接受 fpdf 支持的格式
func detectImageType(data []byte) (string, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image type %s", ct)
	}
}
