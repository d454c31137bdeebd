package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/imgworks/flux-kontext-api/pkg/api"
	"go.uber.org/zap"
)

// MaxUploadBytes caps incoming image uploads at 10MB.
const MaxUploadBytes = 10 << 20

// allowedTypes maps accepted upload MIME types to a canonical extension used
// when the original filename has none.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// Local stores uploaded images and downloaded generation artifacts on disk
// and serves them back under /uploads.
type Local struct {
	dir     string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewLocal creates the upload directory if needed.
func NewLocal(dir, baseURL string, logger *zap.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{
		dir:     dir,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}, nil
}

// Dir returns the directory served under /uploads.
func (l *Local) Dir() string {
	return l.dir
}

// SaveUpload validates and persists a multipart upload under a collision-free
// filename.
func (l *Local) SaveUpload(fh *multipart.FileHeader) (*api.UploadResponse, error) {
	if fh.Size > MaxUploadBytes {
		return nil, api.BadRequestError("File too large. Maximum size is 10MB.")
	}

	contentType := fh.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, api.BadRequestError("Invalid file type. Only JPEG, PNG, WebP, and HEIC are allowed.")
	}
	if e := filepath.Ext(fh.Filename); e != "" {
		ext = e
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() {
		_ = dst.Close()
	}()

	written, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	l.logger.Info("stored upload",
		zap.String("filename", name),
		zap.String("content_type", contentType),
		zap.Int64("size", written),
	)

	return &api.UploadResponse{
		Success:      true,
		ImageURL:     l.PublicURL(name),
		Filename:     name,
		OriginalName: fh.Filename,
		Size:         written,
	}, nil
}

// SaveArtifact downloads a generated image from the provider's short-lived
// URL and persists it locally, returning the locally served URL.
func (l *Local) SaveArtifact(ctx context.Context, srcURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download artifact: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artifact download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact: %w", err)
	}

	name := fmt.Sprintf("generated_%d_%s.webp", time.Now().UnixMilli(), uuid.NewString())
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return l.PublicURL(name), nil
}

// PublicURL returns the locally served URL for a stored file.
func (l *Local) PublicURL(name string) string {
	return l.baseURL + "/uploads/" + name
}
