package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgworks/flux-kontext-api/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir(), "http://localhost:3000", zap.NewNop())
	require.NoError(t, err)
	return l
}

func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	reader := multipart.NewReader(buf, mw.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	fh := form.File["image"][0]
	fh.Header.Set("Content-Type", contentType)
	return fh
}

func TestSaveUpload(t *testing.T) {
	l := newLocal(t)

	resp, err := l.SaveUpload(uploadHeader(t, "cat.png", "image/png", []byte("\x89PNG fake")))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "cat.png", resp.OriginalName)
	assert.Equal(t, int64(9), resp.Size)
	assert.True(t, strings.HasPrefix(resp.ImageURL, "http://localhost:3000/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))

	data, err := os.ReadFile(filepath.Join(l.Dir(), resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG fake"), data)
}

func TestSaveUpload_ExtensionFromTypeWhenFilenameHasNone(t *testing.T) {
	l := newLocal(t)

	resp, err := l.SaveUpload(uploadHeader(t, "photo", "image/webp", []byte("RIFF")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.Filename, ".webp"))
}

func TestSaveUpload_RejectsUnsupportedType(t *testing.T) {
	l := newLocal(t)

	_, err := l.SaveUpload(uploadHeader(t, "doc.pdf", "application/pdf", []byte("%PDF")))
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "Invalid file type. Only JPEG, PNG, WebP, and HEIC are allowed.", apiErr.Message)
}

func TestSaveUpload_RejectsOversizedFile(t *testing.T) {
	l := newLocal(t)

	fh := uploadHeader(t, "big.jpg", "image/jpeg", []byte("x"))
	fh.Size = MaxUploadBytes + 1

	_, err := l.SaveUpload(fh)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "File too large. Maximum size is 10MB.", apiErr.Message)
}

func TestSaveArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("RIFF....WEBP"))
	}))
	t.Cleanup(srv.Close)

	l := newLocal(t)

	url, err := l.SaveArtifact(context.Background(), srv.URL+"/tmp/out.webp")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:3000/uploads/generated_"))
	assert.True(t, strings.HasSuffix(url, ".webp"))

	name := strings.TrimPrefix(url, "http://localhost:3000/uploads/")
	data, err := os.ReadFile(filepath.Join(l.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WEBP"), data)
}

func TestSaveArtifact_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	l := newLocal(t)

	_, err := l.SaveArtifact(context.Background(), srv.URL+"/gone.webp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
