package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/pkg"
)

// buildMultipart, verilen dosyalarla bir multipart request kurar ve
// parse edilmiş FileHeader'ları döner — Save/SaveAll'un gerçekte
// göreceği girdinin aynısı.
func buildMultipart(t *testing.T, field string, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+field+`"; filename="`+name+`"`)
		switch {
		case strings.HasSuffix(name, ".pdf"):
			h.Set("Content-Type", "application/pdf")
		case strings.HasSuffix(name, ".png"):
			h.Set("Content-Type", "image/png")
		case strings.HasSuffix(name, ".exe"):
			h.Set("Content-Type", "application/x-msdownload")
		default:
			h.Set("Content-Type", "image/jpeg")
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/resources/upload-resource", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field]
}

func TestUploadSave(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir, 1<<20)
	require.NoError(t, err)

	headers := buildMultipart(t, "file", map[string]string{"photo.jpg": "jpeg-bytes"})
	require.Len(t, headers, 1)

	file, err := headers[0].Open()
	require.NoError(t, err)
	defer file.Close()

	url, err := svc.Save(file, headers[0])
	require.NoError(t, err)

	// URL formatı: /api/uploads/{uuid}.jpg — orijinal ad URL'de görünmez.
	assert.True(t, strings.HasPrefix(url, "/api/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.NotContains(t, url, "photo")

	// Dosya gerçekten diske yazıldı.
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc, err := NewUploadService(t.TempDir(), 1<<20)
	require.NoError(t, err)

	headers := buildMultipart(t, "file", map[string]string{"malware.exe": "MZ"})
	file, err := headers[0].Open()
	require.NoError(t, err)
	defer file.Close()

	_, err = svc.Save(file, headers[0])
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestUploadRejectsTooLarge(t *testing.T) {
	svc, err := NewUploadService(t.TempDir(), 4) // 4 byte limit
	require.NoError(t, err)

	headers := buildMultipart(t, "file", map[string]string{"big.jpg": "way more than four bytes"})
	file, err := headers[0].Open()
	require.NoError(t, err)
	defer file.Close()

	_, err = svc.Save(file, headers[0])
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestUploadSaveAllAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir, 1<<20)
	require.NoError(t, err)

	// İkinci dosya reddedilir — ilki de diskte kalmamalı.
	headers := buildMultipart(t, "files", map[string]string{
		"a.png":   "png-bytes",
		"bad.exe": "MZ",
	})
	require.Len(t, headers, 2)

	_, err = svc.SaveAll(headers)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadSaveAllSuccess(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir, 1<<20)
	require.NoError(t, err)

	headers := buildMultipart(t, "files", map[string]string{
		"a.png": "one",
		"b.jpg": "two",
	})

	urls, err := svc.SaveAll(headers)
	require.NoError(t, err)
	assert.Len(t, urls, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSanitizeExt(t *testing.T) {
	assert.Equal(t, ".jpg", sanitizeExt(".jpg"))
	assert.Equal(t, ".pdf", sanitizeExt(".PDF"))
	assert.Equal(t, "", sanitizeExt(""))
	assert.Equal(t, "", sanitizeExt(".j pg"))
	assert.Equal(t, "", sanitizeExt(".with/slash"))
	assert.Equal(t, "", sanitizeExt(".waytoolongext"))
}
