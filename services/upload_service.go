package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shareshelf/shareshelf/pkg"
)

// UploadService, multipart form'dan gelen dosyaları diske kaydeder.
//
// Dosyalar tek bir upload dizininde yaşar ve /api/uploads/{filename}
// üzerinden servis edilir. DB'de ayrı bir dosya tablosu yoktur —
// URL'ler ait oldukları kayıtta (user.avatar_url, resource.cover_image_urls)
// saklanır.
type UploadService interface {
	// Save, tek dosya kaydeder ve public URL'ini döner.
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
	// SaveAll, bir form field'ındaki tüm dosyaları kaydeder.
	// Herhangi biri başarısız olursa o ana kadar yazılanlar silinir —
	// ya hepsi ya hiçbiri.
	SaveAll(headers []*multipart.FileHeader) ([]string, error)
}

type uploadService struct {
	uploadDir string
	maxSize   int64
}

// NewUploadService, constructor. Upload dizini yoksa oluşturulur.
func NewUploadService(uploadDir string, maxSize int64) (UploadService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &uploadService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}, nil
}

// allowedMimeTypes, yüklemeye izin verilen dosya türleri.
// Kapak/kaynak görselleri + lisans belgeleri (PDF).
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Save, dosyayı doğrular, diske kaydeder ve public URL döner.
func (s *uploadService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxSize {
		return "", fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Sadece base MIME type'ı al (charset vb. parametre olabilir)
	mimeBase := strings.TrimSpace(strings.Split(contentType, ";")[0])

	if !allowedMimeTypes[mimeBase] {
		return "", fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeBase)
	}

	// Disk adı: {uuid}{ext} — orijinal ad diske hiç yazılmaz, path traversal
	// ve çakışma derdi baştan yok. Uzantı orijinal addan alınır ama
	// sanitize edilir.
	ext := sanitizeExt(filepath.Ext(header.Filename))
	diskFilename := uuid.NewString() + ext

	destPath := filepath.Join(s.uploadDir, diskFilename)
	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/api/uploads/" + diskFilename, nil
}

// SaveAll, bir field'daki tüm dosyaları kaydeder (ya hepsi ya hiçbiri).
func (s *uploadService) SaveAll(headers []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			s.removeAll(urls)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		url, err := s.Save(file, header)
		file.Close()
		if err != nil {
			s.removeAll(urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, nil
}

// removeAll, yarım kalmış batch'in diske yazdıklarını geri alır.
func (s *uploadService) removeAll(urls []string) {
	for _, url := range urls {
		name := filepath.Base(url)
		os.Remove(filepath.Join(s.uploadDir, name))
	}
}

// sanitizeExt, dosya uzantısını güvenli hale getirir.
// Uzantı alfanumerik değilse tamamen atılır.
func sanitizeExt(ext string) string {
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return ""
		}
	}
	return strings.ToLower(ext)
}
