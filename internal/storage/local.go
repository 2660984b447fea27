package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidContentType is returned for uploads that are not JPG or PNG images
var ErrInvalidContentType = errors.New("only JPG and PNG images are accepted")

// ErrFileTooLarge is returned for uploads above the configured limit
var ErrFileTooLarge = errors.New("file exceeds the maximum upload size")

const termsDir = "terms"

// LocalStorage handles file storage on the local filesystem
type LocalStorage struct {
	basePath    string
	maxFileSize int64
}

// NewLocalStorage creates a new local storage instance. maxFileSize <= 0
// uses MaxFileSize().
func NewLocalStorage(basePath string, maxFileSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, termsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if maxFileSize <= 0 {
		maxFileSize = MaxFileSize()
	}
	return &LocalStorage{basePath: basePath, maxFileSize: maxFileSize}, nil
}

// MaxSize returns the upload limit in bytes
func (s *LocalStorage) MaxSize() int64 {
	return s.maxFileSize
}

// Validate checks size and sniffed content type of an uploaded image and
// returns the detected MIME type.
func (s *LocalStorage) Validate(data []byte) (string, error) {
	if int64(len(data)) > s.maxFileSize {
		return "", ErrFileTooLarge
	}
	contentType := DetectContentType(data)
	if !IsValidContentType(contentType) {
		return "", fmt.Errorf("%w (got %s)", ErrInvalidContentType, contentType)
	}
	return contentType, nil
}

// SaveTermsImage stores data as the default terms illustration, replacing
// any previous one.
func (s *LocalStorage) SaveTermsImage(data []byte) error {
	if _, err := s.Validate(data); err != nil {
		return err
	}

	path := s.termsImagePath()
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// TermsImage returns the stored default terms illustration, or nil when none
// has been uploaded.
func (s *LocalStorage) TermsImage() ([]byte, error) {
	data, err := os.ReadFile(s.termsImagePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read terms image: %w", err)
	}
	return data, nil
}

// DeleteTermsImage removes the stored default terms illustration
func (s *LocalStorage) DeleteTermsImage() error {
	err := os.Remove(s.termsImagePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStorage) termsImagePath() string {
	return filepath.Join(s.basePath, termsDir, "terms_image")
}

// DetectContentType sniffs the MIME type of data
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// ValidContentTypes returns allowed MIME types for uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
	}
}

// MaxFileSize returns the default maximum upload size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024 // 10 MB
}

// IsValidContentType checks if the content type is allowed
func IsValidContentType(contentType string) bool {
	return ValidContentTypes()[contentType]
}
