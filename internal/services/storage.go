package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/apperrors"
)

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// StagedFile is an uploaded resume copied to local disk for the duration of
// one request.
type StagedFile struct {
	OriginalName string
	Path         string
	Size         int64
}

func (f StagedFile) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(f.Path), ".pdf")
}

type StorageService interface {
	EnsureUploadDir() error
	CreateStagingDir() (string, error)
	SaveFile(dir string, file *multipart.FileHeader) (*StagedFile, error)
	RemoveDir(dir string) error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// CreateStagingDir creates a fresh directory that holds one request's files.
func (s *storageService) CreateStagingDir() (string, error) {
	dir := filepath.Join(s.uploadPath, "batch_"+uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

func (s *storageService) SaveFile(dir string, file *multipart.FileHeader) (*StagedFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExtensions[ext] {
		return nil, apperrors.BadRequest(fmt.Sprintf("Unsupported file format: %s", file.Filename))
	}

	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, apperrors.BadRequest(fmt.Sprintf("File %s is too large. Max size: %d bytes", file.Filename, s.maxFileSize))
	}

	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(dir, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StagedFile{
		OriginalName: file.Filename,
		Path:         filePath,
		Size:         written,
	}, nil
}

// RemoveDir deletes a staging directory and everything in it. Removing a
// directory that no longer exists is not an error.
func (s *storageService) RemoveDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return nil
}
