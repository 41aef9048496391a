package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService persists generated boilerplate on disk so a completed run
// can be downloaded later.
type StorageService interface {
	SaveBoilerplate(runID uuid.UUID, content string) (string, error)
	GetFilePath(filename string) (string, error)
	DeleteFile(filename string) error
	EnsureDir() error
}

type storageService struct {
	basePath string
}

func NewStorageService(basePath string) StorageService {
	return &storageService{basePath: basePath}
}

func (s *storageService) EnsureDir() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create submission directory: %w", err)
	}
	return nil
}

// SaveBoilerplate writes the content and returns the stored filename.
func (s *storageService) SaveBoilerplate(runID uuid.UUID, content string) (string, error) {
	filename := fmt.Sprintf("boilerplate_%s.txt", runID)
	path := filepath.Join(s.basePath, filename)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to save boilerplate: %w", err)
	}

	return filename, nil
}

// GetFilePath resolves a stored filename, rejecting path traversal.
func (s *storageService) GetFilePath(filename string) (string, error) {
	if filepath.Base(filename) != filename || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}

	path := filepath.Join(s.basePath, filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}
	return path, nil
}

func (s *storageService) DeleteFile(filename string) error {
	path, err := s.GetFilePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
