package services

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStorageSaveAndResolve(t *testing.T) {
	svc := NewStorageService(t.TempDir())
	runID := uuid.New()

	filename, err := svc.SaveBoilerplate(runID, "package main")
	if err != nil {
		t.Fatalf("SaveBoilerplate failed: %v", err)
	}
	if !strings.HasPrefix(filename, "boilerplate_") || !strings.HasSuffix(filename, ".txt") {
		t.Errorf("filename = %q", filename)
	}

	path, err := svc.GetFilePath(filename)
	if err != nil {
		t.Fatalf("GetFilePath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file failed: %v", err)
	}
	if string(data) != "package main" {
		t.Errorf("content = %q", data)
	}

	if err := svc.DeleteFile(filename); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if _, err := svc.GetFilePath(filename); err == nil {
		t.Error("expected an error for a deleted file")
	}
}

func TestStorageRejectsTraversal(t *testing.T) {
	svc := NewStorageService(t.TempDir())

	for _, name := range []string{"../etc/passwd", "a/../b.txt", "sub/dir.txt"} {
		if _, err := svc.GetFilePath(name); err == nil {
			t.Errorf("GetFilePath(%q) accepted an unsafe name", name)
		}
	}
}

func TestStorageGetFilePathMissingFile(t *testing.T) {
	svc := NewStorageService(t.TempDir())

	if _, err := svc.GetFilePath("boilerplate_missing.txt"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
