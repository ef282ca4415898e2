package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocal_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := store.Save(context.Background(), "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file stored outside upload dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("unexpected content %q", data)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestLocal_SaveStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("traversal escaped upload dir: %s", path)
	}
	if filepath.Base(path) != "passwd" {
		t.Errorf("unexpected stored name %s", filepath.Base(path))
	}
}

func TestLocal_SaveRejectsEmptyName(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Save(context.Background(), "   ", strings.NewReader("x")); err == nil {
		t.Error("expected error for blank filename")
	}
}

func TestLocal_RemoveMissingIsNoop(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Remove(filepath.Join(t.TempDir(), "missing.txt")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewLocal_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := NewLocal(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("expected upload directory to exist")
	}
}
