package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectorySource_List(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tiff", "a.TIF", "background.tiff", "notes.txt", "c.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.tiff"), 0o755); err != nil {
		t.Fatal(err)
	}

	src := NewDirectorySource(dir, []string{".tiff", "tif"}, "background.tiff")
	paths, err := src.List()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{filepath.Join(dir, "a.TIF"), filepath.Join(dir, "b.tiff")}
	if len(paths) != len(want) {
		t.Fatalf("Expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, paths[i])
		}
	}
}

func TestDirectorySource_Empty(t *testing.T) {
	paths, err := NewDirectorySource(t.TempDir(), []string{".tiff"}, "background.tiff").List()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no paths, got %v", paths)
	}
}

func TestDirectorySource_MissingDirectory(t *testing.T) {
	src := NewDirectorySource(filepath.Join(t.TempDir(), "nope"), []string{".tiff"}, "")
	if _, err := src.List(); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
