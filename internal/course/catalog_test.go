package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCatalog_GetCachesCourse(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "gunes", validCourseYAML)

	cat := NewCatalog(NewLoader(dir))

	first, err := cat.Get("gunes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Removing the file doesn't evict the cached course.
	if err := os.Remove(filepath.Join(dir, "gunes.yaml")); err != nil {
		t.Fatal(err)
	}
	second, err := cat.Get("gunes")
	if err != nil {
		t.Fatalf("unexpected error after removal: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached course instance")
	}
}

func TestCatalog_GetUnknownCourse(t *testing.T) {
	cat := NewCatalog(NewLoader(t.TempDir()))
	if _, err := cat.Get("yok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_List(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "gunes", validCourseYAML)

	cat := NewCatalog(NewLoader(dir))
	summaries, err := cat.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "gunes" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}
