package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validCourseYAML = `title: Güneş Sistemi
description: Güneş'i ve gezegenleri keşfet.
sections:
  - title: Güneş
    content: Güneş'i tanıyalım.
    order: 1
    steps:
      - step: 0
        content: Güneş enerjisini nasıl üretir?
        expected_responses:
          - nükleer füzyon
        next_action: CONTINUE
      - step: 1
        content: Hangi element helyuma dönüşür?
        expected_responses:
          - hidrojen
        next_action: NEXT
  - title: Gezegenler
    content: Şimdi gezegenlere bakalım.
    order: 2
    steps:
      - step: 0
        content: Üzerinde yaşadığımız gezegen hangisidir?
        expected_responses:
          - dünya
        next_action: FINISH
`

func writeCourse(t *testing.T, dir, id, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_LoadValidCourse(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "gunes", validCourseYAML)

	c, err := NewLoader(dir).Load("gunes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Güneş Sistemi" {
		t.Fatalf("unexpected title: %q", c.Title)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(c.Sections))
	}

	step := c.Sections[0].Steps[0]
	if !step.Graded() {
		t.Fatal("expected first step to be graded")
	}
	if step.NextAction != ActionContinue {
		t.Fatalf("unexpected next action: %q", step.NextAction)
	}
	if last := c.Sections[1].Steps[0]; last.NextAction != ActionFinish {
		t.Fatalf("unexpected final action: %q", last.NextAction)
	}
}

func TestLoader_MissingCourse(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load("yok")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoader_RejectsUnknownNextAction(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "bozuk", `title: Bozuk
description: Geçersiz eylem.
sections:
  - title: Bölüm
    order: 1
    steps:
      - step: 0
        content: Soru?
        next_action: JUMP
`)

	if _, err := NewLoader(dir).Load("bozuk"); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestLoader_RejectsMissingTitle(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "bozuk", `description: Başlık yok.
sections:
  - title: Bölüm
    order: 1
    steps:
      - step: 0
        content: Soru?
        next_action: CONTINUE
`)

	if _, err := NewLoader(dir).Load("bozuk"); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestLoader_RejectsBadSectionOrder(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "bozuk", `title: Bozuk
description: Sıra hatalı.
sections:
  - title: Bölüm
    order: 2
    steps:
      - step: 0
        content: Soru?
        next_action: CONTINUE
`)

	if _, err := NewLoader(dir).Load("bozuk"); err == nil {
		t.Fatal("expected order validation error")
	}
}

func TestLoader_RejectsBadStepIndexes(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "bozuk", `title: Bozuk
description: Adım indeksi hatalı.
sections:
  - title: Bölüm
    order: 1
    steps:
      - step: 1
        content: Soru?
        next_action: CONTINUE
`)

	if _, err := NewLoader(dir).Load("bozuk"); err == nil {
		t.Fatal("expected step index validation error")
	}
}

func TestLoader_ListSkipsBrokenDocuments(t *testing.T) {
	dir := t.TempDir()
	writeCourse(t, dir, "gunes", validCourseYAML)
	writeCourse(t, dir, "bozuk", "title: [")

	summaries, err := NewLoader(dir).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].ID != "gunes" || summaries[0].Title != "Güneş Sistemi" {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
}
