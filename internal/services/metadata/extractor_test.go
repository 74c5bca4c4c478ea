package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contentpipeline/internal/logger"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestParseFrontMatter_AllFields(t *testing.T) {
	doc := "---\ntitle: \"Ocean Front Residence\"\ndescription: Dune-side house\nyear: 2023\nlocation: \"Kiawah Island\"\n---\n\nBody text.\n"

	meta, err := ParseFrontMatter([]byte(doc))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.Title == nil || *meta.Title != "Ocean Front Residence" {
		t.Errorf("Title = %v", meta.Title)
	}
	if meta.Description == nil || *meta.Description != "Dune-side house" {
		t.Errorf("Description = %v", meta.Description)
	}
	if meta.Year == nil || *meta.Year != 2023 {
		t.Errorf("Year = %v", meta.Year)
	}
	if meta.Location == nil || *meta.Location != "Kiawah Island" {
		t.Errorf("Location = %v", meta.Location)
	}
}

func TestParseFrontMatter_PartialFields(t *testing.T) {
	meta, err := ParseFrontMatter([]byte("---\ntitle: Villa\nphotographer: someone\n---\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.Title == nil || *meta.Title != "Villa" {
		t.Errorf("Title = %v", meta.Title)
	}
	if meta.Year != nil || meta.Description != nil || meta.Location != nil {
		t.Errorf("absent fields should stay nil: %+v", meta)
	}
}

func TestParseFrontMatter_QuotedYearAndCRLF(t *testing.T) {
	meta, err := ParseFrontMatter([]byte("---\r\nyear: \"2019\"\r\n---\r\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.Year == nil || *meta.Year != 2019 {
		t.Errorf("Year = %v, expected 2019", meta.Year)
	}
}

func TestParseFrontMatter_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		noFM      bool
		expectErr bool
	}{
		{"plain markdown", "# Villa\n\nNo front matter here.", true, true},
		{"unterminated", "---\ntitle: Villa\n", true, true},
		{"bad yaml", "---\ntitle: [unclosed\n---\n", false, true},
		{"non numeric year", "---\nyear: soon\n---\n", false, true},
		{"list year", "---\nyear: [2019, 2020]\n---\n", false, true},
		{"empty block", "---\n---\n", false, false},
	}

	for _, tt := range tests {
		_, err := ParseFrontMatter([]byte(tt.doc))
		if (err != nil) != tt.expectErr {
			t.Errorf("%s: err = %v, expectErr %v", tt.name, err, tt.expectErr)
		}
		if errors.Is(err, ErrNoFrontMatter) != tt.noFM {
			t.Errorf("%s: ErrNoFrontMatter = %v, expected %v", tt.name, errors.Is(err, ErrNoFrontMatter), tt.noFM)
		}
	}
}

func TestParseFrontMatter_InvalidYearKeepsOtherFields(t *testing.T) {
	doc := "---\ntitle: Ocean Front Residence\nyear: c. 2019\nlocation: Kiawah Island\n---\n"

	meta, err := ParseFrontMatter([]byte(doc))
	if !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
	if meta.Year != nil {
		t.Errorf("Year = %d, expected nil", *meta.Year)
	}
	if meta.Title == nil || *meta.Title != "Ocean Front Residence" {
		t.Errorf("Title = %v", meta.Title)
	}
	if meta.Location == nil || *meta.Location != "Kiawah Island" {
		t.Errorf("Location = %v", meta.Location)
	}
}

func TestParseFrontMatter_NullYearIsAbsent(t *testing.T) {
	meta, err := ParseFrontMatter([]byte("---\ntitle: Villa\nyear:\n---\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.Year != nil || meta.Title == nil {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestSplitFrontMatter_ClosingLine(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
		ok       bool
	}{
		{"closing line", "---\ntitle: A\n---\nbody", "title: A\n", true},
		{"closing at end of input", "---\ntitle: A\n---", "title: A\n", true},
		{"closing with trailing spaces", "---\ntitle: A\n---  \n", "title: A\n", true},
		{"empty block", "---\n---\n", "", true},
		{"four dashes are content", "---\ntitle: A\n----\n", "", false},
		{"dashes followed by text are content", "---\ntitle: A\n---foo\nlocation: B\n---\n", "title: A\n---foo\nlocation: B\n", true},
	}

	for _, tt := range tests {
		block, ok := splitFrontMatter([]byte(tt.doc))
		if ok != tt.ok || string(block) != tt.expected {
			t.Errorf("%s: got (%q, %v), expected (%q, %v)", tt.name, block, ok, tt.expected, tt.ok)
		}
	}
}

func TestFindDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01.jpg", "img")
	writeFile(t, dir, "b-notes.MD", "---\ntitle: B\n---\n")
	writeFile(t, dir, "a-readme.markdown", "---\ntitle: A\n---\n")

	path, err := FindDescriptor(dir)
	if err != nil {
		t.Fatalf("FindDescriptor: %v", err)
	}
	if filepath.Base(path) != "a-readme.markdown" {
		t.Errorf("FindDescriptor = %q, expected the first descriptor by name", path)
	}
}

func TestFindDescriptor_None(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01.jpg", "img")

	path, err := FindDescriptor(dir)
	if err != nil || path != "" {
		t.Errorf("FindDescriptor = %q, %v; expected no descriptor", path, err)
	}
}

func TestExtract_FallsBackToEmptyMetadata(t *testing.T) {
	e := NewExtractor(logger.Discard())

	empty := t.TempDir()
	if meta := e.Extract(empty); meta.Title != nil || meta.Year != nil {
		t.Errorf("expected empty metadata without descriptor, got %+v", meta)
	}

	broken := t.TempDir()
	writeFile(t, broken, "project.md", "---\ntitle: [oops\n---\n")
	if meta := e.Extract(broken); meta.Title != nil {
		t.Errorf("expected empty metadata for broken front matter, got %+v", meta)
	}

	if meta := e.Extract(filepath.Join(empty, "missing")); meta.Title != nil {
		t.Errorf("expected empty metadata for a missing directory, got %+v", meta)
	}
}

func TestExtract_InvalidYearKeepsDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kiawah.md", "---\ntitle: \"Ocean Front Residence\"\nyear: c. 2019\n---\n")

	meta := NewExtractor(logger.Discard()).Extract(dir)
	if meta.Title == nil || *meta.Title != "Ocean Front Residence" || meta.Year != nil {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestExtract_ReadsDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kiawah.md", "---\ntitle: \"Ocean Front Residence\"\nyear: 2023\nlocation: \"Kiawah Island\"\n---\n")

	meta := NewExtractor(logger.Discard()).Extract(dir)
	if meta.Title == nil || *meta.Title != "Ocean Front Residence" || meta.Year == nil || *meta.Year != 2023 {
		t.Errorf("unexpected metadata %+v", meta)
	}
}
