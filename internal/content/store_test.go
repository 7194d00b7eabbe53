package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shamir/internal/frontmatter"
	"shamir/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestFileNames(t *testing.T) {
	tests := []struct {
		id       string
		locale   models.Locale
		expected string
	}{
		{"42", models.LocaleRU, "42.md"},
		{"42", models.LocaleEN, "42-en.md"},
		{"7", models.LocaleLV, "7-lv.md"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			name := FileName(tt.id, tt.locale)
			if name != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, name)
			}

			id, locale, err := ParseFileName(name)
			if err != nil {
				t.Fatalf("ParseFileName failed: %v", err)
			}

			if id != tt.id || locale != tt.locale {
				t.Errorf("Expected (%s, %s), got (%s, %s)", tt.id, tt.locale, id, locale)
			}
		})
	}

	for _, bad := range []string{"index.md", "42-ru.md", "42-de.md", "42.txt"} {
		if _, _, err := ParseFileName(bad); !errors.Is(err, ErrNotArticle) {
			t.Errorf("Expected ErrNotArticle for %s, got %v", bad, err)
		}
	}
}

func TestStore_Listing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.md", "2.md", "2-en.md", "2-lv.md", "10-lv.md", "notes.md"} {
		writeFile(t, dir, name, "---\ntitle: x\n---\n")
	}

	store := NewStore(dir)

	ids, err := store.SourceIDs()
	if err != nil {
		t.Fatalf("SourceIDs failed: %v", err)
	}

	if strings.Join(ids, ",") != "2,10" {
		t.Errorf("Expected numeric order 2,10, got %v", ids)
	}

	files, err := store.TranslationFiles()
	if err != nil {
		t.Fatalf("TranslationFiles failed: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("Expected 3 translation files, got %d", len(files))
	}

	next, err := store.NextID()
	if err != nil || next != "11" {
		t.Errorf("Expected next id 11, got %s (%v)", next, err)
	}

	if !store.Exists("2", models.LocaleEN) || store.Exists("10", models.LocaleEN) {
		t.Error("Unexpected Exists result")
	}
}

func TestStore_SaveOnlyWhenChanged(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	doc, err := frontmatter.FromArticle(&models.Article{ID: "5", Title: "T", Locale: models.LocaleLV, Body: "Teksts"})
	if err != nil {
		t.Fatalf("FromArticle failed: %v", err)
	}

	changed, err := store.Save("5", models.LocaleLV, doc)
	if err != nil || !changed {
		t.Fatalf("Expected first save to write, got changed=%v err=%v", changed, err)
	}

	changed, err = store.Save("5", models.LocaleLV, doc)
	if err != nil || changed {
		t.Errorf("Expected second save to be a no-op, got changed=%v err=%v", changed, err)
	}

	_, article, err := store.Load("5", models.LocaleLV)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if article.Title != "T" || article.Locale != models.LocaleLV {
		t.Errorf("Unexpected article %+v", article)
	}
}
