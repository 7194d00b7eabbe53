package tags

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shamir/internal/content"
	"shamir/internal/logger"
)

func writeArticle(t *testing.T, dir, name, body string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func readArticle(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}

	return string(data)
}

func TestSyncer_Run(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "42.md", "---\ntitle: Выставка\ntags: [Выставки, Riga Ghetto Museum]\n---\nТекст\n")
	writeArticle(t, dir, "42-lv.md", "---\ntitle: Izstāde\ntags: [Выставки]\n---\nTeksts\n")
	writeArticle(t, dir, "42-en.md", "---\ntitle: Exhibition\nlocale: en\n---\nText\n")
	writeArticle(t, dir, "7.md", "---\ntitle: Без тегов\n---\nТекст\n")

	var out bytes.Buffer

	syncer := NewSyncer(content.NewStore(dir), nil, logger.NewNop(), nil, &out)

	result, err := syncer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Processed != 2 || result.Updated != 1 || result.FilesWritten != 3 {
		t.Errorf("Unexpected result %+v", result)
	}

	lv := readArticle(t, dir, "42-lv.md")
	if !strings.Contains(lv, "tags:\n  - Izstādes\n  - Rīgas Geto Muzejs\n") {
		t.Errorf("Expected Latvian tags, got:\n%s", lv)
	}

	if !strings.Contains(lv, "locale: lv\n") {
		t.Errorf("Expected locale to be added, got:\n%s", lv)
	}

	en := readArticle(t, dir, "42-en.md")
	if !strings.Contains(en, "tags:\n  - Exhibitions\n  - Riga Ghetto Museum\n") {
		t.Errorf("Expected English tags, got:\n%s", en)
	}

	if strings.Count(en, "locale:") != 1 {
		t.Errorf("Expected a single locale key, got:\n%s", en)
	}

	ru := readArticle(t, dir, "42.md")
	if !strings.Contains(ru, "  - Выставки\n") || !strings.Contains(ru, "locale: ru\n") {
		t.Errorf("Expected normalised Russian file, got:\n%s", ru)
	}

	if !strings.Contains(out.String(), "⚠️  7: No tags found") {
		t.Errorf("Expected warning for untagged article, got:\n%s", out.String())
	}
}

func TestSyncer_SecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "1.md", "---\ntitle: A\ntags:\n  - Концерты\n---\nТекст\n")
	writeArticle(t, dir, "1-en.md", "---\ntitle: A\n---\nText\n")

	syncer := NewSyncer(content.NewStore(dir), nil, logger.NewNop(), nil, nil)

	if _, err := syncer.Run(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	before := readArticle(t, dir, "1-en.md")

	result, err := syncer.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if result.FilesWritten != 0 || result.Updated != 0 {
		t.Errorf("Expected no writes on second run, got %+v", result)
	}

	if after := readArticle(t, dir, "1-en.md"); after != before {
		t.Errorf("Expected file unchanged, got:\n%s", after)
	}
}

func TestSyncer_MissingTranslationsAreNotCreated(t *testing.T) {
	dir := t.TempDir()
	writeArticle(t, dir, "3.md", "---\ntitle: A\ntags: [Проекты]\n---\n")

	syncer := NewSyncer(content.NewStore(dir), nil, logger.NewNop(), nil, nil)

	if _, err := syncer.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "3-lv.md")); !os.IsNotExist(err) {
		t.Error("Expected no Latvian file to be created")
	}
}
