package formatter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shamir/internal/content"
	"shamir/internal/logger"
)

func TestImageFixer_Run(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"1.md":    "---\ntitle: A\n---\n    ![](/images/1.jpg)\n",
		"1-en.md": "---\ntitle: A\n---\n    ![](/images/1.jpg)\n",
		"1-lv.md": "---\ntitle: A\n---\n![](/images/1.jpg)\n",
	}

	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	fixer := NewImageFixer(content.NewStore(dir), logger.NewNop(), nil, nil, false)

	result, err := fixer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.String() != "Processed 2 files, fixed 1 files" {
		t.Errorf("Unexpected summary %q", result.String())
	}

	en, _ := content.ReadFile(filepath.Join(dir, "1-en.md"))
	if en != "---\ntitle: A\n---\n![](/images/1.jpg)\n" {
		t.Errorf("Expected 1-en.md fixed, got %q", en)
	}

	ru, _ := content.ReadFile(filepath.Join(dir, "1.md"))
	if ru != files["1.md"] {
		t.Errorf("Expected Russian source untouched, got %q", ru)
	}

	again, err := fixer.Run(context.Background())
	if err != nil || again.Fixed != 0 {
		t.Errorf("Expected second run to fix nothing, got %+v (%v)", again, err)
	}
}

func TestImageFixer_DryRun(t *testing.T) {
	dir := t.TempDir()
	body := "    ![](/images/1.jpg)\n"

	if err := os.WriteFile(filepath.Join(dir, "3-lv.md"), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	result, err := NewImageFixer(content.NewStore(dir), logger.NewNop(), nil, nil, true).Run(context.Background())
	if err != nil || result.Fixed != 1 {
		t.Fatalf("Expected one file reported, got %+v (%v)", result, err)
	}

	got, _ := content.ReadFile(filepath.Join(dir, "3-lv.md"))
	if got != body {
		t.Errorf("Expected dry run to leave the file, got %q", got)
	}
}

func TestImageFixer_AlignTables(t *testing.T) {
	dir := t.TempDir()
	body := "---\ntitle: A\n---\n|a|bb|\n|-|-|\n|ccc|d|\n"

	if err := os.WriteFile(filepath.Join(dir, "4-en.md"), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	fixer := NewImageFixer(content.NewStore(dir), logger.NewNop(), nil, nil, false).AlignTables()

	result, err := fixer.Run(context.Background())
	if err != nil || result.Fixed != 1 {
		t.Fatalf("Expected the table to be aligned, got %+v (%v)", result, err)
	}

	got, _ := content.ReadFile(filepath.Join(dir, "4-en.md"))
	if got != "---\ntitle: A\n---\n| a   | bb  |\n| --- | --- |\n| ccc | d   |\n" {
		t.Errorf("Unexpected content %q", got)
	}
}
