package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"shamir/internal/content"
)

var (
	imageRef  = regexp.MustCompile(`(?i)/images/([0-9]+\.(jpg|jpeg|png))`)
	imageFile = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
)

// ReferencedImages returns the lower-cased image file names linked as
// "/images/<n>.<ext>" from any article file.
func ReferencedImages(store *content.Store) (map[string]bool, error) {
	names, err := store.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	refs := make(map[string]bool)

	for _, name := range names {
		raw, err := content.ReadFile(filepath.Join(store.Dir(), name))
		if err != nil {
			return nil, err
		}

		for _, m := range imageRef.FindAllStringSubmatch(raw, -1) {
			refs[strings.ToLower(m[1])] = true
		}
	}

	return refs, nil
}

// UnusedImages lists image files in imagesDir that no article references,
// lower-cased and sorted.
func UnusedImages(store *content.Store, imagesDir string) ([]string, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images dir: %w", err)
	}

	refs, err := ReferencedImages(store)
	if err != nil {
		return nil, err
	}

	var unused []string

	for _, e := range entries {
		if e.IsDir() || !imageFile.MatchString(e.Name()) {
			continue
		}

		name := strings.ToLower(e.Name())
		if !refs[name] {
			unused = append(unused, name)
		}
	}

	sort.Strings(unused)

	return unused, nil
}

// WriteUnusedReport writes one file name per line.
func WriteUnusedReport(path string, unused []string) error {
	_, err := content.WriteIfChanged(path, strings.Join(unused, "\n")+"\n")
	return err
}
