// Package content maps article IDs and locales to files in the article
// directory.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"shamir/internal/frontmatter"
	"shamir/internal/models"
)

var (
	sourceName      = regexp.MustCompile(`^([0-9]+)\.md$`)
	translationName = regexp.MustCompile(`^([0-9]+)-(en|lv)\.md$`)
)

// ErrNotArticle is returned for file names outside the convention.
var ErrNotArticle = errors.New("not an article file name")

// FileName builds "<id>.md" for Russian and "<id>-<locale>.md" otherwise.
func FileName(id string, locale models.Locale) string {
	if locale == models.LocaleRU || locale == "" {
		return id + ".md"
	}

	return id + "-" + string(locale) + ".md"
}

// ParseFileName splits a numeric article file name into ID and locale.
func ParseFileName(name string) (string, models.Locale, error) {
	if m := sourceName.FindStringSubmatch(name); m != nil {
		return m[1], models.LocaleRU, nil
	}

	if m := translationName.FindStringSubmatch(name); m != nil {
		return m[1], models.Locale(m[2]), nil
	}

	return "", "", fmt.Errorf("%w: %s", ErrNotArticle, name)
}

// Store reads and writes article files in one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the article directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for an article version.
func (s *Store) Path(id string, locale models.Locale) string {
	return filepath.Join(s.dir, FileName(id, locale))
}

// Exists reports whether the article version has a file.
func (s *Store) Exists(id string, locale models.Locale) bool {
	_, err := os.Stat(s.Path(id, locale))
	return err == nil
}

// SourceIDs lists IDs that have a "<id>.md" file, in numeric order.
func (s *Store) SourceIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read article dir: %w", err)
	}

	var ids []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if m := sourceName.FindStringSubmatch(e.Name()); m != nil {
			ids = append(ids, m[1])
		}
	}

	sortNumeric(ids)

	return ids, nil
}

// MarkdownFiles lists every *.md file name in lexical order.
func (s *Store) MarkdownFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read article dir: %w", err)
	}

	var names []string

	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".md" {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

// TranslationFile is one "<id>-<locale>.md" entry.
type TranslationFile struct {
	ID     string
	Locale models.Locale
	Name   string
}

// TranslationFiles lists translation files in lexical file-name order.
func (s *Store) TranslationFiles() ([]TranslationFile, error) {
	names, err := s.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	var files []TranslationFile

	for _, name := range names {
		if m := translationName.FindStringSubmatch(name); m != nil {
			files = append(files, TranslationFile{ID: m[1], Locale: models.Locale(m[2]), Name: name})
		}
	}

	return files, nil
}

// ReadRaw returns the file content of an article version.
func (s *Store) ReadRaw(id string, locale models.Locale) (string, error) {
	return ReadFile(s.Path(id, locale))
}

// Load parses an article version.
func (s *Store) Load(id string, locale models.Locale) (*frontmatter.Document, *models.Article, error) {
	return LoadFile(s.Path(id, locale))
}

// Save renders doc to the article version's file. It reports whether the
// file changed.
func (s *Store) Save(id string, locale models.Locale, doc *frontmatter.Document) (bool, error) {
	out, err := doc.Render()
	if err != nil {
		return false, err
	}

	return WriteIfChanged(s.Path(id, locale), out)
}

// NextID returns one more than the highest numeric source ID.
func (s *Store) NextID() (string, error) {
	ids, err := s.SourceIDs()
	if err != nil {
		return "", err
	}

	if len(ids) == 0 {
		return "1", nil
	}

	last, err := strconv.Atoi(ids[len(ids)-1])
	if err != nil {
		return "", fmt.Errorf("invalid article id %q: %w", ids[len(ids)-1], err)
	}

	return strconv.Itoa(last + 1), nil
}

// ReadFile reads a whole file as text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// LoadFile reads and parses a Markdown file with front matter.
func LoadFile(path string) (*frontmatter.Document, *models.Article, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	article, err := doc.Article()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return doc, article, nil
}

// WriteIfChanged writes content unless the file already holds it.
func WriteIfChanged(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}

func sortNumeric(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])

		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}

		return a < b
	})
}
