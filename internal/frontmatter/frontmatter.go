// Package frontmatter reads and writes Markdown files with a YAML header
// delimited by "---" lines. Unknown keys and key order survive a rewrite.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"shamir/internal/models"
)

// Delimiter opens and closes the front matter block.
const Delimiter = "---"

// Front matter errors.
var (
	ErrMalformed    = errors.New("malformed front matter")
	ErrUnterminated = errors.New("front matter is not terminated")
)

// Document is a parsed Markdown file.
type Document struct {
	root    *yaml.Node
	Body    string
	present bool
}

// New returns an empty document with the given body.
func New(body string) *Document {
	return &Document{
		root: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
		Body: body,
	}
}

// Split separates the raw YAML text from the body. ok is false when the
// content does not start with a delimiter line.
func Split(content string) (raw, body string, ok bool, err error) {
	first, rest, found := strings.Cut(content, "\n")
	if strings.TrimSpace(first) != Delimiter {
		return "", content, false, nil
	}

	if !found {
		return "", "", false, ErrUnterminated
	}

	offset := 0

	for {
		line, tail, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimSpace(line) == Delimiter {
			raw = rest[:offset]
			if more {
				body = tail
			}

			return raw, body, true, nil
		}

		if !more {
			return "", "", false, ErrUnterminated
		}

		offset += len(line) + 1
	}
}

// Parse reads a whole file. A file without front matter parses into an
// empty header with the full content as body.
func Parse(content string) (*Document, error) {
	raw, body, ok, err := Split(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	doc := New(body)
	doc.present = ok

	if strings.TrimSpace(raw) == "" {
		return doc, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if len(node.Content) == 0 {
		return doc, nil
	}

	if node.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: header is not a mapping", ErrMalformed)
	}

	doc.root = node.Content[0]

	return doc, nil
}

// HasFrontMatter reports whether the source file had a header block.
func (d *Document) HasFrontMatter() bool {
	return d.present
}

// Decode decodes the header into v.
func (d *Document) Decode(v any) error {
	if err := d.root.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return nil
}

// Article decodes the known article keys and attaches the body.
func (d *Document) Article() (*models.Article, error) {
	var a models.Article
	if err := d.Decode(&a); err != nil {
		return nil, err
	}

	a.Body = d.Body

	return &a, nil
}

// Keys returns the header keys in file order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.root.Content)/2)
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		keys = append(keys, d.root.Content[i].Value)
	}

	return keys
}

// String returns a scalar value, or "" when absent or not a scalar.
func (d *Document) String(key string) string {
	n := d.valueNode(key)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}

	return n.Value
}

// Set encodes value and stores it under key, keeping the key's position
// when it already exists.
func (d *Document) Set(key string, value any) error {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	d.setNode(key, &n)

	return nil
}

// SetPlain stores an untagged scalar so the YAML resolver decides its type
// on the next read (used for dates).
func (d *Document) SetPlain(key, value string) {
	d.setNode(key, &yaml.Node{Kind: yaml.ScalarNode, Value: value})
}

func (d *Document) valueNode(key string) *yaml.Node {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			return d.root.Content[i+1]
		}
	}

	return nil
}

func (d *Document) setNode(key string, value *yaml.Node) {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			d.root.Content[i+1] = value
			return
		}
	}

	d.root.Content = append(d.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// Render serialises the document. Non-empty bodies end with a newline.
func (d *Document) Render() (string, error) {
	var sb strings.Builder

	sb.WriteString(Delimiter + "\n")

	if len(d.root.Content) > 0 {
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(d.root); err != nil {
			return "", fmt.Errorf("failed to encode front matter: %w", err)
		}

		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("failed to encode front matter: %w", err)
		}

		sb.Write(buf.Bytes())
	}

	sb.WriteString(Delimiter + "\n")
	sb.WriteString(d.Body)

	if d.Body != "" && !strings.HasSuffix(d.Body, "\n") {
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// FromArticle builds a document for a new file with keys in the canonical
// order id, title, locale, date, tags, oldUrl, image. Empty values are
// omitted.
func FromArticle(a *models.Article) (*Document, error) {
	doc := New(a.Body)

	if a.ID != "" {
		doc.SetPlain("id", a.ID)
	}

	fields := []struct {
		key   string
		value string
	}{
		{"title", a.Title},
		{"locale", string(a.Locale)},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		if err := doc.Set(f.key, f.value); err != nil {
			return nil, err
		}
	}

	if a.Date != "" {
		doc.SetPlain("date", a.Date)
	}

	if len(a.Tags) > 0 {
		if err := doc.Set("tags", []string(a.Tags)); err != nil {
			return nil, err
		}
	}

	for _, f := range []struct {
		key   string
		value string
	}{
		{"oldUrl", a.OldURL},
		{"image", a.Image},
	} {
		if f.value == "" {
			continue
		}

		if err := doc.Set(f.key, f.value); err != nil {
			return nil, err
		}
	}

	return doc, nil
}
