package frontmatter

import "strings"

// headerBounds returns the lines of content and the index of the closing
// delimiter. Content without a header gets an empty one prepended.
func headerBounds(content string) ([]string, int, error) {
	lines := strings.Split(content, "\n")

	if strings.TrimSpace(lines[0]) != Delimiter {
		lines = append([]string{Delimiter, Delimiter}, lines...)
		return lines, 1, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			return lines, i, nil
		}
	}

	return nil, 0, ErrUnterminated
}

// SetListBlock replaces the block of key inside the header with a YAML
// list block, or inserts one before the closing delimiter. Other header
// lines are kept byte for byte. The block of a key runs over the indented
// or "-" lines that follow it and ends at the first other line.
func SetListBlock(content, key string, items []string) (string, error) {
	lines, end, err := headerBounds(content)
	if err != nil {
		return "", err
	}

	block := ListBlock(key, items)

	start := -1

	for i := 1; i < end; i++ {
		if strings.HasPrefix(lines[i], key+":") {
			start = i
			break
		}
	}

	if start < 0 {
		return spliceLines(lines, end, end, block), nil
	}

	stop := start + 1
	for stop < end && isContinuation(lines[stop]) {
		stop++
	}

	return spliceLines(lines, start, stop, block), nil
}

// EnsureScalar inserts "key: value" before the closing delimiter when the
// header has no such key. Existing values are left alone.
func EnsureScalar(content, key, value string) (string, error) {
	lines, end, err := headerBounds(content)
	if err != nil {
		return "", err
	}

	for i := 1; i < end; i++ {
		if strings.HasPrefix(lines[i], key+":") {
			return strings.Join(lines, "\n"), nil
		}
	}

	return spliceLines(lines, end, end, []string{key + ": " + QuoteScalar(value)}), nil
}

// ListBlock renders key and items as an indented YAML list.
func ListBlock(key string, items []string) []string {
	if len(items) == 0 {
		return []string{key + ": []"}
	}

	block := make([]string, 0, len(items)+1)
	block = append(block, key+":")

	for _, item := range items {
		block = append(block, "  - "+QuoteScalar(item))
	}

	return block
}

// QuoteScalar single-quotes s when it would not survive as a plain YAML
// scalar. Embedded single quotes are doubled.
func QuoteScalar(s string) string {
	if s == "" {
		return "''"
	}

	needsQuote := strings.ContainsAny(s, ":'\"\n") ||
		strings.Contains(s, " #") ||
		strings.TrimSpace(s) != s ||
		strings.ContainsRune("-?,[]{}#&*!|>%@`", rune(s[0]))

	if !needsQuote {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// isContinuation reports whether a header line belongs to the value of the
// key above it.
func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}

	switch line[0] {
	case ' ', '\t', '-':
		return true
	}

	return false
}

func spliceLines(lines []string, from, to int, insert []string) string {
	out := make([]string, 0, len(lines)-(to-from)+len(insert))
	out = append(out, lines[:from]...)
	out = append(out, insert...)
	out = append(out, lines[to:]...)

	return strings.Join(out, "\n")
}
