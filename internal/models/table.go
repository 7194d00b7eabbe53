package models

import "strings"

// TableBlock is a contiguous run of Markdown table lines in one body.
// Start and End are inclusive line indices.
type TableBlock struct {
	Context string
	Lines   []string
	Start   int
	End     int
}

// Content returns the table lines joined with newlines.
func (b TableBlock) Content() string {
	return strings.Join(b.Lines, "\n")
}
