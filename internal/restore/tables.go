// Package restore puts Markdown tables back into translated articles that
// lost them during translation.
package restore

import (
	"regexp"
	"strings"

	"shamir/internal/models"
)

var (
	separatorRow = regexp.MustCompile(`^\s*\|[\s\-:]+\|\s*$`)
	boldDate     = regexp.MustCompile(`\*\*(\d{2}\.\d{2}\.\d{4})\*\*`)
	boldText     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	plainDate    = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

// lookahead is how many lines after an anchor candidate must be free of
// table rows.
const lookahead = 3

// IsTableRow reports whether line starts and ends with a pipe.
func IsTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|")
}

// IsSeparator reports whether line is a header separator row.
func IsSeparator(line string) bool {
	return separatorRow.MatchString(line)
}

// ExtractTables returns every run of two or more table lines in body with
// the nearest preceding non-empty, non-table line as context.
func ExtractTables(body string) []models.TableBlock {
	lines := strings.Split(body, "\n")

	var (
		tables []models.TableBlock
		start  = -1
	)

	closeAt := func(end int) {
		if start >= 0 && end-start+1 >= 2 {
			block := make([]string, end-start+1)
			copy(block, lines[start:end+1])

			tables = append(tables, models.TableBlock{
				Context: contextLine(lines, start),
				Lines:   block,
				Start:   start,
				End:     end,
			})
		}

		start = -1
	}

	for i, line := range lines {
		if IsTableRow(line) || IsSeparator(line) {
			if start < 0 {
				start = i
			}

			continue
		}

		closeAt(i - 1)
	}

	closeAt(len(lines) - 1)

	return tables
}

func contextLine(lines []string, start int) string {
	for i := start - 1; i >= 0; i-- {
		t := strings.TrimSpace(lines[i])
		if t != "" && !strings.HasPrefix(t, "|") {
			return t
		}
	}

	return ""
}

// StripTables drops every line that starts with a pipe.
func StripTables(lines []string) []string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			continue
		}

		out = append(out, line)
	}

	return out
}

// FindInsertionPoint returns the line index in lines where a table with the
// given context belongs, or -1 when no anchor is found.
//
// The primary anchor is a "**DD.MM.YYYY**" date in the context. Failing
// that, a bold header in lines carrying the same date is used.
func FindInsertionPoint(context string, lines []string) int {
	if context == "" {
		return -1
	}

	if m := boldDate.FindStringSubmatch(context); m != nil {
		for i, line := range lines {
			if strings.Contains(line, m[1]) {
				return afterAnchor(lines, i, true)
			}
		}
	}

	header := boldText.FindStringSubmatch(context)
	if header == nil {
		return -1
	}

	ruDate := plainDate.FindString(header[1])
	if ruDate == "" {
		return -1
	}

	for i, line := range lines {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, "**") || !strings.HasSuffix(t, "**") {
			continue
		}

		if plainDate.FindString(t) == ruDate {
			return afterAnchor(lines, i, false)
		}
	}

	return -1
}

// afterAnchor finds the first non-empty, non-table line after the anchor.
// With checkAhead the candidate's next lines must also be free of table
// rows. Without a candidate the line after the anchor is used.
func afterAnchor(lines []string, anchor int, checkAhead bool) int {
	for j := anchor + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "|") {
			continue
		}

		if !checkAhead || !tableAhead(lines, j) {
			return j
		}
	}

	return anchor + 1
}

func tableAhead(lines []string, from int) bool {
	for k := from; k < len(lines) && k < from+lookahead; k++ {
		if strings.HasPrefix(strings.TrimSpace(lines[k]), "|") {
			return true
		}
	}

	return false
}

// Cut removes exactly the line ranges of blocks from body.
func Cut(body string, blocks []models.TableBlock) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))

	next := 0

	for i, line := range lines {
		for next < len(blocks) && blocks[next].End < i {
			next++
		}

		if next < len(blocks) && i >= blocks[next].Start && i <= blocks[next].End {
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// Reinsert puts blocks cut from a body back at their original offsets.
// Blocks must be in document order.
func Reinsert(body string, blocks []models.TableBlock) string {
	lines := strings.Split(body, "\n")

	for _, b := range blocks {
		lines = spliceLines(lines, b.Start, b.Lines)
	}

	return strings.Join(lines, "\n")
}

// Placement records where one table went.
type Placement struct {
	Index int
	Line  int
}

// Restore strips the tables of translated and splices scraped tables back
// in, pairing the i-th scraped table with the i-th Russian table. It
// returns the new body and the tables that found an anchor.
func Restore(ruBody, translated string, scraped []string) (string, []Placement) {
	ruTables := ExtractTables(ruBody)
	lines := StripTables(strings.Split(translated, "\n"))

	var placed []Placement

	for i := 0; i < len(ruTables) && i < len(scraped); i++ {
		pos := FindInsertionPoint(ruTables[i].Context, lines)
		if pos < 0 {
			continue
		}

		insert := append([]string{""}, strings.Split(scraped[i], "\n")...)
		insert = append(insert, "")

		lines = spliceLines(lines, pos, insert)
		placed = append(placed, Placement{Index: i, Line: pos})
	}

	return strings.Join(lines, "\n"), placed
}

func spliceLines(lines []string, at int, insert []string) []string {
	if at > len(lines) {
		at = len(lines)
	}

	out := make([]string, 0, len(lines)+len(insert))
	out = append(out, lines[:at]...)
	out = append(out, insert...)
	out = append(out, lines[at:]...)

	return out
}
