package validator

import "testing"

func TestAnalyze(t *testing.T) {
	body := `# Title

First paragraph with ![photo](/images/1.jpg).

**27.05.2013**

| Time | Event |
| ---- | ----- |
| 10:00 | Opening |

Not a table
| just | pipes |

## Second heading

Last paragraph.
`

	stats := Analyze(body)

	if stats.Headings != 2 {
		t.Errorf("Expected 2 headings, got %d", stats.Headings)
	}

	if stats.Tables != 1 {
		t.Errorf("Expected 1 table, got %d", stats.Tables)
	}

	if stats.Images != 1 {
		t.Errorf("Expected 1 image, got %d", stats.Images)
	}

	if stats.Paragraphs < 4 {
		t.Errorf("Expected at least 4 paragraphs, got %d", stats.Paragraphs)
	}
}

func TestCountTables_Empty(t *testing.T) {
	if n := CountTables(""); n != 0 {
		t.Errorf("Expected 0 tables, got %d", n)
	}
}
