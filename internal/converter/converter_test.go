package converter

import (
	"fmt"
	"strings"
	"testing"
)

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "  \n\t ", expected: ""},
		{name: "heading", input: "<h2>Программа</h2><p>Текст</p>", expected: "## Программа\n\nТекст"},
		{name: "h4 heading", input: "<h4 class=\"x\">Small</h4>", expected: "#### Small"},
		{name: "bold and italic", input: "<p><strong>a</strong> <b>b</b> <em>c</em> <i>d</i></p>", expected: "**a** **b** *c* *d*"},
		{name: "link", input: `<a href="https://shamir.lv/">Шамир</a>`, expected: "[Шамир](https://shamir.lv/)"},
		{name: "anchor without href", input: `<a name="top">top</a>`, expected: "top"},
		{name: "image with alt", input: `<img src="/images/1.jpg" alt="Фото">`, expected: "![Фото](/images/1.jpg)"},
		{name: "image without alt", input: `<img class="c" src="/images/2.png">`, expected: "![](/images/2.png)"},
		{name: "lazy image without src", input: `<img data-src="/x.png">`, expected: ""},
		{name: "list", input: "<p>Intro</p><ul><li>one</li><li>two</li></ul>", expected: "Intro\n\n- one\n- two"},
		{name: "line break", input: "<p>a<br>b</p>", expected: "a\nb"},
		{name: "script and style removed", input: "<script>alert(1)</script><style>p{}</style><p>kept</p>", expected: "kept"},
		{name: "unknown tags stripped", input: "<div><span>inner</span></div>", expected: "inner"},
		{name: "entities decoded", input: "<p>Tom &amp; Jerry</p>", expected: "Tom & Jerry"},
		{name: "newlines collapsed", input: "<p>a</p>\n\n\n\n<p>b</p>", expected: "a\n\nb"},
		{name: "comment dropped", input: "<p>a<!-- hidden -->b</p>", expected: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMarkdown(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestToMarkdown_MalformedNesting(t *testing.T) {
	inputs := []string{
		"<p><b>bold <i>both</b> italic</i></p>",
		"<div><p>unclosed <em>tag",
		"<table><tr><td>cell</td></tr>",
		"</p></p>stray closers<<>>",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			out := ToMarkdown(input)
			if strings.Contains(out, "<p") || strings.Contains(out, "<b") || strings.Contains(out, "<td") {
				t.Errorf("Expected no leaked tags, got %q", out)
			}
		})
	}
}

func TestToMarkdown_ParagraphBlocks(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		t.Run(fmt.Sprintf("%d paragraphs", n), func(t *testing.T) {
			var sb strings.Builder
			for i := 0; i < n; i++ {
				fmt.Fprintf(&sb, "<p>Абзац %d</p>\n", i)
			}

			out := ToMarkdown(sb.String())

			blocks := 0
			for _, b := range strings.Split(out, "\n\n") {
				if strings.TrimSpace(b) != "" {
					blocks++
				}
			}

			if blocks < n {
				t.Errorf("Expected at least %d blocks, got %d in %q", n, blocks, out)
			}
		})
	}
}
