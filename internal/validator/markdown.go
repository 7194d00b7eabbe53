// Package validator audits the article tree: translation coverage, lost
// tables, untranslated bodies and unused images.
package validator

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownStats counts block structure in a Markdown body.
type MarkdownStats struct {
	Paragraphs int
	Headings   int
	Tables     int
	Images     int
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Analyze parses body as GitHub-flavoured Markdown and counts its blocks.
// Only tables with a delimiter row count as tables.
func Analyze(body string) MarkdownStats {
	var stats MarkdownStats

	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindParagraph:
			stats.Paragraphs++
		case ast.KindHeading:
			stats.Headings++
		case ast.KindImage:
			stats.Images++
		case east.KindTable:
			stats.Tables++
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return stats
}

// CountTables returns the number of GFM tables in body.
func CountTables(body string) int {
	return Analyze(body).Tables
}
