// Package normalizer turns a scraped page into the front matter and body of
// a translated article file.
package normalizer

import (
	"fmt"

	"shamir/internal/converter"
	"shamir/internal/models"
	"shamir/internal/tags"
)

// Input is one scraped locale variant together with the Russian article it
// belongs to.
type Input struct {
	ID     string
	Locale models.Locale
	URL    string
	Post   *models.ScrapedPost
	Base   *models.Article
}

// Processor validates and transforms scraped variants.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a processor. A nil table uses tags.Default.
func NewProcessor(table *tags.Table) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(table),
	}
}

// Process builds the article for in. The body is the scraped HTML converted
// to Markdown.
func (p *Processor) Process(in Input) (*models.Article, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(in); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	article := p.transformer.Transform(in)
	article.Body = converter.ToMarkdown(in.Post.BodyHTML)

	return article, nil
}
