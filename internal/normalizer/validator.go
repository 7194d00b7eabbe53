package normalizer

import (
	"errors"

	"shamir/internal/models"
)

// Validation errors.
var (
	ErrNoPost        = errors.New("no scraped post")
	ErrMissingTitle  = errors.New("scraped page has no title")
	ErrMissingID     = errors.New("missing article id")
	ErrInvalidLocale = errors.New("target locale must be en or lv")
)

// Validator handles input validation.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that a scraped variant can become an article file.
func (v *Validator) Validate(in Input) error {
	if in.Post == nil {
		return ErrNoPost
	}

	if !in.Post.HasTitle() {
		return ErrMissingTitle
	}

	if in.ID == "" {
		return ErrMissingID
	}

	if in.Locale != models.LocaleEN && in.Locale != models.LocaleLV {
		return ErrInvalidLocale
	}

	return nil
}
