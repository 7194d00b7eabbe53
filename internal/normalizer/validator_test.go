package normalizer

import (
	"errors"
	"testing"

	"shamir/internal/models"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	valid := Input{ID: testID, Locale: models.LocaleLV, Post: &models.ScrapedPost{Title: "Izstāde"}}
	if err := v.Validate(valid); err != nil {
		t.Errorf("Validate returned unexpected error for valid input: %v", err)
	}
}

func TestValidator_Validate_Errors(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    Input
		expected error
	}{
		{
			name:     "no post",
			input:    Input{ID: testID, Locale: models.LocaleEN},
			expected: ErrNoPost,
		},
		{
			name:     "missing title",
			input:    Input{ID: testID, Locale: models.LocaleEN, Post: &models.ScrapedPost{BodyHTML: "<p>x</p>"}},
			expected: ErrMissingTitle,
		},
		{
			name:     "missing id",
			input:    Input{Locale: models.LocaleEN, Post: &models.ScrapedPost{Title: "T"}},
			expected: ErrMissingID,
		},
		{
			name:     "russian target",
			input:    Input{ID: testID, Locale: models.LocaleRU, Post: &models.ScrapedPost{Title: "T"}},
			expected: ErrInvalidLocale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected error %v, got %v", tt.expected, err)
			}
		})
	}
}
