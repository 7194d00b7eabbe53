package validator

import (
	"fmt"
	"io"

	"shamir/internal/config"
	"shamir/internal/content"
	"shamir/internal/models"
	"shamir/internal/translator"
)

// Audit finding kinds.
const (
	FieldMissing      = "missing"
	FieldTables       = "tables"
	FieldUntranslated = "untranslated"
	FieldParse        = "parse"
)

// ValidationError is one finding about an article file.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

// AuditStats counts the findings of a run.
type AuditStats struct {
	Articles            int
	Translations        int
	MissingTranslations int
	MissingTables       int
	Untranslated        int
	UnusedImages        int
}

// ValidationResult contains audit results.
type ValidationResult struct {
	Errors       []ValidationError
	Warnings     []string
	UnusedImages []string
	Stats        AuditStats
	IsValid      bool
}

// ArticleValidator checks every article group in a store.
type ArticleValidator struct {
	cfg   *config.Config
	store *content.Store
}

// NewArticleValidator creates a validator over store.
func NewArticleValidator(cfg *config.Config, store *content.Store) *ArticleValidator {
	return &ArticleValidator{cfg: cfg, store: store}
}

// Validate audits all article groups and, when an images directory is
// configured, looks for unused images.
func (v *ArticleValidator) Validate() (*ValidationResult, error) {
	result := &ValidationResult{IsValid: true}

	ids, err := v.store.SourceIDs()
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		result.Stats.Articles++
		v.validateGroup(id, result)
	}

	if dir := v.cfg.Content.ImagesDir; dir != "" {
		unused, err := UnusedImages(v.store, dir)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.UnusedImages = unused
			result.Stats.UnusedImages = len(unused)
		}
	}

	result.IsValid = len(result.Errors) == 0

	return result, nil
}

func (v *ArticleValidator) validateGroup(id string, result *ValidationResult) {
	ruName := content.FileName(id, models.LocaleRU)

	_, ru, err := v.store.Load(id, models.LocaleRU)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{File: ruName, Field: FieldParse, Message: err.Error()})
		return
	}

	ruTables := CountTables(ru.Body)

	for _, locale := range models.TranslationLocales {
		name := content.FileName(id, locale)

		if !v.store.Exists(id, locale) {
			result.Stats.MissingTranslations++
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no %s translation", ruName, locale.Upper()))

			continue
		}

		result.Stats.Translations++

		raw, err := v.store.ReadRaw(id, locale)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{File: name, Field: FieldParse, Message: err.Error()})
			continue
		}

		if translator.NeedsTranslation(raw, v.cfg.Translate.Markers[string(locale)]) {
			result.Stats.Untranslated++
			result.Errors = append(result.Errors, ValidationError{
				File:    name,
				Field:   FieldUntranslated,
				Message: "placeholder or Russian text in body",
			})
		}

		_, tr, err := v.store.Load(id, locale)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{File: name, Field: FieldParse, Message: err.Error()})
			continue
		}

		if got := CountTables(tr.Body); got < ruTables {
			result.Stats.MissingTables++
			result.Errors = append(result.Errors, ValidationError{
				File:    name,
				Field:   FieldTables,
				Message: fmt.Sprintf("has %d of %d tables", got, ruTables),
			})
		}
	}
}

// String returns a one-line summary.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Articles: %d | Translations: %d | Missing: %d | Untranslated: %d | Missing tables: %d | Unused images: %d",
		status,
		r.Stats.Articles,
		r.Stats.Translations,
		r.Stats.MissingTranslations,
		r.Stats.Untranslated,
		r.Stats.MissingTables,
		r.Stats.UnusedImages,
	)
}

// PrintErrors writes findings in readable form.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Audit Errors:")

	for _, err := range r.Errors {
		fmt.Fprintf(w, "  %s [%s]: %s\n", err.File, err.Field, err.Message)
	}
}

// PrintWarnings writes warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Audit Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
