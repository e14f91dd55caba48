// Package schema provides minimal structural validation for pipeline records.
// The resume schema is deliberately permissive: an AI reply that plausibly
// reconstructs a resume but omits optional sections is still accepted, so
// otherwise-useful output is not discarded over a missing field.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchemaJSON string

// Kind selects which structural rules apply to a record.
type Kind string

const (
	// KindResume applies the permissive resume schema: personalInfo must be a
	// present object, declared sequence fields must be arrays when present.
	KindResume Kind = "resume"
	// KindJobAnalysis only requires a non-null JSON object; the record is an
	// ephemeral prompt input, never shown to the user.
	KindJobAnalysis Kind = "job_analysis"
	// KindStrategy only requires a non-null JSON object, same as KindJobAnalysis.
	KindStrategy Kind = "optimization_strategy"
)

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *gojsonschema.Schema
	resumeSchemaErr  error
)

func loadResumeSchema() (*gojsonschema.Schema, error) {
	resumeSchemaOnce.Do(func() {
		resumeSchema, resumeSchemaErr = gojsonschema.NewSchema(
			gojsonschema.NewStringLoader(resumeSchemaJSON))
	})
	return resumeSchema, resumeSchemaErr
}

// ValidationError represents a structural validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("structural validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Valid reports whether data conforms to the structural rules for kind.
func Valid(data []byte, kind Kind) bool {
	return Check(data, kind) == nil
}

// Check validates data against the structural rules for kind, returning a
// ValidationError describing every violated field.
func Check(data []byte, kind Kind) error {
	switch kind {
	case KindResume:
		return checkResume(data)
	case KindJobAnalysis, KindStrategy:
		return checkObject(data)
	default:
		return fmt.Errorf("unknown schema kind %q", kind)
	}
}

// ValidatorFor adapts Check into the extractor's candidate-validation shape.
func ValidatorFor(kind Kind) func(data json.RawMessage) bool {
	return func(data json.RawMessage) bool {
		return Valid(data, kind)
	}
}

func checkResume(data []byte) error {
	schema, err := loadResumeSchema()
	if err != nil {
		return fmt.Errorf("failed to compile resume schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// Not JSON at all.
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// checkObject accepts any non-null JSON object. Intermediate records are only
// ever interpolated into prompts, so no stricter shape is enforced.
func checkObject(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "not a JSON object"}}}
	}
	if obj == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "null is not a valid record"}}}
	}
	return nil
}
