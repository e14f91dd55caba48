package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Resume(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{
			name:  "minimal valid record",
			data:  `{"personalInfo": {}}`,
			valid: true,
		},
		{
			name: "full record",
			data: `{
				"personalInfo": {"name": "Ada Lovelace", "email": "ada@example.com"},
				"summary": "Engineer",
				"experience": [{"title": "Engineer", "description": ["built things"]}],
				"education": [{"degree": "BSc"}],
				"skills": {"technical": ["Go"], "soft": ["mentoring"]},
				"projects": [{"name": "analytical-engine"}]
			}`,
			valid: true,
		},
		{
			name:  "missing personalInfo",
			data:  `{"summary": "Engineer"}`,
			valid: false,
		},
		{
			name:  "personalInfo not an object",
			data:  `{"personalInfo": "Ada Lovelace"}`,
			valid: false,
		},
		{
			name:  "experience as scalar",
			data:  `{"personalInfo": {}, "experience": "5 years"}`,
			valid: false,
		},
		{
			name:  "experience omitted entirely",
			data:  `{"personalInfo": {}, "summary": "Engineer"}`,
			valid: true,
		},
		{
			name:  "education as object instead of array",
			data:  `{"personalInfo": {}, "education": {"degree": "BSc"}}`,
			valid: false,
		},
		{
			name:  "skills sub-list as scalar",
			data:  `{"personalInfo": {}, "skills": {"technical": "Go, Python"}}`,
			valid: false,
		},
		{
			name:  "projects omitted is fine",
			data:  `{"personalInfo": {}, "skills": {"technical": ["Go"]}}`,
			valid: true,
		},
		{
			name:  "unknown extra fields tolerated",
			data:  `{"personalInfo": {}, "awards": ["ACM"]}`,
			valid: true,
		},
		{
			name:  "not JSON",
			data:  `personalInfo: yes`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check([]byte(tt.data), KindResume)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			assert.Equal(t, tt.valid, Valid([]byte(tt.data), KindResume))
		})
	}
}

func TestCheck_IntermediateKinds(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{name: "any object passes", data: `{"mustHaveSkills": ["Go"]}`, valid: true},
		{name: "empty object passes", data: `{}`, valid: true},
		{name: "null fails", data: `null`, valid: false},
		{name: "array fails", data: `["Go"]`, valid: false},
		{name: "scalar fails", data: `"Go"`, valid: false},
	}

	for _, kind := range []Kind{KindJobAnalysis, KindStrategy} {
		for _, tt := range tests {
			t.Run(string(kind)+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.valid, Valid([]byte(tt.data), kind))
			})
		}
	}
}

func TestCheck_UnknownKind(t *testing.T) {
	err := Check([]byte(`{}`), Kind("bogus"))
	require.Error(t, err)
}

func TestCheck_ReportsFieldPaths(t *testing.T) {
	err := Check([]byte(`{"personalInfo": {}, "experience": "nope"}`), KindResume)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "experience")
}
