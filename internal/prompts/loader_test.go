package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_StagePrompts(t *testing.T) {
	keys := []string{"analyze-job", "build-strategy", "apply-strategy", "refine-resume"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get("stages.json", key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
			assert.Contains(t, prompt, "Return ONLY", "every stage prompt demands bare JSON")
		})
	}
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("stages.json", "does-not-exist")
	require.Error(t, err)
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("nope.json", "analyze-job")
	require.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("stages.json", "does-not-exist")
	})
}

func TestFormat(t *testing.T) {
	template := "Analyze {{.JobDescription}} for {{.Industry}} roles. {{.JobDescription}} again."
	result := Format(template, map[string]string{
		"JobDescription": "JD",
		"Industry":       "software-engineering",
	})

	assert.Equal(t, "Analyze JD for software-engineering roles. JD again.", result)
	assert.False(t, strings.Contains(result, "{{"))
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}

func TestStagePromptsCarryPlaceholders(t *testing.T) {
	tests := []struct {
		key          string
		placeholders []string
	}{
		{"analyze-job", []string{"{{.JobDescription}}", "{{.Industry}}"}},
		{"build-strategy", []string{"{{.ResumeJSON}}", "{{.AnalysisJSON}}"}},
		{"apply-strategy", []string{"{{.ResumeJSON}}", "{{.StrategyJSON}}"}},
		{"refine-resume", []string{"{{.ResumeJSON}}", "{{.AnalysisJSON}}", "{{.StrategyJSON}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prompt := MustGet("stages.json", tt.key)
			for _, placeholder := range tt.placeholders {
				assert.Contains(t, prompt, placeholder)
			}
		})
	}
}
