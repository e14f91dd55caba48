package types

import "strings"

// PipelineInput is everything one tailoring run reads. It is owned by the
// caller and treated as immutable for the duration of the run.
type PipelineInput struct {
	Resume         ResumeRecord `json:"resume"`
	JobDescription string       `json:"jobDescription"`
	Industry       string       `json:"industry,omitempty"`
}

// IndustryGeneral is the fallback classifier when none of the known
// industries match.
const IndustryGeneral = "general"

// KnownIndustries is the fixed set of industry/role classifiers the analyzer
// prompt understands. Anything else normalizes to IndustryGeneral.
var KnownIndustries = []string{
	"software-engineering",
	"data-science",
	"product-management",
	"design",
	"marketing",
	"sales",
	"finance",
	"healthcare",
	"education",
	IndustryGeneral,
}

// NormalizeIndustry maps a free-form classifier string onto the known set,
// defaulting to IndustryGeneral.
func NormalizeIndustry(industry string) string {
	normalized := strings.ToLower(strings.TrimSpace(industry))
	for _, known := range KnownIndustries {
		if normalized == known {
			return known
		}
	}
	return IndustryGeneral
}

// ProgressEvent is a synchronous observation of pipeline progress.
// Percentage is on the global 0-100 scale.
type ProgressEvent struct {
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
}

// ProgressFunc receives progress events. Callbacks are invoked synchronously
// on the pipeline goroutine; implementations must not block.
type ProgressFunc func(event ProgressEvent)
