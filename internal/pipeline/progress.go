package pipeline

import "github.com/jonathan/resume-tailor/internal/types"

// Stage identifies one step of the tailoring pipeline.
type Stage string

// Pipeline stages, in execution order. StageFinalize is synthetic: it names
// the end-to-end structural check after the last model call.
const (
	StageAnalyze    Stage = "analyze"
	StageStrategize Stage = "strategize"
	StageApply      Stage = "apply"
	StageValidate   Stage = "validate"
	StageFinalize   Stage = "finalize"
)

// span is one stage's slice of the global 0-100 progress scale. Weights
// reflect expected relative latency; apply is the heaviest because it
// rewrites the full document.
type span struct {
	start  float64
	weight float64
}

var spans = map[Stage]span{
	StageAnalyze:    {start: 0, weight: 20},
	StageStrategize: {start: 20, weight: 20},
	StageApply:      {start: 40, weight: 30},
	StageValidate:   {start: 70, weight: 20},
	StageFinalize:   {start: 90, weight: 10},
}

// Global maps a stage-local percentage onto the global progress scale:
// globalPct = stageStart + (localPct/100) * stageWeight. Local values are
// clamped to [0,100] so a misbehaving callback cannot move progress backwards
// past a stage boundary.
func Global(stage Stage, local float64) float64 {
	s, ok := spans[stage]
	if !ok {
		return local
	}
	if local < 0 {
		local = 0
	}
	if local > 100 {
		local = 100
	}
	return s.start + local/100*s.weight
}

// scoped wraps a global progress callback so a stage can report on its own
// 0-100 scale.
func scoped(onProgress types.ProgressFunc, stage Stage) types.ProgressFunc {
	if onProgress == nil {
		return nil
	}
	return func(event types.ProgressEvent) {
		onProgress(types.ProgressEvent{
			Percentage: Global(stage, event.Percentage),
			Message:    event.Message,
		})
	}
}
