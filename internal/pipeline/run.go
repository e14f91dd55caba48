// Package pipeline provides the high-level orchestration for the resume
// tailoring process: four strictly sequential stages, each consuming the
// validated record of the previous one.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/schema"
	"github.com/jonathan/resume-tailor/internal/stages"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Artifact step names used for persistence.
const (
	StepJobAnalysis    = "job_analysis"
	StepStrategy       = "optimization_strategy"
	StepCandidate      = "candidate_resume"
	StepTailoredResume = "tailored_resume"
)

// Run statuses recorded against a persisted run.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ArtifactStore persists per-stage artifacts for a run. Implementations are
// optional; a nil store disables persistence. Persistence is best-effort and
// never fails the pipeline.
type ArtifactStore interface {
	CreateRun(ctx context.Context, industry string) (uuid.UUID, error)
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
}

// Options holds the collaborators for one pipeline run. All state is passed
// explicitly; Run carries no cross-run memory and is safe to call from
// concurrent goroutines with distinct inputs.
type Options struct {
	Caller     llm.Caller
	Store      ArtifactStore
	Logger     *zap.Logger
	OnProgress types.ProgressFunc
}

// Run executes the full tailoring pipeline: analyze -> strategize -> apply ->
// validate, then a final structural check of the end product. On any stage
// failure it returns a PipelineError naming the stage; it never substitutes a
// fabricated record.
func Run(ctx context.Context, input types.PipelineInput, opts Options) (*types.ResumeRecord, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	emit := func(pct float64, msg string) {
		if opts.OnProgress != nil {
			opts.OnProgress(types.ProgressEvent{Percentage: pct, Message: msg})
		}
	}

	emit(0, "Starting resume tailoring")

	var runID uuid.UUID
	if opts.Store != nil {
		var err error
		runID, err = opts.Store.CreateRun(ctx, types.NormalizeIndustry(input.Industry))
		if err != nil {
			logger.Warn("failed to create run record, continuing without persistence", zap.Error(err))
		}
	}

	fail := func(stage Stage, cause error) error {
		logger.Error("pipeline stage failed", zap.String("stage", string(stage)), zap.Error(cause))
		saveStatus(ctx, opts.Store, runID, StatusFailed)
		return &PipelineError{Stage: stage, Cause: cause}
	}

	logger.Info("analyzing job description", zap.String("industry", types.NormalizeIndustry(input.Industry)))
	analysis, err := stages.AnalyzeJob(ctx, input.JobDescription, input.Industry, stages.Deps{
		Caller:     opts.Caller,
		OnProgress: scoped(opts.OnProgress, StageAnalyze),
	})
	if err != nil {
		return nil, fail(StageAnalyze, err)
	}
	saveArtifact(ctx, opts.Store, runID, StepJobAnalysis, analysis, logger)

	logger.Info("building optimization strategy")
	strategy, err := stages.BuildStrategy(ctx, &input.Resume, analysis, stages.Deps{
		Caller:     opts.Caller,
		OnProgress: scoped(opts.OnProgress, StageStrategize),
	})
	if err != nil {
		return nil, fail(StageStrategize, err)
	}
	saveArtifact(ctx, opts.Store, runID, StepStrategy, strategy, logger)

	logger.Info("applying optimization strategy")
	candidate, err := stages.ApplyStrategy(ctx, &input.Resume, strategy, stages.Deps{
		Caller:     opts.Caller,
		OnProgress: scoped(opts.OnProgress, StageApply),
	})
	if err != nil {
		return nil, fail(StageApply, err)
	}
	saveArtifact(ctx, opts.Store, runID, StepCandidate, candidate, logger)

	logger.Info("refining tailored resume")
	refined, err := stages.RefineResume(ctx, candidate, analysis, strategy, stages.Deps{
		Caller:     opts.Caller,
		OnProgress: scoped(opts.OnProgress, StageValidate),
	})
	if err != nil {
		return nil, fail(StageValidate, err)
	}

	// Final end-to-end structural check. A failure here is a pipeline error at
	// the synthetic finalize stage, never returned as if successful.
	emit(Global(StageFinalize, 25), "Validating final resume structure")
	finalJSON, err := json.Marshal(refined)
	if err != nil {
		return nil, fail(StageFinalize, err)
	}
	if err := schema.Check(finalJSON, schema.KindResume); err != nil {
		return nil, fail(StageFinalize, err)
	}

	saveArtifact(ctx, opts.Store, runID, StepTailoredResume, refined, logger)
	saveStatus(ctx, opts.Store, runID, StatusCompleted)

	emit(100, "Resume tailoring complete")
	logger.Info("pipeline complete", zap.String("run_id", runIDString(runID)))
	return refined, nil
}

func saveArtifact(ctx context.Context, store ArtifactStore, runID uuid.UUID, step string, content any, logger *zap.Logger) {
	if store == nil || runID == uuid.Nil {
		return
	}
	if err := store.SaveArtifact(ctx, runID, step, content); err != nil {
		logger.Warn("failed to save artifact", zap.String("step", step), zap.Error(err))
	}
}

func saveStatus(ctx context.Context, store ArtifactStore, runID uuid.UUID, status string) {
	if store == nil || runID == uuid.Nil {
		return
	}
	_ = store.CompleteRun(ctx, runID, status)
}

func runIDString(runID uuid.UUID) string {
	if runID == uuid.Nil {
		return ""
	}
	return runID.String()
}
