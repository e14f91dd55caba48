// Package stages implements the four specialized agents of the tailoring
// pipeline. Each stage is a stateless function of its inputs plus a model
// caller: build a prompt from an embedded template, call the model, extract
// and validate the reply, return a typed record. All request state is passed
// explicitly so concurrent runs cannot leak into each other.
package stages

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-tailor/internal/extract"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schema"
	"github.com/jonathan/resume-tailor/internal/types"
)

const promptFile = "stages.json"

// Deps carries what every stage needs: the model caller and an optional
// progress callback on the stage-local 0-100 scale.
type Deps struct {
	Caller     llm.Caller
	OnProgress types.ProgressFunc
}

// report emits stage-local progress if a callback is configured.
func (d Deps) report(pct float64, msg string) {
	if d.OnProgress != nil {
		d.OnProgress(types.ProgressEvent{Percentage: pct, Message: msg})
	}
}

// AnalyzeJob runs stage 1: extract a structured JobAnalysis from the job
// description text.
func AnalyzeJob(ctx context.Context, jobDescription, industry string, deps Deps) (*types.JobAnalysis, error) {
	deps.report(25, "Building job analysis prompt")
	prompt := prompts.Format(prompts.MustGet(promptFile, "analyze-job"), map[string]string{
		"JobDescription": jobDescription,
		"Industry":       types.NormalizeIndustry(industry),
	})

	deps.report(50, "Analyzing job description")
	raw, err := deps.Caller.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &JobAnalysisError{Message: "model call failed", Cause: err}
	}

	deps.report(75, "Parsing job analysis")
	data, err := extract.JSON(raw, schema.ValidatorFor(schema.KindJobAnalysis))
	if err != nil {
		return nil, &JobAnalysisError{Message: "no valid analysis in model reply", Cause: err}
	}

	var analysis types.JobAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, &JobAnalysisError{Message: "analysis payload does not match schema", Cause: err}
	}

	deps.report(100, "Job analysis complete")
	return &analysis, nil
}

// BuildStrategy runs stage 2: produce an optimization plan from the original
// resume and the job analysis. A plan, not a rewrite.
func BuildStrategy(ctx context.Context, resume *types.ResumeRecord, analysis *types.JobAnalysis, deps Deps) (*types.OptimizationStrategy, error) {
	deps.report(25, "Building optimization strategy prompt")
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return nil, &StrategyError{Message: "failed to serialize resume", Cause: err}
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, &StrategyError{Message: "failed to serialize job analysis", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "build-strategy"), map[string]string{
		"ResumeJSON":   string(resumeJSON),
		"AnalysisJSON": string(analysisJSON),
	})

	deps.report(50, "Planning resume optimization")
	raw, err := deps.Caller.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &StrategyError{Message: "model call failed", Cause: err}
	}

	deps.report(75, "Parsing optimization strategy")
	data, err := extract.JSON(raw, schema.ValidatorFor(schema.KindStrategy))
	if err != nil {
		return nil, &StrategyError{Message: "no valid strategy in model reply", Cause: err}
	}

	var strategy types.OptimizationStrategy
	if err := json.Unmarshal(data, &strategy); err != nil {
		return nil, &StrategyError{Message: "strategy payload does not match schema", Cause: err}
	}

	deps.report(100, "Optimization strategy complete")
	return &strategy, nil
}

// ApplyStrategy runs stage 3: rewrite the resume according to the strategy.
// The heaviest stage, since it reproduces the full document. The candidate
// record must keep the input's shape; personalInfo is restored from the
// original so contact details can never drift.
func ApplyStrategy(ctx context.Context, resume *types.ResumeRecord, strategy *types.OptimizationStrategy, deps Deps) (*types.ResumeRecord, error) {
	deps.report(25, "Building rewrite prompt")
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return nil, &OptimizationError{Message: "failed to serialize resume", Cause: err}
	}
	strategyJSON, err := json.Marshal(strategy)
	if err != nil {
		return nil, &OptimizationError{Message: "failed to serialize strategy", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "apply-strategy"), map[string]string{
		"ResumeJSON":   string(resumeJSON),
		"StrategyJSON": string(strategyJSON),
	})

	deps.report(50, "Rewriting resume")
	raw, err := deps.Caller.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &OptimizationError{Message: "model call failed", Cause: err}
	}

	deps.report(75, "Parsing rewritten resume")
	candidate, err := parseResumeReply(raw)
	if err != nil {
		return nil, &OptimizationError{Message: "no valid resume in model reply", Cause: err}
	}

	candidate.PersonalInfo = resume.PersonalInfo

	deps.report(100, "Resume rewrite complete")
	return candidate, nil
}

// RefineResume runs stage 4: a final quality pass over the candidate record,
// checking keyword naturalness, consistency and ATS compatibility.
func RefineResume(ctx context.Context, candidate *types.ResumeRecord, analysis *types.JobAnalysis, strategy *types.OptimizationStrategy, deps Deps) (*types.ResumeRecord, error) {
	deps.report(25, "Building quality review prompt")
	resumeJSON, err := json.Marshal(candidate)
	if err != nil {
		return nil, &ValidationRefinementError{Message: "failed to serialize candidate resume", Cause: err}
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, &ValidationRefinementError{Message: "failed to serialize job analysis", Cause: err}
	}
	strategyJSON, err := json.Marshal(strategy)
	if err != nil {
		return nil, &ValidationRefinementError{Message: "failed to serialize strategy", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "refine-resume"), map[string]string{
		"ResumeJSON":   string(resumeJSON),
		"AnalysisJSON": string(analysisJSON),
		"StrategyJSON": string(strategyJSON),
	})

	deps.report(50, "Reviewing tailored resume")
	raw, err := deps.Caller.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ValidationRefinementError{Message: "model call failed", Cause: err}
	}

	deps.report(75, "Parsing refined resume")
	refined, err := parseResumeReply(raw)
	if err != nil {
		return nil, &ValidationRefinementError{Message: "no valid resume in model reply", Cause: err}
	}

	refined.PersonalInfo = candidate.PersonalInfo

	deps.report(100, "Quality review complete")
	return refined, nil
}

// parseResumeReply extracts and structurally validates a ResumeRecord from a
// raw model reply.
func parseResumeReply(raw string) (*types.ResumeRecord, error) {
	data, err := extract.JSON(raw, schema.ValidatorFor(schema.KindResume))
	if err != nil {
		return nil, err
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
