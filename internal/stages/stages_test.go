package stages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
)

// stubCaller replays canned replies (or errors) in call order and records
// every prompt it saw.
type stubCaller struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
	tiers   []llm.ModelTier
}

func (s *stubCaller) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.tiers = append(s.tiers, tier)

	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.replies) {
		return s.replies[idx], nil
	}
	return "", errors.New("stubCaller: no reply configured")
}

func (s *stubCaller) GetModel(llm.ModelTier) string { return "stub-model" }
func (s *stubCaller) Close() error                  { return nil }

func sampleResume() *types.ResumeRecord {
	return &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Summary:      "Engineer with Go experience",
		Experience: []types.ExperienceEntry{
			{Title: "Software Engineer", Company: "Analytical Engines Ltd", Description: []string{"Built Go services"}},
		},
		Skills: &types.Skills{Technical: []string{"Go", "PostgreSQL"}},
	}
}

func sampleAnalysis() *types.JobAnalysis {
	return &types.JobAnalysis{
		MustHaveSkills:  []string{"Go"},
		ExperienceLevel: "senior",
		Priorities:      map[string]float64{"Go": 0.9},
	}
}

func sampleStrategy() *types.OptimizationStrategy {
	return &types.OptimizationStrategy{
		KeywordIntegration: types.KeywordIntegration{Primary: []string{"Go"}},
		SectionPriorities:  []string{"experience", "skills"},
	}
}

func collectProgress(events *[]types.ProgressEvent) types.ProgressFunc {
	return func(event types.ProgressEvent) {
		*events = append(*events, event)
	}
}

func TestAnalyzeJob(t *testing.T) {
	caller := &stubCaller{replies: []string{
		`{"mustHaveSkills": ["Go", "Kubernetes"], "experienceLevel": "senior", "priorities": {"Go": 0.9}}`,
	}}
	var events []types.ProgressEvent

	analysis, err := AnalyzeJob(context.Background(), "We need a senior Go engineer.", "software-engineering",
		Deps{Caller: caller, OnProgress: collectProgress(&events)})

	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, analysis.MustHaveSkills)
	assert.Equal(t, "senior", analysis.ExperienceLevel)
	assert.InDelta(t, 0.9, analysis.Priorities["Go"], 0.001)

	require.Len(t, caller.prompts, 1)
	assert.Contains(t, caller.prompts[0], "We need a senior Go engineer.")
	assert.Contains(t, caller.prompts[0], "software-engineering")
	assert.Equal(t, []llm.ModelTier{llm.TierStandard}, caller.tiers)

	// At least three checkpoints, ending at 100.
	require.GreaterOrEqual(t, len(events), 3)
	assert.InDelta(t, 100, events[len(events)-1].Percentage, 0.001)
}

func TestAnalyzeJob_UnknownIndustryNormalized(t *testing.T) {
	caller := &stubCaller{replies: []string{`{}`}}

	_, err := AnalyzeJob(context.Background(), "desc", "underwater basket weaving", Deps{Caller: caller})

	require.NoError(t, err)
	assert.Contains(t, caller.prompts[0], types.IndustryGeneral)
}

func TestAnalyzeJob_ModelFailure(t *testing.T) {
	caller := &stubCaller{errs: []error{errors.New("network down")}}

	_, err := AnalyzeJob(context.Background(), "desc", "general", Deps{Caller: caller})

	require.Error(t, err)
	var stageErr *JobAnalysisError
	require.ErrorAs(t, err, &stageErr)
}

func TestAnalyzeJob_GarbageReply(t *testing.T) {
	caller := &stubCaller{replies: []string{"I cannot help with that."}}

	_, err := AnalyzeJob(context.Background(), "desc", "general", Deps{Caller: caller})

	require.Error(t, err)
	var stageErr *JobAnalysisError
	require.ErrorAs(t, err, &stageErr)
}

func TestBuildStrategy(t *testing.T) {
	caller := &stubCaller{replies: []string{
		`{"keywordIntegration": {"primary": ["Go"]}, "sectionPriorities": ["experience", "skills"]}`,
	}}

	strategy, err := BuildStrategy(context.Background(), sampleResume(), sampleAnalysis(), Deps{Caller: caller})

	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, strategy.KeywordIntegration.Primary)
	assert.Equal(t, []string{"experience", "skills"}, strategy.SectionPriorities)

	// The prompt embeds both serialized inputs.
	require.Len(t, caller.prompts, 1)
	assert.Contains(t, caller.prompts[0], "Ada Lovelace")
	assert.Contains(t, caller.prompts[0], "senior")
	assert.Equal(t, []llm.ModelTier{llm.TierAdvanced}, caller.tiers)
}

func TestApplyStrategy_PreservesPersonalInfo(t *testing.T) {
	// The model reply carries altered contact details; the stage restores the
	// original ones.
	caller := &stubCaller{replies: []string{
		`{"personalInfo": {"name": "Someone Else"}, "summary": "Go engineer targeting platform roles",
		  "experience": [{"title": "Software Engineer", "company": "Analytical Engines Ltd"}]}`,
	}}

	original := sampleResume()
	candidate, err := ApplyStrategy(context.Background(), original, sampleStrategy(), Deps{Caller: caller})

	require.NoError(t, err)
	assert.Equal(t, original.PersonalInfo, candidate.PersonalInfo)
	assert.Equal(t, "Go engineer targeting platform roles", candidate.Summary)
}

func TestApplyStrategy_RejectsMalformedShape(t *testing.T) {
	// experience as a scalar violates the structural schema even though the
	// reply is valid JSON.
	caller := &stubCaller{replies: []string{
		`{"personalInfo": {}, "experience": "five years"}`,
	}}

	_, err := ApplyStrategy(context.Background(), sampleResume(), sampleStrategy(), Deps{Caller: caller})

	require.Error(t, err)
	var stageErr *OptimizationError
	require.ErrorAs(t, err, &stageErr)
}

func TestRefineResume(t *testing.T) {
	caller := &stubCaller{replies: []string{
		`{"personalInfo": {}, "summary": "Polished summary", "experience": [{"title": "Software Engineer"}]}`,
	}}

	candidate := sampleResume()
	refined, err := RefineResume(context.Background(), candidate, sampleAnalysis(), sampleStrategy(), Deps{Caller: caller})

	require.NoError(t, err)
	assert.Equal(t, candidate.PersonalInfo, refined.PersonalInfo)
	assert.Equal(t, "Polished summary", refined.Summary)
	assert.Equal(t, []llm.ModelTier{llm.TierStandard}, caller.tiers)
}

func TestRefineResume_ExtractsFencedReply(t *testing.T) {
	caller := &stubCaller{replies: []string{
		"Here is the reviewed resume:\n```json\n{\"personalInfo\": {}, \"summary\": \"ok\"}\n```",
	}}

	refined, err := RefineResume(context.Background(), sampleResume(), sampleAnalysis(), sampleStrategy(), Deps{Caller: caller})

	require.NoError(t, err)
	assert.Equal(t, "ok", refined.Summary)
}

func TestDepsReport_NilCallbackIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Deps{}.report(50, "halfway")
	})
}
