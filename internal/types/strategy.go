package types

// OptimizationStrategy is the stage-2 output: a plan for tailoring the resume,
// not a rewrite. Ephemeral, consumed by the apply and refine prompts.
type OptimizationStrategy struct {
	KeywordIntegration      KeywordIntegration    `json:"keywordIntegration,omitempty"`
	SectionPriorities       []string              `json:"sectionPriorities,omitempty"`
	ImprovementAreas        []ImprovementArea     `json:"improvementAreas,omitempty"`
	SkillsToEmphasize       []string              `json:"skillsToEmphasize,omitempty"`
	AchievementsToHighlight []string              `json:"achievementsToHighlight,omitempty"`
	LanguageOptimizations   LanguageOptimizations `json:"languageOptimizations,omitempty"`
}

// KeywordIntegration splits job keywords by placement priority
type KeywordIntegration struct {
	Primary   []string `json:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
}

// ImprovementArea names a concrete action to take on one resume section
type ImprovementArea struct {
	Section string `json:"section,omitempty"`
	Action  string `json:"action,omitempty"`
	Details string `json:"details,omitempty"`
}

// LanguageOptimizations captures tone and wording guidance for the rewrite
type LanguageOptimizations struct {
	Tone        string   `json:"tone,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	ActionVerbs []string `json:"actionVerbs,omitempty"`
}
