package types

// JobAnalysis is the stage-1 output: a structured reading of the job posting.
// It is ephemeral, consumed only by the strategy and apply prompts and never
// surfaced to the end user directly.
type JobAnalysis struct {
	KeyRequirements  []string           `json:"keyRequirements,omitempty"`
	MustHaveSkills   []string           `json:"mustHaveSkills,omitempty"`
	NiceToHaveSkills []string           `json:"niceToHaveSkills,omitempty"`
	ExperienceLevel  string             `json:"experienceLevel,omitempty"`
	IndustryKeywords []string           `json:"industryKeywords,omitempty"`
	CompanySize      string             `json:"companySize,omitempty"`
	RoleType         string             `json:"roleType,omitempty"`
	TechStack        []string           `json:"techStack,omitempty"`
	SoftSkills       []string           `json:"softSkills,omitempty"`
	Priorities       map[string]float64 `json:"priorities,omitempty"`
}
