// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeRecord is the canonical structured resume. It is the input to and the
// output of a tailoring run; every stage that rewrites it must preserve its shape.
type ResumeRecord struct {
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Summary      string            `json:"summary,omitempty"`
	Experience   []ExperienceEntry `json:"experience,omitempty"`
	Education    []EducationEntry  `json:"education,omitempty"`
	Skills       *Skills           `json:"skills,omitempty"`
	Projects     []Project         `json:"projects,omitempty"`
}

// PersonalInfo holds the candidate's contact details. All fields are optional.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Links    string `json:"links,omitempty"`
}

// ExperienceEntry represents one position in the work history
type ExperienceEntry struct {
	Title        string   `json:"title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Description  []string `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// EducationEntry represents one degree or program
type EducationEntry struct {
	Degree             string   `json:"degree,omitempty"`
	Institution        string   `json:"institution,omitempty"`
	Location           string   `json:"location,omitempty"`
	GraduationDate     string   `json:"graduationDate,omitempty"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevantCoursework,omitempty"`
}

// Skills groups skill names by category
type Skills struct {
	Technical      []string `json:"technical,omitempty"`
	Soft           []string `json:"soft,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// Project represents one portfolio project
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}
