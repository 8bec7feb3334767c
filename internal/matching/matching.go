// Package matching compares a resume with a job description using embedding
// search and a chat model, and asks the model how to close skill gaps.
package matching

import "errors"

var (
	ErrEmptyJobDescription  = errors.New("job description is empty or invalid")
	ErrNoRelevantContent    = errors.New("no relevant resume sections found for this job description")
	ErrMalformedModelOutput = errors.New("malformed model output")
	ErrEmptySkill           = errors.New("skill name is empty")
)

// MatchAnalysis is the model's verdict on how well a resume fits a job.
type MatchAnalysis struct {
	MatchScore      int      `json:"matchScore"`
	MatchingSkills  []string `json:"matchingSkills"`
	MissingSkills   []string `json:"missingSkills"`
	Recommendations []string `json:"recommendations"`
}

// SkillSuggestion is a learning plan for one skill.
type SkillSuggestion struct {
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
	Resources []string `json:"resources"`
}

const (
	defaultMaxLogLength = 200
	defaultTopK         = 5
)
