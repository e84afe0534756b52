package models

// ProfileSource records which branch produced a goal profile, so degraded
// LLM behavior is observable rather than silently masked.
type ProfileSource string

const (
	// ProfileSourceLLM means the profile was parsed from a model completion.
	ProfileSourceLLM ProfileSource = "llm"
	// ProfileSourceHeuristic means the completion was unusable and the profile
	// came from the built-in career taxonomy.
	ProfileSourceHeuristic ProfileSource = "heuristic"
)

// GoalProfile is the structured analysis of a learner's career goal.
// Produced once by the goal analyzer and consumed read-only downstream.
type GoalProfile struct {
	TargetRole      string        `json:"target_role"`
	JobTitles       []string      `json:"job_titles,omitempty"`
	RequiredSkills  []string      `json:"required_skills"`
	EstimatedMonths int           `json:"estimated_months"`
	SalaryRange     string        `json:"salary_range,omitempty"`
	KeyChallenges   []string      `json:"key_challenges,omitempty"`
	Source          ProfileSource `json:"source"`
}
