package models

import (
	"time"

	"github.com/google/uuid"
)

// RankedCourse is a course placed in a phase. Rank is assigned at synthesis
// time and is stable within a phase once assigned.
type RankedCourse struct {
	Rank          int      `json:"rank"`
	Skill         string   `json:"skill"`
	Title         string   `json:"title"`
	Platform      string   `json:"platform"`
	DurationHours int      `json:"duration_hours"`
	Rating        float64  `json:"rating"`
	CostTier      CostTier `json:"cost_tier"`
	URL           string   `json:"url,omitempty"`
}

// Phase is a contiguous stage of the roadmap containing ranked courses.
// DurationWeeks is a target derived from the phase's course hours and the
// learner's weekly budget, not a computed sum.
type Phase struct {
	Number        int            `json:"number"`
	Title         string         `json:"title"`
	Skills        []string       `json:"skills"`
	DurationWeeks int            `json:"duration_weeks"`
	Courses       []RankedCourse `json:"courses"`
}

// RoadmapDraft is one candidate roadmap. Drafts are immutable; each synthesis
// iteration produces a new draft rather than mutating the previous one.
type RoadmapDraft struct {
	Title       string  `json:"title"`
	PrimaryGoal string  `json:"primary_goal"`
	Phases      []Phase `json:"phases"`

	// TotalHours is the sum of course durations across all phases.
	TotalHours int `json:"total_hours"`
	TotalWeeks int `json:"total_weeks"`
}

// CourseCount returns the number of courses across all phases.
func (d *RoadmapDraft) CourseCount() int {
	n := 0
	for _, p := range d.Phases {
		n += len(p.Courses)
	}
	return n
}

// EvaluationResult scores one draft on a 0-10 scale. Computed per draft and
// never retro-applied to a prior draft.
type EvaluationResult struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Passed    bool    `json:"passed"`
	Iteration int     `json:"iteration"`
}

// PathwayArtifact is the terminal, persisted output of one pathway
// generation. Immutable after creation.
type PathwayArtifact struct {
	ID         uuid.UUID        `json:"id"`
	LearnerID  uuid.UUID        `json:"learner_id"`
	Roadmap    RoadmapDraft     `json:"roadmap"`
	Evaluation EvaluationResult `json:"evaluation"`
	Insights   *MarketInsights  `json:"market_insights,omitempty"`

	// Warnings carries machine-readable degradation markers, such as skills
	// whose catalog lookup failed.
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
