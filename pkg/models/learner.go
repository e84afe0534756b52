package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
)

// ConstraintNoCost is the constraint tag that excludes paid resources entirely.
const ConstraintNoCost = "no cost"

// LearnerInput is the request form a learner submits to generate a pathway.
// Immutable once validated; created per request.
type LearnerInput struct {
	LearnerID          uuid.UUID `json:"learner_id"`
	CareerGoal         string    `json:"career_goal"`
	WeeklyHours        int       `json:"weekly_hours"`
	Languages          []string  `json:"languages,omitempty"`
	LearningStyles     []string  `json:"learning_styles,omitempty"`
	Constraints        []string  `json:"constraints,omitempty"`
	CurrentSkills      []string  `json:"current_skills,omitempty"`
	WantsCertification bool      `json:"wants_certification"`
}

// Validate rejects malformed input before any collaborator is called.
func (in *LearnerInput) Validate() error {
	if in.LearnerID == uuid.Nil {
		return fmt.Errorf("%w: learner_id is required", apperrors.ErrInputInvalid)
	}
	if strings.TrimSpace(in.CareerGoal) == "" {
		return fmt.Errorf("%w: career_goal is required", apperrors.ErrInputInvalid)
	}
	if in.WeeklyHours <= 0 {
		return fmt.Errorf("%w: weekly_hours must be positive, got %d", apperrors.ErrInputInvalid, in.WeeklyHours)
	}
	return nil
}

// HasConstraint reports whether the given constraint tag is present,
// case-insensitively.
func (in *LearnerInput) HasConstraint(tag string) bool {
	for _, c := range in.Constraints {
		if strings.EqualFold(strings.TrimSpace(c), tag) {
			return true
		}
	}
	return false
}

// Learner is the persisted learner record backing the CRUD surface.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	CareerGoal     string    `json:"career_goal"`
	WeeklyHours    int       `json:"weekly_hours"`
	LearningStyles []string  `json:"learning_styles,omitempty"`
	Constraints    []string  `json:"constraints,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
