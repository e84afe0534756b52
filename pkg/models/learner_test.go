package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
)

func validInput() *LearnerInput {
	return &LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "Data Scientist",
		WeeklyHours: 6,
	}
}

func TestLearnerInput_Validate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*LearnerInput)
	}{
		{"missing learner id", func(in *LearnerInput) { in.LearnerID = uuid.Nil }},
		{"empty goal", func(in *LearnerInput) { in.CareerGoal = "" }},
		{"whitespace goal", func(in *LearnerInput) { in.CareerGoal = "   " }},
		{"zero hours", func(in *LearnerInput) { in.WeeklyHours = 0 }},
		{"negative hours", func(in *LearnerInput) { in.WeeklyHours = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := in.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperrors.ErrInputInvalid) {
				t.Errorf("expected ErrInputInvalid, got %v", err)
			}
		})
	}
}

func TestLearnerInput_HasConstraint(t *testing.T) {
	in := validInput()
	in.Constraints = []string{"Evenings only", " No Cost "}

	if !in.HasConstraint(ConstraintNoCost) {
		t.Error("expected case-insensitive, whitespace-tolerant match")
	}
	if in.HasConstraint("mobile only") {
		t.Error("expected no match for absent constraint")
	}
}

func TestCostTier_IsFree(t *testing.T) {
	if !CostTierFree.IsFree() {
		t.Error("free tier should be free")
	}
	if !CostTierFreemium.IsFree() {
		t.Error("freemium tier should satisfy a no-cost constraint")
	}
	if CostTierPaid.IsFree() {
		t.Error("paid tier should not be free")
	}
}

func TestRoadmapDraft_CourseCount(t *testing.T) {
	draft := RoadmapDraft{
		Phases: []Phase{
			{Courses: []RankedCourse{{Rank: 1}, {Rank: 2}}},
			{Courses: []RankedCourse{{Rank: 1}}},
			{},
		},
	}
	if got := draft.CourseCount(); got != 3 {
		t.Errorf("CourseCount() = %d, want 3", got)
	}
}
