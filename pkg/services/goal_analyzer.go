package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/jsonutil"
	"github.com/skillbridge-inc/pathway-engine/pkg/llm"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// maxRequiredSkills bounds the research fan-out downstream.
const maxRequiredSkills = 6

// GoalAnalyzer turns a career goal and constraints into a structured goal
// profile. On an unusable LLM response it falls back to the built-in career
// taxonomy; the profile's Source field records which branch produced it.
type GoalAnalyzer interface {
	Analyze(ctx context.Context, input *models.LearnerInput) (*models.GoalProfile, error)
}

type goalAnalyzer struct {
	client         llm.LLMClient
	circuitBreaker *llm.CircuitBreaker
	temperature    float64
	logger         *zap.Logger
}

// NewGoalAnalyzer creates a new goal analyzer.
func NewGoalAnalyzer(client llm.LLMClient, circuitBreaker *llm.CircuitBreaker, temperature float64, logger *zap.Logger) GoalAnalyzer {
	return &goalAnalyzer{
		client:         client,
		circuitBreaker: circuitBreaker,
		temperature:    temperature,
		logger:         logger.Named("goal-analyzer"),
	}
}

var _ GoalAnalyzer = (*goalAnalyzer)(nil)

const goalAnalysisSystemMessage = `You are a career-planning assistant. ` +
	`Respond with a single JSON object and no other text.`

// goalProfilePayload is the raw LLM response shape. RawMessage fields let us
// coerce the loosely-typed values models tend to return (numbers as strings,
// a single string where an array was asked for).
type goalProfilePayload struct {
	TargetRole      json.RawMessage `json:"target_role"`
	RequiredSkills  json.RawMessage `json:"required_skills"`
	JobTitles       json.RawMessage `json:"job_titles"`
	EstimatedMonths json.RawMessage `json:"estimated_months"`
	SalaryRange     json.RawMessage `json:"salary_range"`
	KeyChallenges   json.RawMessage `json:"key_challenges"`
}

func (s *goalAnalyzer) Analyze(ctx context.Context, input *models.LearnerInput) (*models.GoalProfile, error) {
	if strings.TrimSpace(input.CareerGoal) == "" {
		return nil, fmt.Errorf("%w: empty career goal", apperrors.ErrInputInvalid)
	}

	profile := s.analyzeWithLLM(ctx, input)
	if profile == nil {
		s.logger.Warn("Falling back to heuristic goal profile",
			zap.String("career_goal", input.CareerGoal))
		profile = heuristicProfile(input)
	}

	if profile.TargetRole == "" || len(profile.RequiredSkills) == 0 {
		// Should not occur given the taxonomy fallback, but the contract
		// requires a usable profile or a typed error.
		return nil, fmt.Errorf("%w: no usable profile for goal %q", apperrors.ErrAnalysisUnavailable, input.CareerGoal)
	}

	if len(profile.RequiredSkills) > maxRequiredSkills {
		profile.RequiredSkills = profile.RequiredSkills[:maxRequiredSkills]
	}

	s.logger.Info("Goal analysis complete",
		zap.String("target_role", profile.TargetRole),
		zap.Int("skills", len(profile.RequiredSkills)),
		zap.String("source", string(profile.Source)))

	return profile, nil
}

// analyzeWithLLM returns nil when the call or the parse fails; the caller
// takes the heuristic branch.
func (s *goalAnalyzer) analyzeWithLLM(ctx context.Context, input *models.LearnerInput) *models.GoalProfile {
	if allowed, err := s.circuitBreaker.Allow(); !allowed {
		s.logger.Warn("Skipping LLM goal analysis", zap.Error(err))
		return nil
	}

	result, err := s.client.GenerateResponse(ctx, s.buildPrompt(input), goalAnalysisSystemMessage, s.temperature)
	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.logger.Warn("LLM goal analysis failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return nil
	}
	s.circuitBreaker.RecordSuccess()

	payload, err := llm.ParseJSONResponse[goalProfilePayload](result.Content)
	if err != nil {
		s.logger.Warn("Unparseable goal analysis response", zap.Error(err))
		return nil
	}

	profile := &models.GoalProfile{
		TargetRole:      jsonutil.FlexibleStringValue(payload.TargetRole),
		JobTitles:       jsonutil.FlexibleStringSlice(payload.JobTitles),
		RequiredSkills:  jsonutil.FlexibleStringSlice(payload.RequiredSkills),
		EstimatedMonths: jsonutil.FlexibleIntValue(payload.EstimatedMonths),
		SalaryRange:     jsonutil.FlexibleStringValue(payload.SalaryRange),
		KeyChallenges:   jsonutil.FlexibleStringSlice(payload.KeyChallenges),
		Source:          models.ProfileSourceLLM,
	}

	if profile.TargetRole == "" || len(profile.RequiredSkills) == 0 {
		s.logger.Warn("LLM goal analysis missing required fields")
		return nil
	}

	return profile
}

func (s *goalAnalyzer) buildPrompt(input *models.LearnerInput) string {
	var b strings.Builder
	b.WriteString("Analyze this learner's career goal and produce a structured profile.\n\n")
	fmt.Fprintf(&b, "Career goal: %s\n", input.CareerGoal)
	fmt.Fprintf(&b, "Weekly hours available: %d\n", input.WeeklyHours)
	if len(input.CurrentSkills) > 0 {
		fmt.Fprintf(&b, "Current skills: %s\n", strings.Join(input.CurrentSkills, ", "))
	}
	if len(input.LearningStyles) > 0 {
		fmt.Fprintf(&b, "Preferred learning styles: %s\n", strings.Join(input.LearningStyles, ", "))
	}
	if len(input.Constraints) > 0 {
		fmt.Fprintf(&b, "Constraints: %s\n", strings.Join(input.Constraints, ", "))
	}
	b.WriteString(`
Return a JSON object with exactly these fields:
{
  "target_role": "the role this goal maps to",
  "required_skills": ["up to 6 skills to learn, ordered foundation first"],
  "job_titles": ["realistic job titles"],
  "estimated_months": 6,
  "salary_range": "typical salary range for the role",
  "key_challenges": ["the main difficulties this learner will face"]
}`)
	return b.String()
}
