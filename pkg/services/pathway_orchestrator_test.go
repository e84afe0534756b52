package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/llm"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// mockPathwayStore implements PathwayStore for testing.
type mockPathwayStore struct {
	created   []*models.PathwayArtifact
	createErr error
}

func (m *mockPathwayStore) Create(_ context.Context, artifact *models.PathwayArtifact) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, artifact)
	return nil
}

// newTestOrchestrator wires the real pipeline stages over a mock LLM, a mock
// catalog, and a mock store.
func newTestOrchestrator(catalog ResourceCatalog, client llm.LLMClient, store PathwayStore) PathwayOrchestrator {
	logger := zap.NewNop()
	cb := llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig())
	pool := llm.NewWorkerPool(llm.DefaultWorkerPoolConfig(), logger)

	analyzer := NewGoalAnalyzer(client, cb, 0.7, logger)
	researcher := NewResourceResearcher(catalog, client, cb, pool, 3, 0.7, logger)
	synthesizer := NewRoadmapSynthesizer(logger)
	return NewPathwayOrchestrator(analyzer, researcher, synthesizer, store, logger)
}

// offlineLLM fails every call, forcing the heuristic analysis branch and
// degraded market insights.
func offlineLLM() *llm.MockLLMClient {
	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		return nil, errors.New("connection refused")
	}
	return mock
}

func dataScienceCatalog() *mockCatalog {
	return &mockCatalog{bySkill: map[string][]models.ResourceCandidate{
		"Python":             {course("Python for Everybody", "Coursera", 60, 4.8, models.CostTierFreemium, "Python")},
		"SQL":                {course("SQL for Data Science", "Coursera", 20, 4.6, models.CostTierFreemium, "SQL")},
		"Statistics":         {course("Intro to Statistics", "Khan Academy", 30, 4.5, models.CostTierFree, "Statistics")},
		"Machine Learning":   {course("ML Crash Course", "Google", 15, 4.4, models.CostTierFree, "Machine Learning")},
		"Data Visualization": {course("Data Viz Basics", "freeCodeCamp", 12, 4.3, models.CostTierFree, "Data Visualization")},
	}}
}

func TestGeneratePathway_EndToEnd(t *testing.T) {
	store := &mockPathwayStore{}
	orchestrator := newTestOrchestrator(dataScienceCatalog(), insightsMock(), store)

	input := &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "I want to become a Data Scientist",
		WeeklyHours: 6,
		Constraints: []string{"No cost"},
	}

	artifact, err := orchestrator.GeneratePathway(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, artifact)

	assert.NotEqual(t, uuid.Nil, artifact.ID)
	assert.Equal(t, input.LearnerID, artifact.LearnerID)
	assert.Equal(t, "Data Scientist", artifact.Roadmap.PrimaryGoal)
	assert.Greater(t, artifact.Roadmap.CourseCount(), 0)
	assert.Greater(t, artifact.Evaluation.Score, 0.0)

	// The no-cost constraint is a hard filter all the way through.
	for _, phase := range artifact.Roadmap.Phases {
		for _, c := range phase.Courses {
			assert.True(t, c.CostTier.IsFree(), "paid course %q leaked through", c.Title)
		}
	}

	require.NotNil(t, artifact.Insights)
	assert.Equal(t, "+28% YoY", artifact.Insights.DemandTrend)

	require.Len(t, store.created, 1)
	assert.Equal(t, artifact, store.created[0])
}

func TestGeneratePathway_DegradedDependenciesStillProduceArtifact(t *testing.T) {
	store := &mockPathwayStore{}
	orchestrator := newTestOrchestrator(dataScienceCatalog(), offlineLLM(), store)

	input := &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "data scientist",
		WeeklyHours: 6,
	}

	artifact, err := orchestrator.GeneratePathway(context.Background(), input)
	require.NoError(t, err, "LLM being down must degrade, not fail")
	require.NotNil(t, artifact)

	assert.Greater(t, artifact.Roadmap.CourseCount(), 0)
	assert.Contains(t, artifact.Warnings, WarnMarketInsightDegraded)
	require.NotNil(t, artifact.Insights)
	assert.Empty(t, artifact.Insights.Commentary)
}

func TestGeneratePathway_EmptyCatalogStillProducesArtifact(t *testing.T) {
	lookupDown := errors.New("catalog timeout")
	catalog := &mockCatalog{errFor: map[string]error{
		"Python":             lookupDown,
		"SQL":                lookupDown,
		"Statistics":         lookupDown,
		"Machine Learning":   lookupDown,
		"Data Visualization": lookupDown,
	}}
	store := &mockPathwayStore{}
	orchestrator := newTestOrchestrator(catalog, offlineLLM(), store)

	input := &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "data scientist",
		WeeklyHours: 6,
	}

	artifact, err := orchestrator.GeneratePathway(context.Background(), input)
	require.NoError(t, err, "an empty catalog must degrade, not fail")
	require.NotNil(t, artifact)

	assert.Equal(t, 0, artifact.Roadmap.CourseCount())
	assert.False(t, artifact.Evaluation.Passed)
	assert.Less(t, artifact.Evaluation.Score, scoreThreshold)

	assert.Contains(t, artifact.Warnings, WarnResearchEmpty)
	assert.Contains(t, artifact.Warnings, WarnSkillLookupFailed+":Python")

	require.Len(t, store.created, 1)
	assert.Equal(t, artifact, store.created[0])
}

func TestGeneratePathway_InvalidInput(t *testing.T) {
	store := &mockPathwayStore{}
	orchestrator := newTestOrchestrator(dataScienceCatalog(), insightsMock(), store)

	input := &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "data scientist",
		WeeklyHours: 0,
	}

	artifact, err := orchestrator.GeneratePathway(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInputInvalid)
	assert.Nil(t, artifact)
	assert.Empty(t, store.created, "nothing may run before validation passes")
}

func TestGeneratePathway_PersistenceFailureReturnsArtifact(t *testing.T) {
	store := &mockPathwayStore{createErr: errors.New("connection reset")}
	orchestrator := newTestOrchestrator(dataScienceCatalog(), insightsMock(), store)

	input := &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "data scientist",
		WeeklyHours: 6,
	}

	artifact, err := orchestrator.GeneratePathway(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistenceFailed)

	// The computed artifact comes back so the caller can retry the write.
	require.NotNil(t, artifact)
	assert.Greater(t, artifact.Roadmap.CourseCount(), 0)
}

// failingAnalyzer implements GoalAnalyzer and always errors.
type failingAnalyzer struct{}

func (f *failingAnalyzer) Analyze(_ context.Context, _ *models.LearnerInput) (*models.GoalProfile, error) {
	return nil, apperrors.ErrAnalysisUnavailable
}

func TestGeneratePathway_AnalysisFailureAborts(t *testing.T) {
	logger := zap.NewNop()
	store := &mockPathwayStore{}
	cb := llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig())
	pool := llm.NewWorkerPool(llm.DefaultWorkerPoolConfig(), logger)
	researcher := NewResourceResearcher(dataScienceCatalog(), insightsMock(), cb, pool, 3, 0.7, logger)

	orchestrator := NewPathwayOrchestrator(&failingAnalyzer{}, researcher, NewRoadmapSynthesizer(logger), store, logger)

	artifact, err := orchestrator.GeneratePathway(context.Background(), &models.LearnerInput{
		LearnerID:   uuid.New(),
		CareerGoal:  "data scientist",
		WeeklyHours: 6,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAnalysisUnavailable)
	assert.Nil(t, artifact)
	assert.Empty(t, store.created)
}
