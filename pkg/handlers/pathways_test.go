package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// mockOrchestrator implements services.PathwayOrchestrator for testing.
type mockOrchestrator struct {
	artifact *models.PathwayArtifact
	err      error
}

func (m *mockOrchestrator) GeneratePathway(_ context.Context, input *models.LearnerInput) (*models.PathwayArtifact, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return m.artifact, m.err
}

// mockPathwayRepo implements repositories.PathwayRepository for testing.
type mockPathwayRepo struct {
	byLearner map[uuid.UUID]*models.PathwayArtifact
	recent    []models.PathwayArtifact
	listErr   error
}

func (m *mockPathwayRepo) Create(_ context.Context, artifact *models.PathwayArtifact) error {
	return nil
}

func (m *mockPathwayRepo) GetLatestByLearner(_ context.Context, learnerID uuid.UUID) (*models.PathwayArtifact, error) {
	if artifact, ok := m.byLearner[learnerID]; ok {
		return artifact, nil
	}
	return nil, fmt.Errorf("%w: no pathway for learner", apperrors.ErrNotFound)
}

func (m *mockPathwayRepo) ListRecent(_ context.Context, limit int) ([]models.PathwayArtifact, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	return m.recent[:limit], nil
}

func testArtifact(learnerID uuid.UUID) *models.PathwayArtifact {
	return &models.PathwayArtifact{
		ID:        uuid.New(),
		LearnerID: learnerID,
		Roadmap: models.RoadmapDraft{
			Title:       "Data Scientist Mastery Path",
			PrimaryGoal: "Data Scientist",
			TotalHours:  110,
		},
		Evaluation: models.EvaluationResult{Score: 8.4, Passed: true, Iteration: 1},
		CreatedAt:  time.Now(),
	}
}

func pathwayMux(orchestrator *mockOrchestrator, repo *mockPathwayRepo) *http.ServeMux {
	mux := http.NewServeMux()
	NewPathwayHandler(orchestrator, repo, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func generateBody(t *testing.T, learnerID uuid.UUID) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"learner_id":   learnerID,
		"career_goal":  "data scientist",
		"weekly_hours": 6,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestGenerate_Success(t *testing.T) {
	learnerID := uuid.New()
	mux := pathwayMux(&mockOrchestrator{artifact: testArtifact(learnerID)}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/pathways", generateBody(t, learnerID))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var artifact models.PathwayArtifact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&artifact))
	assert.Equal(t, learnerID, artifact.LearnerID)
	assert.Equal(t, "Data Scientist Mastery Path", artifact.Roadmap.Title)
}

func TestGenerate_InvalidBody(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/pathways", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_InvalidInput(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{}, &mockPathwayRepo{})

	body, _ := json.Marshal(map[string]any{
		"learner_id":   uuid.New(),
		"career_goal":  "",
		"weekly_hours": 6,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/pathways", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "invalid_input", resp["error"])
}

func TestGenerate_AnalysisUnavailable(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{err: apperrors.ErrAnalysisUnavailable}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/pathways", generateBody(t, uuid.New()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerate_PersistenceFailureReturnsPathway(t *testing.T) {
	learnerID := uuid.New()
	orchestrator := &mockOrchestrator{
		artifact: testArtifact(learnerID),
		err:      fmt.Errorf("%w: connection reset", apperrors.ErrPersistenceFailed),
	}
	mux := pathwayMux(orchestrator, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/pathways", generateBody(t, learnerID))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		Pathway *models.PathwayArtifact `json:"pathway"`
		Error   string                  `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "persistence_failed", resp.Error)
	require.NotNil(t, resp.Pathway)
	assert.Equal(t, learnerID, resp.Pathway.LearnerID)
}

func TestGenerate_InternalError(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{err: errors.New("boom")}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/pathways", generateBody(t, uuid.New()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetByLearner_Found(t *testing.T) {
	learnerID := uuid.New()
	repo := &mockPathwayRepo{byLearner: map[uuid.UUID]*models.PathwayArtifact{
		learnerID: testArtifact(learnerID),
	}}
	mux := pathwayMux(&mockOrchestrator{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/pathways/"+learnerID.String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var artifact models.PathwayArtifact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&artifact))
	assert.Equal(t, learnerID, artifact.LearnerID)
}

func TestGetByLearner_NotFound(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/pathways/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetByLearner_InvalidID(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{}, &mockPathwayRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/pathways/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRecent_DefaultLimit(t *testing.T) {
	repo := &mockPathwayRepo{}
	for i := 0; i < 15; i++ {
		repo.recent = append(repo.recent, *testArtifact(uuid.New()))
	}
	mux := pathwayMux(&mockOrchestrator{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/pathways/recent", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pathways []models.PathwayArtifact `json:"pathways"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Pathways, 10)
}

func TestListRecent_LimitValidation(t *testing.T) {
	mux := pathwayMux(&mockOrchestrator{}, &mockPathwayRepo{})

	for _, limit := range []string{"0", "101", "-5", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/pathways/recent?limit="+limit, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}
