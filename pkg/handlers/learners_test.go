package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// mockLearnerRepo implements repositories.LearnerRepository for testing.
type mockLearnerRepo struct {
	learners map[uuid.UUID]*models.Learner
	emails   map[string]struct{}
}

func newMockLearnerRepo() *mockLearnerRepo {
	return &mockLearnerRepo{
		learners: make(map[uuid.UUID]*models.Learner),
		emails:   make(map[string]struct{}),
	}
}

func (m *mockLearnerRepo) Create(_ context.Context, learner *models.Learner) error {
	if _, taken := m.emails[learner.Email]; taken {
		return fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}
	m.emails[learner.Email] = struct{}{}
	m.learners[learner.ID] = learner
	return nil
}

func (m *mockLearnerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Learner, error) {
	if learner, ok := m.learners[id]; ok {
		return learner, nil
	}
	return nil, fmt.Errorf("%w: learner", apperrors.ErrNotFound)
}

func (m *mockLearnerRepo) Update(_ context.Context, learner *models.Learner) error {
	if _, ok := m.learners[learner.ID]; !ok {
		return fmt.Errorf("%w: learner", apperrors.ErrNotFound)
	}
	m.learners[learner.ID] = learner
	return nil
}

func learnerMux(repo *mockLearnerRepo) *http.ServeMux {
	mux := http.NewServeMux()
	NewLearnerHandler(repo, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func learnerBody(t *testing.T, name, email string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"name":         name,
		"email":        email,
		"career_goal":  "data scientist",
		"weekly_hours": 6,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateLearner_Success(t *testing.T) {
	repo := newMockLearnerRepo()
	mux := learnerMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/learners", learnerBody(t, "Sam", "sam@example.com"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var learner models.Learner
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&learner))
	assert.NotEqual(t, uuid.Nil, learner.ID)
	assert.Equal(t, "Sam", learner.Name)
	assert.Len(t, repo.learners, 1)
}

func TestCreateLearner_Validation(t *testing.T) {
	mux := learnerMux(newMockLearnerRepo())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@b.com", "weekly_hours": 6}},
		{"bad email", map[string]any{"name": "Sam", "email": "nope", "weekly_hours": 6}},
		{"zero hours", map[string]any{"name": "Sam", "email": "a@b.com", "weekly_hours": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/learners", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateLearner_DuplicateEmail(t *testing.T) {
	mux := learnerMux(newMockLearnerRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/learners", learnerBody(t, "Sam", "sam@example.com"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/learners", learnerBody(t, "Sam Again", "sam@example.com"))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetLearner(t *testing.T) {
	repo := newMockLearnerRepo()
	learner := &models.Learner{ID: uuid.New(), Name: "Sam", Email: "sam@example.com", WeeklyHours: 6}
	repo.learners[learner.ID] = learner
	mux := learnerMux(repo)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/learners/"+learner.ID.String(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Learner
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, learner.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/learners/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/learners/banana", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateLearner(t *testing.T) {
	repo := newMockLearnerRepo()
	learner := &models.Learner{ID: uuid.New(), Name: "Sam", Email: "sam@example.com", WeeklyHours: 6}
	repo.learners[learner.ID] = learner
	mux := learnerMux(repo)

	t.Run("updates fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/learners/"+learner.ID.String(), learnerBody(t, "Sam Updated", "sam@example.com"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Sam Updated", repo.learners[learner.ID].Name)
	})

	t.Run("unknown learner", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/learners/"+uuid.NewString(), learnerBody(t, "Ghost", "ghost@example.com"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
