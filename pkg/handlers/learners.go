package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
	"github.com/skillbridge-inc/pathway-engine/pkg/repositories"
)

// LearnerHandler handles learner CRUD endpoints.
type LearnerHandler struct {
	learnerRepo repositories.LearnerRepository
	logger      *zap.Logger
}

// NewLearnerHandler creates a new LearnerHandler.
func NewLearnerHandler(learnerRepo repositories.LearnerRepository, logger *zap.Logger) *LearnerHandler {
	return &LearnerHandler{
		learnerRepo: learnerRepo,
		logger:      logger.Named("learner-handler"),
	}
}

// RegisterRoutes registers the learner handler's routes on the given mux.
func (h *LearnerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/learners", h.Create)
	mux.HandleFunc("GET /api/learners/{lid}", h.Get)
	mux.HandleFunc("PUT /api/learners/{lid}", h.Update)
}

type learnerRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	CareerGoal     string   `json:"career_goal"`
	WeeklyHours    int      `json:"weekly_hours"`
	LearningStyles []string `json:"learning_styles"`
	Constraints    []string `json:"constraints"`
}

func (req *learnerRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "a valid email is required"
	}
	if req.WeeklyHours <= 0 {
		return "weekly_hours must be positive"
	}
	return ""
}

// Create handles POST /api/learners.
func (h *LearnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req learnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, "invalid_input", msg)
		return
	}

	learner := &models.Learner{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		CareerGoal:     req.CareerGoal,
		WeeklyHours:    req.WeeklyHours,
		LearningStyles: req.LearningStyles,
		Constraints:    req.Constraints,
	}

	if err := h.learnerRepo.Create(r.Context(), learner); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.writeError(w, http.StatusConflict, "conflict", "A learner with this email already exists")
			return
		}
		h.logger.Error("Failed to create learner", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create learner")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, learner); err != nil {
		h.logger.Error("Failed to encode learner response", zap.Error(err))
	}
}

// Get handles GET /api/learners/{lid}.
func (h *LearnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := ParseLearnerID(w, r, h.logger)
	if !ok {
		return
	}

	learner, err := h.learnerRepo.GetByID(r.Context(), learnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Learner not found")
			return
		}
		h.logger.Error("Failed to load learner", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load learner")
		return
	}

	if err := WriteJSON(w, http.StatusOK, learner); err != nil {
		h.logger.Error("Failed to encode learner response", zap.Error(err))
	}
}

// Update handles PUT /api/learners/{lid}.
func (h *LearnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := ParseLearnerID(w, r, h.logger)
	if !ok {
		return
	}

	var req learnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, "invalid_input", msg)
		return
	}

	learner := &models.Learner{
		ID:             learnerID,
		Name:           req.Name,
		Email:          req.Email,
		CareerGoal:     req.CareerGoal,
		WeeklyHours:    req.WeeklyHours,
		LearningStyles: req.LearningStyles,
		Constraints:    req.Constraints,
	}

	if err := h.learnerRepo.Update(r.Context(), learner); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Learner not found")
			return
		}
		h.logger.Error("Failed to update learner", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update learner")
		return
	}

	if err := WriteJSON(w, http.StatusOK, learner); err != nil {
		h.logger.Error("Failed to encode learner response", zap.Error(err))
	}
}

func (h *LearnerHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
