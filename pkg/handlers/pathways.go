package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
	"github.com/skillbridge-inc/pathway-engine/pkg/repositories"
	"github.com/skillbridge-inc/pathway-engine/pkg/services"
)

// PathwayHandler handles pathway generation and retrieval endpoints.
type PathwayHandler struct {
	orchestrator services.PathwayOrchestrator
	pathwayRepo  repositories.PathwayRepository
	logger       *zap.Logger
}

// NewPathwayHandler creates a new PathwayHandler.
func NewPathwayHandler(orchestrator services.PathwayOrchestrator, pathwayRepo repositories.PathwayRepository, logger *zap.Logger) *PathwayHandler {
	return &PathwayHandler{
		orchestrator: orchestrator,
		pathwayRepo:  pathwayRepo,
		logger:       logger.Named("pathway-handler"),
	}
}

// RegisterRoutes registers the pathway handler's routes on the given mux.
func (h *PathwayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/pathways", h.Generate)
	mux.HandleFunc("GET /api/pathways/recent", h.ListRecent)
	mux.HandleFunc("GET /api/pathways/{lid}", h.GetByLearner)
}

// Generate handles POST /api/pathways.
// Runs the full analysis/research/synthesis pipeline for the submitted form.
func (h *PathwayHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input models.LearnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	artifact, err := h.orchestrator.GeneratePathway(r.Context(), &input)
	switch {
	case err == nil:
		if err := WriteJSON(w, http.StatusCreated, artifact); err != nil {
			h.logger.Error("Failed to encode pathway response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrInputInvalid):
		h.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, apperrors.ErrAnalysisUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, "analysis_unavailable", "Goal analysis is temporarily unavailable")
	case errors.Is(err, apperrors.ErrPersistenceFailed):
		// The pathway was computed; return it with the storage error so the
		// caller can retry persistence without regenerating.
		h.logger.Warn("Returning unpersisted pathway", zap.Error(err))
		if err := WriteJSON(w, http.StatusAccepted, map[string]any{
			"pathway": artifact,
			"error":   "persistence_failed",
			"message": "Pathway was generated but could not be stored",
		}); err != nil {
			h.logger.Error("Failed to encode pathway response", zap.Error(err))
		}
	default:
		h.logger.Error("Pathway generation failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Pathway generation failed")
	}
}

// GetByLearner handles GET /api/pathways/{lid}.
// Returns the most recent pathway for a learner.
func (h *PathwayHandler) GetByLearner(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := ParseLearnerID(w, r, h.logger)
	if !ok {
		return
	}

	artifact, err := h.pathwayRepo.GetLatestByLearner(r.Context(), learnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "No pathway found for learner")
			return
		}
		h.logger.Error("Failed to load pathway", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load pathway")
		return
	}

	if err := WriteJSON(w, http.StatusOK, artifact); err != nil {
		h.logger.Error("Failed to encode pathway response", zap.Error(err))
	}
}

// ListRecent handles GET /api/pathways/recent?limit=N.
func (h *PathwayHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	artifacts, err := h.pathwayRepo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list pathways", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list pathways")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"pathways": artifacts}); err != nil {
		h.logger.Error("Failed to encode pathway list", zap.Error(err))
	}
}

func (h *PathwayHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
