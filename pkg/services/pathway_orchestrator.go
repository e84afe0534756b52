package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// PathwayStore is the persistence capability the orchestrator consumes.
// repositories.PathwayRepository satisfies it.
type PathwayStore interface {
	Create(ctx context.Context, artifact *models.PathwayArtifact) error
}

// PathwayOrchestrator sequences goal analysis, resource research, and
// roadmap synthesis, then persists the resulting artifact. Data flows
// strictly left to right; no step calls back into an earlier one.
type PathwayOrchestrator interface {
	// GeneratePathway runs the full pipeline for one learner request.
	// On persistence failure the computed artifact is returned alongside
	// apperrors.ErrPersistenceFailed so the caller can retry the write
	// without recomputation.
	GeneratePathway(ctx context.Context, input *models.LearnerInput) (*models.PathwayArtifact, error)
}

type pathwayOrchestrator struct {
	analyzer    GoalAnalyzer
	researcher  ResourceResearcher
	synthesizer RoadmapSynthesizer
	pathways    PathwayStore
	logger      *zap.Logger
}

// NewPathwayOrchestrator creates a new pathway orchestrator.
func NewPathwayOrchestrator(
	analyzer GoalAnalyzer,
	researcher ResourceResearcher,
	synthesizer RoadmapSynthesizer,
	pathways PathwayStore,
	logger *zap.Logger,
) PathwayOrchestrator {
	return &pathwayOrchestrator{
		analyzer:    analyzer,
		researcher:  researcher,
		synthesizer: synthesizer,
		pathways:    pathways,
		logger:      logger.Named("pathway-orchestrator"),
	}
}

var _ PathwayOrchestrator = (*pathwayOrchestrator)(nil)

func (s *pathwayOrchestrator) GeneratePathway(ctx context.Context, input *models.LearnerInput) (*models.PathwayArtifact, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.analyzer.Analyze(ctx, input)
	if err != nil {
		// The only hard abort besides invalid input: nothing downstream
		// runs without a usable profile.
		return nil, err
	}

	research, err := s.researcher.Research(ctx, profile, input)
	if err != nil {
		// Research only errors on context cancellation; degraded or empty
		// lookups come back as a result with warning markers.
		return nil, fmt.Errorf("resource research: %w", err)
	}

	draft, evaluation := s.synthesizer.Synthesize(profile, research, input)

	artifact := &models.PathwayArtifact{
		ID:         uuid.New(),
		LearnerID:  input.LearnerID,
		Roadmap:    *draft,
		Evaluation: *evaluation,
		Insights:   research.Insights,
		Warnings:   research.Warnings,
	}

	if err := s.pathways.Create(ctx, artifact); err != nil {
		s.logger.Error("Pathway computed but not persisted",
			zap.String("learner_id", input.LearnerID.String()),
			zap.Error(err))
		return artifact, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	s.logger.Info("Pathway generated",
		zap.String("learner_id", input.LearnerID.String()),
		zap.String("pathway_id", artifact.ID.String()),
		zap.Float64("score", evaluation.Score),
		zap.Int("warnings", len(artifact.Warnings)))

	return artifact, nil
}
