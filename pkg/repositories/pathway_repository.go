package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/database"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// PathwayRepository persists and retrieves pathway artifacts.
type PathwayRepository interface {
	// Create stores a complete artifact in a single statement; there is no
	// partial persistence.
	Create(ctx context.Context, artifact *models.PathwayArtifact) error

	// GetLatestByLearner returns the most recent artifact for a learner.
	GetLatestByLearner(ctx context.Context, learnerID uuid.UUID) (*models.PathwayArtifact, error)

	// ListRecent returns the most recently created artifacts.
	ListRecent(ctx context.Context, limit int) ([]models.PathwayArtifact, error)
}

type pathwayRepository struct {
	db *database.DB
}

// NewPathwayRepository creates a new pathway repository.
func NewPathwayRepository(db *database.DB) PathwayRepository {
	return &pathwayRepository{db: db}
}

var _ PathwayRepository = (*pathwayRepository)(nil)

func (r *pathwayRepository) Create(ctx context.Context, artifact *models.PathwayArtifact) error {
	roadmap, err := json.Marshal(artifact.Roadmap)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}
	evaluation, err := json.Marshal(artifact.Evaluation)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	var insights []byte
	if artifact.Insights != nil {
		if insights, err = json.Marshal(artifact.Insights); err != nil {
			return fmt.Errorf("marshal market_insights: %w", err)
		}
	}
	warnings, err := json.Marshal(artifact.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	query := `
		INSERT INTO pathways (id, learner_id, roadmap, evaluation, market_insights, warnings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err = r.db.QueryRow(ctx, query,
		artifact.ID, artifact.LearnerID, roadmap, evaluation, insights, warnings,
	).Scan(&artifact.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pathway: %w", err)
	}
	return nil
}

func (r *pathwayRepository) GetLatestByLearner(ctx context.Context, learnerID uuid.UUID) (*models.PathwayArtifact, error) {
	query := `
		SELECT id, learner_id, roadmap, evaluation, market_insights, warnings, created_at
		FROM pathways
		WHERE learner_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	artifact, err := scanPathway(r.db.QueryRow(ctx, query, learnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pathway for learner %s: %w", learnerID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return artifact, nil
}

func (r *pathwayRepository) ListRecent(ctx context.Context, limit int) ([]models.PathwayArtifact, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, learner_id, roadmap, evaluation, market_insights, warnings, created_at
		FROM pathways
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent pathways: %w", err)
	}
	defer rows.Close()

	var artifacts []models.PathwayArtifact
	for rows.Next() {
		artifact, err := scanPathway(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pathways: %w", err)
	}
	return artifacts, nil
}

func scanPathway(row pgx.Row) (*models.PathwayArtifact, error) {
	var (
		artifact   models.PathwayArtifact
		roadmap    []byte
		evaluation []byte
		insights   []byte
		warnings   []byte
	)
	if err := row.Scan(&artifact.ID, &artifact.LearnerID, &roadmap, &evaluation, &insights, &warnings, &artifact.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(roadmap, &artifact.Roadmap); err != nil {
		return nil, fmt.Errorf("unmarshal roadmap: %w", err)
	}
	if err := json.Unmarshal(evaluation, &artifact.Evaluation); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation: %w", err)
	}
	if len(insights) > 0 {
		artifact.Insights = &models.MarketInsights{}
		if err := json.Unmarshal(insights, artifact.Insights); err != nil {
			return nil, fmt.Errorf("unmarshal market_insights: %w", err)
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &artifact.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
	}
	return &artifact, nil
}
