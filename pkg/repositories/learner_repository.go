// Package repositories provides PostgreSQL data access for learners,
// the resource catalog, and persisted pathways.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillbridge-inc/pathway-engine/pkg/apperrors"
	"github.com/skillbridge-inc/pathway-engine/pkg/database"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// LearnerRepository defines the interface for learner data access.
type LearnerRepository interface {
	Create(ctx context.Context, learner *models.Learner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Learner, error)
	Update(ctx context.Context, learner *models.Learner) error
}

type learnerRepository struct {
	db *database.DB
}

// NewLearnerRepository creates a new learner repository.
func NewLearnerRepository(db *database.DB) LearnerRepository {
	return &learnerRepository{db: db}
}

var _ LearnerRepository = (*learnerRepository)(nil)

func (r *learnerRepository) Create(ctx context.Context, learner *models.Learner) error {
	styles, err := json.Marshal(learner.LearningStyles)
	if err != nil {
		return fmt.Errorf("marshal learning_styles: %w", err)
	}
	constraints, err := json.Marshal(learner.Constraints)
	if err != nil {
		return fmt.Errorf("marshal constraint_tags: %w", err)
	}

	query := `
		INSERT INTO learners (id, name, email, career_goal, weekly_hours, learning_styles, constraint_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		learner.ID, learner.Name, learner.Email, learner.CareerGoal,
		learner.WeeklyHours, styles, constraints,
	).Scan(&learner.CreatedAt, &learner.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("learner email %s: %w", learner.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("insert learner: %w", err)
	}
	return nil
}

func (r *learnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Learner, error) {
	query := `
		SELECT id, name, email, career_goal, weekly_hours, learning_styles, constraint_tags, created_at, updated_at
		FROM learners
		WHERE id = $1`

	var (
		learner     models.Learner
		styles      []byte
		constraints []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&learner.ID, &learner.Name, &learner.Email, &learner.CareerGoal,
		&learner.WeeklyHours, &styles, &constraints,
		&learner.CreatedAt, &learner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("learner %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("query learner: %w", err)
	}

	if err := json.Unmarshal(styles, &learner.LearningStyles); err != nil {
		return nil, fmt.Errorf("unmarshal learning_styles: %w", err)
	}
	if err := json.Unmarshal(constraints, &learner.Constraints); err != nil {
		return nil, fmt.Errorf("unmarshal constraint_tags: %w", err)
	}
	return &learner, nil
}

func (r *learnerRepository) Update(ctx context.Context, learner *models.Learner) error {
	styles, err := json.Marshal(learner.LearningStyles)
	if err != nil {
		return fmt.Errorf("marshal learning_styles: %w", err)
	}
	constraints, err := json.Marshal(learner.Constraints)
	if err != nil {
		return fmt.Errorf("marshal constraint_tags: %w", err)
	}

	query := `
		UPDATE learners
		SET name = $2, email = $3, career_goal = $4, weekly_hours = $5,
		    learning_styles = $6, constraint_tags = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err = r.db.QueryRow(ctx, query,
		learner.ID, learner.Name, learner.Email, learner.CareerGoal,
		learner.WeeklyHours, styles, constraints,
	).Scan(&learner.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("learner %s: %w", learner.ID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("update learner: %w", err)
	}
	return nil
}
