package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillbridge-inc/pathway-engine/pkg/database"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// ResourceRepository provides read access to the learning-resource catalog
// and the insert path used by the seeder.
type ResourceRepository interface {
	// FindBySkill returns catalog entries whose skill tags contain the given
	// skill (case-insensitive). When freeOnly is set, paid resources are
	// excluded at the query level.
	FindBySkill(ctx context.Context, skill string, freeOnly bool) ([]models.ResourceCandidate, error)

	// Upsert inserts a resource, updating it in place when (title, platform)
	// already exists.
	Upsert(ctx context.Context, resource *models.ResourceCandidate) error
}

type resourceRepository struct {
	db *database.DB
}

// NewResourceRepository creates a new resource repository.
func NewResourceRepository(db *database.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

var _ ResourceRepository = (*resourceRepository)(nil)

func (r *resourceRepository) FindBySkill(ctx context.Context, skill string, freeOnly bool) ([]models.ResourceCandidate, error) {
	// skill_tags is a JSONB array of strings; match case-insensitively by
	// lowering both sides.
	query := `
		SELECT title, platform, skill_tags, duration_hours, rating, cost_tier, url
		FROM resources
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(skill_tags) tag
			WHERE lower(tag) = lower($1)
		)`
	args := []any{strings.TrimSpace(skill)}

	if freeOnly {
		query += ` AND cost_tier <> 'paid'`
	}
	query += ` ORDER BY rating DESC, duration_hours ASC, platform ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources for skill %q: %w", skill, err)
	}
	defer rows.Close()

	var candidates []models.ResourceCandidate
	for rows.Next() {
		var (
			c    models.ResourceCandidate
			tags []byte
		)
		if err := rows.Scan(&c.Title, &c.Platform, &tags, &c.DurationHours, &c.Rating, &c.CostTier, &c.URL); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		if err := json.Unmarshal(tags, &c.SkillTags); err != nil {
			return nil, fmt.Errorf("unmarshal skill_tags: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return candidates, nil
}

func (r *resourceRepository) Upsert(ctx context.Context, resource *models.ResourceCandidate) error {
	tags, err := json.Marshal(resource.SkillTags)
	if err != nil {
		return fmt.Errorf("marshal skill_tags: %w", err)
	}

	query := `
		INSERT INTO resources (title, platform, skill_tags, duration_hours, rating, cost_tier, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title, platform) DO UPDATE
		SET skill_tags = EXCLUDED.skill_tags,
		    duration_hours = EXCLUDED.duration_hours,
		    rating = EXCLUDED.rating,
		    cost_tier = EXCLUDED.cost_tier,
		    url = EXCLUDED.url`

	if _, err := r.db.Exec(ctx, query,
		resource.Title, resource.Platform, tags,
		resource.DurationHours, resource.Rating, resource.CostTier, resource.URL,
	); err != nil {
		return fmt.Errorf("upsert resource %q: %w", resource.Title, err)
	}
	return nil
}
