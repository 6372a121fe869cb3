package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// AgeCategoryRepository reads the configured age bands.
type AgeCategoryRepository struct {
	db *sqlx.DB
}

// NewAgeCategoryRepository constructs an AgeCategoryRepository.
func NewAgeCategoryRepository(db *sqlx.DB) *AgeCategoryRepository {
	return &AgeCategoryRepository{db: db}
}

// List returns every age category ordered by label. Label order is the order
// category selection walks, so narrow bands must sort before wide ones.
func (r *AgeCategoryRepository) List(ctx context.Context) ([]models.AgeCategory, error) {
	const query = `SELECT id, label, max_age FROM age_categories ORDER BY label`
	var categories []models.AgeCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list age categories: %w", err)
	}
	return categories, nil
}
