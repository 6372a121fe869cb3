package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// SportRepository reads sport reference data and its child collections.
type SportRepository struct {
	db *sqlx.DB
}

// NewSportRepository constructs a SportRepository.
func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

// List returns all visible sports with distances and sub-types attached.
func (r *SportRepository) List(ctx context.Context) ([]models.SportDetail, error) {
	const query = `SELECT id, name, start_date, hidden, created_at, updated_at
        FROM sports WHERE hidden = false ORDER BY name`
	var sports []models.Sport
	if err := r.db.SelectContext(ctx, &sports, query); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}

	details := make([]models.SportDetail, 0, len(sports))
	for _, sport := range sports {
		detail, err := r.attachChildren(ctx, sport)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// FindByID fetches a sport by internal id, hidden or not.
func (r *SportRepository) FindByID(ctx context.Context, id string) (*models.SportDetail, error) {
	const query = `SELECT id, name, start_date, hidden, created_at, updated_at FROM sports WHERE id = $1`
	var sport models.Sport
	if err := r.db.GetContext(ctx, &sport, query, id); err != nil {
		return nil, err
	}
	return r.attachChildren(ctx, sport)
}

// FindByName matches a sport by case-insensitive exact name, excluding
// soft-hidden sports.
func (r *SportRepository) FindByName(ctx context.Context, name string) (*models.SportDetail, error) {
	const query = `SELECT id, name, start_date, hidden, created_at, updated_at
        FROM sports WHERE LOWER(name) = LOWER($1) AND hidden = false`
	var sport models.Sport
	if err := r.db.GetContext(ctx, &sport, query, name); err != nil {
		return nil, err
	}
	return r.attachChildren(ctx, sport)
}

func (r *SportRepository) attachChildren(ctx context.Context, sport models.Sport) (*models.SportDetail, error) {
	detail := &models.SportDetail{Sport: sport}

	const distanceQuery = `SELECT id, sport_id, name FROM distances WHERE sport_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &detail.Distances, distanceQuery, sport.ID); err != nil {
		return nil, fmt.Errorf("list distances: %w", err)
	}

	const subTypeQuery = `SELECT id, sport_id, name FROM sport_sub_types WHERE sport_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &detail.SubTypes, subTypeQuery, sport.ID); err != nil {
		return nil, fmt.Errorf("list sport sub types: %w", err)
	}

	return detail, nil
}
