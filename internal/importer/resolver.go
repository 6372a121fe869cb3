package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// ReferenceStore is the read-only view of reference data the resolver needs.
// Implementations return sql.ErrNoRows when nothing matches.
type ReferenceStore interface {
	FindSportByID(ctx context.Context, id string) (*models.SportDetail, error)
	// FindSportByName matches case-insensitively and excludes hidden sports.
	FindSportByName(ctx context.Context, name string) (*models.SportDetail, error)
	// ListAgeCategories returns every configured category ordered by label.
	ListAgeCategories(ctx context.Context) ([]models.AgeCategory, error)
}

// Resolver resolves the id-or-name reference fields of a row and enforces
// the sport's conditional requirements. Whether distance and sub-type are
// mandatory is derived from the sport's own child collections, never from
// the sport name, so a new sport's rules need no code change.
//
// One Resolver serves one batch: lookups are cached per batch so a hundred
// rows naming the same sport cost one query, without any cross-request
// shared state.
type Resolver struct {
	store  ReferenceStore
	logger *zap.Logger

	sports       map[string]*models.SportDetail
	sportMisses  map[string]struct{}
	categories   []models.AgeCategory
	categoriesOK bool
	warnedNoCats bool
}

// NewResolver builds a Resolver for a single batch.
func NewResolver(store ReferenceStore, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:       store,
		logger:      logger,
		sports:      make(map[string]*models.SportDetail),
		sportMisses: make(map[string]struct{}),
	}
}

// Resolve fills the row's reference ids in place and returns the list of
// resolution errors. Conditional distance/sub-type rules are evaluated only
// once the sport itself resolved.
func (r *Resolver) Resolve(ctx context.Context, row *StudentRow) []string {
	sport, err := r.resolveSport(ctx, row.Sport)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("sport lookup failed", zap.String("sport", row.Sport), zap.Error(err))
		}
		return []string{fmt.Sprintf("Sport '%s' not found", row.Sport)}
	}
	row.SportID = sport.ID

	var errs []string

	if len(sport.Distances) > 0 {
		if strings.TrimSpace(row.Distance) == "" {
			errs = append(errs, fmt.Sprintf("Distance is required for sport '%s'", sport.Name))
		} else if distance := matchDistance(sport.Distances, row.Distance); distance == nil {
			errs = append(errs, fmt.Sprintf("Distance '%s' not found for sport '%s'", row.Distance, sport.Name))
		} else {
			row.DistanceID = distance.ID
		}
	} else if strings.TrimSpace(row.Distance) != "" {
		errs = append(errs, fmt.Sprintf("Sport '%s' does not require distances", sport.Name))
	}

	if len(sport.SubTypes) > 0 {
		if strings.TrimSpace(row.SportSubType) == "" {
			errs = append(errs, fmt.Sprintf("Sub-type is required for sport '%s'", sport.Name))
		} else if subType := matchSubType(sport.SubTypes, row.SportSubType); subType == nil {
			errs = append(errs, fmt.Sprintf("Sub-type '%s' not found for sport '%s'", row.SportSubType, sport.Name))
		} else {
			row.SportSubTypeID = subType.ID
		}
	} else if strings.TrimSpace(row.SportSubType) != "" {
		errs = append(errs, fmt.Sprintf("Sport '%s' does not require sub-types", sport.Name))
	}

	if categoryErr := r.assignAgeCategory(ctx, row, sport); categoryErr != "" {
		errs = append(errs, categoryErr)
	}

	return errs
}

func (r *Resolver) resolveSport(ctx context.Context, value string) (*models.SportDetail, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if sport, ok := r.sports[key]; ok {
		return sport, nil
	}
	if _, ok := r.sportMisses[key]; ok {
		return nil, sql.ErrNoRows
	}

	var (
		sport *models.SportDetail
		err   error
	)
	if _, parseErr := uuid.Parse(strings.TrimSpace(value)); parseErr == nil {
		sport, err = r.store.FindSportByID(ctx, strings.TrimSpace(value))
	} else {
		sport, err = r.store.FindSportByName(ctx, strings.TrimSpace(value))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.sportMisses[key] = struct{}{}
		}
		return nil, err
	}

	r.sports[key] = sport
	return sport, nil
}

// assignAgeCategory computes the athlete's age at the sport's start date
// (now, when the sport has none) and picks the matching band. Zero
// configured categories is a setup problem that will fail every row, so it
// is surfaced once at warn level in addition to the per-row error.
func (r *Resolver) assignAgeCategory(ctx context.Context, row *StudentRow, sport *models.SportDetail) string {
	dob, err := time.Parse(DOBLayout, row.FormattedDOB)
	if err != nil {
		return msgDOBInvalid
	}

	if !r.categoriesOK {
		categories, err := r.store.ListAgeCategories(ctx)
		if err != nil {
			r.logger.Error("age category lookup failed", zap.Error(err))
			return "Failed to determine age category"
		}
		r.categories = categories
		r.categoriesOK = true
	}

	at := time.Now().UTC()
	if sport.StartDate != nil {
		at = *sport.StartDate
	}

	category, ok := SelectAgeCategory(r.categories, AgeAt(dob, at))
	if !ok {
		if !r.warnedNoCats {
			r.logger.Warn("no age categories configured; every row will be rejected")
			r.warnedNoCats = true
		}
		return "No age categories are configured"
	}

	row.AgeCategoryID = category.ID
	return ""
}

func matchDistance(distances []models.Distance, value string) *models.Distance {
	trimmed := strings.TrimSpace(value)
	byID := false
	if _, err := uuid.Parse(trimmed); err == nil {
		byID = true
	}
	for i := range distances {
		if byID && distances[i].ID == trimmed {
			return &distances[i]
		}
		if !byID && strings.EqualFold(distances[i].Name, trimmed) {
			return &distances[i]
		}
	}
	return nil
}

func matchSubType(subTypes []models.SportSubType, value string) *models.SportSubType {
	trimmed := strings.TrimSpace(value)
	byID := false
	if _, err := uuid.Parse(trimmed); err == nil {
		byID = true
	}
	for i := range subTypes {
		if byID && subTypes[i].ID == trimmed {
			return &subTypes[i]
		}
		if !byID && strings.EqualFold(subTypes[i].Name, trimmed) {
			return &subTypes[i]
		}
	}
	return nil
}
