package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// GuardianRepository manages guardian accounts and their student links.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// FindByID fetches a guardian account by id.
func (r *GuardianRepository) FindByID(ctx context.Context, id string) (*models.Guardian, error) {
	const query = `SELECT id, email, full_name, phone, country_code, role, password_hash, active, created_at, updated_at
        FROM guardians WHERE id = $1`
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, id); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// FindByEmail fetches a guardian account by case-insensitive email.
func (r *GuardianRepository) FindByEmail(ctx context.Context, email string) (*models.Guardian, error) {
	const query = `SELECT id, email, full_name, phone, country_code, role, password_hash, active, created_at, updated_at
        FROM guardians WHERE LOWER(email) = LOWER($1)`
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, email); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// Create inserts a new guardian account.
func (r *GuardianRepository) Create(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == "" {
		guardian.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if guardian.CreatedAt.IsZero() {
		guardian.CreatedAt = now
	}
	guardian.UpdatedAt = now
	const query = `INSERT INTO guardians (id, email, full_name, phone, country_code, role, password_hash, active, created_at, updated_at)
        VALUES (:id, :email, :full_name, :phone, :country_code, :role, :password_hash, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guardian); err != nil {
		return fmt.Errorf("create guardian: %w", err)
	}
	return nil
}

// CreateLink persists a guardian-student link.
func (r *GuardianRepository) CreateLink(ctx context.Context, link *models.GuardianStudent) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO guardian_students (id, guardian_id, student_id, school_id, relationship, created_at)
        VALUES (:id, :guardian_id, :student_id, :school_id, :relationship, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create guardian link: %w", err)
	}
	return nil
}
