package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
        JOIN sports sp ON sp.id = s.sport_id
        JOIN age_categories ac ON ac.id = s.age_category_id
        LEFT JOIN distances d ON d.id = s.distance_id`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.SportID != "" {
		conditions = append(conditions, fmt.Sprintf("s.sport_id = $%d", len(args)+1))
		args = append(args, filter.SportID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("s.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR LOWER(s.uid) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"full_name":  "s.full_name",
		"uid":        "s.uid",
		"created_at": "s.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.uid, s.full_name, s.gender, s.birth_date, s.nationality, s.city, s.grade,
        s.blood_group, s.sport_id, s.distance_id, s.sport_sub_type_id, s.age_category_id, s.medical_notes,
        s.active, s.created_at, s.updated_at,
        sp.name AS sport_name, d.name AS distance_name, ac.label AS age_category_label
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by internal id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := `SELECT s.id, s.uid, s.full_name, s.gender, s.birth_date, s.nationality, s.city, s.grade,
        s.blood_group, s.sport_id, s.distance_id, s.sport_sub_type_id, s.age_category_id, s.medical_notes,
        s.active, s.created_at, s.updated_at,
        sp.name AS sport_name, d.name AS distance_name, ac.label AS age_category_label
        FROM students s
        JOIN sports sp ON sp.id = s.sport_id
        JOIN age_categories ac ON ac.id = s.age_category_id
        LEFT JOIN distances d ON d.id = s.distance_id
        WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByUID fetches a student by the external unique identifier. This is the
// authoritative duplicate check the import commit path relies on.
func (r *StudentRepository) FindByUID(ctx context.Context, uid string) (*models.Student, error) {
	const query = `SELECT id, uid, full_name, gender, birth_date, nationality, city, grade, blood_group,
        sport_id, distance_id, sport_sub_type_id, age_category_id, medical_notes, active, created_at, updated_at
        FROM students WHERE uid = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, uid); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, uid, full_name, gender, birth_date, nationality, city, grade, blood_group,
        sport_id, distance_id, sport_sub_type_id, age_category_id, medical_notes, active, created_at, updated_at)
        VALUES (:id, :uid, :full_name, :gender, :birth_date, :nationality, :city, :grade, :blood_group,
        :sport_id, :distance_id, :sport_sub_type_id, :age_category_id, :medical_notes, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET uid = :uid, full_name = :full_name, gender = :gender, birth_date = :birth_date,
        nationality = :nationality, city = :city, grade = :grade, blood_group = :blood_group,
        sport_id = :sport_id, distance_id = :distance_id, sport_sub_type_id = :sport_sub_type_id,
        age_category_id = :age_category_id, medical_notes = :medical_notes, active = :active,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}

// Delete removes a student row. Used only as the compensating action when
// the guardian link could not be created after the student was inserted.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ExistsByUID reports whether a student with the given UID exists.
func (r *StudentRepository) ExistsByUID(ctx context.Context, uid string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE uid = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check uid: %w", err)
	}
	return true, nil
}
