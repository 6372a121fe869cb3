package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
	appErrors "github.com/matchpoint-id/sports-reg-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByUID(ctx context.Context, uid string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for registering a single student.
type CreateStudentRequest struct {
	UID           string    `json:"uid" validate:"required"`
	FullName      string    `json:"full_name" validate:"required"`
	Gender        string    `json:"gender" validate:"required,oneof=male female other"`
	BirthDate     time.Time `json:"birth_date" validate:"required"`
	Nationality   string    `json:"nationality"`
	City          string    `json:"city"`
	Grade         string    `json:"grade"`
	BloodGroup    string    `json:"blood_group"`
	SportID       string    `json:"sport_id" validate:"required"`
	DistanceID    *string   `json:"distance_id"`
	SubTypeID     *string   `json:"sport_sub_type_id"`
	AgeCategoryID string    `json:"age_category_id" validate:"required"`
	MedicalNotes  string    `json:"medical_notes"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	FullName      string    `json:"full_name" validate:"required"`
	Gender        string    `json:"gender" validate:"required,oneof=male female other"`
	BirthDate     time.Time `json:"birth_date" validate:"required"`
	Nationality   string    `json:"nationality"`
	City          string    `json:"city"`
	Grade         string    `json:"grade"`
	BloodGroup    string    `json:"blood_group"`
	SportID       string    `json:"sport_id" validate:"required"`
	DistanceID    *string   `json:"distance_id"`
	SubTypeID     *string   `json:"sport_sub_type_id"`
	AgeCategoryID string    `json:"age_category_id" validate:"required"`
	MedicalNotes  string    `json:"medical_notes"`
	Active        bool      `json:"active"`
}

// StudentService handles student use-cases outside the bulk pipeline.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns detailed student information.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a single student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.repo.ExistsByUID(ctx, req.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate uid")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "uid already used")
	}
	student := &models.Student{
		UID:            req.UID,
		FullName:       req.FullName,
		Gender:         req.Gender,
		BirthDate:      req.BirthDate,
		Nationality:    req.Nationality,
		City:           req.City,
		Grade:          req.Grade,
		BloodGroup:     req.BloodGroup,
		SportID:        req.SportID,
		DistanceID:     req.DistanceID,
		SportSubTypeID: req.SubTypeID,
		AgeCategoryID:  req.AgeCategoryID,
		MedicalNotes:   req.MedicalNotes,
		Active:         true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student record. The UID is immutable.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	student := detail.Student
	student.FullName = req.FullName
	student.Gender = req.Gender
	student.BirthDate = req.BirthDate
	student.Nationality = req.Nationality
	student.City = req.City
	student.Grade = req.Grade
	student.BloodGroup = req.BloodGroup
	student.SportID = req.SportID
	student.DistanceID = req.DistanceID
	student.SportSubTypeID = req.SubTypeID
	student.AgeCategoryID = req.AgeCategoryID
	student.MedicalNotes = req.MedicalNotes
	student.Active = req.Active
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &student, nil
}

// Deactivate marks a student inactive.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	return nil
}
