package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/matchpoint-id/sports-reg-api/internal/dto"
	"github.com/matchpoint-id/sports-reg-api/internal/importer"
	"github.com/matchpoint-id/sports-reg-api/internal/models"
	appErrors "github.com/matchpoint-id/sports-reg-api/pkg/errors"
	"github.com/matchpoint-id/sports-reg-api/pkg/export"
	"github.com/matchpoint-id/sports-reg-api/pkg/mail"
	"github.com/matchpoint-id/sports-reg-api/pkg/storage"
)

type importStudentRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type importGuardianRepo interface {
	FindByID(ctx context.Context, id string) (*models.Guardian, error)
	FindByEmail(ctx context.Context, email string) (*models.Guardian, error)
	Create(ctx context.Context, guardian *models.Guardian) error
	CreateLink(ctx context.Context, link *models.GuardianStudent) error
}

type sportReader interface {
	FindByID(ctx context.Context, id string) (*models.SportDetail, error)
	FindByName(ctx context.Context, name string) (*models.SportDetail, error)
}

type ageCategoryReader interface {
	List(ctx context.Context) ([]models.AgeCategory, error)
}

// referenceStore adapts the repositories to the resolver's read interface.
type referenceStore struct {
	sports     sportReader
	categories ageCategoryReader
}

func (r referenceStore) FindSportByID(ctx context.Context, id string) (*models.SportDetail, error) {
	return r.sports.FindByID(ctx, id)
}

func (r referenceStore) FindSportByName(ctx context.Context, name string) (*models.SportDetail, error) {
	return r.sports.FindByName(ctx, name)
}

func (r referenceStore) ListAgeCategories(ctx context.Context) ([]models.AgeCategory, error) {
	return r.categories.List(ctx)
}

// ImportInput carries one bulk-upload invocation. Either File or
// ConfirmedRows is set; confirmed rows come from the preview-then-confirm
// flow and are fully re-validated and re-resolved, never trusted as-is.
type ImportInput struct {
	File          io.Reader
	Ext           string
	ConfirmedRows []importer.StudentRow
	Actor         models.Claims
}

// ImportService runs the bulk student-import pipeline: decode, map,
// validate, resolve, then the per-row commit gate. Rows fail independently;
// no row error ever aborts the batch.
type ImportService struct {
	decoder   *importer.Decoder
	mapper    *importer.Mapper
	rows      *importer.RowValidator
	refs      importer.ReferenceStore
	students  importStudentRepo
	guardians importGuardianRepo
	mailer    mail.Mailer
	store     storage.Storage
	reportDir string
	logger    *zap.Logger
}

// NewImportService constructs the import service. store may be nil, in which
// case no report artifacts are written.
func NewImportService(
	students importStudentRepo,
	guardians importGuardianRepo,
	sports sportReader,
	categories ageCategoryReader,
	mailer mail.Mailer,
	store storage.Storage,
	reportDir string,
	validate *validator.Validate,
	logger *zap.Logger,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = mail.NewConsoleMailer(logger)
	}
	return &ImportService{
		decoder:   importer.NewDecoder(logger),
		mapper:    importer.NewMapper(),
		rows:      importer.NewRowValidator(validate),
		refs:      referenceStore{sports: sports, categories: categories},
		students:  students,
		guardians: guardians,
		mailer:    mailer,
		store:     store,
		reportDir: reportDir,
		logger:    logger,
	}
}

// Preview parses and checks an upload without committing anything.
func (s *ImportService) Preview(ctx context.Context, file io.Reader, ext string) (*dto.ImportPreview, error) {
	rows := s.decodeAndMap(file, ext)

	resolver := importer.NewResolver(s.refs, s.logger)
	seen := make(map[string]int)
	preview := &dto.ImportPreview{
		ValidRows: []importer.StudentRow{},
		Errors:    []dto.ImportPreviewError{},
	}

	for _, row := range rows {
		preview.TotalRows++

		errs := s.rows.Validate(row)
		if len(errs) == 0 {
			errs = resolver.Resolve(ctx, row)
		}
		if len(errs) == 0 {
			if dupErr := s.duplicateError(ctx, seen, row); dupErr != "" {
				errs = append(errs, dupErr)
			}
		}

		if len(errs) > 0 {
			preview.Errors = append(preview.Errors, dto.ImportPreviewError{
				StudentRow: *row,
				Error:      strings.Join(errs, "; "),
			})
			continue
		}
		preview.ValidRows = append(preview.ValidRows, *row)
	}

	if preview.TotalRows == 0 {
		s.logger.Warn("upload produced no data rows", zap.String("ext", ext))
	}

	return preview, nil
}

// Import validates, resolves and commits a batch. Rows are processed
// strictly in file order: each commit must be visible to the duplicate
// check of every later row.
func (s *ImportService) Import(ctx context.Context, input ImportInput) (*dto.ImportResult, error) {
	var rows []*importer.StudentRow
	if len(input.ConfirmedRows) > 0 {
		rows = make([]*importer.StudentRow, 0, len(input.ConfirmedRows))
		for i := range input.ConfirmedRows {
			row := input.ConfirmedRows[i]
			if row.RowNumber == 0 {
				row.RowNumber = i + 1
			}
			row.FormattedDOB = ""
			rows = append(rows, &row)
		}
	} else {
		rows = s.decodeAndMap(input.File, input.Ext)
	}

	resolver := importer.NewResolver(s.refs, s.logger)
	seen := make(map[string]int)
	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	var failed []export.FailedRow

	for _, row := range rows {
		errs := s.rows.Validate(row)
		if len(errs) == 0 {
			errs = resolver.Resolve(ctx, row)
		}
		if len(errs) == 0 {
			if dupErr := s.duplicateError(ctx, seen, row); dupErr != "" {
				errs = append(errs, dupErr)
			}
		}
		if len(errs) == 0 {
			if commitErr := s.commitRow(ctx, row, input.Actor); commitErr != "" {
				errs = append(errs, commitErr)
			}
		}

		if len(errs) > 0 {
			rowErr := rowError(row, errs)
			result.Errors = append(result.Errors, rowErr)
			failed = append(failed, export.FailedRow{Row: rowErr.Row, UID: rowErr.UID, Name: rowErr.Name, Reason: rowErr.Error})
			continue
		}
		result.SuccessCount++
	}

	s.writeReports(ctx, result, len(rows), failed)

	return result, nil
}

// TemplateCSV returns the canonical spreadsheet template served to clients.
func (s *ImportService) TemplateCSV() []byte {
	return []byte(strings.Join(importer.TemplateHeaders, ",") + "\n")
}

func (s *ImportService) decodeAndMap(file io.Reader, ext string) []*importer.StudentRow {
	raws := s.decoder.Decode(file, ext)

	rows := make([]*importer.StudentRow, 0, len(raws))
	for i, raw := range raws {
		row, skipped := s.mapper.Map(raw, i+1)
		if skipped {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// duplicateError enforces uid uniqueness both within the batch and against
// the store. The first in-file occurrence of a uid claims it; later
// occurrences are rejected no matter how the first one fares.
func (s *ImportService) duplicateError(ctx context.Context, seen map[string]int, row *importer.StudentRow) string {
	uid := strings.TrimSpace(row.UID)
	if firstRow, ok := seen[uid]; ok {
		return fmt.Sprintf("UID '%s' is duplicated within the file (first used in row %d)", uid, firstRow)
	}
	seen[uid] = row.RowNumber

	if _, err := s.students.FindByUID(ctx, uid); err == nil {
		return fmt.Sprintf("UID '%s' already exists", uid)
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("uid uniqueness check failed", zap.String("uid", uid), zap.Error(err))
		return "Failed to verify UID uniqueness"
	}
	return ""
}

// commitRow performs the per-row write sequence: resolve the guardian,
// insert the student, insert the link. Only the student+link pair is atomic,
// via the compensating delete; the batch as a whole is not.
func (s *ImportService) commitRow(ctx context.Context, row *importer.StudentRow, actor models.Claims) string {
	guardian, errMsg := s.resolveGuardian(ctx, row, actor)
	if errMsg != "" {
		return errMsg
	}

	student, err := buildStudent(row)
	if err != nil {
		s.logger.Error("failed to build student record", zap.Int("row", row.RowNumber), zap.Error(err))
		return "Failed to save student"
	}
	if err := s.students.Create(ctx, student); err != nil {
		s.logger.Error("failed to save student", zap.String("uid", row.UID), zap.Error(err))
		return "Failed to save student"
	}

	link := &models.GuardianStudent{
		GuardianID:   guardian.ID,
		StudentID:    student.ID,
		Relationship: normalizeRelationship(row.Relationship),
	}
	if actor.Role == models.RoleSchool {
		schoolID := actor.AccountID
		link.SchoolID = &schoolID
	}

	if err := s.guardians.CreateLink(ctx, link); err != nil {
		s.logger.Error("failed to link guardian to student",
			zap.String("uid", row.UID),
			zap.String("guardian_id", guardian.ID),
			zap.Error(err),
		)
		if delErr := s.students.Delete(ctx, student.ID); delErr != nil {
			// The one failure that must never be swallowed quietly: the
			// student row is now orphaned and needs manual cleanup.
			s.logger.Error("compensating delete failed, orphaned student requires manual cleanup",
				zap.String("student_id", student.ID),
				zap.String("uid", row.UID),
				zap.Error(delErr),
			)
		}
		return "Failed to link guardian to student"
	}

	return ""
}

// resolveGuardian picks the responsible account for a row. Parents are their
// own guardian; school submitters resolve or create the parent account by
// email, and a fresh account triggers a welcome email.
func (s *ImportService) resolveGuardian(ctx context.Context, row *importer.StudentRow, actor models.Claims) (*models.Guardian, string) {
	if actor.Role != models.RoleSchool {
		guardian, err := s.guardians.FindByID(ctx, actor.AccountID)
		if err != nil {
			s.logger.Error("failed to load submitting guardian", zap.String("account_id", actor.AccountID), zap.Error(err))
			return nil, "Failed to resolve guardian account"
		}
		return guardian, ""
	}

	email := strings.ToLower(strings.TrimSpace(row.ParentEmail))
	if email == "" {
		return nil, "Parent Email is required for school uploads"
	}

	guardian, err := s.guardians.FindByEmail(ctx, email)
	if err == nil {
		return guardian, ""
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("guardian lookup failed", zap.String("email", email), zap.Error(err))
		return nil, "Failed to resolve guardian account"
	}

	name := strings.TrimSpace(row.ParentName)
	if name == "" {
		name = row.Name
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, "Failed to create guardian account"
	}
	guardian = &models.Guardian{
		Email:        email,
		FullName:     name,
		Phone:        row.PhoneNumber,
		CountryCode:  row.CountryCode,
		Role:         models.RoleParent,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.guardians.Create(ctx, guardian); err != nil {
		s.logger.Error("failed to create guardian account", zap.String("email", email), zap.Error(err))
		return nil, "Failed to create guardian account"
	}

	if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
		s.logger.Warn("failed to send welcome email", zap.String("email", email), zap.Error(err))
	}

	return guardian, ""
}

// writeReports renders the failed-rows CSV and summary PDF for the batch.
// Report failures never fail the import.
func (s *ImportService) writeReports(ctx context.Context, result *dto.ImportResult, total int, failed []export.FailedRow) {
	if s.store == nil || total == 0 {
		return
	}
	batchID := uuid.NewString()

	if len(failed) > 0 {
		csvBytes, err := export.FailedRowsCSV(failed)
		if err != nil {
			s.logger.Warn("failed to render error csv", zap.Error(err))
		} else {
			key := fmt.Sprintf("%s/import-%s-errors.csv", s.reportDir, batchID)
			if err := s.store.Upload(ctx, key, bytes.NewReader(csvBytes)); err != nil {
				s.logger.Warn("failed to store error csv", zap.Error(err))
			} else {
				result.ReportCSV = key
			}
		}
	}

	pdfBytes, err := export.ImportSummaryPDF("Student Import Report", total, result.SuccessCount, failed)
	if err != nil {
		s.logger.Warn("failed to render import report pdf", zap.Error(err))
		return
	}
	key := fmt.Sprintf("%s/import-%s-summary.pdf", s.reportDir, batchID)
	if err := s.store.Upload(ctx, key, bytes.NewReader(pdfBytes)); err != nil {
		s.logger.Warn("failed to store import report pdf", zap.Error(err))
		return
	}
	result.ReportPDF = key
}

func buildStudent(row *importer.StudentRow) (*models.Student, error) {
	birthDate, err := time.Parse(importer.DOBLayout, row.FormattedDOB)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid formatted dob")
	}

	student := &models.Student{
		UID:           strings.TrimSpace(row.UID),
		FullName:      strings.TrimSpace(row.Name),
		Gender:        strings.ToLower(strings.TrimSpace(row.Gender)),
		BirthDate:     birthDate,
		Nationality:   row.Nationality,
		City:          row.City,
		Grade:         row.Grade,
		BloodGroup:    row.BloodGroup,
		SportID:       row.SportID,
		AgeCategoryID: row.AgeCategoryID,
		MedicalNotes:  row.MedicalNotes,
		Active:        true,
	}
	if row.DistanceID != "" {
		distanceID := row.DistanceID
		student.DistanceID = &distanceID
	}
	if row.SportSubTypeID != "" {
		subTypeID := row.SportSubTypeID
		student.SportSubTypeID = &subTypeID
	}
	return student, nil
}

func normalizeRelationship(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.RelationshipFather:
		return models.RelationshipFather
	case models.RelationshipMother:
		return models.RelationshipMother
	case models.RelationshipGuardian, "":
		return models.RelationshipGuardian
	case models.RelationshipCoach:
		return models.RelationshipCoach
	default:
		return models.RelationshipOther
	}
}

func rowError(row *importer.StudentRow, errs []string) dto.ImportRowError {
	return dto.ImportRowError{
		Row:   row.RowNumber,
		UID:   row.UID,
		Name:  row.Name,
		Error: strings.Join(errs, "; "),
	}
}
