package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchpoint-id/sports-reg-api/internal/importer"
	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

type studentRepoMock struct {
	byUID   map[string]*models.Student
	created []*models.Student
	deleted []string

	createErr  error
	findUIDErr error
}

func newStudentRepoMock() *studentRepoMock {
	return &studentRepoMock{byUID: make(map[string]*models.Student)}
}

func (m *studentRepoMock) FindByUID(ctx context.Context, uid string) (*models.Student, error) {
	if m.findUIDErr != nil {
		return nil, m.findUIDErr
	}
	if student, ok := m.byUID[uid]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *studentRepoMock) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if student.ID == "" {
		student.ID = fmt.Sprintf("student-%d", len(m.created)+1)
	}
	m.created = append(m.created, student)
	m.byUID[student.UID] = student
	return nil
}

func (m *studentRepoMock) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	for uid, student := range m.byUID {
		if student.ID == id {
			delete(m.byUID, uid)
		}
	}
	return nil
}

type guardianRepoMock struct {
	byID    map[string]*models.Guardian
	byEmail map[string]*models.Guardian
	created []*models.Guardian
	links   []*models.GuardianStudent

	linkErr    error
	linkErrFor map[string]error
}

func newGuardianRepoMock() *guardianRepoMock {
	return &guardianRepoMock{
		byID:    make(map[string]*models.Guardian),
		byEmail: make(map[string]*models.Guardian),
	}
}

func (m *guardianRepoMock) add(g *models.Guardian) {
	m.byID[g.ID] = g
	m.byEmail[strings.ToLower(g.Email)] = g
}

func (m *guardianRepoMock) FindByID(ctx context.Context, id string) (*models.Guardian, error) {
	if g, ok := m.byID[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *guardianRepoMock) FindByEmail(ctx context.Context, email string) (*models.Guardian, error) {
	if g, ok := m.byEmail[strings.ToLower(email)]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *guardianRepoMock) Create(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == "" {
		guardian.ID = fmt.Sprintf("guardian-%d", len(m.created)+1)
	}
	m.created = append(m.created, guardian)
	m.add(guardian)
	return nil
}

func (m *guardianRepoMock) CreateLink(ctx context.Context, link *models.GuardianStudent) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	if err, ok := m.linkErrFor[link.StudentID]; ok {
		return err
	}
	m.links = append(m.links, link)
	return nil
}

type sportReaderMock struct {
	sports []models.SportDetail
}

func (m *sportReaderMock) FindByID(ctx context.Context, id string) (*models.SportDetail, error) {
	for i := range m.sports {
		if m.sports[i].ID == id {
			return &m.sports[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *sportReaderMock) FindByName(ctx context.Context, name string) (*models.SportDetail, error) {
	for i := range m.sports {
		if strings.EqualFold(m.sports[i].Name, name) {
			return &m.sports[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type ageCategoryReaderMock struct {
	categories []models.AgeCategory
}

func (m *ageCategoryReaderMock) List(ctx context.Context) ([]models.AgeCategory, error) {
	return m.categories, nil
}

type mailerMock struct {
	sent []string
}

func (m *mailerMock) SendWelcome(ctx context.Context, toEmail, toName string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

type importFixture struct {
	svc       *ImportService
	students  *studentRepoMock
	guardians *guardianRepoMock
	mailer    *mailerMock
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	students := newStudentRepoMock()
	guardians := newGuardianRepoMock()
	guardians.add(&models.Guardian{ID: "parent-1", Email: "parent@example.com", FullName: "Siti Rahman", Role: models.RoleParent, Active: true})
	guardians.add(&models.Guardian{ID: "school-1", Email: "admin@school.test", FullName: "Springfield High", Role: models.RoleSchool, Active: true})

	sports := &sportReaderMock{sports: []models.SportDetail{
		{
			Sport: models.Sport{ID: "sport-swim", Name: "Swimming"},
			Distances: []models.Distance{
				{ID: "d100", SportID: "sport-swim", Name: "100m"},
			},
			SubTypes: []models.SportSubType{
				{ID: "st-free", SportID: "sport-swim", Name: "Freestyle"},
			},
		},
		{Sport: models.Sport{ID: "sport-chess", Name: "Chess"}},
	}}
	categories := &ageCategoryReaderMock{categories: []models.AgeCategory{
		{ID: "c12", Label: "Under 12"},
		{ID: "c17", Label: "Under 17"},
		{ID: "open", Label: "Open", MaxAge: 99},
	}}
	mailer := &mailerMock{}

	svc := NewImportService(students, guardians, sports, categories, mailer, nil, "reports", nil, nil)
	return &importFixture{svc: svc, students: students, guardians: guardians, mailer: mailer}
}

func parentActor() models.Claims {
	return models.Claims{AccountID: "parent-1", Email: "parent@example.com", Role: models.RoleParent}
}

func schoolActor() models.Claims {
	return models.Claims{AccountID: "school-1", Email: "admin@school.test", Role: models.RoleSchool}
}

func dobYearsAgo(years int) string {
	return time.Now().UTC().AddDate(-years, 0, -30).Format("02/01/2006")
}

func uploadCSV(rows ...string) *strings.Reader {
	lines := append([]string{strings.Join(importer.TemplateHeaders, ",")}, rows...)
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func csvRow(name, uid, dob, gender, sport, distance, subType string) string {
	return fmt.Sprintf("%s,%s,%s,%s,,,,,,%s,%s,%s,,,,,", name, uid, dob, gender, sport, distance, subType)
}

func TestImportServicePreview(t *testing.T) {
	fx := newImportFixture(t)

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Swimming", "100m", "Freestyle"),
		csvRow("", "ID-1002", "bad-date", "robot", "Swimming", "", ""),
		csvRow("Budi Santoso", "ID-1003", dobYearsAgo(10), "male", "Chess", "", ""),
	)

	preview, err := fx.svc.Preview(context.Background(), file, "csv")
	require.NoError(t, err)
	require.Equal(t, 3, preview.TotalRows)
	require.Len(t, preview.ValidRows, 2)
	require.Len(t, preview.Errors, 1)

	require.Equal(t, "c17", preview.ValidRows[0].AgeCategoryID)
	require.Equal(t, "sport-swim", preview.ValidRows[0].SportID)
	require.Equal(t, "c12", preview.ValidRows[1].AgeCategoryID)

	bad := preview.Errors[0]
	require.Equal(t, 2, bad.RowNumber)
	require.Contains(t, bad.Error, "Name is required")
	require.Contains(t, bad.Error, "Invalid date format for DOB")
	require.Contains(t, bad.Error, "Gender must be one of male, female or other")

	// Preview never writes.
	require.Empty(t, fx.students.created)
	require.Empty(t, fx.guardians.links)
}

func TestImportServicePreviewErrorsCarryMappedFields(t *testing.T) {
	fx := newImportFixture(t)

	dob := dobYearsAgo(16)
	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dob, "", "Swimming", "100m", "Freestyle"),
	)

	preview, err := fx.svc.Preview(context.Background(), file, "csv")
	require.NoError(t, err)
	require.Len(t, preview.Errors, 1)

	bad := preview.Errors[0]
	require.Equal(t, "Gender is required", bad.Error)

	// The client edits the rejected row in place and resubmits it, so the
	// error entry must echo every mapped field, not just the identifiers.
	require.Equal(t, 1, bad.RowNumber)
	require.Equal(t, "Aisha Rahman", bad.Name)
	require.Equal(t, "ID-1001", bad.UID)
	require.Equal(t, dob, bad.DOB)
	require.Equal(t, "Swimming", bad.Sport)
	require.Equal(t, "100m", bad.Distance)
	require.Equal(t, "Freestyle", bad.SportSubType)
	require.Empty(t, bad.Gender)

	encoded, err := json.Marshal(bad)
	require.NoError(t, err)
	var keys map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &keys))
	for _, key := range []string{"rowNumber", "name", "uid", "dob", "gender", "sport", "distance", "error"} {
		require.Contains(t, keys, key)
	}
}

func TestImportServicePreviewEmptyUpload(t *testing.T) {
	fx := newImportFixture(t)

	preview, err := fx.svc.Preview(context.Background(), strings.NewReader(""), "csv")
	require.NoError(t, err)
	require.Zero(t, preview.TotalRows)
	require.Empty(t, preview.ValidRows)
	require.Empty(t, preview.Errors)
}

func TestImportServiceCommitsRowsInOrder(t *testing.T) {
	fx := newImportFixture(t)

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Swimming", "100m", "Freestyle"),
		csvRow("Budi Santoso", "ID-1002", dobYearsAgo(10), "male", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Equal(t, 2, result.SuccessCount)
	require.Empty(t, result.Errors)

	require.Len(t, fx.students.created, 2)
	require.Equal(t, "ID-1001", fx.students.created[0].UID)
	require.True(t, fx.students.created[0].Active)
	require.Equal(t, "sport-swim", fx.students.created[0].SportID)
	require.NotNil(t, fx.students.created[0].DistanceID)
	require.Equal(t, "d100", *fx.students.created[0].DistanceID)

	require.Len(t, fx.guardians.links, 2)
	require.Equal(t, "parent-1", fx.guardians.links[0].GuardianID)
	require.Nil(t, fx.guardians.links[0].SchoolID)
	require.Equal(t, models.RelationshipGuardian, fx.guardians.links[0].Relationship)
}

func TestImportServiceMixedBatchCommitsOnlyValidRows(t *testing.T) {
	fx := newImportFixture(t)

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
		csvRow("Budi Santoso", "ID-1002", dobYearsAgo(12), "", "Chess", "", ""),
		csvRow("Citra Lestari", "ID-1003", dobYearsAgo(14), "female", "Quidditch", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Errors, 2)

	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, "Gender is required", result.Errors[0].Error)
	require.Equal(t, 3, result.Errors[1].Row)
	require.Equal(t, "Sport 'Quidditch' not found", result.Errors[1].Error)

	require.Len(t, fx.students.created, 1)
	require.Equal(t, "ID-1001", fx.students.created[0].UID)
	require.Len(t, fx.guardians.links, 1)
}

func TestImportServiceRejectsDuplicateUIDWithinFile(t *testing.T) {
	fx := newImportFixture(t)

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
		csvRow("Imposter One", "ID-1001", dobYearsAgo(12), "male", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, "UID 'ID-1001' is duplicated within the file (first used in row 1)", result.Errors[0].Error)
	require.Len(t, fx.students.created, 1)
}

func TestImportServiceRejectsExistingUID(t *testing.T) {
	fx := newImportFixture(t)
	fx.students.byUID["ID-1001"] = &models.Student{ID: "student-existing", UID: "ID-1001"}

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Zero(t, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "UID 'ID-1001' already exists", result.Errors[0].Error)
	require.Empty(t, fx.students.created)
}

func TestImportServiceUIDCheckInfrastructureFailure(t *testing.T) {
	fx := newImportFixture(t)
	fx.students.findUIDErr = errors.New("connection reset")

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Zero(t, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Failed to verify UID uniqueness", result.Errors[0].Error)
}

func TestImportServiceCompensatingDeleteOnLinkFailure(t *testing.T) {
	fx := newImportFixture(t)
	fx.guardians.linkErr = errors.New("constraint violation")

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Zero(t, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Failed to link guardian to student", result.Errors[0].Error)

	// The student inserted before the link failed must be rolled back.
	require.Len(t, fx.students.created, 1)
	require.Equal(t, []string{fx.students.created[0].ID}, fx.students.deleted)
}

func TestImportServiceRowFailuresAreIndependent(t *testing.T) {
	fx := newImportFixture(t)
	fx.guardians.linkErrFor = map[string]error{"student-2": errors.New("boom")}

	file := uploadCSV(
		csvRow("Row One", "ID-1", dobYearsAgo(10), "male", "Chess", "", ""),
		csvRow("Row Two", "ID-2", dobYearsAgo(11), "male", "Chess", "", ""),
		csvRow("Row Three", "ID-3", dobYearsAgo(12), "male", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: parentActor()})
	require.NoError(t, err)
	require.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, "ID-2", result.Errors[0].UID)
}

func TestImportServiceSchoolUploadCreatesGuardian(t *testing.T) {
	fx := newImportFixture(t)

	row := fmt.Sprintf("Aisha Rahman,ID-1001,%s,female,,,,,mother,Chess,,,new.parent@example.com,Siti Rahman,81234,+62,", dobYearsAgo(16))
	file := uploadCSV(row)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: schoolActor()})
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)

	require.Len(t, fx.guardians.created, 1)
	created := fx.guardians.created[0]
	require.Equal(t, "new.parent@example.com", created.Email)
	require.Equal(t, "Siti Rahman", created.FullName)
	require.Equal(t, models.RoleParent, created.Role)
	require.True(t, created.Active)
	require.NotEmpty(t, created.PasswordHash)

	require.Equal(t, []string{"new.parent@example.com"}, fx.mailer.sent)

	require.Len(t, fx.guardians.links, 1)
	link := fx.guardians.links[0]
	require.Equal(t, created.ID, link.GuardianID)
	require.NotNil(t, link.SchoolID)
	require.Equal(t, "school-1", *link.SchoolID)
	require.Equal(t, models.RelationshipMother, link.Relationship)
}

func TestImportServiceSchoolUploadReusesGuardian(t *testing.T) {
	fx := newImportFixture(t)

	row := fmt.Sprintf("Aisha Rahman,ID-1001,%s,female,,,,,,Chess,,,PARENT@example.com,,,,", dobYearsAgo(16))
	file := uploadCSV(row)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: schoolActor()})
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)
	require.Empty(t, fx.guardians.created)
	require.Empty(t, fx.mailer.sent)
	require.Equal(t, "parent-1", fx.guardians.links[0].GuardianID)
}

func TestImportServiceSchoolUploadRequiresParentEmail(t *testing.T) {
	fx := newImportFixture(t)

	file := uploadCSV(
		csvRow("Aisha Rahman", "ID-1001", dobYearsAgo(16), "female", "Chess", "", ""),
	)

	result, err := fx.svc.Import(context.Background(), ImportInput{File: file, Ext: "csv", Actor: schoolActor()})
	require.NoError(t, err)
	require.Zero(t, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Parent Email is required for school uploads", result.Errors[0].Error)
	require.Empty(t, fx.students.created)
}

func TestImportServiceConfirmedRowsAreRevalidated(t *testing.T) {
	fx := newImportFixture(t)

	rows := []importer.StudentRow{
		{
			Name:   "Aisha Rahman",
			UID:    "ID-1001",
			DOB:    dobYearsAgo(16),
			Gender: "female",
			Sport:  "Chess",
			// A stale resolved id from the preview must be recomputed.
			SportID:      "tampered",
			FormattedDOB: "01-Jan-1900",
		},
		{
			Name:   "Broken Row",
			UID:    "ID-1002",
			DOB:    "not-a-date",
			Gender: "female",
			Sport:  "Chess",
		},
	}

	result, err := fx.svc.Import(context.Background(), ImportInput{ConfirmedRows: rows, Actor: parentActor()})
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 2, result.Errors[0].Row)
	require.Contains(t, result.Errors[0].Error, "Invalid date format for DOB")

	require.Len(t, fx.students.created, 1)
	require.Equal(t, "sport-chess", fx.students.created[0].SportID)
}

func TestImportServiceTemplateCSV(t *testing.T) {
	fx := newImportFixture(t)
	template := string(fx.svc.TemplateCSV())
	require.Equal(t, strings.Join(importer.TemplateHeaders, ",")+"\n", template)
	require.Contains(t, template, "Date of Birth (DD-MMM-YYYY) *")
}
