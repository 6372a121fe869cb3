package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validRow() *StudentRow {
	return &StudentRow{
		RowNumber: 1,
		Name:      "Aisha Rahman",
		UID:       "ID-1001",
		DOB:       "14/09/2000",
		Gender:    "female",
		Sport:     "Swimming",
	}
}

func TestRowValidatorValidRow(t *testing.T) {
	v := NewRowValidator(nil)
	row := validRow()

	errs := v.Validate(row)
	require.Empty(t, errs)
	require.Equal(t, "14-Sep-2000", row.FormattedDOB)
}

func TestRowValidatorAccumulatesAllErrors(t *testing.T) {
	v := NewRowValidator(nil)
	row := &StudentRow{RowNumber: 1}

	errs := v.Validate(row)
	require.Equal(t, []string{
		"Name is required",
		"UID is required",
		"Sport is required",
		"Date of Birth is required",
		"Gender is required",
	}, errs)
}

func TestRowValidatorDOBErrors(t *testing.T) {
	v := NewRowValidator(nil)

	row := validRow()
	row.DOB = "garbage"
	errs := v.Validate(row)
	require.Equal(t, []string{"Invalid date format for DOB, accepted formats are DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD and DD-MMM-YYYY"}, errs)
	require.Empty(t, row.FormattedDOB)

	row = validRow()
	row.DOB = "31/04/2001"
	errs = v.Validate(row)
	require.Equal(t, []string{"Invalid date for DOB"}, errs)

	row = validRow()
	row.DOB = time.Now().UTC().AddDate(0, 0, 1).Format("02/01/2006")
	errs = v.Validate(row)
	require.Equal(t, []string{"DOB must be between 100 years ago and today"}, errs)

	row = validRow()
	row.DOB = time.Now().UTC().AddDate(-100, 0, -1).Format("02/01/2006")
	errs = v.Validate(row)
	require.Equal(t, []string{"DOB must be between 100 years ago and today"}, errs)
}

func TestRowValidatorDOBBoundsInclusive(t *testing.T) {
	v := NewRowValidator(nil)

	row := validRow()
	row.DOB = time.Now().UTC().Format("02/01/2006")
	require.Empty(t, v.Validate(row))

	row = validRow()
	row.DOB = time.Now().UTC().AddDate(-100, 0, 0).Format("02/01/2006")
	require.Empty(t, v.Validate(row))
}

func TestRowValidatorGenderEnum(t *testing.T) {
	v := NewRowValidator(nil)

	row := validRow()
	row.Gender = "unknown"
	errs := v.Validate(row)
	require.Equal(t, []string{"Gender must be one of male, female or other"}, errs)

	for _, gender := range []string{"male", "female", "other", "Male", " FEMALE "} {
		row = validRow()
		row.Gender = gender
		require.Empty(t, v.Validate(row), "gender %q", gender)
	}
}

func TestRowValidatorParentEmail(t *testing.T) {
	v := NewRowValidator(nil)

	row := validRow()
	row.ParentEmail = "not-an-email"
	errs := v.Validate(row)
	require.Equal(t, []string{"Invalid parent email"}, errs)

	row = validRow()
	row.ParentEmail = "parent@example.com"
	require.Empty(t, v.Validate(row))

	// Optional field: empty never errors.
	row = validRow()
	row.ParentEmail = ""
	require.Empty(t, v.Validate(row))
}

func TestRowValidatorIdempotent(t *testing.T) {
	v := NewRowValidator(nil)
	row := validRow()

	first := v.Validate(row)
	firstDOB := row.FormattedDOB
	second := v.Validate(row)

	require.Equal(t, first, second)
	require.Equal(t, firstDOB, row.FormattedDOB)

	bad := validRow()
	bad.Name = ""
	bad.Gender = "x"
	firstErrs := v.Validate(bad)
	secondErrs := v.Validate(bad)
	require.Equal(t, firstErrs, secondErrs)
}
