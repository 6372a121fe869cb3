package importer

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Fixed user-facing validation messages. Clients match on these strings, so
// changes here are breaking.
const (
	msgNameRequired   = "Name is required"
	msgUIDRequired    = "UID is required"
	msgSportRequired  = "Sport is required"
	msgDOBRequired    = "Date of Birth is required"
	msgGenderRequired = "Gender is required"
	msgDOBFormat      = "Invalid date format for DOB, accepted formats are DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD and DD-MMM-YYYY"
	msgDOBInvalid     = "Invalid date for DOB"
	msgDOBRange       = "DOB must be between 100 years ago and today"
	msgGenderEnum     = "Gender must be one of male, female or other"
	msgParentEmail    = "Invalid parent email"
)

var validGenders = map[string]struct{}{
	"male": {}, "female": {}, "other": {},
}

// RowValidator checks one canonical row and accumulates every violation; it
// never stops at the first failure, so a bad row reports all of its problems
// in a single pass.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator builds a RowValidator.
func NewRowValidator(validate *validator.Validate) *RowValidator {
	if validate == nil {
		validate = validator.New()
	}
	return &RowValidator{validate: validate}
}

// Validate returns the ordered list of error messages for the row. On a
// successful date parse it stores the canonical DD-MMM-YYYY value in
// row.FormattedDOB; downstream stages and the persisted record use that
// value, never the raw input. Validating the same row twice yields the same
// errors and the same formatted date.
func (v *RowValidator) Validate(row *StudentRow) []string {
	var errs []string

	if strings.TrimSpace(row.Name) == "" {
		errs = append(errs, msgNameRequired)
	}
	if strings.TrimSpace(row.UID) == "" {
		errs = append(errs, msgUIDRequired)
	}
	if strings.TrimSpace(row.Sport) == "" {
		errs = append(errs, msgSportRequired)
	}

	dob := strings.TrimSpace(row.DOB)
	if dob == "" {
		errs = append(errs, msgDOBRequired)
	} else {
		parsed, err := ParseDOB(dob)
		switch err {
		case nil:
			if outOfDOBRange(parsed) {
				errs = append(errs, msgDOBRange)
			} else {
				row.FormattedDOB = FormatDOB(parsed)
			}
		case ErrDOBInvalid:
			errs = append(errs, msgDOBInvalid)
		default:
			errs = append(errs, msgDOBFormat)
		}
	}

	gender := strings.ToLower(strings.TrimSpace(row.Gender))
	if gender == "" {
		errs = append(errs, msgGenderRequired)
	} else if _, ok := validGenders[gender]; !ok {
		errs = append(errs, msgGenderEnum)
	}

	if email := strings.TrimSpace(row.ParentEmail); email != "" {
		if err := v.validate.Var(email, "email"); err != nil {
			errs = append(errs, msgParentEmail)
		}
	}

	return errs
}

// outOfDOBRange enforces today-100y <= dob <= today, both bounds inclusive.
func outOfDOBRange(dob time.Time) bool {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	oldest := today.AddDate(-100, 0, 0)
	return dob.Before(oldest) || dob.After(today)
}
