package importer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DOBLayout is the canonical date-of-birth representation; every accepted
// input format is normalised to it before anything downstream sees the row.
const DOBLayout = "02-Jan-2006"

// Excel counts days from 1899-12-30, which bakes in the fictitious
// 1900-02-29. Serial 73050 lands in 2099.
const maxExcelSerial = 73050

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	// ErrDOBFormat marks a value that matches none of the accepted notations.
	ErrDOBFormat = errors.New("unrecognised date format")
	// ErrDOBInvalid marks a value that matched a notation but is not a real
	// calendar date, e.g. day 31 in a 30-day month.
	ErrDOBInvalid = errors.New("invalid calendar date")
)

var (
	dmySlashPattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dmyDashPattern   = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	ymdDashPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dayMonthYearName = regexp.MustCompile(`(?i)^(\d{1,2})[- ]([a-z]{3,9})[- ](\d{4})$`)
	serialPattern    = regexp.MustCompile(`^\d+$`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

// ParseDOB parses a date of birth in any accepted notation, tried in priority
// order: DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD, DD-MMM-YYYY or DD MMM YYYY with
// a short or full month name, and bare Excel serial days.
func ParseDOB(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)

	if m := dmySlashPattern.FindStringSubmatch(value); m != nil {
		return makeDate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]))
	}
	if m := dmyDashPattern.FindStringSubmatch(value); m != nil {
		return makeDate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]))
	}
	if m := ymdDashPattern.FindStringSubmatch(value); m != nil {
		return makeDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
	}
	if m := dayMonthYearName.FindStringSubmatch(value); m != nil {
		month, ok := monthsByName[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, ErrDOBFormat
		}
		return makeDate(atoi(m[3]), month, atoi(m[1]))
	}
	if serialPattern.MatchString(value) {
		serial, err := strconv.Atoi(value)
		if err != nil || serial < 1 || serial > maxExcelSerial {
			return time.Time{}, ErrDOBFormat
		}
		return excelEpoch.AddDate(0, 0, serial), nil
	}

	return time.Time{}, ErrDOBFormat
}

// FormatDOB renders a date in the canonical DD-MMM-YYYY form.
func FormatDOB(t time.Time) string {
	return t.Format(DOBLayout)
}

// makeDate builds a UTC date and rejects component combinations that
// time.Date would silently normalise (e.g. April 31 becoming May 1).
func makeDate(year int, month time.Month, day int) (time.Time, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, ErrDOBInvalid
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, ErrDOBInvalid
	}
	return t, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
