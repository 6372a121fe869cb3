package importer

import (
	"regexp"
	"strconv"
	"time"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
)

// Legacy age categories encode their ceiling only in the display label
// ("Under 17", "U17", "17 and under", "17 & under"). Rows migrated since
// carry an explicit MaxAge; the label parse remains as a fallback until the
// backfill for old tenants completes.
var ceilingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)under\s*(\d{1,3})`),
	regexp.MustCompile(`(?i)^\s*u\s*-?\s*(\d{1,3})\b`),
	regexp.MustCompile(`(?i)(\d{1,3})\s*(?:and|&)\s*under`),
}

// CategoryCeiling returns the inclusive age ceiling for a category and
// whether one could be determined.
func CategoryCeiling(category models.AgeCategory) (int, bool) {
	if category.MaxAge > 0 {
		return category.MaxAge, true
	}
	for _, pattern := range ceilingPatterns {
		if m := pattern.FindStringSubmatch(category.Label); m != nil {
			if ceiling, err := strconv.Atoi(m[1]); err == nil {
				return ceiling, true
			}
		}
	}
	return 0, false
}

// AgeAt computes age in complete years at the reference date: a birthday
// falling after the reference month/day has not happened yet that year.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// SelectAgeCategory picks the narrowest band for the computed age: the first
// category, in the store's label order, whose ceiling covers the age. When no
// ceiling covers it (or none parses) the last, widest category wins. Returns
// false only when no categories are configured at all.
func SelectAgeCategory(categories []models.AgeCategory, age int) (models.AgeCategory, bool) {
	if len(categories) == 0 {
		return models.AgeCategory{}, false
	}
	for _, category := range categories {
		if ceiling, ok := CategoryCeiling(category); ok && ceiling >= age {
			return category, true
		}
	}
	return categories[len(categories)-1], true
}
