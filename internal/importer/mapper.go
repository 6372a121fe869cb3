package importer

import (
	"regexp"
	"sort"
	"strings"
)

// TemplateHeaders are the canonical spreadsheet headers, in column order.
// They are frozen: previously distributed file templates must keep working.
var TemplateHeaders = []string{
	"Name *",
	"UID *",
	"Date of Birth (DD-MMM-YYYY) *",
	"Gender (male/female/other) *",
	"Nationality",
	"City",
	"Class/Grade",
	"Blood Group",
	"Relationship",
	"Sport *",
	"Distance *",
	"Sport Sub Type",
	"Parent Email",
	"Parent Name",
	"Phone Number",
	"Country Code",
	"Medical Conditions",
}

// fieldSpec declares how one canonical field is located in a raw row: exact
// candidate keys tried in order, then fuzzy patterns against every header.
// New template header variants are added here, not in code.
type fieldSpec struct {
	field string
	keys  []string
	fuzzy []*regexp.Regexp
}

var fieldTable = []fieldSpec{
	{field: "name", keys: []string{"Name", "Name *", "Full Name"}, fuzzy: patterns(`(?i)^(full\s*)?name\b`)},
	{field: "uid", keys: []string{"UID", "UID *", "Student ID"}, fuzzy: patterns(`(?i)\buid\b`, `(?i)student\s*id`)},
	{field: "dob", keys: []string{"DOB", "Date of Birth", "Date of Birth (DD-MMM-YYYY) *"}, fuzzy: patterns(`(?i)date\s*of\s*birth`, `(?i)\bdob\b`)},
	{field: "gender", keys: []string{"Gender", "Gender (male/female/other) *"}, fuzzy: patterns(`(?i)\bgender\b`, `(?i)\bsex\b`)},
	{field: "nationality", keys: []string{"Nationality"}, fuzzy: patterns(`(?i)nationality`)},
	{field: "city", keys: []string{"City"}, fuzzy: patterns(`(?i)\bcity\b`)},
	{field: "grade", keys: []string{"Class", "Grade", "Class/Grade"}, fuzzy: patterns(`(?i)\bclass\b`, `(?i)\bgrade\b`)},
	{field: "bloodGroup", keys: []string{"Blood Group"}, fuzzy: patterns(`(?i)blood\s*group`)},
	{field: "relationship", keys: []string{"Relationship"}, fuzzy: patterns(`(?i)relationship`)},
	{field: "sport", keys: []string{"Sport", "Sport *"}, fuzzy: patterns(`(?i)^sport\b`)},
	{field: "distance", keys: []string{"Distance", "Distance *"}, fuzzy: patterns(`(?i)\bdistance\b`)},
	{field: "sportSubType", keys: []string{"Sport Sub Type", "Sub Type"}, fuzzy: patterns(`(?i)sub[\s-]*type`)},
	{field: "parentEmail", keys: []string{"Parent Email", "Email"}, fuzzy: patterns(`(?i)parent.*email`, `(?i)\bemail\b`)},
	{field: "parentName", keys: []string{"Parent Name"}, fuzzy: patterns(`(?i)parent.*name`, `(?i)guardian.*name`)},
	{field: "phoneNumber", keys: []string{"Phone Number", "Phone"}, fuzzy: patterns(`(?i)phone`, `(?i)mobile`)},
	{field: "countryCode", keys: []string{"Country Code"}, fuzzy: patterns(`(?i)country\s*code`)},
	{field: "medicalConditions", keys: []string{"Medical Conditions"}, fuzzy: patterns(`(?i)medical`)},
}

// Phrases that identify a decorative instruction line smuggled into row 1 of
// distributed templates (checked against the Sport column).
var instructionPhrases = []string{
	"please select",
	"choose from",
	"for example",
	"e.g.",
	"instructions",
}

var validBloodGroups = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

func patterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}

// Mapper projects raw rows onto the canonical student shape.
type Mapper struct{}

// NewMapper builds a Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map produces a canonical row from raw cells. The second return value is
// true when the row must be skipped entirely: every mapped field is empty,
// or row 1 carries a template instruction line instead of data.
func (m *Mapper) Map(raw RawRow, rowNumber int) (*StudentRow, bool) {
	fields := make(map[string]string, len(fieldTable))
	empty := true
	for _, spec := range fieldTable {
		value := lookup(raw, spec)
		fields[spec.field] = value
		if value != "" {
			empty = false
		}
	}
	if empty {
		return nil, true
	}
	if rowNumber == 1 && isInstructionRow(fields["sport"]) {
		return nil, true
	}

	row := &StudentRow{
		RowNumber:    rowNumber,
		Name:         fields["name"],
		UID:          fields["uid"],
		DOB:          fields["dob"],
		Gender:       strings.ToLower(fields["gender"]),
		Nationality:  fields["nationality"],
		City:         fields["city"],
		Grade:        fields["grade"],
		BloodGroup:   normalizeBloodGroup(fields["bloodGroup"]),
		Relationship: strings.ToLower(fields["relationship"]),
		Sport:        fields["sport"],
		Distance:     fields["distance"],
		SportSubType: fields["sportSubType"],
		ParentEmail:  fields["parentEmail"],
		ParentName:   fields["parentName"],
		PhoneNumber:  fields["phoneNumber"],
		CountryCode:  fields["countryCode"],
		MedicalNotes: fields["medicalConditions"],
	}
	return row, false
}

// lookup tries exact candidate keys first, then fuzzy patterns against the
// raw headers in sorted order so matching stays deterministic.
func lookup(raw RawRow, spec fieldSpec) string {
	for _, key := range spec.keys {
		if value := strings.TrimSpace(raw[key]); value != "" {
			return value
		}
	}
	if len(spec.fuzzy) == 0 {
		return ""
	}

	headers := make([]string, 0, len(raw))
	for header := range raw {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	for _, pattern := range spec.fuzzy {
		for _, header := range headers {
			if pattern.MatchString(header) {
				if value := strings.TrimSpace(raw[header]); value != "" {
					return value
				}
			}
		}
	}
	return ""
}

func isInstructionRow(sportValue string) bool {
	lowered := strings.ToLower(sportValue)
	for _, phrase := range instructionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// normalizeBloodGroup upper-cases the group, widens bare letters to their
// positive variant, and coerces anything unrecognised to "Unknown".
func normalizeBloodGroup(raw string) string {
	group := strings.ToUpper(strings.TrimSpace(raw))
	if group == "" {
		return "Unknown"
	}
	switch group {
	case "A", "B", "AB", "O":
		group += "+"
	}
	if _, ok := validBloodGroups[group]; ok {
		return group
	}
	return "Unknown"
}
