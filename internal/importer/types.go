package importer

// RawRow is one decoded spreadsheet row: free-form column label to cell text.
type RawRow map[string]string

// StudentRow is the canonical shape of one spreadsheet row after mapping.
// The validator fills FormattedDOB; the resolver fills the reference ids.
type StudentRow struct {
	RowNumber    int    `json:"rowNumber"`
	Name         string `json:"name"`
	UID          string `json:"uid"`
	DOB          string `json:"dob"`
	FormattedDOB string `json:"formattedDob,omitempty"`
	Gender       string `json:"gender"`
	Nationality  string `json:"nationality"`
	City         string `json:"city"`
	Grade        string `json:"grade"`
	BloodGroup   string `json:"bloodGroup"`
	Relationship string `json:"relationship"`
	Sport        string `json:"sport"`
	Distance     string `json:"distance"`
	SportSubType string `json:"sportSubType"`
	ParentEmail  string `json:"parentEmail"`
	ParentName   string `json:"parentName"`
	PhoneNumber  string `json:"phoneNumber"`
	CountryCode  string `json:"countryCode"`
	MedicalNotes string `json:"medicalConditions"`

	// Resolved reference ids. Never round-tripped through the preview JSON;
	// the commit path re-resolves edited rows from scratch.
	SportID        string `json:"-"`
	DistanceID     string `json:"-"`
	SportSubTypeID string `json:"-"`
	AgeCategoryID  string `json:"-"`
}
