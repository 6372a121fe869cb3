package models

import "time"

// Student is an athlete registered for a sport. UID is the external unique
// identifier (e.g. a national ID number), distinct from the database id and
// unique across all students.
type Student struct {
	ID             string    `db:"id" json:"id"`
	UID            string    `db:"uid" json:"uid"`
	FullName       string    `db:"full_name" json:"full_name"`
	Gender         string    `db:"gender" json:"gender"`
	BirthDate      time.Time `db:"birth_date" json:"birth_date"`
	Nationality    string    `db:"nationality" json:"nationality"`
	City           string    `db:"city" json:"city"`
	Grade          string    `db:"grade" json:"grade"`
	BloodGroup     string    `db:"blood_group" json:"blood_group"`
	SportID        string    `db:"sport_id" json:"sport_id"`
	DistanceID     *string   `db:"distance_id" json:"distance_id,omitempty"`
	SportSubTypeID *string   `db:"sport_sub_type_id" json:"sport_sub_type_id,omitempty"`
	AgeCategoryID  string    `db:"age_category_id" json:"age_category_id"`
	MedicalNotes   string    `db:"medical_notes" json:"medical_notes"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	SportID   string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentDetail contains student information with resolved reference names.
type StudentDetail struct {
	Student
	SportName        string  `db:"sport_name" json:"sport_name"`
	DistanceName     *string `db:"distance_name" json:"distance_name,omitempty"`
	AgeCategoryLabel string  `db:"age_category_label" json:"age_category_label"`
}
