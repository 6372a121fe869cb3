package models

import "time"

// Guardian roles. School accounts submit batches on behalf of many parents;
// parent accounts are themselves the responsible guardian for their rows.
const (
	RoleParent = "parent"
	RoleSchool = "school"
	RoleAdmin  = "admin"
)

// Relationship tags for a guardian-student link.
const (
	RelationshipFather   = "father"
	RelationshipMother   = "mother"
	RelationshipGuardian = "guardian"
	RelationshipCoach    = "coach"
	RelationshipOther    = "other"
)

// Guardian is an account responsible for one or more students.
type Guardian struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone"`
	CountryCode  string    `db:"country_code" json:"country_code"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GuardianStudent links a student to the responsible guardian, and, when a
// school submitted the registration, to that school account as well.
type GuardianStudent struct {
	ID           string    `db:"id" json:"id"`
	GuardianID   string    `db:"guardian_id" json:"guardian_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	SchoolID     *string   `db:"school_id" json:"school_id,omitempty"`
	Relationship string    `db:"relationship" json:"relationship"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
