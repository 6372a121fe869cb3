package models

import "time"

// Sport is a reference entity owned by event administrators. Hidden sports
// stay resolvable by id but are excluded from name lookups and listings.
type Sport struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	Hidden    bool       `db:"hidden" json:"hidden"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Distance is a sport-specific race distance. A sport with zero distances
// forbids the distance column on import; one or more makes it mandatory.
type Distance struct {
	ID      string `db:"id" json:"id"`
	SportID string `db:"sport_id" json:"sport_id"`
	Name    string `db:"name" json:"name"`
}

// SportSubType is an optional sport-specific categorisation such as stroke
// type for swimming. Requirement rules mirror Distance.
type SportSubType struct {
	ID      string `db:"id" json:"id"`
	SportID string `db:"sport_id" json:"sport_id"`
	Name    string `db:"name" json:"name"`
}

// AgeCategory is an age band athletes are grouped into. MaxAge is the
// inclusive ceiling at the sport's start date. Legacy rows imported before
// the column existed carry MaxAge zero and fall back to label parsing.
type AgeCategory struct {
	ID     string `db:"id" json:"id"`
	Label  string `db:"label" json:"label"`
	MaxAge int    `db:"max_age" json:"max_age"`
}

// SportDetail bundles a sport with its child collections.
type SportDetail struct {
	Sport
	Distances []Distance     `json:"distances"`
	SubTypes  []SportSubType `json:"sub_types"`
}
