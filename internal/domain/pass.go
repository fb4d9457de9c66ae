package domain

import "time"

type PassType string

const (
	PassTypeEvent  PassType = "event"
	PassTypeAccess PassType = "access"
)

type PassStatus string

const (
	PassStatusDraft  PassStatus = "draft"
	PassStatusActive PassStatus = "active"
)

// Location is an optional venue attached to a pass.
type Location struct {
	Name string

	Latitude  *float64
	Longitude *float64
}

// Pass is an event or access credential record, distinct from a personal Profile.
//
// Status gates visibility: draft passes are only visible to admins and their
// creator. Type selects which downstream wallet template applies.
type Pass struct {
	ID PassID

	Name        string
	Description string
	Type        PassType
	Category    string
	Status      PassStatus

	Location *Location

	// DateStart/DateEnd are optional; nil means "unset".
	DateStart *time.Time
	DateEnd   *time.Time

	CreatorSubject SubjectID

	CreatedAt time.Time
	UpdatedAt time.Time
}
