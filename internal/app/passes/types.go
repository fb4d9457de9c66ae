package passes

import (
	"time"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// Viewer identifies who is asking, for draft-visibility decisions.
type Viewer struct {
	Subject domain.SubjectID
	Admin   bool
}

type LocationInput struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

type CreatePassInput struct {
	Name        string
	Description string
	Type        domain.PassType
	Category    string

	Location  *LocationInput
	DateStart *time.Time
	DateEnd   *time.Time
}

type LocationPatch struct {
	Name             Optional[string]
	Latitude         Optional[float64]
	Longitude        Optional[float64]
	ClearCoordinates bool // when true, clear both latitude+longitude
}

type UpdatePassInput struct {
	// Name is optional and cannot be null.
	Name Optional[string]

	Description Optional[string]
	Type        Optional[domain.PassType]
	Category    Optional[string]

	Location  Optional[*LocationPatch] // null clears the location
	DateStart Optional[time.Time]
	DateEnd   Optional[time.Time]
}
