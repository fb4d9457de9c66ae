package domain

import "time"

// PostalAddress is one postal address on a profile. Empty fields mean "unset".
type PostalAddress struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// IsZero reports whether no address component is set.
func (a PostalAddress) IsZero() bool {
	return a == PostalAddress{}
}

// PhoneNumbers holds the phone numbers attached to a profile. Empty means "unset".
type PhoneNumbers struct {
	Mobile string
	Work   string
	Fax    string
	Home   string
}

// SocialHandles holds social links/handles for a profile. Empty means "unset".
type SocialHandles struct {
	LinkedIn  string
	Twitter   string
	Facebook  string
	Instagram string
	YouTube   string
}

// Profile is the domain representation of one person's contact identity.
//
// Most text fields are plain strings where "" means "unset": the card pipeline
// emits a fixed-shape output, so absence and emptiness are equivalent downstream.
type Profile struct {
	ID      ProfileID
	Subject SubjectID

	// Name parts. DisplayName, when set, overrides the "first last" derivation.
	Prefix      string
	FirstName   string
	MiddleName  string
	LastName    string
	Suffix      string
	DisplayName string

	Title          string
	Company        string
	CompanyLogoURL string

	WorkEmail     string
	PersonalEmail string

	Phones  PhoneNumbers
	Website string
	Socials SocialHandles

	WorkAddress PostalAddress
	HomeAddress PostalAddress

	Notes    string
	PhotoURL string

	// Shorturl is optional; empty means the profile has no public short link.
	Shorturl Shorturl

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName resolves the display name used on cards and in the vCard FN line.
// Returns "" when no name is derivable.
func (p Profile) FullName() string {
	if n := NormalizeHumanName(p.DisplayName); n != "" {
		return n
	}
	return NormalizeHumanName(p.FirstName + " " + p.LastName)
}
