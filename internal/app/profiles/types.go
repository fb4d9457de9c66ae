package profiles

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

type PhonesPatch struct {
	Mobile Optional[string]
	Work   Optional[string]
	Fax    Optional[string]
	Home   Optional[string]
}

type SocialsPatch struct {
	LinkedIn  Optional[string]
	Twitter   Optional[string]
	Facebook  Optional[string]
	Instagram Optional[string]
	YouTube   Optional[string]
}

type AddressPatch struct {
	Street  Optional[string]
	City    Optional[string]
	State   Optional[string]
	Zip     Optional[string]
	Country Optional[string]
}

// CreateProfileInput carries the full field set accepted on create. All fields
// except a resolvable name are optional.
type CreateProfileInput struct {
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

	Phones  *PhonesPatch // treated as a full object on create
	Website string
	Socials *SocialsPatch
	Work    *AddressPatch
	Home    *AddressPatch

	Notes    string
	PhotoURL string

	Shorturl string
}

// UpdateProfileInput is a tri-state PATCH: unspecified fields are untouched,
// null fields are cleared, valued fields are replaced.
type UpdateProfileInput struct {
	Prefix      Optional[string]
	FirstName   Optional[string]
	MiddleName  Optional[string]
	LastName    Optional[string]
	Suffix      Optional[string]
	DisplayName Optional[string]

	Title          Optional[string]
	Company        Optional[string]
	CompanyLogoURL Optional[string]

	WorkEmail     Optional[string]
	PersonalEmail Optional[string]

	Phones  Optional[PhonesPatch]
	Website Optional[string]
	Socials Optional[SocialsPatch]
	Work    Optional[AddressPatch]
	Home    Optional[AddressPatch]

	Notes    Optional[string]
	PhotoURL Optional[string]

	Shorturl Optional[string]

	// IsActive is honored on the admin path only.
	IsActive Optional[bool]
}

// CreateEmployeeInput provisions an employee profile on behalf of an admin.
type CreateEmployeeInput struct {
	Profile CreateProfileInput

	// Subject optionally binds the new profile to an IdP subject up front.
	Subject string
}

// EmployeeCreated is returned once on provisioning. TemporaryPassword is
// generated server-side, handed to the caller for out-of-band delivery, and
// never persisted here (credential storage belongs to the IdP).
type EmployeeCreated struct {
	ProfileID         string
	TemporaryPassword string
}
