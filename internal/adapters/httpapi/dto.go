package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/app/profiles"
	"github.com/smartwave-hq/cards-api/internal/domain"
)

// --- views ---

type phonesView struct {
	Mobile string `json:"mobile,omitempty"`
	Work   string `json:"work,omitempty"`
	Fax    string `json:"fax,omitempty"`
	Home   string `json:"home,omitempty"`
}

type socialsView struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type addressView struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

func newAddressView(a domain.PostalAddress) *addressView {
	if a.IsZero() {
		return nil
	}
	return &addressView{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip, Country: a.Country}
}

// publicProfileView is the sanitized card view: work contact details only, no
// personal email, no home address, no subject binding.
type publicProfileView struct {
	FullName string `json:"fullName"`

	Prefix     string `json:"prefix,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Suffix     string `json:"suffix,omitempty"`

	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	CompanyLogoURL string `json:"companyLogoUrl,omitempty"`

	WorkEmail string       `json:"workEmail,omitempty"`
	Phones    phonesView   `json:"phones"`
	Website   string       `json:"website,omitempty"`
	Socials   socialsView  `json:"socials"`
	Work      *addressView `json:"workAddress,omitempty"`

	Notes    string `json:"notes,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Shorturl string `json:"shorturl"`
}

func newPublicProfileView(p domain.Profile) publicProfileView {
	return publicProfileView{
		FullName:       p.FullName(),
		Prefix:         p.Prefix,
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		Suffix:         p.Suffix,
		Title:          p.Title,
		Company:        p.Company,
		CompanyLogoURL: p.CompanyLogoURL,
		WorkEmail:      p.WorkEmail,
		Phones:         phonesView(p.Phones),
		Website:        p.Website,
		Socials:        socialsView(p.Socials),
		Work:           newAddressView(p.WorkAddress),
		Notes:          p.Notes,
		PhotoURL:       p.PhotoURL,
		Shorturl:       string(p.Shorturl),
	}
}

// profileView is the full record, for self-service and admin surfaces.
type profileView struct {
	ID      string `json:"id"`
	Subject string `json:"subject,omitempty"`

	Prefix      string `json:"prefix,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	FullName    string `json:"fullName"`

	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	CompanyLogoURL string `json:"companyLogoUrl,omitempty"`

	WorkEmail     string `json:"workEmail,omitempty"`
	PersonalEmail string `json:"personalEmail,omitempty"`

	Phones  phonesView   `json:"phones"`
	Website string       `json:"website,omitempty"`
	Socials socialsView  `json:"socials"`
	Work    *addressView `json:"workAddress,omitempty"`
	Home    *addressView `json:"homeAddress,omitempty"`

	Notes    string `json:"notes,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Shorturl string `json:"shorturl,omitempty"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newProfileView(p domain.Profile) profileView {
	return profileView{
		ID:             string(p.ID),
		Subject:        string(p.Subject),
		Prefix:         p.Prefix,
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		Suffix:         p.Suffix,
		DisplayName:    p.DisplayName,
		FullName:       p.FullName(),
		Title:          p.Title,
		Company:        p.Company,
		CompanyLogoURL: p.CompanyLogoURL,
		WorkEmail:      p.WorkEmail,
		PersonalEmail:  p.PersonalEmail,
		Phones:         phonesView(p.Phones),
		Website:        p.Website,
		Socials:        socialsView(p.Socials),
		Work:           newAddressView(p.WorkAddress),
		Home:           newAddressView(p.HomeAddress),
		Notes:          p.Notes,
		PhotoURL:       p.PhotoURL,
		Shorturl:       string(p.Shorturl),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type employeeCreatedView struct {
	Profile           profileView `json:"profile"`
	TemporaryPassword string      `json:"temporaryPassword"`
}

type locationView struct {
	Name      string   `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type passView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status"`

	Location  *locationView `json:"location,omitempty"`
	DateStart *time.Time    `json:"dateStart,omitempty"`
	DateEnd   *time.Time    `json:"dateEnd,omitempty"`

	CreatorSubject string `json:"creatorSubject,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newPassView(p domain.Pass, includeCreator bool) passView {
	v := passView{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Type:        string(p.Type),
		Category:    p.Category,
		Status:      string(p.Status),
		DateStart:   p.DateStart,
		DateEnd:     p.DateEnd,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Location != nil {
		v.Location = &locationView{
			Name:      p.Location.Name,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
		}
	}
	if includeCreator {
		v.CreatorSubject = string(p.CreatorSubject)
	}
	return v
}

func newPassViews(ps []domain.Pass, includeCreator bool) []passView {
	out := make([]passView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newPassView(p, includeCreator))
	}
	return out
}

// --- request bodies ---

// profOpt converts a wire-level tri-state field into the profile service's
// Optional. nullable distinguishes omitted, null and valued on decode.
func profOpt[T any](n nullable.Nullable[T]) profiles.Optional[T] {
	if !n.IsSpecified() {
		return profiles.Unspecified[T]()
	}
	if n.IsNull() {
		return profiles.Null[T]()
	}
	return profiles.Some(n.MustGet())
}

func profEmailOpt(n nullable.Nullable[openapi_types.Email]) profiles.Optional[string] {
	if !n.IsSpecified() {
		return profiles.Unspecified[string]()
	}
	if n.IsNull() {
		return profiles.Null[string]()
	}
	return profiles.Some(string(n.MustGet()))
}

func passOpt[T any](n nullable.Nullable[T]) passes.Optional[T] {
	if !n.IsSpecified() {
		return passes.Unspecified[T]()
	}
	if n.IsNull() {
		return passes.Null[T]()
	}
	return passes.Some(n.MustGet())
}

type phonesPatchBody struct {
	Mobile nullable.Nullable[string] `json:"mobile"`
	Work   nullable.Nullable[string] `json:"work"`
	Fax    nullable.Nullable[string] `json:"fax"`
	Home   nullable.Nullable[string] `json:"home"`
}

func (b phonesPatchBody) toPatch() profiles.PhonesPatch {
	return profiles.PhonesPatch{
		Mobile: profOpt(b.Mobile),
		Work:   profOpt(b.Work),
		Fax:    profOpt(b.Fax),
		Home:   profOpt(b.Home),
	}
}

type socialsPatchBody struct {
	LinkedIn  nullable.Nullable[string] `json:"linkedin"`
	Twitter   nullable.Nullable[string] `json:"twitter"`
	Facebook  nullable.Nullable[string] `json:"facebook"`
	Instagram nullable.Nullable[string] `json:"instagram"`
	YouTube   nullable.Nullable[string] `json:"youtube"`
}

func (b socialsPatchBody) toPatch() profiles.SocialsPatch {
	return profiles.SocialsPatch{
		LinkedIn:  profOpt(b.LinkedIn),
		Twitter:   profOpt(b.Twitter),
		Facebook:  profOpt(b.Facebook),
		Instagram: profOpt(b.Instagram),
		YouTube:   profOpt(b.YouTube),
	}
}

type addressPatchBody struct {
	Street  nullable.Nullable[string] `json:"street"`
	City    nullable.Nullable[string] `json:"city"`
	State   nullable.Nullable[string] `json:"state"`
	Zip     nullable.Nullable[string] `json:"zip"`
	Country nullable.Nullable[string] `json:"country"`
}

func (b addressPatchBody) toPatch() profiles.AddressPatch {
	return profiles.AddressPatch{
		Street:  profOpt(b.Street),
		City:    profOpt(b.City),
		State:   profOpt(b.State),
		Zip:     profOpt(b.Zip),
		Country: profOpt(b.Country),
	}
}

type createProfileBody struct {
	Prefix      string `json:"prefix"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	Suffix      string `json:"suffix"`
	DisplayName string `json:"displayName"`

	Title          string `json:"title"`
	Company        string `json:"company"`
	CompanyLogoURL string `json:"companyLogoUrl"`

	WorkEmail     *openapi_types.Email `json:"workEmail"`
	PersonalEmail *openapi_types.Email `json:"personalEmail"`

	Phones  *phonesPatchBody  `json:"phones"`
	Website string            `json:"website"`
	Socials *socialsPatchBody `json:"socials"`
	Work    *addressPatchBody `json:"workAddress"`
	Home    *addressPatchBody `json:"homeAddress"`

	Notes    string `json:"notes"`
	PhotoURL string `json:"photoUrl"`
	Shorturl string `json:"shorturl"`
}

func (b createProfileBody) toInput() profiles.CreateProfileInput {
	in := profiles.CreateProfileInput{
		Prefix:         b.Prefix,
		FirstName:      b.FirstName,
		MiddleName:     b.MiddleName,
		LastName:       b.LastName,
		Suffix:         b.Suffix,
		DisplayName:    b.DisplayName,
		Title:          b.Title,
		Company:        b.Company,
		CompanyLogoURL: b.CompanyLogoURL,
		Website:        b.Website,
		Notes:          b.Notes,
		PhotoURL:       b.PhotoURL,
		Shorturl:       b.Shorturl,
	}
	if b.WorkEmail != nil {
		in.WorkEmail = string(*b.WorkEmail)
	}
	if b.PersonalEmail != nil {
		in.PersonalEmail = string(*b.PersonalEmail)
	}
	if b.Phones != nil {
		p := b.Phones.toPatch()
		in.Phones = &p
	}
	if b.Socials != nil {
		s := b.Socials.toPatch()
		in.Socials = &s
	}
	if b.Work != nil {
		a := b.Work.toPatch()
		in.Work = &a
	}
	if b.Home != nil {
		a := b.Home.toPatch()
		in.Home = &a
	}
	return in
}

type patchProfileBody struct {
	Prefix      nullable.Nullable[string] `json:"prefix"`
	FirstName   nullable.Nullable[string] `json:"firstName"`
	MiddleName  nullable.Nullable[string] `json:"middleName"`
	LastName    nullable.Nullable[string] `json:"lastName"`
	Suffix      nullable.Nullable[string] `json:"suffix"`
	DisplayName nullable.Nullable[string] `json:"displayName"`

	Title          nullable.Nullable[string] `json:"title"`
	Company        nullable.Nullable[string] `json:"company"`
	CompanyLogoURL nullable.Nullable[string] `json:"companyLogoUrl"`

	WorkEmail     nullable.Nullable[openapi_types.Email] `json:"workEmail"`
	PersonalEmail nullable.Nullable[openapi_types.Email] `json:"personalEmail"`

	Phones  nullable.Nullable[phonesPatchBody]  `json:"phones"`
	Website nullable.Nullable[string]           `json:"website"`
	Socials nullable.Nullable[socialsPatchBody] `json:"socials"`
	Work    nullable.Nullable[addressPatchBody] `json:"workAddress"`
	Home    nullable.Nullable[addressPatchBody] `json:"homeAddress"`

	Notes    nullable.Nullable[string] `json:"notes"`
	PhotoURL nullable.Nullable[string] `json:"photoUrl"`
	Shorturl nullable.Nullable[string] `json:"shorturl"`

	IsActive nullable.Nullable[bool] `json:"isActive"`
}

func (b patchProfileBody) toInput() profiles.UpdateProfileInput {
	in := profiles.UpdateProfileInput{
		Prefix:         profOpt(b.Prefix),
		FirstName:      profOpt(b.FirstName),
		MiddleName:     profOpt(b.MiddleName),
		LastName:       profOpt(b.LastName),
		Suffix:         profOpt(b.Suffix),
		DisplayName:    profOpt(b.DisplayName),
		Title:          profOpt(b.Title),
		Company:        profOpt(b.Company),
		CompanyLogoURL: profOpt(b.CompanyLogoURL),
		WorkEmail:      profEmailOpt(b.WorkEmail),
		PersonalEmail:  profEmailOpt(b.PersonalEmail),
		Website:        profOpt(b.Website),
		Notes:          profOpt(b.Notes),
		PhotoURL:       profOpt(b.PhotoURL),
		Shorturl:       profOpt(b.Shorturl),
		IsActive:       profOpt(b.IsActive),
	}
	if b.Phones.IsSpecified() {
		if b.Phones.IsNull() {
			in.Phones = profiles.Null[profiles.PhonesPatch]()
		} else {
			in.Phones = profiles.Some(b.Phones.MustGet().toPatch())
		}
	}
	if b.Socials.IsSpecified() {
		if b.Socials.IsNull() {
			in.Socials = profiles.Null[profiles.SocialsPatch]()
		} else {
			in.Socials = profiles.Some(b.Socials.MustGet().toPatch())
		}
	}
	if b.Work.IsSpecified() {
		if b.Work.IsNull() {
			in.Work = profiles.Null[profiles.AddressPatch]()
		} else {
			in.Work = profiles.Some(b.Work.MustGet().toPatch())
		}
	}
	if b.Home.IsSpecified() {
		if b.Home.IsNull() {
			in.Home = profiles.Null[profiles.AddressPatch]()
		} else {
			in.Home = profiles.Some(b.Home.MustGet().toPatch())
		}
	}
	return in
}

type createEmployeeBody struct {
	createProfileBody

	// Subject optionally binds the profile to an IdP subject up front.
	Subject string `json:"subject"`
}

type locationBody struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type createPassBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`

	Location  *locationBody `json:"location"`
	DateStart *time.Time    `json:"dateStart"`
	DateEnd   *time.Time    `json:"dateEnd"`
}

func (b createPassBody) toInput() passes.CreatePassInput {
	in := passes.CreatePassInput{
		Name:        b.Name,
		Description: b.Description,
		Type:        domain.PassType(b.Type),
		Category:    b.Category,
		DateStart:   b.DateStart,
		DateEnd:     b.DateEnd,
	}
	if b.Location != nil {
		in.Location = &passes.LocationInput{
			Name:      b.Location.Name,
			Latitude:  b.Location.Latitude,
			Longitude: b.Location.Longitude,
		}
	}
	return in
}

type locationPatchBody struct {
	Name             nullable.Nullable[string]  `json:"name"`
	Latitude         nullable.Nullable[float64] `json:"latitude"`
	Longitude        nullable.Nullable[float64] `json:"longitude"`
	ClearCoordinates bool                       `json:"clearCoordinates"`
}

func (b locationPatchBody) toPatch() passes.LocationPatch {
	return passes.LocationPatch{
		Name:             passOpt(b.Name),
		Latitude:         passOpt(b.Latitude),
		Longitude:        passOpt(b.Longitude),
		ClearCoordinates: b.ClearCoordinates,
	}
}

type patchPassBody struct {
	Name        nullable.Nullable[string] `json:"name"`
	Description nullable.Nullable[string] `json:"description"`
	Type        nullable.Nullable[string] `json:"type"`
	Category    nullable.Nullable[string] `json:"category"`

	Location  nullable.Nullable[locationPatchBody] `json:"location"`
	DateStart nullable.Nullable[time.Time]         `json:"dateStart"`
	DateEnd   nullable.Nullable[time.Time]         `json:"dateEnd"`
}

func (b patchPassBody) toInput() passes.UpdatePassInput {
	in := passes.UpdatePassInput{
		Name:        passOpt(b.Name),
		Description: passOpt(b.Description),
		Category:    passOpt(b.Category),
		DateStart:   passOpt(b.DateStart),
		DateEnd:     passOpt(b.DateEnd),
	}
	if b.Type.IsSpecified() {
		if b.Type.IsNull() {
			in.Type = passes.Null[domain.PassType]()
		} else {
			in.Type = passes.Some(domain.PassType(b.Type.MustGet()))
		}
	}
	if b.Location.IsSpecified() {
		if b.Location.IsNull() {
			in.Location = passes.Null[*passes.LocationPatch]()
		} else {
			patch := b.Location.MustGet().toPatch()
			in.Location = passes.Some(&patch)
		}
	}
	return in
}
