package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// ProfileID is an internal identifier for a profile record.
type ProfileID string

// PassID is an internal identifier for a pass record.
type PassID string

// Shorturl is a stable public identifier mapped to a profile. It is used as a
// lightweight public link/QR payload instead of the full vCard text.
type Shorturl string
