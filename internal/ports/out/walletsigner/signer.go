package walletsigner

import (
	"context"
	"errors"
)

// Platform selects the target wallet ecosystem.
type Platform string

const (
	PlatformApple  Platform = "apple"
	PlatformGoogle Platform = "google"
)

// ErrUnavailable indicates the external signing service rejected or failed the
// request. There is no retry policy: the caller surfaces the failure directly.
var ErrUnavailable = errors.New("wallet signer unavailable")

// TemplateKind selects the pass template on the signing side.
type TemplateKind string

const (
	TemplateContactCard TemplateKind = "contact_card"
	TemplateEvent       TemplateKind = "event"
	TemplateAccess      TemplateKind = "access"
)

// Request is the platform-neutral issuance request sent to the signing
// service. Signing and certificate management live entirely on the other side
// of this boundary.
type Request struct {
	Platform     Platform
	Template     TemplateKind
	SerialNumber string

	Title       string
	Description string

	// Fields are template-specific display fields (name/title/company for
	// contact cards, venue/dates for event passes).
	Fields map[string]string

	// BarcodePayload is embedded as the pass barcode.
	BarcodePayload string
}

// Artifact is the signed wallet artifact returned by the signing service.
type Artifact struct {
	// ContentType is application/vnd.apple.pkpass for Apple, or
	// application/json (a save-link document) for Google.
	ContentType string
	Body        []byte
}

// Signer requests signed wallet artifacts from the external signing service.
type Signer interface {
	Sign(ctx context.Context, req Request) (Artifact, error)
}
