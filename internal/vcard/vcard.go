// Package vcard serializes a profile snapshot into a vCard 3.0 text block.
//
// The line order and property prefixes are a fixed interop contract: contact
// apps parse the output positionally by tag, so any change here is a breaking
// change for already-distributed QR codes.
package vcard

import (
	"errors"
	"strings"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// ErrNoName is returned when no display name is derivable from the profile.
var ErrNoName = errors.New("vcard: profile has no resolvable name")

// Serialize renders a profile into a vCard 3.0 text block with CRLF line
// endings. Output is deterministic for identical input: no timestamps, no
// generated identifiers.
//
// Emission policy (the legacy generators disagreed; this is the single policy
// we standardized on):
//   - FN, N, TITLE, ORG, EMAIL;type=WORK, TEL;type=WORK and TEL;type=CELL are
//     always present, with empty values when unset (fixed-shape core).
//   - EMAIL;type=HOME, URL and ADR;type=WORK are omitted entirely when unset.
func Serialize(p domain.Profile) (string, error) {
	name := p.FullName()
	if name == "" {
		return "", ErrNoName
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VCARD")
	writeLine(&b, "VERSION:3.0")
	writeLine(&b, "FN:"+escape(name))
	writeLine(&b, "N:"+escape(strings.TrimSpace(p.LastName))+";"+escape(strings.TrimSpace(p.FirstName))+";"+escape(strings.TrimSpace(p.MiddleName))+";;")
	writeLine(&b, "TITLE:"+escape(p.Title))
	writeLine(&b, "ORG:"+escape(p.Company))
	writeLine(&b, "EMAIL;type=WORK:"+escape(p.WorkEmail))
	if p.PersonalEmail != "" {
		writeLine(&b, "EMAIL;type=HOME:"+escape(p.PersonalEmail))
	}
	writeLine(&b, "TEL;type=WORK:"+escape(p.Phones.Work))
	writeLine(&b, "TEL;type=CELL:"+escape(p.Phones.Mobile))
	if p.Website != "" {
		writeLine(&b, "URL:"+escape(p.Website))
	}
	if !p.WorkAddress.IsZero() {
		a := p.WorkAddress
		writeLine(&b, "ADR;type=WORK:;;"+escape(a.Street)+";"+escape(a.City)+";"+escape(a.State)+";"+escape(a.Zip)+";"+escape(a.Country))
	}
	writeLine(&b, "END:VCARD")
	return b.String(), nil
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escape applies vCard 3.0 value escaping for backslash, semicolon, comma and
// newlines. Values never contain raw CR/LF after this.
func escape(s string) string {
	if !strings.ContainsAny(s, "\\;,\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// swallow; \n handles the break
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
