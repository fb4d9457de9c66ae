// Package card composes profile text and a QR symbol into business-card
// rasters at print quality.
package card

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// Standard business-card proportions: 3.5in x 2in at 300 DPI.
const (
	Width  = 1050
	Height = 600
)

// BackQRSize is the pixel edge length the back face reserves for the QR
// symbol. Callers should encode the QR at this size to avoid scaling.
const BackQRSize = 380

// Face selects which card face to render.
type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
)

// ParseFace resolves a face name; empty input means the front face.
func ParseFace(s string) (Face, error) {
	switch s {
	case "", "front":
		return FaceFront, nil
	case "back":
		return FaceBack, nil
	}
	return "", fmt.Errorf("card: unknown face %q", s)
}

// Renderer rasterizes card faces. It is safe for concurrent use once
// constructed: font faces are parsed once and only read afterwards.
type Renderer struct {
	nameFace  font.Face
	titleFace font.Face
	bodyFace  font.Face
	smallFace font.Face
}

func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("card: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("card: parse bold font: %w", err)
	}

	newFace := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}

	r := &Renderer{}
	if r.nameFace, err = newFace(bold, 64); err != nil {
		return nil, err
	}
	if r.titleFace, err = newFace(regular, 38); err != nil {
		return nil, err
	}
	if r.bodyFace, err = newFace(regular, 30); err != nil {
		return nil, err
	}
	if r.smallFace, err = newFace(regular, 24); err != nil {
		return nil, err
	}
	return r, nil
}

// Render draws one face of the card. qrImg is required for the back face and
// ignored for the front. The output is always Width x Height.
func (r *Renderer) Render(p domain.Profile, qrImg image.Image, face Face, theme Theme) (image.Image, error) {
	switch face {
	case FaceFront:
		return r.renderFront(p, theme), nil
	case FaceBack:
		if qrImg == nil {
			return nil, fmt.Errorf("card: back face requires a QR image")
		}
		return r.renderBack(p, qrImg, theme), nil
	}
	return nil, fmt.Errorf("card: unknown face %q", face)
}

// RenderPNG is Render with PNG encoding.
func (r *Renderer) RenderPNG(p domain.Profile, qrImg image.Image, face Face, theme Theme) ([]byte, error) {
	img, err := r.Render(p, qrImg, face, theme)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("card: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderFront(p domain.Profile, theme Theme) image.Image {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(theme.Background)
	dc.Clear()

	textLeft := 90.0
	drawAccent(dc, theme)
	if theme.Style == AccentSplit {
		// Text moves right of the filled third.
		textLeft = Width/3 + 60.0
	}
	maxW := Width - textLeft - 60

	y := 180.0
	dc.SetFontFace(r.nameFace)
	dc.SetColor(theme.Ink)
	drawTruncated(dc, p.FullName(), textLeft, y, maxW)

	if p.Title != "" {
		y += 64
		dc.SetFontFace(r.titleFace)
		dc.SetColor(theme.Muted)
		drawTruncated(dc, p.Title, textLeft, y, maxW)
	}
	if p.Company != "" {
		y += 52
		dc.SetFontFace(r.titleFace)
		dc.SetColor(theme.Accent)
		drawTruncated(dc, p.Company, textLeft, y, maxW)
	}

	y = 430.0
	dc.SetFontFace(r.bodyFace)
	dc.SetColor(theme.Ink)
	for _, line := range contactLines(p) {
		drawTruncated(dc, line, textLeft, y, maxW)
		y += 44
		if y > Height-40 {
			break
		}
	}

	return dc.Image()
}

func (r *Renderer) renderBack(p domain.Profile, qrImg image.Image, theme Theme) image.Image {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(theme.Background)
	dc.Clear()
	drawAccent(dc, theme)

	// QR sits in a white plate so dark themes stay scannable.
	b := qrImg.Bounds()
	qx := (Width - b.Dx()) / 2
	qy := (Height-b.Dy())/2 - 30
	pad := 16.0
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(float64(qx)-pad, float64(qy)-pad, float64(b.Dx())+2*pad, float64(b.Dy())+2*pad)
	dc.Fill()
	dc.DrawImage(qrImg, qx, qy)

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(theme.Ink)
	name := p.FullName()
	w, _ := dc.MeasureString(name)
	dc.DrawString(name, (Width-w)/2, float64(qy+b.Dy())+pad+56)

	if p.Shorturl != "" {
		dc.SetFontFace(r.smallFace)
		dc.SetColor(theme.Muted)
		s := string(p.Shorturl)
		w, _ = dc.MeasureString(s)
		dc.DrawString(s, (Width-w)/2, float64(qy+b.Dy())+pad+96)
	}

	return dc.Image()
}

func drawAccent(dc *gg.Context, theme Theme) {
	dc.SetColor(theme.Accent)
	switch theme.Style {
	case AccentLeftBar:
		dc.DrawRectangle(0, 0, 28, Height)
	case AccentTopBar:
		dc.DrawRectangle(0, 0, Width, 28)
	case AccentBottomBar:
		dc.DrawRectangle(0, Height-28, Width, 28)
	case AccentFrame:
		dc.DrawRectangle(0, 0, Width, 14)
		dc.DrawRectangle(0, Height-14, Width, 14)
		dc.DrawRectangle(0, 0, 14, Height)
		dc.DrawRectangle(Width-14, 0, 14, Height)
	case AccentSplit:
		dc.DrawRectangle(0, 0, Width/3, Height)
	default:
		return
	}
	dc.Fill()
}

// drawTruncated draws s at (x, y), clipping to maxW with an ellipsis instead
// of wrapping.
func drawTruncated(dc *gg.Context, s string, x, y, maxW float64) {
	if s == "" {
		return
	}
	if w, _ := dc.MeasureString(s); w <= maxW {
		dc.DrawString(s, x, y)
		return
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxW {
			dc.DrawString(candidate, x, y)
			return
		}
	}
	dc.DrawString("…", x, y)
}

func contactLines(p domain.Profile) []string {
	lines := make([]string, 0, 4)
	if p.WorkEmail != "" {
		lines = append(lines, p.WorkEmail)
	}
	if p.Phones.Mobile != "" {
		lines = append(lines, p.Phones.Mobile)
	} else if p.Phones.Work != "" {
		lines = append(lines, p.Phones.Work)
	}
	if p.Website != "" {
		lines = append(lines, p.Website)
	}
	if a := p.WorkAddress; !a.IsZero() {
		parts := make([]string, 0, 3)
		for _, s := range []string{a.Street, a.City, a.State + " " + a.Zip} {
			if strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, ", "))
		}
	}
	return lines
}
