package card

import (
	"fmt"
	"image/color"
)

// AccentStyle selects where a theme places its accent block on the front face.
type AccentStyle int

const (
	AccentNone AccentStyle = iota
	AccentLeftBar
	AccentTopBar
	AccentBottomBar
	AccentFrame
	AccentSplit // left third filled with the accent color
)

// Theme is one entry of the closed set of named visual themes. Every theme
// renders the same field set through the same contract; only colors and the
// accent layout differ.
type Theme struct {
	Name string

	Background color.RGBA
	Ink        color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA

	Style AccentStyle
}

var themes = []Theme{
	{Name: "theme_1", Background: rgb(0xff, 0xff, 0xff), Ink: rgb(0x1a, 0x1a, 0x1a), Muted: rgb(0x6b, 0x6b, 0x6b), Accent: rgb(0x0e, 0x7a, 0xff), Style: AccentLeftBar},
	{Name: "theme_2", Background: rgb(0x10, 0x16, 0x24), Ink: rgb(0xf5, 0xf5, 0xf5), Muted: rgb(0x9a, 0xa4, 0xb2), Accent: rgb(0x2f, 0xd6, 0x8f), Style: AccentBottomBar},
	{Name: "theme_3", Background: rgb(0xfa, 0xf6, 0xef), Ink: rgb(0x2b, 0x21, 0x18), Muted: rgb(0x8a, 0x7d, 0x6d), Accent: rgb(0xc2, 0x6a, 0x1d), Style: AccentTopBar},
	{Name: "theme_4", Background: rgb(0xff, 0xff, 0xff), Ink: rgb(0x20, 0x20, 0x20), Muted: rgb(0x70, 0x70, 0x70), Accent: rgb(0x8b, 0x1d, 0x9e), Style: AccentFrame},
	{Name: "theme_5", Background: rgb(0x0b, 0x3d, 0x2e), Ink: rgb(0xff, 0xff, 0xff), Muted: rgb(0xb9, 0xcf, 0xc7), Accent: rgb(0xe8, 0xc5, 0x47), Style: AccentSplit},
	{Name: "theme_6", Background: rgb(0x22, 0x22, 0x22), Ink: rgb(0xfa, 0xfa, 0xfa), Muted: rgb(0xa8, 0xa8, 0xa8), Accent: rgb(0xe4, 0x3f, 0x5a), Style: AccentNone},
}

// Themes returns the closed theme set in cycling order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// DefaultTheme is the theme used when a caller does not select one.
func DefaultTheme() Theme { return themes[0] }

// ThemeByName resolves a theme by its public name (theme_1..theme_6).
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	for _, t := range themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("card: unknown theme %q", name)
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
