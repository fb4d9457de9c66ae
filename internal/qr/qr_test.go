package qr

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
)

func TestEncode_ProducesPNGAtRequestedSize(t *testing.T) {
	res, err := Encode("https://smartwave.example/p/jane-doe", Options{Size: 300})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Level != DefaultLevel {
		t.Fatalf("expected default level %s, got %s", DefaultLevel, res.Level)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("expected 300x300, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode("payload", Options{Size: 200, Level: LevelHigh})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode("payload", Options{Size: 200, Level: LevelHigh})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a.PNG, b.PNG) {
		t.Fatalf("identical input should produce identical output")
	}
}

func TestEncode_EmptyPayload(t *testing.T) {
	if _, err := Encode("", Options{}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestEncode_CapacityExceeded(t *testing.T) {
	// ~1800 bytes fits medium (2331) but not quartile (1663) or high (1273).
	payload := strings.Repeat("a", 1800)

	_, err := Encode(payload, Options{Level: LevelHigh})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	res, err := Encode(payload, Options{Level: LevelHigh, AllowDowngrade: true})
	if err != nil {
		t.Fatalf("Encode with downgrade: %v", err)
	}
	if res.Level != LevelMedium {
		t.Fatalf("expected downgrade to medium, got %s", res.Level)
	}

	// Nothing fits 4000 bytes, even at the lowest level.
	_, err = Encode(strings.Repeat("a", 4000), Options{Level: LevelHigh, AllowDowngrade: true})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded after exhausting levels, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":         DefaultLevel,
		"low":      LevelLow,
		"L":        LevelLow,
		"medium":   LevelMedium,
		"quartile": LevelQuartile,
		"Q":        LevelQuartile,
		"high":     LevelHigh,
		"H":        LevelHigh,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("ultra"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
