// Package qr wraps the barcode library behind the small surface the card
// pipeline needs: encode a text payload to a PNG at a chosen size and
// error-correction level, with an explicit capacity-fallback policy.
package qr

import (
	"errors"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// Level is the requested error-correction level. Higher levels trade
// information density for resilience to partial image damage.
type Level string

const (
	LevelLow      Level = "low"      // ~7% recovery
	LevelMedium   Level = "medium"   // ~15% recovery
	LevelQuartile Level = "quartile" // ~25% recovery (Q)
	LevelHigh     Level = "high"     // ~30% recovery (H)
)

// DefaultLevel favors scan reliability over density, which is appropriate
// for vCard payloads of a few hundred bytes.
const DefaultLevel = LevelQuartile

// ErrCapacityExceeded indicates the payload does not fit the maximum symbol
// size at the requested level (and any permitted fallback levels). Callers
// should switch to a shorter payload, e.g. the profile short-URL.
var ErrCapacityExceeded = errors.New("qr: payload exceeds symbol capacity")

// ParseLevel maps user-facing level names (and their single-letter aliases)
// to a Level. Empty input yields DefaultLevel.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "":
		return DefaultLevel, nil
	case "low", "L":
		return LevelLow, nil
	case "medium", "M":
		return LevelMedium, nil
	case "quartile", "Q":
		return LevelQuartile, nil
	case "high", "H":
		return LevelHigh, nil
	}
	return "", fmt.Errorf("qr: unknown error-correction level %q", s)
}

// Options configures a single encoding.
type Options struct {
	// Size is the output edge length in pixels. Zero means 300.
	Size int

	// Level is the requested error-correction level. Empty means DefaultLevel.
	Level Level

	// AllowDowngrade permits retrying at progressively lower levels when the
	// payload does not fit at the requested one.
	AllowDowngrade bool

	// DisableBorder drops the quiet-zone margin. The default (false) keeps the
	// standard 4-module margin scanners expect.
	DisableBorder bool

	Foreground color.Color
	Background color.Color
}

// Result is a finished encoding.
type Result struct {
	PNG []byte

	// Level is the error-correction level actually used; it differs from the
	// requested level only when a downgrade was applied.
	Level Level
}

// Encode renders payload as a QR symbol PNG.
//
// The encoded payload round-trips: scanning the output recovers byte-identical
// payload text (guaranteed by the symbol format, not re-verified here).
func Encode(payload string, opts Options) (Result, error) {
	if payload == "" {
		return Result{}, errors.New("qr: empty payload")
	}
	size := opts.Size
	if size <= 0 {
		size = 300
	}
	level := opts.Level
	if level == "" {
		level = DefaultLevel
	}

	for {
		q, err := qrcode.New(payload, recoveryLevel(level))
		if err == nil {
			q.DisableBorder = opts.DisableBorder
			if opts.Foreground != nil {
				q.ForegroundColor = opts.Foreground
			}
			if opts.Background != nil {
				q.BackgroundColor = opts.Background
			}
			png, err := q.PNG(size)
			if err != nil {
				return Result{}, fmt.Errorf("qr: render png: %w", err)
			}
			return Result{PNG: png, Level: level}, nil
		}

		// Encoding only fails when the payload exceeds the capacity of the
		// maximum symbol size at this level.
		next, ok := lowerLevel(level)
		if !opts.AllowDowngrade || !ok {
			return Result{}, fmt.Errorf("%w at level %s: %v", ErrCapacityExceeded, level, err)
		}
		level = next
	}
}

func recoveryLevel(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelMedium:
		return qrcode.Medium
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.High
	}
}

func lowerLevel(l Level) (Level, bool) {
	switch l {
	case LevelHigh:
		return LevelQuartile, true
	case LevelQuartile:
		return LevelMedium, true
	case LevelMedium:
		return LevelLow, true
	default:
		return "", false
	}
}
