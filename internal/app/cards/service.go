// Package cards implements contact-card materialization: producing the vCard
// text, the QR raster and the themed card faces for one profile snapshot.
package cards

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"sync"
	"time"

	"github.com/smartwave-hq/cards-api/internal/card"
	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
	"github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
	"github.com/smartwave-hq/cards-api/internal/qr"
	"github.com/smartwave-hq/cards-api/internal/vcard"
)

// PayloadKind selects what the QR symbol encodes.
type PayloadKind string

const (
	// PayloadVCard is the canonical payload: the full vCard text.
	PayloadVCard PayloadKind = "vcard"
	// PayloadShorturl encodes the public profile link instead. It is also the
	// automatic fallback when the vCard exceeds symbol capacity.
	PayloadShorturl PayloadKind = "shorturl"
)

const defaultArtifactTTL = 24 * time.Hour

// Meta keys recorded with cached QR artifacts so cache hits can report the
// level and payload the symbol was actually encoded with.
const (
	metaQRLevel   = "qrLevel"
	metaQRPayload = "qrPayload"
)

type QRRequest struct {
	Size    int
	Level   qr.Level
	Payload PayloadKind // empty means PayloadVCard
}

type QRResult struct {
	PNG     []byte
	Level   qr.Level    // level actually used after any capacity downgrade
	Payload PayloadKind // payload actually encoded after any fallback
	Cached  bool
}

type FaceRequest struct {
	Face  card.Face
	Theme card.Theme
}

type FaceResult struct {
	PNG    []byte
	Cached bool
}

// Service orchestrates the generation pipeline. Every artifact is a pure
// derivation of a profile snapshot; results are cached content-addressed so a
// stale entry can never be served for changed content.
type Service struct {
	repo     profilerepo.Repository
	renderer *card.Renderer
	cache    artifactcache.Cache // nil disables caching

	publicBaseURL string
	ttl           time.Duration

	// Generation tokens, per profile. A render that finishes after a newer
	// generation started is treated as superseded: its result is returned to
	// its own caller but never written to the cache.
	mu     sync.Mutex
	tokens map[domain.ProfileID]uint64

	// renderHook runs between claiming a generation token and publishing the
	// result. It is a no-op outside tests.
	renderHook func()
}

func NewService(repo profilerepo.Repository, renderer *card.Renderer, cache artifactcache.Cache, publicBaseURL string) *Service {
	return &Service{
		repo:          repo,
		renderer:      renderer,
		cache:         cache,
		publicBaseURL: publicBaseURL,
		ttl:           defaultArtifactTTL,
		tokens:        make(map[domain.ProfileID]uint64),
		renderHook:    func() {},
	}
}

// SetRenderHookForTest installs a hook invoked mid-generation, so tests can
// supersede an in-flight render. It should not be used in production code.
func (s *Service) SetRenderHookForTest(fn func()) {
	if fn != nil {
		s.renderHook = fn
	}
}

// SetArtifactTTL overrides the cached artifact lifetime. Zero or negative
// values are ignored.
func (s *Service) SetArtifactTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// VCard returns the serialized vCard for the profile behind shorturl.
func (s *Service) VCard(ctx context.Context, shorturl domain.Shorturl) (string, error) {
	p, err := s.loadPublic(ctx, shorturl)
	if err != nil {
		return "", err
	}
	text, err := vcard.Serialize(p)
	if err != nil {
		if errors.Is(err, vcard.ErrNoName) {
			return "", &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "profile has no resolvable name"}
		}
		return "", err
	}
	return text, nil
}

// QR encodes the profile's QR symbol per req.
func (s *Service) QR(ctx context.Context, shorturl domain.Shorturl, req QRRequest) (QRResult, error) {
	p, err := s.loadPublic(ctx, shorturl)
	if err != nil {
		return QRResult{}, err
	}

	if req.Size <= 0 {
		req.Size = 300
	}
	if req.Level == "" {
		req.Level = qr.DefaultLevel
	}
	if req.Payload == "" {
		req.Payload = PayloadVCard
	}

	key, err := s.cacheKey(p, "qr", fmt.Sprintf("%d|%s|%s", req.Size, req.Level, req.Payload))
	if err != nil {
		return QRResult{}, err
	}
	if a, ok := s.cacheGet(ctx, key); ok {
		// Level and payload may differ from the request after a capacity
		// downgrade or fallback; the generation facts travel with the entry.
		level := qr.Level(a.Meta[metaQRLevel])
		if level == "" {
			level = req.Level
		}
		payload := PayloadKind(a.Meta[metaQRPayload])
		if payload == "" {
			payload = req.Payload
		}
		return QRResult{PNG: a.Body, Level: level, Payload: payload, Cached: true}, nil
	}

	tok := s.beginGeneration(p.ID)
	s.renderHook()
	res, payloadUsed, err := s.encodeQR(p, req)
	if err != nil {
		return QRResult{}, err
	}
	if s.generationCurrent(p.ID, tok) {
		s.cachePut(ctx, key, artifactcache.Artifact{
			ContentType: "image/png",
			Body:        res.PNG,
			Meta: map[string]string{
				metaQRLevel:   string(res.Level),
				metaQRPayload: string(payloadUsed),
			},
		})
	}
	return QRResult{PNG: res.PNG, Level: res.Level, Payload: payloadUsed}, nil
}

// RenderFace rasterizes one themed card face for the profile.
func (s *Service) RenderFace(ctx context.Context, shorturl domain.Shorturl, req FaceRequest) (FaceResult, error) {
	p, err := s.loadPublic(ctx, shorturl)
	if err != nil {
		return FaceResult{}, err
	}
	if req.Face == "" {
		req.Face = card.FaceFront
	}
	if req.Theme.Name == "" {
		req.Theme = card.DefaultTheme()
	}

	key, err := s.cacheKey(p, "card", string(req.Face)+"|"+req.Theme.Name)
	if err != nil {
		return FaceResult{}, err
	}
	if a, ok := s.cacheGet(ctx, key); ok {
		return FaceResult{PNG: a.Body, Cached: true}, nil
	}

	tok := s.beginGeneration(p.ID)
	s.renderHook()

	var out []byte
	switch req.Face {
	case card.FaceBack:
		qrRes, _, err := s.encodeQR(p, QRRequest{Size: card.BackQRSize, Level: qr.DefaultLevel, Payload: PayloadVCard})
		if err != nil {
			return FaceResult{}, err
		}
		img, err := png.Decode(bytes.NewReader(qrRes.PNG))
		if err != nil {
			return FaceResult{}, fmt.Errorf("decode qr png: %w", err)
		}
		out, err = s.renderer.RenderPNG(p, img, card.FaceBack, req.Theme)
		if err != nil {
			return FaceResult{}, err
		}
	default:
		out, err = s.renderer.RenderPNG(p, nil, card.FaceFront, req.Theme)
		if err != nil {
			return FaceResult{}, err
		}
	}

	if s.generationCurrent(p.ID, tok) {
		s.cachePut(ctx, key, artifactcache.Artifact{ContentType: "image/png", Body: out})
	}
	return FaceResult{PNG: out}, nil
}

// encodeQR applies the payload policy: the vCard text is canonical; when it
// exceeds symbol capacity (even after downgrading the correction level) and
// the profile has a shorturl, the public link is encoded instead.
func (s *Service) encodeQR(p domain.Profile, req QRRequest) (qr.Result, PayloadKind, error) {
	payload := req.Payload

	text := ""
	if payload == PayloadVCard {
		t, err := vcard.Serialize(p)
		if err != nil {
			if errors.Is(err, vcard.ErrNoName) {
				return qr.Result{}, "", &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "profile has no resolvable name"}
			}
			return qr.Result{}, "", err
		}
		text = t
	} else {
		text = s.publicLink(p.Shorturl)
	}

	res, err := qr.Encode(text, qr.Options{Size: req.Size, Level: req.Level, AllowDowngrade: true})
	if err == nil {
		return res, payload, nil
	}
	if !errors.Is(err, qr.ErrCapacityExceeded) {
		return qr.Result{}, "", err
	}
	if payload == PayloadVCard && p.Shorturl != "" {
		res, err = qr.Encode(s.publicLink(p.Shorturl), qr.Options{Size: req.Size, Level: req.Level, AllowDowngrade: true})
		if err == nil {
			return res, PayloadShorturl, nil
		}
	}
	return qr.Result{}, "", &Error{
		Status:  422,
		Code:    "QR_CAPACITY_EXCEEDED",
		Message: "payload exceeds QR symbol capacity",
		Details: map[string]any{"level": string(req.Level)},
	}
}

func (s *Service) loadPublic(ctx context.Context, shorturl domain.Shorturl) (domain.Profile, error) {
	p, err := s.repo.GetByShorturl(ctx, shorturl)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, notFoundErr()
		}
		return domain.Profile{}, err
	}
	if !p.IsActive {
		return domain.Profile{}, notFoundErr()
	}
	return p, nil
}

func (s *Service) publicLink(shorturl domain.Shorturl) string {
	return s.publicBaseURL + "/p/" + string(shorturl)
}

// cacheKey is a content address: profile snapshot + operation + options.
func (s *Service) cacheKey(p domain.Profile, op, opts string) (artifactcache.Key, error) {
	snap, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(snap)
	h.Write([]byte("|" + op + "|" + opts + "|v" + strconv.Itoa(artifactSchemaVersion)))
	return artifactcache.Key(hex.EncodeToString(h.Sum(nil))), nil
}

// artifactSchemaVersion is bumped whenever the rendered output format changes,
// invalidating old cache entries.
const artifactSchemaVersion = 1

func (s *Service) cacheGet(ctx context.Context, key artifactcache.Key) (artifactcache.Artifact, bool) {
	if s.cache == nil {
		return artifactcache.Artifact{}, false
	}
	a, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		// Cache failures degrade to recomputation.
		return artifactcache.Artifact{}, false
	}
	return a, ok
}

func (s *Service) cachePut(ctx context.Context, key artifactcache.Key, a artifactcache.Artifact) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Put(ctx, key, a, s.ttl)
}

func (s *Service) beginGeneration(id domain.ProfileID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[id]++
	return s.tokens[id]
}

func (s *Service) generationCurrent(id domain.ProfileID, tok uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[id] == tok
}

func notFoundErr() *Error {
	return &Error{Status: 404, Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
}
