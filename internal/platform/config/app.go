// Package config loads deployment configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AuthMode selects how request identities are established.
type AuthMode string

const (
	// AuthModeJWT verifies RS256 bearer tokens against a JWKS endpoint.
	AuthModeJWT AuthMode = "jwt"
	// AuthModeDev trusts X-Debug-Subject / X-Debug-Roles headers. Local use only.
	AuthModeDev AuthMode = "dev"
)

// AppConfig is everything the API binary needs besides JWT settings.
type AppConfig struct {
	Addr string

	// PublicBaseURL is the externally reachable origin used to build public
	// profile links (QR fallback payloads, wallet barcodes).
	PublicBaseURL string

	AuthMode AuthMode

	// StorageBackend is "memory" or "postgres".
	StorageBackend string
	DatabaseURL    string

	// CacheBackend is "memory", "redis" or "none".
	CacheBackend string
	RedisAddr    string
	RedisAuth    string

	// ArtifactTTL bounds cached artifact lifetime. Zero keeps the service default.
	ArtifactTTL time.Duration

	// WalletSignerURL is the base URL of the external signing service. Empty
	// disables wallet issuance endpoints.
	WalletSignerURL string
}

func LoadAppConfigFromEnv() (AppConfig, error) {
	cfg := AppConfig{
		Addr:            getenv("ADDR", ":8080"),
		PublicBaseURL:   os.Getenv("PUBLIC_BASE_URL"),
		StorageBackend:  getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CacheBackend:    getenv("CACHE_BACKEND", "memory"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisAuth:       os.Getenv("REDIS_AUTH"),
		WalletSignerURL: os.Getenv("WALLET_SIGNER_URL"),
	}

	if cfg.PublicBaseURL == "" {
		return AppConfig{}, fmt.Errorf("missing required env var: PUBLIC_BASE_URL")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	switch mode := AuthMode(getenv("AUTH_MODE", string(AuthModeJWT))); mode {
	case AuthModeJWT, AuthModeDev:
		cfg.AuthMode = mode
	default:
		return AppConfig{}, fmt.Errorf("AUTH_MODE must be %q or %q", AuthModeJWT, AuthModeDev)
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return AppConfig{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres")
	}

	switch cfg.CacheBackend {
	case "memory", "none":
	case "redis":
		if cfg.RedisAddr == "" {
			return AppConfig{}, fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return AppConfig{}, fmt.Errorf("CACHE_BACKEND must be memory, redis or none")
	}

	if v := os.Getenv("ARTIFACT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("ARTIFACT_TTL must be a duration (e.g. 24h): %w", err)
		}
		cfg.ArtifactTTL = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
