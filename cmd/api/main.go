package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartwave-hq/cards-api/internal/adapters/httpapi"
	memartifactcache "github.com/smartwave-hq/cards-api/internal/adapters/memory/artifactcache"
	mempassrepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/passrepo"
	memprofilerepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/profilerepo"
	postgres "github.com/smartwave-hq/cards-api/internal/adapters/postgres"
	pgpassrepo "github.com/smartwave-hq/cards-api/internal/adapters/postgres/passrepo"
	pgprofilerepo "github.com/smartwave-hq/cards-api/internal/adapters/postgres/profilerepo"
	redisartifactcache "github.com/smartwave-hq/cards-api/internal/adapters/redis/artifactcache"
	"github.com/smartwave-hq/cards-api/internal/adapters/walletsigner/httpsigner"
	"github.com/smartwave-hq/cards-api/internal/app/cards"
	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/app/profiles"
	"github.com/smartwave-hq/cards-api/internal/app/wallet"
	"github.com/smartwave-hq/cards-api/internal/card"
	"github.com/smartwave-hq/cards-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/smartwave-hq/cards-api/internal/platform/clock"
	"github.com/smartwave-hq/cards-api/internal/platform/config"
	artifactcacheport "github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
	passrepoport "github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
	profilerepoport "github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

func main() {
	appCfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var authMW func(http.Handler) http.Handler
	switch appCfg.AuthMode {
	case config.AuthModeDev:
		authMW = httpapi.NewDevAuthMiddleware(os.Getenv("DEV_SUBJECT"))
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.NewSystemClock()

	var (
		profileRepo profilerepoport.Repository
		passRepo    passrepoport.Repository
		cleanup     func()
	)
	switch appCfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), appCfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		cleanup = pool.Close
		profileRepo = pgprofilerepo.NewRepo(pool)
		passRepo = pgpassrepo.NewRepo(pool)
	default:
		profileRepo = memprofilerepo.NewRepo()
		passRepo = mempassrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	var cache artifactcacheport.Cache
	switch appCfg.CacheBackend {
	case "redis":
		pool := redisartifactcache.NewPool(appCfg.RedisAddr, appCfg.RedisAuth)
		defer func() { _ = pool.Close() }()
		cache = redisartifactcache.NewCache(pool)
	case "none":
		// nil cache: every artifact is regenerated per request.
	default:
		cache = memartifactcache.NewCache()
	}

	renderer, err := card.NewRenderer()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	cardSvc := cards.NewService(profileRepo, renderer, cache, appCfg.PublicBaseURL)
	if appCfg.ArtifactTTL > 0 {
		cardSvc.SetArtifactTTL(appCfg.ArtifactTTL)
	}

	api := &httpapi.API{
		Profiles: profiles.NewService(profileRepo, clk),
		Passes:   passes.NewService(passRepo, clk),
		Cards:    cardSvc,
	}
	if appCfg.WalletSignerURL != "" {
		signer := httpsigner.NewSigner(appCfg.WalletSignerURL, httpsigner.Options{})
		api.Wallet = wallet.NewService(profileRepo, passRepo, signer, appCfg.PublicBaseURL)
	}

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{Auth: authMW})

	srv := &http.Server{
		Addr:              appCfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on %s (storage=%s cache=%s auth=%s)",
			appCfg.Addr, appCfg.StorageBackend, appCfg.CacheBackend, appCfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
