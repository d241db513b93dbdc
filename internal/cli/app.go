package cli

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/api"
	"github.com/jengzang/safeguard-backend/internal/auth"
	"github.com/jengzang/safeguard-backend/internal/config"
	"github.com/jengzang/safeguard-backend/internal/database"
	"github.com/jengzang/safeguard-backend/internal/geocoder"
	"github.com/jengzang/safeguard-backend/internal/handler"
	"github.com/jengzang/safeguard-backend/internal/heatmap"
	"github.com/jengzang/safeguard-backend/internal/llm"
	"github.com/jengzang/safeguard-backend/internal/middleware"
	"github.com/jengzang/safeguard-backend/internal/ocr"
	"github.com/jengzang/safeguard-backend/internal/repository"
	"github.com/jengzang/safeguard-backend/internal/service"
	"github.com/jengzang/safeguard-backend/internal/sms"
)

// openDatabase opens the configured database and brings its schema up to date
func openDatabase(cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	db, err := database.Open(database.Config{Path: cfg.Database.Path}, log)
	if err != nil {
		return nil, err
	}
	if err := database.NewMigrationManager(db, log).RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newGeocoder(cfg *config.Config) *geocoder.Client {
	g := cfg.Geocoder
	return geocoder.NewClient(g.BaseURL, g.UserAgent, g.City, g.Country, g.Timeout)
}

// app holds the wired server and whatever must be released on exit
type app struct {
	router    *gin.Engine
	db        *sql.DB
	redis     *redis.Client
	geocoding *service.GeocodingService
}

// newApp wires repositories, clients, services and handlers. Optional integrations
// (Redis, OCR, LLM) degrade to their local fallbacks when unconfigured or unreachable.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}

	// repositories
	users := repository.NewUserRepository(db)
	contacts := repository.NewContactRepository(db)
	alerts := repository.NewSOSRepository(db)
	polls := repository.NewPollRepository(db)
	news := repository.NewNewsRepository(db)
	verifications := repository.NewVerificationRepository(db)
	tasks := repository.NewGeocodingRepository(db)
	crimes := repository.NewCrimeFileStore(cfg.Heatmap.CrimeDataFile)

	// outbound clients
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	smsClient := sms.NewClient(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Route, cfg.SMS.Language)
	if len(cfg.Auth.AdminEmails) == 0 {
		log.Warn("No admin emails configured, admin API is closed")
	}
	if cfg.SMS.APIKey == "" {
		log.Warn("SMS API key not set, SOS delivery will fail")
	}
	geo := newGeocoder(cfg)

	var extractor service.TextExtractor
	if cfg.OCR.Endpoint != "" {
		extractor = ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.APIKey)
	} else {
		log.Info("OCR endpoint not set, verifications stay pending")
	}

	var (
		generator llm.Generator
		embedder  llm.Embedder
	)
	provider, err := llm.New(ctx, llm.Config{
		Provider:       cfg.LLM.Provider,
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})
	if err != nil {
		log.Warn("Legal assistant disabled", zap.Error(err))
	} else {
		generator, embedder = provider, provider
	}

	// services
	authService := service.NewAuthService(users, tokens, log)
	contactService := service.NewContactService(contacts)
	emergencyService := service.NewEmergencyService(contacts, alerts, smsClient, log)
	pollService := service.NewPollService(polls, log)
	newsService := service.NewNewsService(news, geo, log)
	verificationService := service.NewVerificationService(users, verifications, extractor, cfg.OCR.Keyword, log)
	a.geocoding = service.NewGeocodingService(tasks, geo, service.GeocodingConfig{
		InputFile:  cfg.Geocoder.InputFile,
		OutputFile: cfg.Heatmap.CrimeDataFile,
		Delay:      cfg.Geocoder.Delay,
	}, log)
	if err := a.geocoding.RecoverInterrupted(ctx); err != nil {
		log.Warn("Failed to recover interrupted geocoding tasks", zap.Error(err))
	}
	legalService := service.NewLegalService(generator, embedder, cfg.LLM.TopK, cfg.LLM.MaxContext, log)
	if err := legalService.LoadDocuments(ctx, cfg.LLM.DocsDir); err != nil {
		log.Error("Failed to index legal documents", zap.String("dir", cfg.LLM.DocsDir), zap.Error(err))
	}

	// middleware
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var limiter middleware.Limiter = middleware.NewRateLimiter(ctx, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unreachable, rate limiting in memory", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb.Close()
		} else {
			a.redis = rdb
			limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	a.router = api.SetupRouter(api.Handlers{
		Health:       handler.NewHealthHandler(db),
		Heatmap:      handler.NewHeatmapHandler(heatmap.NewAggregator(crimes, polls, news), log),
		Auth:         handler.NewAuthHandler(authService, log),
		Contacts:     handler.NewContactHandler(contactService, log),
		Emergency:    handler.NewEmergencyHandler(emergencyService, log),
		Polls:        handler.NewPollHandler(pollService, log),
		News:         handler.NewNewsHandler(newsService, log),
		Verification: handler.NewVerificationHandler(verificationService, log),
		Legal:        handler.NewLegalHandler(legalService, log),
		Geocoding:    handler.NewGeocodingHandler(a.geocoding, log),
	}, api.Options{
		Tokens:      tokens,
		AdminEmails: cfg.Auth.AdminEmails,
		Limiter:     limiter,
		Metrics:     middleware.NewMetrics(reg),
		Gatherer:    reg,
		Log:         log,
	})

	return a, nil
}

// close stops background work and releases connections
func (a *app) close(log *zap.Logger) {
	a.geocoding.Stop()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}
}
