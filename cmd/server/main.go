package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alphabot/internal/bot"
	"alphabot/internal/cache"
	"alphabot/internal/catalog"
	"alphabot/internal/config"
	"alphabot/internal/db"
	"alphabot/internal/handler"
	"alphabot/internal/index"
	"alphabot/internal/job"
	"alphabot/internal/provider"
	"alphabot/internal/repository"
	"alphabot/internal/request"
	"alphabot/internal/service"
	"alphabot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "alphabot/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	loadOverlayFunc  = catalog.LoadOverlay
	newBuilderFunc   = func(tracer trace.Tracer, cfg *config.Config, shortcuts map[string]string) job.IndexBuilder {
		return newIndexBuilder(tracer, cfg, shortcuts)
	}
	startRefresherFunc     = func(r *job.IndexRefresher, ctx context.Context) { go r.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Alphabot API
// @version         1.0
// @description     Market command resolution, listings and index maintenance for the alphabot chat bot.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Guild settings and alerts need Postgres; without it every chat uses
	// the configured defaults.
	var (
		settings bot.SettingsStore
		alerts   bot.AlertStore
	)
	if db.Pool != nil {
		settingsRepo := repository.NewGuildSettingsRepository(db.Pool, tracer)
		alertRepo := repository.NewAlertRepository(db.Pool, tracer)
		if err := settingsRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		if err := alertRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		settings, alerts = settingsRepo, alertRepo
	}

	// Catalog vocabulary, optionally extended by the overlay file
	catalogs := catalog.Default()
	var shortcuts map[string]string
	if cfg.CatalogOverlayPath != "" {
		overlay, err := loadOverlayFunc(cfg.CatalogOverlayPath)
		if err != nil {
			log.Fatalf("failed to load catalog overlay: %v", err)
		}
		if catalogs, err = catalogs.WithOverlay(overlay); err != nil {
			log.Fatalf("invalid catalog overlay: %v", err)
		}
		shortcuts = overlay.Exchanges
	}

	// Resolution index, rebuilt in the background
	idx := index.New()
	refresher := job.NewIndexRefresher(tracer, newBuilderFunc(tracer, cfg, shortcuts), idx, cfg.IndexRefreshHours)
	startRefresherFunc(refresher, ctx)

	// Services
	coinGecko := provider.NewCoinGeckoProvider(tracer, cfg.CoinGeckoBaseURL)
	iexc := provider.NewIEXCProvider(tracer, cfg.IEXCToken)
	renderTTL := time.Duration(cfg.RenderCacheTTLSecs) * time.Second
	renderService := service.NewRenderService(tracer, redisStore("render:"), renderTTL, cfg.RenderServiceURL, provider.NewFearGreedProvider(tracer))
	quoteService := service.NewQuoteService(tracer, idx, coinGecko, iexc, redisStore("quote:"), cfg.RenderServiceURL)
	listingService := service.NewListingService(tracer, idx)
	engine := request.NewEngine(idx, catalogs)

	// Start Telegram bot
	dispatcher := bot.NewDispatcher(tracer, bot.Deps{
		Engine:      engine,
		Index:       idx,
		Settings:    settings,
		Alerts:      alerts,
		Render:      renderService,
		Quotes:      quoteService,
		Listings:    listingService,
		DefaultBias: cfg.DefaultBias,
	})
	startTelegramBotFunc(cfg.TelegramBotToken, dispatcher)

	// Create handlers and routes
	h := handler.New(tracer, engine, idx, listingService, refresher, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("alphabot"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// newIndexBuilder wires the CoinGecko registry, the configured venue loaders
// and the IEX Cloud symbol tables into one builder.
func newIndexBuilder(tracer trace.Tracer, cfg *config.Config, shortcuts map[string]string) *index.Builder {
	coinGecko := provider.NewCoinGeckoProvider(tracer, cfg.CoinGeckoBaseURL)

	var loaders []index.MarketLoader
	if cfg.BinanceEnabled {
		loaders = append(loaders, provider.NewBinanceLoader(tracer, ""))
	}
	for _, id := range cfg.IndexExchanges {
		if id == "binance" && cfg.BinanceEnabled {
			continue
		}
		loaders = append(loaders, coinGecko.ExchangeLoader(id, ""))
	}

	var securities index.SecuritySource
	if cfg.IEXCToken != "" {
		securities = provider.NewIEXCProvider(tracer, cfg.IEXCToken)
	} else {
		log.Println("IEXC_TOKEN not set, traditional markets will not be indexed")
	}
	return index.NewBuilder(tracer, coinGecko, securities, loaders, shortcuts)
}

func redisStore(prefix string) *cache.Store {
	if cache.Client == nil {
		return cache.NewStore(nil, prefix)
	}
	return cache.NewStore(cache.Client, prefix)
}
