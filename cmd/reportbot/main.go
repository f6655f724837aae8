package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/blackmetal/material_reports_bot/internal/adapters/database/sheets"
	memsessions "github.com/blackmetal/material_reports_bot/internal/adapters/memory"
	"github.com/blackmetal/material_reports_bot/internal/adapters/pdf"
	"github.com/blackmetal/material_reports_bot/internal/adapters/telegram"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portsrepo "github.com/blackmetal/material_reports_bot/internal/core/ports/repositories"
	"github.com/blackmetal/material_reports_bot/internal/core/services"
	"github.com/blackmetal/material_reports_bot/internal/middleware"
	"github.com/blackmetal/material_reports_bot/pkg/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	displayTZ, err := cfg.DisplayLocation()
	if err != nil {
		logger.Error("Failed to resolve display timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheetsSvc, err := sheets.NewService(ctx, []byte(cfg.ServiceAccountJSON))
	if err != nil {
		logger.Error("Failed to initialize sheets client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Sheets client initialized", slog.String("spreadsheet_id", cfg.SpreadsheetID))

	journalRepo := sheets.NewSheetJournalRepository(sheetsSvc, cfg.SpreadsheetID, cfg.JournalSheet, sheets.JournalColumns{
		Date:      cfg.JournalDateColumn,
		Material:  cfg.JournalMaterialColumn,
		Operation: cfg.JournalOperationColumn,
		Weight:    cfg.JournalWeightColumn,
		Amount:    cfg.JournalAmountColumn,
		Location:  cfg.JournalLocationColumn,
	})
	materialRepo := sheets.NewSheetMaterialRepository(sheetsSvc, cfg.SpreadsheetID, cfg.MaterialsSheet, sheets.MaterialColumns{
		Material: cfg.MaterialNameColumn,
		Kind:     cfg.MaterialKindColumn,
	})
	locationRepo := sheets.NewSheetLocationRepository(sheetsSvc, cfg.SpreadsheetID, cfg.LocationsSheet)
	permissionRepo := sheets.NewSheetPermissionRepository(sheetsSvc, cfg.SpreadsheetID, cfg.UsersSheet, sheets.PermissionColumns{
		UserID:     cfg.PermissionUserIDColumn,
		Capability: cfg.PermissionFlagColumn,
	})

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to initialize telegram bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier := telegram.NewNotifier(api)
	rendererOpts := []pdf.RendererOption{}
	if cfg.LogoPath != "" {
		rendererOpts = append(rendererOpts, pdf.WithLogo(cfg.LogoPath))
	}
	renderer := pdf.NewRenderer(displayTZ, rendererOpts...)
	aggregator := services.NewJournalAggregator(domain.NumberFormat{
		DecimalComma: cfg.NumberDecimalComma,
		StripNBSP:    cfg.NumberStripNBSP,
	})
	formatter := services.NewReportFormatter()
	reportService := services.NewReportService(journalRepo, materialRepo, aggregator, formatter, renderer, notifier)
	accessService := services.NewAccessService(permissionRepo)
	conversationService := services.NewConversationService(
		memsessions.NewSessionRepository(),
		accessService,
		locationRepo,
		reportService,
		notifier,
	)

	go runHealthServer(ctx, cfg, logger, locationRepo)

	bot := telegram.NewBot(api, conversationService, logger)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

// runHealthServer exposes liveness and readiness probes beside the poller.
func runHealthServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, locations portsrepo.LocationReader) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.RateLimit(limiterInstance))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if _, err := locations.ListLocations(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "source unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("Health server starting", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Health server failed", slog.String("error", err.Error()))
	}
}
