package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aathifpm/feedback-reports/internal/config"
	handler "github.com/aathifpm/feedback-reports/internal/http"
	"github.com/aathifpm/feedback-reports/internal/report"
	"github.com/aathifpm/feedback-reports/internal/repository"
	"github.com/aathifpm/feedback-reports/internal/scope"
	"github.com/aathifpm/feedback-reports/internal/service"
	"github.com/aathifpm/feedback-reports/pkg/cache"
	dbbuilder "github.com/aathifpm/feedback-reports/pkg/database"
	"github.com/aathifpm/feedback-reports/pkg/httpserver"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBDSN),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized",
		zap.String("driver", cfg.DBDriver))

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	feedbackRepo := repository.NewFeedbackRepository(dbPool)
	surveyRepo := repository.NewSurveyRepository(dbPool)
	scopeRepo := repository.NewScopeRepository(dbPool)

	resolver := scope.NewResolver(scopeRepo, logger)
	reportService := service.NewReportService(feedbackRepo, surveyRepo, logger)

	letterhead := report.Letterhead{
		CollegeName:    cfg.CollegeName,
		CollegeAddress: cfg.CollegeAddress,
	}
	pdfRenderer := report.NewPDFRenderer(letterhead)
	excelRenderer := report.NewExcelRenderer(letterhead)

	handlers := handler.NewHandlers(reportService, resolver, pdfRenderer, excelRenderer,
		cacheClient, logger, cfg.CacheTTL)

	mode := gin.ReleaseMode
	if cfg.AppEnv != "production" {
		mode = gin.DebugMode
	}

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithMode(mode),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	handlers.Register(httpServer.Router(), cfg.JWTSecret)

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed successfully")

	_ = a.logger.Sync()
	return nil
}
