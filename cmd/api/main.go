package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"agentmail/docs"
	"agentmail/internal/config"
	"agentmail/internal/database"
	"agentmail/internal/database/migration"
	handlers "agentmail/internal/http/handler"
	"agentmail/internal/http/middleware"
	"agentmail/internal/idempotency"
	"agentmail/internal/logger"
	"agentmail/internal/metrics"
	"agentmail/internal/notify"
	"agentmail/internal/otel"
	"agentmail/internal/provider/mailbox"
	"agentmail/internal/provider/ocr"
	"agentmail/internal/repository/postgres"
	"agentmail/internal/service"
	"agentmail/internal/storage"
)

// @title Registered Agent Mail API
// @version 1.0
// @description Registered agent addresses, consents and categorized intake of mail received for business entities.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Log.ServiceName, zl)
	if err != nil {
		zl.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql) and make sure the schema exists
	db, err := database.NewPostgres(cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zl, cfg.Database.Host); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	// Consent documents are archived only when object storage is configured
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMinIO(ctx, cfg.MinIO, zl)
		if err != nil {
			zl.Fatal("failed to initialize object storage", zap.Error(err))
		}
		objStore = store
	}

	// Webhook deduplication is enabled when Redis is configured
	var guard service.DeliveryGuard
	redisClient, err := idempotency.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		guard = idempotency.NewGuard(redisClient, cfg.Redis.ClaimTTL(), cfg.Redis.DedupeTTL())
	}

	var notifier notify.Notifier = notify.NewLogNotifier(zl)
	if len(cfg.Kafka.Brokers) > 0 {
		kn, err := notify.NewKafkaNotifier(ctx, cfg.Kafka, zl)
		if err != nil {
			zl.Fatal("failed to initialize kafka notifier", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kn.Close(closeCtx)
		}()
		notifier = kn
	}

	mailboxClient := mailbox.New(cfg.Mailbox, cfg.ProviderTimeout(), zl)
	ocrClient := ocr.NewMindee(cfg.OCR, cfg.ProviderTimeout(), zl)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := database.RegisterStats(reg, db, cfg.Database.Name); err != nil {
		zl.Fatal("failed to register database pool metrics", zap.Error(err))
	}
	intakeMetrics, err := metrics.NewIntakeMetrics(reg)
	if err != nil {
		zl.Fatal("failed to register intake metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		zl.Fatal("failed to register http metrics", zap.Error(err))
	}

	// Initialize repositories and services
	addressRepo := postgres.NewAddressPostgres(db)
	entityRepo := postgres.NewEntityPostgres(db)
	consentRepo := postgres.NewConsentPostgres(db)
	documentRepo := postgres.NewDocumentPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	tx := database.NewTransactor(db)

	registry := service.NewAddressRegistry(addressRepo, service.DefaultAddressSeed(), zl)
	consentSvc := service.NewConsentService(entityRepo, consentRepo, registry, objStore, tx, cfg.AgentName, zl)
	intakeSvc := service.NewMailIntake(service.IntakeDeps{
		Entities:  entityRepo,
		Documents: documentRepo,
		Audits:    auditRepo,
		Tx:        tx,
		Scanner:   mailboxClient,
		OCR:       ocrClient,
		Notifier:  notifier,
		Guard:     guard,
		Metrics:   intakeMetrics,
		AgentName: cfg.AgentName,
		Logger:    zl,

		NotifyTimeout: cfg.Kafka.DeliveryTimeout(),
	})
	documentSvc := service.NewDocumentService(entityRepo, documentRepo, auditRepo, tx, cfg.AgentName, zl)
	activationSvc := service.NewAgentActivation(entityRepo, registry, consentSvc, mailboxClient, zl)

	if mailboxClient.Simulated() || ocrClient.Simulated() {
		zl.Warn("provider credentials missing, running with simulated providers",
			zap.Bool("mailbox_simulated", mailboxClient.Simulated()),
			zap.Bool("ocr_simulated", ocrClient.Simulated()),
		)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// Tracing first so request spans cover the rest of the chain
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// Client IP and user agent feed the document audit trail
	app.Use(middleware.ClientMetadata())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(zl))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Services{
		DB:         db,
		Registry:   registry,
		Consents:   consentSvc,
		Intake:     intakeSvc,
		Documents:  documentSvc,
		Activation: activationSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	zl.Info("server starting", zap.String("addr", addr), zap.String("agent_name", cfg.AgentName))
	if err := app.Listen(addr); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		zl.Warn("tracer shutdown failed", zap.Error(err))
	}
}
