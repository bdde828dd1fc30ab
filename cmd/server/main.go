package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rentassist/internal/config"
	"rentassist/internal/handler"
	"rentassist/internal/job"
	"rentassist/internal/logger"
	"rentassist/internal/model"
	"rentassist/internal/repository"
	"rentassist/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// storage bundles the per-backend stores.
type storage struct {
	db         *repository.Database
	sessions   repository.SessionStore
	activity   repository.ActivityLog
	outbox     repository.Outbox
	embeddings *repository.EmbeddingRepository
}

func (s *storage) Close() {
	if s.sessions != nil {
		_ = s.sessions.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*storage, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		sessions, err := repository.NewMemoryStore(cfg.Storage.SessionMaxUsers)
		if err != nil {
			return nil, err
		}
		return &storage{
			sessions: sessions,
			activity: repository.NewMemoryActivityLog(cfg.Jobs.ActivityRetention),
			outbox:   repository.NewMemoryOutbox(),
		}, nil
	}

	driver, dsn := repository.DriverSQLite, cfg.Storage.SQLitePath
	if cfg.Storage.Backend == config.BackendPostgres {
		driver, dsn = repository.DriverPostgres, cfg.GetPostgreSQLDSN()
	}
	db, err := repository.Open(driver, dsn, cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s := &storage{
		db:       db,
		sessions: repository.NewSQLSessionStore(db),
		activity: repository.NewSQLActivityLog(db),
		outbox:   repository.NewSQLOutbox(db),
	}
	if db.IsPostgres() {
		emb, err := repository.NewEmbeddingRepository(ctx, db, cfg.Embedding.Dimensions)
		if err != nil {
			zl.Warn("listing embeddings disabled", zap.Error(err))
		} else {
			s.embeddings = emb
		}
	}
	return s, nil
}

func main() {
	// Print version info
	log.Printf("Rental Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	listings, err := repository.LoadListingsCSV(cfg.Listings.CSVPath)
	if err != nil {
		zl.Fatal("failed to load listings", zap.String("path", cfg.Listings.CSVPath), zap.Error(err))
	}
	catalog := model.NewCatalog(listings)
	zl.Info("listings loaded",
		zap.Int("rows", len(listings)),
		zap.Int("property_types", len(catalog.PropertyTypes())))

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.Close()
	zl.Info("storage ready", zap.String("backend", cfg.Storage.Backend))

	// Initialize services
	var mailer service.Mailer = service.NewLogMailer(zl)
	if cfg.Mail.Mode == config.MailModeOutbox {
		mailer = service.NewOutboxMailer(store.outbox)
	}
	messenger := service.NewMessenger(mailer, store.activity, service.MessengerConfig{
		From:       cfg.Mail.From,
		Timeout:    cfg.Mail.Timeout,
		MaxRetries: cfg.Mail.MaxRetries,
		RetryBase:  cfg.Mail.RetryBase,
	}, zl)

	engine := service.NewQueryEngine(catalog, cfg.Listings.PageSize)
	actions := service.NewActionResolver(engine, messenger, store.activity, zl)
	assistant := service.NewAssistant(
		service.NewContextStore(store.sessions),
		service.NewNormalizer(),
		service.NewIntentResolver(),
		engine,
		actions,
		zl,
	)

	var embeddings *service.EmbeddingService
	if store.embeddings != nil {
		embeddings = service.NewEmbeddingService(store.embeddings, catalog)
	}

	pruner := job.NewActivityPruner(store.activity, cfg.Jobs.ActivityRetention, zl)
	scheduler, err := job.StartCronJob(cfg.Jobs.ActivityPruneSchedule, pruner)
	if err != nil {
		zl.Fatal("failed to schedule activity pruning", zap.Error(err))
	}
	defer scheduler.Stop()

	zl.Info("services initialized",
		zap.Int("page_size", engine.PageSize()),
		zap.String("mail_mode", cfg.Mail.Mode),
		zap.Bool("embeddings", embeddings != nil))

	// Initialize handlers
	chatHandler := handler.NewChatHandler(assistant, zl)
	actionHandler := handler.NewActionHandler(assistant)
	sessionHandler := handler.NewSessionHandler(assistant)
	listingHandler := handler.NewListingHandler(assistant)
	embeddingHandler := handler.NewEmbeddingHandler(embeddings)
	activityHandler := handler.NewActivityHandler(store.activity)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = strings.Split(cfg.Server.AllowedMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.Server.AllowedHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "rental-assistant",
			"listings":   catalog.Len(),
			"storage":    cfg.Storage.Backend,
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Conversation endpoints
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/chat/stream", chatHandler.ChatStream)

		// Session endpoints
		apiV1.GET("/sessions/:user", sessionHandler.Get)
		apiV1.DELETE("/sessions/:user/filters", sessionHandler.ResetFilters)
		apiV1.POST("/sessions/:user/actions", actionHandler.Execute)

		// Listing endpoints
		apiV1.GET("/listings/:id", listingHandler.GetListing)
		apiV1.GET("/listings/:id/similar", embeddingHandler.Similar)

		// Embedding endpoints
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)

		// Activity feed
		apiV1.GET("/activities", activityHandler.Recent)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "API endpoint not found"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zl.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
}
