package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/analysis"
	authhandler "docvault-backend/internal/auth"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/eventlog"
	"docvault-backend/internal/importer"
	"docvault-backend/internal/llm"
	"docvault-backend/internal/llm/gemini"
	"docvault-backend/internal/realtime"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server"
	"docvault-backend/internal/shared/storage/db"
	"docvault-backend/internal/shared/storage/object"
	localstore "docvault-backend/internal/shared/storage/object/local"
	s3store "docvault-backend/internal/shared/storage/object/s3"
	"docvault-backend/internal/shared/telemetry"
	"docvault-backend/internal/users"
)

// App holds the wired application graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Hub    *realtime.Hub

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	EventLogRepo  eventlog.Repo

	UsersService     *users.Service
	EventLogService  *eventlog.Service
	ImporterService  *importer.Service
	Analyzer         *analysis.Analyzer
	DocumentsService *documents.Service
}

// Build wires repositories, services, handlers and the router from config.
// Missing external dependencies degrade instead of failing: no DATABASE_URL
// means in-memory repositories, no analysis API key means the mock analyzer,
// a broken S3 config falls back to local disk.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := buildStore(ctx, cfg)
	hub := realtime.NewHub()

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Hub:    hub,
	}

	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.DocumentsRepo = &documents.PGRepo{DB: sqlDB}
		app.EventLogRepo = &eventlog.PGRepo{DB: sqlDB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.EventLogRepo = eventlog.NewMemoryRepo()
	}

	app.UsersService = &users.Service{Repo: app.UsersRepo}
	app.EventLogService = eventlog.NewService(app.EventLogRepo, hub)
	app.ImporterService = &importer.Service{Users: app.UsersRepo}

	llmClient, err := buildAnalysisClient(cfg)
	if err != nil {
		return nil, err
	}
	app.Analyzer = &analysis.Analyzer{
		Client:    llmClient,
		Events:    app.EventLogService,
		MockDelay: cfg.MockDelay,
	}

	app.DocumentsService = &documents.Service{
		Store:    store,
		Repo:     app.DocumentsRepo,
		Importer: app.ImporterService,
		Analyzer: app.Analyzer,
		Events:   app.EventLogService,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AuthHandler:     authhandler.NewHandler(app.UsersService),
		UsersHandler:    users.NewHandler(app.UsersService),
		DocumentHandler: documents.NewHandler(app.DocumentsService),
		EventLogHandler: eventlog.NewHandler(app.EventLogService),
		WSHandler:       realtime.NewWSHandler(hub),
		SSEHandler:      realtime.NewSSEHandler(hub),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err == nil {
			return store
		}
		telemetry.Warn("bootstrap.s3_unavailable", map[string]any{
			"bucket": cfg.S3Bucket,
			"region": cfg.AWSRegion,
			"err":    err.Error(),
		})
	}
	return localstore.New(cfg.LocalStoreDir)
}

func buildAnalysisClient(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		// nil client switches the analyzer to its deterministic mock.
		return nil, nil
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
