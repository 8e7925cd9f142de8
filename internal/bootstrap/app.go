package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"fms-backend/internal/assessment"
	"fms-backend/internal/shared/config"
	"fms-backend/internal/shared/server"
	"fms-backend/internal/shared/storage/db"
	"fms-backend/internal/upstream"
	"fms-backend/internal/workout"
)

// App holds the wired dependencies behind the API server.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	DraftStore  assessment.Store
	Scoring     *upstream.Scoring
	Generation  *upstream.Generation
	Persistence *upstream.Persistence
	Coordinator *workout.Coordinator

	DraftHandler    *assessment.Handler
	WorkflowHandler *workout.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	drafts, err := buildDraftStore(cfg, sqlDB)
	if err != nil {
		return nil, err
	}

	tokens := serviceTokens(cfg)
	scoring := upstream.NewScoring(cfg.ScoringURL, cfg.UpstreamTimeout, tokens)
	generation := upstream.NewGeneration(cfg.GenerationURL, cfg.UpstreamTimeout, tokens)
	persistence := upstream.NewPersistence(cfg.PersistenceURL, cfg.UpstreamTimeout, tokens)

	coordinator := workout.NewCoordinator(drafts, scoring, generation, persistence)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		DraftStore:      drafts,
		Scoring:         scoring,
		Generation:      generation,
		Persistence:     persistence,
		Coordinator:     coordinator,
		DraftHandler:    assessment.NewHandler(drafts),
		WorkflowHandler: workout.NewHandler(coordinator, persistence),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DB:              app.DB,
		DraftHandler:    app.DraftHandler,
		WorkflowHandler: app.WorkflowHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DraftStoreType != "postgres" {
		return nil, nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory draft store")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required for DRAFT_STORE=postgres")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory draft store: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildDraftStore(cfg config.Config, sqlDB *sql.DB) (assessment.Store, error) {
	switch cfg.DraftStoreType {
	case "postgres":
		if sqlDB == nil {
			return assessment.NewMemoryStore(), nil
		}
		return &assessment.PGStore{DB: sqlDB}, nil
	case "memory":
		return assessment.NewMemoryStore(), nil
	case "file":
		if strings.TrimSpace(cfg.DraftDir) == "" {
			return nil, fmt.Errorf("DRAFT_DIR is required for DRAFT_STORE=file")
		}
		return assessment.NewFileStore(cfg.DraftDir), nil
	default:
		return nil, fmt.Errorf("unknown draft store %q", cfg.DraftStoreType)
	}
}

func serviceTokens(cfg config.Config) oauth2.TokenSource {
	if strings.TrimSpace(cfg.ServiceToken) == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.ServiceToken})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
