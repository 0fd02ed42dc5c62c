package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/documents"
	"intellidocs-backend/internal/llm"
	"intellidocs-backend/internal/llm/gemini"
	"intellidocs-backend/internal/services/health"
	"intellidocs-backend/internal/shared/auth"
	"intellidocs-backend/internal/shared/config"
	"intellidocs-backend/internal/shared/server"
	"intellidocs-backend/internal/shared/storage/db"
	"intellidocs-backend/internal/shared/storage/object"
	localstore "intellidocs-backend/internal/shared/storage/object/local"
	s3store "intellidocs-backend/internal/shared/storage/object/s3"
	"intellidocs-backend/internal/users"
)

// App holds shared dependencies built once at startup.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Tokens *auth.Tokens

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo

	UsersService     *users.Service
	DocumentsService *documents.Service

	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
}

// Build prepares shared dependencies and wires the router.
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
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
	}

	if app.DB != nil {
		app.UsersRepo = users.NewPGRepo(app.DB)
		app.DocumentsRepo = documents.NewPGRepo(app.DB)
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Tokens)
	app.DocumentsService = documents.NewService(app.DocumentsRepo, app.Store, analyzer)

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Tokens:           app.Tokens,
		Health:           health.NewService(),
		UsersHandler:     app.UsersHandler,
		UsersService:     app.UsersService,
		DocumentsHandler: app.DocumentsHandler,
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
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildAnalyzer(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; using placeholder analyzer")
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
