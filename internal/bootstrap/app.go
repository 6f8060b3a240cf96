package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/conversations"
	"pdfchat-backend/internal/doccontext"
	"pdfchat-backend/internal/extract"
	"pdfchat-backend/internal/health"
	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/llm/gemini"
	"pdfchat-backend/internal/llm/openai"
	"pdfchat-backend/internal/shared/config"
	"pdfchat-backend/internal/shared/server"
	"pdfchat-backend/internal/shared/storage/db"
	"pdfchat-backend/internal/shared/storage/object"
	localstore "pdfchat-backend/internal/shared/storage/object/local"
	s3store "pdfchat-backend/internal/shared/storage/object/s3"
	"pdfchat-backend/internal/shared/telemetry"
	"pdfchat-backend/internal/uploads"
	"pdfchat-backend/internal/web"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Context *doccontext.Store
	LLM     llm.Client

	UploadsRepo       uploads.Repo
	ConversationsRepo conversations.Repo

	UploadsService       *uploads.Service
	ConversationsService *conversations.Service
}

type options struct {
	llm       llm.Client
	extractor extract.Extractor
	store     object.ObjectStore
}

// Option overrides a dependency, mainly for tests.
type Option func(*options)

// WithLLM replaces the configured generative provider.
func WithLLM(c llm.Client) Option {
	return func(o *options) { o.llm = c }
}

// WithExtractor replaces the PDF extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(o *options) { o.extractor = e }
}

// WithStore replaces the configured object store.
func WithStore(s object.ObjectStore) Option {
	return func(o *options) { o.store = s }
}

// Build prepares every dependency and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	client := o.llm
	if client == nil {
		client, err = BuildLLM(cfg.LLM)
		if err != nil {
			return nil, err
		}
	}

	extractor := o.extractor
	if extractor == nil {
		extractor = extract.PDF{}
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Context: doccontext.New(),
		LLM:     client,
	}

	if sqlDB != nil {
		app.UploadsRepo = &uploads.PGRepo{DB: sqlDB}
		app.ConversationsRepo = &conversations.PGRepo{DB: sqlDB}
	} else {
		app.UploadsRepo = uploads.NewMemoryRepo()
		app.ConversationsRepo = conversations.NewMemoryRepo()
	}

	app.UploadsService = &uploads.Service{
		Store:     store,
		Extractor: extractor,
		Context:   app.Context,
		Repo:      app.UploadsRepo,
	}
	app.ConversationsService = &conversations.Service{
		LLM:      client,
		Provider: cfg.LLM.Provider,
		Context:  app.Context,
		Repo:     app.ConversationsRepo,
	}

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Handlers: []server.RouteRegistrar{
			web.NewHandler(),
			uploads.NewHandler(app.UploadsService, cfg.MaxUploadBytes),
			conversations.NewHandler(app.ConversationsService),
			health.NewHandler(health.NewService(pinger, app.Context.Version)),
		},
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildLLM constructs the configured provider client. A missing credential yields a
// PlaceholderClient so the server still starts and each conversation reports the failure.
func BuildLLM(cfg config.LLMConfig) (llm.Client, error) {
	gen := llm.GenerationConfig{
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
		Temperature:       cfg.Temperature,
		TopP:              cfg.TopP,
		TopK:              cfg.TopK,
		MaxOutputTokens:   cfg.MaxOutputTokens,
	}

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			telemetry.Warn("bootstrap.llm.unconfigured", map[string]any{"provider": cfg.Provider})
			return llm.PlaceholderClient{Provider: cfg.Provider}, nil
		}
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout, gen)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" && cfg.GeminiAccessToken == "" {
			telemetry.Warn("bootstrap.llm.unconfigured", map[string]any{"provider": "gemini"})
			return llm.PlaceholderClient{Provider: "gemini"}, nil
		}
		client, err := gemini.NewClient(gemini.Options{
			BaseURL:     cfg.GeminiBaseURL,
			APIKey:      cfg.GeminiAPIKey,
			AccessToken: cfg.GeminiAccessToken,
			Timeout:     cfg.Timeout,
			Generation:  gen,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}
