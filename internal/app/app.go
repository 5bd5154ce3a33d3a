package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalnudge/internal/config"
	"github.com/templui/goalnudge/internal/db"
	"github.com/templui/goalnudge/internal/lexicon"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/service"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	UserService      *service.UserService
	ObjectiveService *service.ObjectiveService
	NudgeService     *service.NudgeService
	ReplyService     *service.ReplyService
	EmailService     *service.EmailService
	WebhookVerifier  *service.WebhookVerifier
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := newWithDB(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return a, nil
}

func newWithDB(ctx context.Context, cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	objectiveRepository := repository.NewObjectiveRepository(database)
	stepRepository := repository.NewStepRepository(database)
	pendingActionRepository := repository.NewPendingActionRepository(database)

	// Keyword table
	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		loaded, err := lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		lex = loaded
		slog.Info("lexicon loaded", "path", cfg.LexiconPath, "categories", len(lex.Categories()))
	}

	// Synthesizer backend; without a key every synthesized action is the fallback
	var generator service.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := service.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini: %w", err)
		}
		generator = gemini
	} else {
		slog.Warn("GEMINI_API_KEY not set, using fallback micro-actions")
	}

	opts := service.EngineOptions{
		PendingActionTTL:     cfg.PendingActionTTL,
		ActiveObjectiveLimit: cfg.ActiveObjectiveLimit,
		TriggerConcurrency:   cfg.TriggerConcurrency,
	}

	webhookVerifier, err := service.NewWebhookVerifier(cfg.ReplyWebhookSecret)
	if err != nil {
		return nil, err
	}

	// Services
	userService := service.NewUserService(userRepository, cfg.DefaultUTCOffsetMinutes)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
		userService,
	)
	authService := service.NewAuthService(cfg.SchedulerSecret, cfg.SchedulerTokenExpiry)
	synthesizer := service.NewSynthesizer(generator, cfg.SynthesizerTimeout)
	selector := service.NewActionSelector(synthesizer, lex)
	objectiveService := service.NewObjectiveService(objectiveRepository, stepRepository, userRepository, opts)
	nudgeService := service.NewNudgeService(
		objectiveRepository,
		stepRepository,
		pendingActionRepository,
		userService,
		selector,
		emailService,
		opts,
	)
	replyService := service.NewReplyService(
		objectiveRepository,
		stepRepository,
		pendingActionRepository,
		userService,
		synthesizer,
		opts,
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		UserService:      userService,
		ObjectiveService: objectiveService,
		NudgeService:     nudgeService,
		ReplyService:     replyService,
		EmailService:     emailService,
		WebhookVerifier:  webhookVerifier,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
