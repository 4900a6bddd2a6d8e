package server

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/config"
	"github.com/bencohensolal/seniorhub/internal/handler"
	"github.com/bencohensolal/seniorhub/internal/mailer"
	"github.com/bencohensolal/seniorhub/internal/ratelimit"
	"github.com/bencohensolal/seniorhub/internal/repository"
	"github.com/bencohensolal/seniorhub/internal/router"
	"github.com/bencohensolal/seniorhub/internal/usecase"
	"github.com/bencohensolal/seniorhub/pkg/middleware"
)

func NewServer(cfg config.AppConfig) (*http.Server, *mailer.Queue) {
	// --- Init Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// --- Stores ---
	var (
		households  usecase.HouseholdStore
		members     usecase.MemberStore
		invitations usecase.InvitationStore
		medications usecase.MedicationStore
		audit       usecase.AuditStore
	)
	if cfg.DatabaseURL != "" {
		db, err := config.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect DB: %v", err)
		}
		st := repository.NewStore(db)
		households, members, invitations, medications, audit = st, st, st, st, st
	} else {
		// Dev mode without Postgres.
		log.Println("[DB] DATABASE_URL empty, using in-memory store")
		ms := repository.NewMemoryStore()
		households, members, invitations, medications, audit = ms, ms, ms, ms, ms
	}

	// --- Init Redis (optional) ---
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = config.ConnectRedis(cfg.RedisAddr, cfg.RedisPass)
	}

	// --- Email delivery ---
	var provider mailer.Provider
	switch cfg.EmailProvider {
	case "smtp":
		provider = &mailer.SMTPProvider{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
		}
	case "sendgrid":
		provider = &mailer.SendGridProvider{
			APIKey:   cfg.SendGridAPIKey,
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
		}
	default:
		provider = &mailer.ConsoleProvider{Log: logger}
	}

	metrics := mailer.NewMetrics()
	queue := mailer.NewQueue(provider, metrics, logger, mailer.QueueConfig{
		MaxRetries: cfg.QueueMaxRetries,
		RetryDelay: cfg.QueueRetryDelay,
		Workers:    cfg.QueueWorkers,
	})
	queue.Start(context.Background())

	links := mailer.LinkBuilder{
		BackendBaseURL:  cfg.BackendBaseURL,
		FallbackBaseURL: cfg.FallbackBaseURL,
	}

	// --- Init Usecases ---
	engine := usecase.NewInvitationEngine(usecase.InvitationEngineDeps{
		Invitations: invitations,
		Members:     members,
		Households:  households,
		Audit:       audit,
		Queue:       queue,
		Links:       links,
		Log:         logger,
	})
	householdUC := usecase.NewHouseholdUsecase(usecase.HouseholdUsecaseDeps{
		Households:  households,
		Members:     members,
		Invitations: invitations,
		Medications: medications,
		Audit:       audit,
		Log:         logger,
	})
	medicationUC := usecase.NewMedicationUsecase(medications, members)

	inviteLimiter := ratelimit.New(cfg.InviteRateLimit, cfg.InviteRateWindow)

	// --- Init Middleware ---
	auth := middleware.NewAuth([]byte(cfg.JWTSecret))

	// --- Init Handlers ---
	h := handler.New(engine, householdUC, medicationUC, inviteLimiter, metrics, logger)

	log.Println("[SeniorHub] Handlers initialized")

	// --- Router ---
	r := chi.NewRouter()
	r = router.SetupRoutes(r, h, auth, rdb).(*chi.Mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}, queue
}
