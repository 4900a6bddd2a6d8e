package handler

import (
	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/mailer"
	"github.com/bencohensolal/seniorhub/internal/ratelimit"
	"github.com/bencohensolal/seniorhub/internal/usecase"
)

// Handler bundles the HTTP-facing dependencies. Route registration lives
// in the router package.
type Handler struct {
	engine      *usecase.InvitationEngine
	households  *usecase.HouseholdUsecase
	medications *usecase.MedicationUsecase

	inviteLimiter *ratelimit.Limiter
	metrics       *mailer.Metrics
	log           *zap.Logger
}

func New(
	engine *usecase.InvitationEngine,
	households *usecase.HouseholdUsecase,
	medications *usecase.MedicationUsecase,
	inviteLimiter *ratelimit.Limiter,
	metrics *mailer.Metrics,
	log *zap.Logger,
) *Handler {
	return &Handler{
		engine:        engine,
		households:    households,
		medications:   medications,
		inviteLimiter: inviteLimiter,
		metrics:       metrics,
		log:           log,
	}
}
