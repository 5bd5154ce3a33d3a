package routes

import (
	"net/http"

	"github.com/templui/goalnudge/internal/app"
	"github.com/templui/goalnudge/internal/handler"
	"github.com/templui/goalnudge/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	nudge := handler.NewNudgeHandler(app.NudgeService)
	reply := handler.NewReplyHandler(app.ReplyService, app.WebhookVerifier, app.EmailService)
	objective := handler.NewObjectiveHandler(app.ObjectiveService, app.UserService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	// Inbound user replies (signed, rate limited)
	rateLimiter := middleware.RateLimitReplies()
	mux.HandleFunc("POST /webhooks/reply", rateLimiter(reply.Webhook))

	// ============================================================================
	// INTERNAL ROUTES (/internal/*, scheduler token)
	// ============================================================================

	requireScheduler := middleware.RequireScheduler(app.AuthService)
	triggerLimit := middleware.RateLimitTriggers()

	// Slot triggers
	mux.HandleFunc("POST /internal/slots/{slot}", requireScheduler(triggerLimit(nudge.TriggerSlot)))
	mux.HandleFunc("GET /internal/users/{userID}/history", requireScheduler(nudge.History))

	// Seeding
	mux.HandleFunc("POST /internal/users", requireScheduler(objective.CreateUser))
	mux.HandleFunc("POST /internal/users/{userID}/objectives", requireScheduler(objective.Create))
	mux.HandleFunc("GET /internal/users/{userID}/objectives", requireScheduler(objective.List))
	mux.HandleFunc("POST /internal/objectives/{objectiveID}/steps", requireScheduler(objective.AddStep))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
	)

	return handler
}
