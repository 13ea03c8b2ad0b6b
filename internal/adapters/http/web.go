package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"courtside/internal/adapters/http/middleware"
	accountStore "courtside/internal/adapters/storage/account"
	analysisStore "courtside/internal/adapters/storage/analysis"
	outboxStore "courtside/internal/adapters/storage/outbox"
	planStore "courtside/internal/adapters/storage/plan"
	playerStore "courtside/internal/adapters/storage/player"
	sessionStore "courtside/internal/adapters/storage/session"
	"courtside/internal/application/coordinator"
	"courtside/internal/application/orchestrators"
	"courtside/internal/domain/account"
	"courtside/internal/domain/plan"
	"courtside/pkg/metrics"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	PlayerStore   playerStore.Store
	SessionStore  sessionStore.Store
	AnalysisStore analysisStore.Store
	PlanStore     planStore.Store
	OutboxStore   outboxStore.Store
}

// Services holds the long-lived collaborators shared with cmd/server, which
// also runs their maintenance jobs.
type Services struct {
	Sessions     *middleware.SessionStore
	Coordinators *coordinator.Registry
	Limiter      *middleware.RateLimiter
	Analyses     *orchestrators.AnalysisRunner
	Outbox       *orchestrators.OutboxProcessor
	Generator    plan.Generator
	Metrics      *metrics.Manager
	// Health reports whether the database is reachable. Nil means always healthy.
	Health func(ctx context.Context) error
}

// Options configures request handling.
type Options struct {
	Location       *time.Location
	CSRFKey        []byte
	Secure         bool // production: Secure cookies, HTTPS-only CSRF checks
	AllowedOrigins []string
	SlowRequest    time.Duration
	Now            func() time.Time
	GenerateID     func() string
}

// Server serves the JSON API.
type Server struct {
	stores *Stores
	svc    Services
	opts   Options
}

// NewServer wires the API. Zero Options fields fall back to process defaults;
// a nil Metrics records nothing.
func NewServer(stores *Stores, svc Services, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GenerateID == nil {
		opts.GenerateID = func() string { return uuid.New().String() }
	}
	if svc.Generator == nil {
		svc.Generator = plan.LookupGenerator{}
	}
	if svc.Sessions == nil {
		svc.Sessions = middleware.NewSessionStore(opts.Now)
	}
	if svc.Coordinators == nil {
		svc.Coordinators = coordinator.NewRegistry(coordinator.Options{Now: opts.Now, Location: opts.Location})
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.NewManager(metrics.WithMetricsEnabled(false))
	}
	return &Server{stores: stores, svc: svc, opts: opts}
}

// Handler returns the API with its middleware applied.
// Order, outermost first: CORS -> SecurityHeaders -> RateLimit -> Auth -> CSRF -> Timing -> Mux.
// Timing sits next to the mux so it sees the matched route pattern.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	chain := []func(http.Handler) http.Handler{
		middleware.Timing(s.svc.Metrics, s.opts.SlowRequest),
		middleware.CSRF(s.opts.CSRFKey, s.opts.Secure, s.opts.AllowedOrigins),
		middleware.Auth(s.svc.Sessions),
	}
	if s.svc.Limiter != nil {
		chain = append(chain, middleware.RateLimit(s.svc.Limiter))
	}
	chain = append(chain, middleware.SecurityHeaders, middleware.CORS(s.opts.AllowedOrigins))
	return middleware.Chain(mux, chain...)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	auth := middleware.RequireAuth
	coach := middleware.RequireRole(account.RoleCoach)
	handle := func(pattern string, h http.HandlerFunc, wrap ...func(http.Handler) http.Handler) {
		var handler http.Handler = h
		for _, w := range wrap {
			handler = w(handler)
		}
		mux.Handle(pattern, handler)
	}

	handle("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.svc.Metrics.Handler())

	handle("POST /api/login", s.handleLogin)
	handle("POST /api/logout", s.handleLogout)
	handle("GET /api/me", s.handleMe, auth)
	handle("POST /api/account/password", s.handleChangePassword, auth)
	handle("POST /api/accounts", s.handleCreateAccount, coach)

	handle("GET /api/players", s.handleListPlayers, auth)
	handle("POST /api/players", s.handleCreatePlayer, coach)
	handle("GET /api/players/stats", s.handlePlayerStats, auth)
	handle("GET /api/players/{id}", s.handleGetPlayer, auth)
	handle("PUT /api/players/{id}", s.handleUpdatePlayer, coach)
	handle("DELETE /api/players/{id}", s.handleDeletePlayer, coach)

	handle("GET /api/schedule", s.handleSchedule, auth)
	handle("POST /api/schedule/month", s.handleScheduleMonth, auth)
	handle("POST /api/schedule/tap", s.handleScheduleTap, auth)
	handle("POST /api/schedule/focus", s.handleScheduleFocus, auth)
	handle("POST /api/schedule/reset", s.handleScheduleReset, auth)
	handle("POST /api/schedule/draft/player", s.handleDraftPlayer, auth)
	handle("POST /api/schedule/draft/type", s.handleDraftType, auth)
	handle("POST /api/schedule/draft/time", s.handleDraftTime, auth)
	handle("POST /api/schedule/draft/notes", s.handleDraftNotes, auth)
	handle("POST /api/schedule/book", s.handleScheduleBook, auth)
	handle("POST /api/schedule/close", s.handleScheduleClose, auth)

	handle("GET /api/sessions", s.handleListSessions, auth)
	handle("POST /api/sessions/{id}/status", s.handleSessionStatus, auth)

	handle("GET /api/analyses", s.handleListAnalyses, auth)
	handle("POST /api/analyses", s.handleStartAnalysis, auth)
	handle("GET /api/analyses/overview", s.handleAnalysisOverview, auth)
	handle("GET /api/analyses/{id}", s.handleGetAnalysis, auth)

	handle("GET /api/plans", s.handleListPlans, auth)
	handle("POST /api/plans", s.handleGeneratePlan, auth)
	handle("GET /api/plans/{id}", s.handleGetPlan, auth)
	handle("POST /api/plans/{id}/email", s.handleEmailPlan, auth)

	handle("GET /api/admin/outbox", s.handleAdminOutboxList, coach)
	handle("POST /api/admin/outbox/{id}/retry", s.handleAdminOutboxRetry, coach)
	handle("POST /api/admin/outbox/{id}/abandon", s.handleAdminOutboxAbandon, coach)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.svc.Health != nil {
		if err := s.svc.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
