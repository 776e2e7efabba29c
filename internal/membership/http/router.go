package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/jwtx"
	"github.com/slma/membership/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	env          string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	IdentityService     *service.IdentityService
	VerificationService *service.VerificationService
	ResetService        *service.PasswordResetService
	ProfileService      *service.ProfileService
	EventService        *service.EventService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion, env string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		env:          env,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.RecoverMiddleware(r.env),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerEvents()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/register - strict rate limit (account creation)
	registerHandler := &RegisterHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit (credential guessing)
	loginHandler := &LoginHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /auth/verify-email/{token} - moderate rate limit
	verifyHandler := &VerifyEmailHandler{VerificationService: r.VerificationService}
	r.Mux.Handle("GET /auth/verify-email/{token}",
		httpx.Chain(verifyHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/resend-verification - strict rate limit (sends mail)
	resendHandler := &ResendVerificationHandler{VerificationService: r.VerificationService}
	r.Mux.Handle("POST /auth/resend-verification",
		httpx.Chain(resendHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/forgot-password - strict rate limit (sends mail)
	forgotHandler := &ForgotPasswordHandler{ResetService: r.ResetService}
	r.Mux.Handle("POST /auth/forgot-password",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// PUT /auth/reset-password/{token} - strict rate limit (token guessing)
	resetHandler := &ResetPasswordHandler{ResetService: r.ResetService}
	r.Mux.Handle("PUT /auth/reset-password/{token}",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProfile() {
	meHandler := &MeHandler{ProfileService: r.ProfileService}
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	updateHandler := &UpdateProfileHandler{ProfileService: r.ProfileService}
	r.Mux.Handle("PUT /auth/update-profile",
		httpx.Chain(updateHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerEvents() {
	h := &EventsHandler{EventService: r.EventService}

	r.Mux.Handle("POST /events",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(string(domain.RoleMember), string(domain.RoleWoredaAdmin), string(domain.RoleSuperAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /events/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /events/{id}/attend",
		httpx.Chain(http.HandlerFunc(h.HandleAttend),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /events/{id}/attend",
		httpx.Chain(http.HandlerFunc(h.HandleLeave),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer))
}
