package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/internal/api/store"
	"github.com/mnemo-app/mnemo/pkg/httpx"
	"github.com/mnemo-app/mnemo/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store      store.Store
	PageLimits httpx.PageLimits

	AuthService      *service.AuthService
	TokenService     *service.TokenService
	DeckService      *service.DeckService
	FlashcardService *service.FlashcardService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		PageLimits:   httpx.DefaultPageLimits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTokens()
	r.registerDecks()
	r.registerFlashcards()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn is the per-route authentication middleware bound to this router's
// token service.
func (r *Router) authn() httpx.Middleware {
	return AuthnMiddleware(r.TokenService)
}

// rateLimitByToken keys the limiter on the authenticated token so one noisy
// client cannot starve others behind a shared NAT. Falls back to
// the client IP for unauthenticated requests. Must run after authn in the
// chain.
func rateLimitByToken(config httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimitMiddleware(config, func(req *http.Request) string {
		if auth := AuthFromContext(req.Context()); auth.Authenticated() {
			return "token:" + strconv.FormatInt(auth.Token.ID, 10)
		}
		return "ip:" + httpx.IPKeyExtractor(req)
	})
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Public endpoints. Strict IP limits blunt credential stuffing and
	// signup abuse.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTokens() {
	h := &TokensHandler{TokenService: r.TokenService}

	// Token management needs authentication but no particular ability; a
	// caller may always inspect and revoke its own credentials.
	r.Mux.Handle("POST /v1/tokens",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			rateLimitByToken(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/tokens",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
			rateLimitByToken(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/tokens/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			rateLimitByToken(httpx.ModerateLimit),
		),
	)

	// Fleet-wide sweep of expired tokens. Admin only.
	r.Mux.Handle("DELETE /v1/tokens/expired",
		httpx.Chain(http.HandlerFunc(h.HandlePurgeExpired),
			r.authn(),
			RequireAbility(domain.AbilityAdmin),
			rateLimitByToken(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerDecks() {
	h := &DecksHandler{DeckService: r.DeckService, PageLimits: r.PageLimits}

	read := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			RequireAbility(domain.AbilityRead),
			rateLimitByToken(httpx.LenientLimit),
		)
	}
	write := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			RequireAbility(domain.AbilityWrite),
			rateLimitByToken(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/decks", read(h.HandleList))
	r.Mux.Handle("GET /v1/decks/public", read(h.HandleListPublic))
	r.Mux.Handle("GET /v1/decks/{deckID}", read(h.HandleGet))
	r.Mux.Handle("POST /v1/decks", write(h.HandleCreate))
	r.Mux.Handle("PUT /v1/decks/{deckID}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/decks/{deckID}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			RequireAbility(domain.AbilityDelete),
			rateLimitByToken(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerFlashcards() {
	h := &FlashcardsHandler{FlashcardService: r.FlashcardService, PageLimits: r.PageLimits}

	read := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			RequireAbility(domain.AbilityRead),
			rateLimitByToken(httpx.LenientLimit),
		)
	}
	write := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			RequireAbility(domain.AbilityWrite),
			rateLimitByToken(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/decks/{deckID}/flashcards", read(h.HandleList))
	r.Mux.Handle("GET /v1/decks/{deckID}/flashcards/{cardID}", read(h.HandleGet))
	r.Mux.Handle("POST /v1/decks/{deckID}/flashcards", write(h.HandleCreate))
	r.Mux.Handle("PUT /v1/decks/{deckID}/flashcards/{cardID}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/decks/{deckID}/flashcards/{cardID}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			RequireAbility(domain.AbilityDelete),
			rateLimitByToken(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently; keep the limits loose.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
