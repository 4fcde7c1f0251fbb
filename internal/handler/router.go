package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gatherhall/concierge/backend/internal/auth"
	"github.com/gatherhall/concierge/backend/internal/config"
	chatHandler "github.com/gatherhall/concierge/backend/internal/handler/chat"
	"github.com/gatherhall/concierge/backend/internal/handler/portal"
	middlewarePkg "github.com/gatherhall/concierge/backend/internal/middleware"
	"github.com/gatherhall/concierge/backend/internal/service/ai"
	"github.com/gatherhall/concierge/backend/internal/service/history"
	"github.com/gatherhall/concierge/backend/internal/service/ratelimit"
	"github.com/gatherhall/concierge/backend/internal/store"
)

// NewRouter wires HTTP routes to core services. gen may be nil when no
// generation backend is configured; the chat endpoints then answer 503 while
// the portal reads keep working.
func NewRouter(st store.Store, hist *history.Service, limiter *ratelimit.Limiter, gen ai.Client, chatCfg config.ChatConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(auth.Middleware)

	portalH := portal.New(st, hist)
	chatH := chatHandler.New(st, hist, limiter, gen, chatCfg.MaxMessageChars)

	r.Route("/api", func(api chi.Router) {
		portalH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
	})

	return r
}
