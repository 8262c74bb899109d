package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/cfoia/backend/internal/handlers"
	"github.com/cfoia/backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	mw := middleware.NewMiddleware(deps.Firebase)
	lmw := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(lmw.LoggerMiddleware)

	wah := handlers.NewWhatsAppHandlers(deps)
	mh := handlers.NewMatchHandlers(deps)
	ch := handlers.NewConnectHandlers(deps)
	jh := handlers.NewJobsHandlers(deps)

	r.Mount("/webhook/whatsapp", wah.WebhookRoutes())
	r.Mount("/jobs", jh.JobRoutes())

	r.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Use(mw.FirebaseAuth)
		r.Mount("/match", mh.MatchRoutes())
		r.Mount("/connections", ch.ConnectRoutes())
	})

	return r
}
