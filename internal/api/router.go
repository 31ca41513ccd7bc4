package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicetranslate/internal/api/handlers"
	"github.com/nikhilbhutani/voicetranslate/internal/api/middleware"
	"github.com/nikhilbhutani/voicetranslate/internal/pipeline"
)

type Router struct {
	mux      *chi.Mux
	pipeline *pipeline.Pipeline
}

func NewRouter(p *pipeline.Pipeline) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		pipeline: p,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	health := handlers.NewHealthHandler(rt.pipeline)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	translateH := handlers.NewTranslateHandler(rt.pipeline)
	r.Post("/translate/", translateH.Translate)
	r.Post("/translate", translateH.Translate)

	return r
}
