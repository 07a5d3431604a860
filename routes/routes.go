package routes

import (
	"net/http"

	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CORSOrigins    []string
	JWTSecretKey   string // empty leaves mutating routes unauthenticated
	RateLimitRPS   float64
	RateLimitBurst int
	Gatherer       prometheus.Gatherer
}

func SetupRoutes(
	r chi.Router,
	opts Options,
	bracketHandler *handlers.BracketHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler.Healthz)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/ws/brackets/{bracketID}", webSocketHandler.ServeWs)

	limiter := middleware.NewIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	protect := func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		if opts.JWTSecretKey != "" {
			r.Use(middleware.Authenticate(opts.JWTSecretKey))
		}
	}

	r.Route("/brackets", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			protect(r)
			r.Post("/", bracketHandler.CreateBracket)
		})

		r.Route("/{bracketID}", func(r chi.Router) {
			r.Get("/", bracketHandler.GetBracket)
			r.Get("/participants", bracketHandler.ListParticipants)
			r.Get("/standings", bracketHandler.GetStandings)

			r.Group(func(r chi.Router) {
				protect(r)
				r.Delete("/", bracketHandler.DeleteBracket)
				r.Put("/participants/{participantID}", bracketHandler.RenameParticipant)
				r.Post("/matches/{matchID}/transition", bracketHandler.TransitionMatch)
				r.Put("/matches/{matchID}/score", bracketHandler.UpdateScore)
				r.Post("/matches/{matchID}/complete", bracketHandler.CompleteMatch)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
