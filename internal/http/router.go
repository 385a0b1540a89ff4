package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/finance"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finboard/internal/http/rules"
)

type Options struct {
	Logger         *slog.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func New(
	opts Options,
	financeV1 *finance.Handler,
	importV1 *importcsv.Handler,
	rulesV1 *rules.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(RequestLogger(opts.Logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	router.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			financeV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
