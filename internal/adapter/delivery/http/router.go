// Package http provides the HTTP delivery layer for the link shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the link shortener API.
func NewRouter(
	logger *httplog.Logger,
	linkUseCase linkUseCase,
	linkExporter linkExporter,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Handle("/metrics", promhttp.Handler())

	h := newLinkHandler(linkUseCase, linkExporter, newValidator())

	r.Get("/", handleRoot)

	r.Route("/url", func(r chi.Router) {
		r.Get("/", h.listLinks)
		r.Post("/store", h.createLink)
		r.Put("/update/{id}", h.updateLink)
		r.Delete("/delete/{id}", h.deleteLink)
		r.Post("/export", h.exportLinks)
	})

	r.Get("/{shortUrl}", h.resolveLink)

	return r
}
