package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/recode/internal/api"
	apiMiddleware "github.com/phrazzld/recode/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth.TokenLifetime(), app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.cardService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.reviewService, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.reviewService, app.logger)
	transferHandler := api.NewTransferHandler(app.transferService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)
			r.Patch("/me", authHandler.UpdateMe)

			r.Get("/stats", statsHandler.Dashboard)
			r.Get("/stats/activity", statsHandler.Activity)
			r.Get("/stats/reconcile", statsHandler.Reconcile)
			r.Post("/practice", statsHandler.Practice)

			r.Route("/decks", func(r chi.Router) {
				r.Get("/", deckHandler.List)
				r.Post("/", deckHandler.Create)
				r.Get("/{id}", deckHandler.Get)
				r.Put("/{id}", deckHandler.Update)
				r.Delete("/{id}", deckHandler.Delete)
				r.Get("/{id}/cards", deckHandler.ListCards)
				r.Post("/{id}/cards", deckHandler.CreateCard)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardHandler.List)
				r.Get("/due", cardHandler.Due)
				r.Put("/{id}", cardHandler.Update)
				r.Delete("/{id}", cardHandler.Delete)
				r.Post("/{id}/review", cardHandler.Review)
			})

			r.Get("/export", transferHandler.Export)
			r.Get("/export.xlsx", transferHandler.ExportSpreadsheet)
			r.Post("/import", transferHandler.Import)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
