// Package handlers wires the HTTP API. Routes live under /api/v1 and,
// except for registration and login, require a bearer token.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	JWTManager *auth.JWTManager
	Auth       *AuthHandler
	Users      *UserHandler
	Friends    *FriendHandler
	Receipts   *ReceiptHandler
}

// NewRouter builds the full route tree with logging and metrics applied
// to every request.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", deps.Auth.Register)
		r.Post("/auth/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.JWTManager))

			r.Get("/users/profile", deps.Users.Profile)

			r.Post("/friends", deps.Friends.Add)
			r.Get("/friends", deps.Friends.List)
			r.Delete("/friends/{id}", deps.Friends.Remove)

			r.Post("/receipts", deps.Receipts.Create)
			r.Get("/receipts", deps.Receipts.List)
			r.Post("/receipts/scan", deps.Receipts.Scan)
			r.Get("/receipts/{id}", deps.Receipts.Get)
			r.Get("/receipts/{id}/split", deps.Receipts.Split)
			r.Post("/receipts/{id}/payments", deps.Receipts.AddPayment)

			r.Post("/receipts/items/{itemID}/assign", deps.Receipts.AssignItem)
			r.Delete("/receipts/assignments/{id}", deps.Receipts.UnassignItem)
		})
	})

	return r
}
