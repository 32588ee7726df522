package handler

import (
	"net/http"

	"github.com/msomdec/service-market/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, catalog *service.CatalogService, limiter *service.RateLimiter) {
	authHandler := NewAuthHandler(auth)
	catalogHandler := NewCatalogHandler(catalog)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Public user routes, rate limited per client IP.
	mux.Handle("POST /api/users/register", RateLimit(limiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/users/login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))

	// Protected user routes.
	mux.Handle("POST /api/users/logout", RequireAuth(auth, http.HandlerFunc(authHandler.HandleLogout)))
	mux.Handle("GET /api/users/profile", RequireAuth(auth, http.HandlerFunc(authHandler.HandleProfile)))
	mux.Handle("GET /api/users/profile/photo", RequireAuth(auth, http.HandlerFunc(authHandler.HandleProfilePhoto)))

	// Public catalog routes.
	mux.HandleFunc("GET /api/services", catalogHandler.HandleList)
	mux.HandleFunc("GET /api/services/{id}", catalogHandler.HandleGet)

	// Protected catalog routes.
	mux.Handle("POST /api/services", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleCreate)))
	mux.Handle("PUT /api/services/{id}", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleUpdate)))
	mux.Handle("DELETE /api/services/{id}", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleDelete)))
	mux.Handle("POST /api/services/{id}/reviews", RequireAuth(auth, http.HandlerFunc(catalogHandler.HandleAddReview)))
}
