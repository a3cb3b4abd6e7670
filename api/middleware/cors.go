package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware for the public share endpoints. Proxy routes
// are reached through the storefront intermediary and never need CORS;
// the share page is fetched directly from arbitrary origins, so the
// policy is open but credential-free.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
