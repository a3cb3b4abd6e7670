package controllers

import (
	"net/http"

	"github.com/wishlisted-app/wishlisted-backend/api/middleware"
	"github.com/wishlisted-app/wishlisted-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func ProxyPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "proxy", "status": "ok"}
		if shop := middleware.ShopFromContext(r.Context()); shop != "" {
			payload["shop"] = shop
		}
		responses.WriteSuccess(w, payload)
	}
}
