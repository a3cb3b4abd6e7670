package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wishlisted-app/wishlisted-backend/api/middleware"
	"github.com/wishlisted-app/wishlisted-backend/api/responses"
	"github.com/wishlisted-app/wishlisted-backend/api/validators"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
)

// WishlistFetch returns the caller's wishlist, creating it on first
// access. Pass hydrate=1 to join items with live catalog display data.
func WishlistFetch(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		shop := middleware.ShopFromContext(ctx)

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		hydrate := r.URL.Query().Get("hydrate") == "1"
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		resp, err := svc.GetList(ctx, shop, middleware.CallerRefFromContext(ctx), hydrate, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// WishlistAddItem pins a variant to the caller's wishlist. Re-adding an
// existing variant is a success, not a conflict.
func WishlistAddItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload wishlist.AddItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, middleware.ShopFromContext(ctx), middleware.CallerRefFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// WishlistRemoveItem drops an item from the caller's wishlist. Removing
// an absent item succeeds.
func WishlistRemoveItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		itemID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		if err := svc.RemoveItem(ctx, middleware.ShopFromContext(ctx), middleware.CallerRefFromContext(ctx), itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
