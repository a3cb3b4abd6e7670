package controllers

import (
	"net/http"

	"github.com/wishlisted-app/wishlisted-backend/api/middleware"
	"github.com/wishlisted-app/wishlisted-backend/api/responses"
	"github.com/wishlisted-app/wishlisted-backend/api/validators"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
)

// WishlistShare applies a sharing mutation: publish, unpublish, or
// rotate the share token. The response carries the resulting state so
// the storefront can render the share URL without a second read.
func WishlistShare(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload wishlist.SharingInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.UpdateSharing(ctx, middleware.ShopFromContext(ctx), middleware.CallerRefFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}
