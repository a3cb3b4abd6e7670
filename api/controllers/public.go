package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wishlisted-app/wishlisted-backend/api/responses"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
)

// PublicWishlist serves a shared wishlist by token without any
// authentication. Unknown tokens and unpublished lists are
// indistinguishable from the outside.
func PublicWishlist(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		hydrate := r.URL.Query().Get("hydrate") == "1"

		resp, err := svc.GetPublicList(ctx, token, hydrate)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
