package middleware

import (
	"net/http"

	"github.com/wishlisted-app/wishlisted-backend/api/responses"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
	"github.com/wishlisted-app/wishlisted-backend/pkg/proxy"
)

// ProxySignature rejects any request whose query string does not carry a
// valid intermediary signature, then attaches the extracted shop and
// caller identity to the request context. Rejections are uniform: the
// caller learns nothing about which check failed.
func ProxySignature(verifier *proxy.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if verifier == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proxy verifier unavailable"))
				return
			}

			if !verifier.Verify(r.URL.String()) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid signature"))
				return
			}

			pctx := proxy.Extract(r.URL.String())
			ctx = WithShop(ctx, pctx.Shop)
			ctx = WithCallerRef(ctx, pctx.CallerRef)
			ctx = WithLoggedIn(ctx, pctx.LoggedIn)
			if logg != nil {
				ctx = logg.WithShop(ctx, pctx.Shop)
				ctx = logg.WithCallerRef(ctx, pctx.CallerRef)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
