package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/wishlisted-app/wishlisted-backend/api/responses"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
)

// GraphQLForwarder relays a raw storefront GraphQL request and returns
// the upstream status and body verbatim.
type GraphQLForwarder interface {
	Forward(ctx context.Context, body io.Reader) (int, []byte, error)
}

const maxGraphQLBodyBytes = 1 << 20

// StorefrontForward proxies GraphQL queries from the widget to the
// storefront API, injecting the server-held access token. The upstream
// response is passed through untouched so the widget can reuse standard
// GraphQL client tooling.
func StorefrontForward(client GraphQLForwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}

		body := http.MaxBytesReader(w, r.Body, maxGraphQLBodyBytes)
		status, respBody, err := client.Forward(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront request failed"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if _, err := w.Write(respBody); err != nil && logg != nil {
			logg.Error(ctx, "failed to relay storefront response", err)
		}
	}
}
