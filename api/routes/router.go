package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wishlisted-app/wishlisted-backend/api/controllers"
	"github.com/wishlisted-app/wishlisted-backend/api/middleware"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	"github.com/wishlisted-app/wishlisted-backend/pkg/config"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
	"github.com/wishlisted-app/wishlisted-backend/pkg/metrics"
	"github.com/wishlisted-app/wishlisted-backend/pkg/proxy"
)

// RouterParams groups everything the HTTP surface depends on.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         controllers.Pinger
	RedisPinger      controllers.Pinger
	Verifier         *proxy.Verifier
	WishlistService  wishlist.Service
	StorefrontClient controllers.GraphQLForwarder
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsGatherer  prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.RedisPinger))
	})

	if params.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Get("/ping", controllers.PublicPing())
		r.Get("/wishlist/{token}", controllers.PublicWishlist(params.WishlistService, logg))
	})

	r.Route("/api/proxy", func(r chi.Router) {
		r.Use(middleware.ProxySignature(params.Verifier, logg))
		r.Get("/ping", controllers.ProxyPing())
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(params.WishlistService, logg))
			r.Post("/items", controllers.WishlistAddItem(params.WishlistService, logg))
			r.Delete("/items/{itemId}", controllers.WishlistRemoveItem(params.WishlistService, logg))
			r.Post("/share", controllers.WishlistShare(params.WishlistService, logg))
		})
		r.Post("/storefront", controllers.StorefrontForward(params.StorefrontClient, logg))
	})

	return r
}
