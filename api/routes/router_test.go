package routes

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	"github.com/wishlisted-app/wishlisted-backend/pkg/config"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
	"github.com/wishlisted-app/wishlisted-backend/pkg/metrics"
	"github.com/wishlisted-app/wishlisted-backend/pkg/proxy"
)

const testSecret = "router-secret"

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) GetList(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (wishlist.ListDTO, error) {
	return wishlist.ListDTO{ID: uuid.New()}, nil
}

func (stubWishlistService) AddItem(ctx context.Context, shop, callerRef string, input wishlist.AddItemInput) (wishlist.ItemDTO, error) {
	return wishlist.ItemDTO{ID: uuid.New(), ProductRef: input.ProductRef, VariantRef: input.VariantRef}, nil
}

func (stubWishlistService) RemoveItem(ctx context.Context, shop, callerRef string, itemID uuid.UUID) error {
	return nil
}

func (stubWishlistService) UpdateSharing(ctx context.Context, shop, callerRef string, input wishlist.SharingInput) (wishlist.ShareStateDTO, error) {
	return wishlist.ShareStateDTO{IsPublic: true, ShareToken: "tok"}, nil
}

func (stubWishlistService) GetPublicList(ctx context.Context, token string, hydrate bool) (wishlist.PublicListDTO, error) {
	if token == "known" {
		return wishlist.PublicListDTO{}, nil
	}
	return wishlist.PublicListDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
}

type stubForwarder struct{}

func (stubForwarder) Forward(ctx context.Context, body io.Reader) (int, []byte, error) {
	return http.StatusOK, []byte(`{"data":{}}`), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	verifier, err := proxy.NewVerifier(testSecret, proxy.ModeAppProxy)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(RouterParams{
		Config:           testConfig(),
		Logger:           logg,
		DBPinger:         stubPinger{},
		RedisPinger:      stubPinger{},
		Verifier:         verifier,
		WishlistService:  stubWishlistService{},
		StorefrontClient: stubForwarder{},
		HTTPMetrics:      metrics.NewHTTPMetrics(reg),
		MetricsGatherer:  reg,
	})
}

func signQuery(canonical string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpointServesPrometheusText(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for /metrics got %d", resp.Code)
	}
}

func TestProxyGroupRejectsUnsignedRequests(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/wishlist?shop=demo.myshopify.com", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature got %d", resp.Code)
	}
}

func TestProxyGroupAcceptsSignedRequests(t *testing.T) {
	router := newTestRouter(t)

	sig := signQuery("logged_in_customer_id=777shop=demo.myshopify.com")
	req := httptest.NewRequest(http.MethodGet, "/api/proxy/wishlist?shop=demo.myshopify.com&logged_in_customer_id=777&signature="+sig, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for signed request got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProxyAddItemRoute(t *testing.T) {
	router := newTestRouter(t)

	sig := signQuery("shop=demo.myshopify.com")
	body := `{"product_ref":"gid://p/1","variant_ref":"gid://v/1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/proxy/wishlist/items?shop=demo.myshopify.com&signature="+sig, strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProxyStorefrontRoute(t *testing.T) {
	router := newTestRouter(t)

	sig := signQuery("shop=demo.myshopify.com")
	req := httptest.NewRequest(http.MethodPost, "/api/proxy/storefront?shop=demo.myshopify.com&signature="+sig, strings.NewReader(`{"query":"{ shop { name } }"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPublicWishlistNeedsNoSignature(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/wishlist/known", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/public/wishlist/unknown", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
