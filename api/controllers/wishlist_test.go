package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wishlisted-app/wishlisted-backend/api/middleware"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	pkgerrors "github.com/wishlisted-app/wishlisted-backend/pkg/errors"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
)

type testWishlistService struct {
	getListFn       func(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (wishlist.ListDTO, error)
	addItemFn       func(ctx context.Context, shop, callerRef string, input wishlist.AddItemInput) (wishlist.ItemDTO, error)
	removeItemFn    func(ctx context.Context, shop, callerRef string, itemID uuid.UUID) error
	updateSharingFn func(ctx context.Context, shop, callerRef string, input wishlist.SharingInput) (wishlist.ShareStateDTO, error)
	getPublicFn     func(ctx context.Context, token string, hydrate bool) (wishlist.PublicListDTO, error)
}

func (s *testWishlistService) GetList(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (wishlist.ListDTO, error) {
	if s.getListFn != nil {
		return s.getListFn(ctx, shop, callerRef, hydrate, cursor, limit)
	}
	return wishlist.ListDTO{}, nil
}

func (s *testWishlistService) AddItem(ctx context.Context, shop, callerRef string, input wishlist.AddItemInput) (wishlist.ItemDTO, error) {
	if s.addItemFn != nil {
		return s.addItemFn(ctx, shop, callerRef, input)
	}
	return wishlist.ItemDTO{}, nil
}

func (s *testWishlistService) RemoveItem(ctx context.Context, shop, callerRef string, itemID uuid.UUID) error {
	if s.removeItemFn != nil {
		return s.removeItemFn(ctx, shop, callerRef, itemID)
	}
	return nil
}

func (s *testWishlistService) UpdateSharing(ctx context.Context, shop, callerRef string, input wishlist.SharingInput) (wishlist.ShareStateDTO, error) {
	if s.updateSharingFn != nil {
		return s.updateSharingFn(ctx, shop, callerRef, input)
	}
	return wishlist.ShareStateDTO{}, nil
}

func (s *testWishlistService) GetPublicList(ctx context.Context, token string, hydrate bool) (wishlist.PublicListDTO, error) {
	if s.getPublicFn != nil {
		return s.getPublicFn(ctx, token, hydrate)
	}
	return wishlist.PublicListDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withProxyIdentity(req *http.Request, shop, callerRef string) *http.Request {
	ctx := middleware.WithShop(req.Context(), shop)
	ctx = middleware.WithCallerRef(ctx, callerRef)
	return req.WithContext(ctx)
}

func TestWishlistFetchPassesIdentityAndHydrateFlag(t *testing.T) {
	var gotShop, gotCaller string
	var gotHydrate bool
	svc := &testWishlistService{
		getListFn: func(ctx context.Context, shop, callerRef string, hydrate bool, cursor string, limit int) (wishlist.ListDTO, error) {
			gotShop, gotCaller, gotHydrate = shop, callerRef, hydrate
			return wishlist.ListDTO{ID: uuid.New()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/wishlist?hydrate=1", nil)
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistFetch(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotShop != "demo.myshopify.com" || gotCaller != "cust-1" {
		t.Fatalf("identity not forwarded: %q %q", gotShop, gotCaller)
	}
	if !gotHydrate {
		t.Fatal("hydrate flag not forwarded")
	}
}

func TestWishlistFetchRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/proxy/wishlist?limit=abc", nil)
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistFetch(&testWishlistService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestWishlistAddItemCreated(t *testing.T) {
	itemID := uuid.New()
	svc := &testWishlistService{
		addItemFn: func(ctx context.Context, shop, callerRef string, input wishlist.AddItemInput) (wishlist.ItemDTO, error) {
			if input.ProductRef != "gid://p/1" || input.VariantRef != "gid://v/1" {
				t.Fatalf("unexpected input %+v", input)
			}
			return wishlist.ItemDTO{ID: itemID, ProductRef: input.ProductRef, VariantRef: input.VariantRef}, nil
		},
	}

	body := `{"product_ref":"gid://p/1","variant_ref":"gid://v/1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/proxy/wishlist/items", strings.NewReader(body))
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data wishlist.ItemDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ID != itemID {
		t.Fatalf("unexpected item %+v", envelope.Data)
	}
}

func TestWishlistAddItemForwardsWishlistID(t *testing.T) {
	target := uuid.New()
	svc := &testWishlistService{
		addItemFn: func(ctx context.Context, shop, callerRef string, input wishlist.AddItemInput) (wishlist.ItemDTO, error) {
			if input.WishlistID == nil || *input.WishlistID != target {
				t.Fatalf("wishlist id not forwarded: %+v", input.WishlistID)
			}
			return wishlist.ItemDTO{ID: uuid.New()}, nil
		},
	}

	body := `{"product_ref":"gid://p/1","variant_ref":"gid://v/1","wishlist_id":"` + target.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/proxy/wishlist/items", strings.NewReader(body))
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestWishlistAddItemValidatesBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/proxy/wishlist/items", strings.NewReader(`{"product_ref":"gid://p/1"}`))
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistAddItem(&testWishlistService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestWishlistRemoveItemSuccess(t *testing.T) {
	itemID := uuid.New()
	called := false
	svc := &testWishlistService{
		removeItemFn: func(ctx context.Context, shop, callerRef string, id uuid.UUID) error {
			called = true
			if id != itemID {
				t.Fatalf("unexpected item %s", id)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/proxy/wishlist/items/"+itemID.String(), nil)
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()

	WishlistRemoveItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestWishlistRemoveItemInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/proxy/wishlist/items/invalid", nil)
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	req = addRouteParam(req, "itemId", "invalid")
	resp := httptest.NewRecorder()

	WishlistRemoveItem(&testWishlistService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestWishlistShareForwardsMutation(t *testing.T) {
	svc := &testWishlistService{
		updateSharingFn: func(ctx context.Context, shop, callerRef string, input wishlist.SharingInput) (wishlist.ShareStateDTO, error) {
			if input.MakePublic == nil || !*input.MakePublic {
				t.Fatalf("unexpected input %+v", input)
			}
			return wishlist.ShareStateDTO{IsPublic: true, ShareToken: "tok"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/wishlist/share", strings.NewReader(`{"make_public":true}`))
	req = withProxyIdentity(req, "demo.myshopify.com", "cust-1")
	resp := httptest.NewRecorder()

	WishlistShare(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data wishlist.ShareStateDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.IsPublic || envelope.Data.ShareToken != "tok" {
		t.Fatalf("unexpected state %+v", envelope.Data)
	}
}

func TestPublicWishlistNotFound(t *testing.T) {
	svc := &testWishlistService{
		getPublicFn: func(ctx context.Context, token string, hydrate bool) (wishlist.PublicListDTO, error) {
			return wishlist.PublicListDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/public/wishlist/unknown", nil)
	req = addRouteParam(req, "token", "unknown")
	resp := httptest.NewRecorder()

	PublicWishlist(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestPublicWishlistSuccess(t *testing.T) {
	svc := &testWishlistService{
		getPublicFn: func(ctx context.Context, token string, hydrate bool) (wishlist.PublicListDTO, error) {
			if token != "tok-123" {
				t.Fatalf("unexpected token %q", token)
			}
			if !hydrate {
				t.Fatal("expected hydrate flag")
			}
			return wishlist.PublicListDTO{Items: []wishlist.ItemDTO{{ID: uuid.New()}}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/public/wishlist/tok-123?hydrate=1", nil)
	req = addRouteParam(req, "token", "tok-123")
	resp := httptest.NewRecorder()

	PublicWishlist(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}
