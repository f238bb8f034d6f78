package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubProducts map[catalog.ID]catalog.Product

func (s stubProducts) Get(id catalog.ID) (catalog.Product, bool) {
	p, ok := s[id]
	return p, ok
}

func newTestService(t *testing.T) cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(cartsvc.ServiceParams{
		Products: stubProducts{
			"1": {ID: "1", Name: "Headphones", Category: "electronics", Price: decimal.RequireFromString("100.00"), Rating: 4.5},
			"2": {ID: "2", Name: "Mug", Category: "home", Price: decimal.RequireFromString("50.00"), Rating: 4.0},
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func newTestSession() *sessions.Session {
	session, _ := sessions.NewRegistry(sessions.Params{}).Resolve("")
	return session
}

func serve(handler http.HandlerFunc, session *sessions.Session, method, target, productID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithSession(req.Context(), session)
	if productID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productId", productID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) dto.Cart {
	t.Helper()
	var envelope struct {
		Data dto.Cart `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemNavigatesToCart(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()

	serve(CartAddItem(svc, nil), session, http.MethodPost, "/api/v1/cart/items", "", `{"product_id":"1"}`)
	rec := serve(CartAddItem(svc, nil), session, http.MethodPost, "/api/v1/cart/items", "", `{"product_id":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data dto.AddItemResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Navigate != CartPath {
		t.Fatalf("expected navigate %q got %q", CartPath, envelope.Data.Navigate)
	}
	cart := envelope.Data.Cart
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.Subtotal != "200.00" {
		t.Fatalf("expected merged line, got %+v", cart)
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	rec := serve(CartAddItem(newTestService(t), nil), newTestSession(), http.MethodPost, "/api/v1/cart/items", "", `{"product_id":"404"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartAddItemMissingProductID(t *testing.T) {
	rec := serve(CartAddItem(newTestService(t), nil), newTestSession(), http.MethodPost, "/api/v1/cart/items", "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"2"}`)

	rec := serve(CartUpdateQuantity(svc, nil), session, http.MethodPatch, "/api/v1/cart/items/2", "2", `{"quantity":"4"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if cart := decodeCart(t, rec); cart.Items[0].Quantity != 4 || cart.Subtotal != "200.00" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	for _, body := range []string{`{"quantity":"abc"}`, `{"quantity":0}`, `{"quantity":2.5}`, `{"quantity":""}`} {
		rec := serve(CartUpdateQuantity(svc, nil), session, http.MethodPatch, "/api/v1/cart/items/2", "2", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, rec.Code)
		}
	}
	if item, _ := session.Cart.Item("2"); item.Quantity != 4 {
		t.Fatalf("rejected updates must not change quantity, got %d", item.Quantity)
	}
	if session.Cart.LastError() == "" {
		t.Fatalf("expected the rejection to be surfaced on the cart")
	}

	rec = serve(CartUpdateQuantity(svc, nil), session, http.MethodPatch, "/api/v1/cart/items/9", "9", `{"quantity":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing line, got %d", rec.Code)
	}
}

func TestCartIncrementDecrement(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"1"}`)

	rec := serve(CartDecrement(svc, nil), session, http.MethodPost, "/", "1", "")
	if cart := decodeCart(t, rec); cart.Items[0].Quantity != 1 || cart.Items[0].CanDecrement {
		t.Fatalf("decrement at one must be a no-op, got %+v", cart.Items[0])
	}

	rec = serve(CartIncrement(svc, nil), session, http.MethodPost, "/", "1", "")
	if cart := decodeCart(t, rec); cart.Items[0].Quantity != 2 || !cart.Items[0].CanDecrement {
		t.Fatalf("expected quantity 2, got %+v", cart.Items[0])
	}

	rec = serve(CartIncrement(svc, nil), session, http.MethodPost, "/", "7", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartLineActionsWithoutService(t *testing.T) {
	rec := serve(CartIncrement(nil, nil), newTestSession(), http.MethodPost, "/", "1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestCartRemoveItem(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"1"}`)
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"2"}`)

	rec := serve(CartRemoveItem(svc, nil), session, http.MethodDelete, "/", "1", "")
	cart := decodeCart(t, rec)
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "2" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	rec = serve(CartRemoveItem(svc, nil), session, http.MethodDelete, "/", "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("removing an absent line should succeed, got %d", rec.Code)
	}
}

func TestCartApplyDiscount(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"1"}`)
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"2"}`)

	rec := serve(CartApplyDiscount(svc, nil), session, http.MethodPost, "/api/v1/cart/discount", "", `{"code":"sale20"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	cart := decodeCart(t, rec)
	if cart.DiscountPercentage != 20 || cart.DiscountedTotal != "120.00" || cart.TotalDiscount != "30.00" {
		t.Fatalf("unexpected discounted cart %+v", cart)
	}
	if cart.Items[0].DiscountedPrice != "80.00" {
		t.Fatalf("unexpected line price %+v", cart.Items[0])
	}

	rec = serve(CartApplyDiscount(svc, nil), session, http.MethodPost, "/api/v1/cart/discount", "", `{"code":"BOGUS"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Cart dto.Cart `json:"cart"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidDiscount) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Details.Cart.DiscountPercentage != 0 || envelope.Error.Details.Cart.DiscountedTotal != "150.00" {
		t.Fatalf("expected revoked discount in details, got %+v", envelope.Error.Details.Cart)
	}
}

func TestCartApplyEmptyDiscountRevokes(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartApplyDiscount(svc, nil), session, http.MethodPost, "/", "", `{"code":"DISCOUNT10"}`)

	rec := serve(CartApplyDiscount(svc, nil), session, http.MethodPost, "/", "", `{"code":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if session.Cart.DiscountPercentage() != 0 {
		t.Fatalf("expected discount revoked")
	}
}

func TestCartFetchAndClear(t *testing.T) {
	svc := newTestService(t)
	session := newTestSession()
	serve(CartAddItem(svc, nil), session, http.MethodPost, "/", "", `{"product_id":"1"}`)

	rec := serve(CartFetch(nil), session, http.MethodGet, "/api/v1/cart", "", "")
	if cart := decodeCart(t, rec); cart.ItemCount != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	rec = serve(CartClear(nil), session, http.MethodDelete, "/api/v1/cart", "", "")
	cart := decodeCart(t, rec)
	if len(cart.Items) != 0 || cart.Subtotal != "0.00" || cart.DiscountedTotal != "0.00" {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}
