package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"eskimo_admin/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	token string
	store string
}

func (f fakeSession) Token() string         { return f.token }
func (f fakeSession) SelectedStore() string { return f.store }

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	server   *httptest.Server
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   body,
		})
		fb.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests)
	return fb.requests[len(fb.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(baseURL string, s SessionSource) *Client {
	cfg := config.Default()
	cfg.APIBaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return New(cfg, s, zap.NewNop())
}

func TestClient_InjectsSessionHeaders(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 7, "status": "pendente", "total": "12.50"}})
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "tok-123", store: "passo"})

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ID("7"), orders[0].ID)
	assert.True(t, orders[0].Total.Equal(decimal.RequireFromString("12.5")))

	req := fb.last(t)
	assert.Equal(t, "Bearer tok-123", req.header.Get("Authorization"))
	assert.Equal(t, "passo", req.header.Get(HeaderStore))
	assert.NotEmpty(t, req.header.Get(HeaderRequestID))
}

func TestClient_NoSessionNoHeaders(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	c := newTestClient(fb.server.URL, fakeSession{})

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)

	req := fb.last(t)
	assert.Empty(t, req.header.Get("Authorization"))
	assert.Empty(t, req.header.Get(HeaderStore))
}

func TestClient_SetStockOverridesStore(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "t", store: "efapi"})

	require.NoError(t, c.SetStock(context.Background(), "42", "palmital", 9))

	req := fb.last(t)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/stock/42", req.path)
	assert.Equal(t, "palmital", req.header.Get(HeaderStore))
	assert.JSONEq(t, `{"productId":42,"store":"palmital","quantity":9}`, string(req.body))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"error": "nope"})
			})
			c := newTestClient(fb.server.URL, fakeSession{token: "t"})

			_, err := c.ListOrders(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "t"})
	err := c.ConfirmOrder(context.Background(), "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "boom")
}

func TestClient_OrderTransitions(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "t"})
	ctx := context.Background()

	require.NoError(t, c.ConfirmOrder(ctx, "5"))
	assert.Equal(t, "PATCH /orders/5/confirm", fb.last(t).method+" "+fb.last(t).path)
	require.NoError(t, c.DeliverOrder(ctx, "5"))
	assert.Equal(t, "/orders/5/deliver", fb.last(t).path)
	require.NoError(t, c.CancelOrder(ctx, "5"))
	assert.Equal(t, "/orders/5/cancel", fb.last(t).path)
	require.NoError(t, c.DeleteOrder(ctx, "5"))
	assert.Equal(t, "DELETE /orders/5", fb.last(t).method+" "+fb.last(t).path)
	require.NoError(t, c.ClearOrders(ctx))
	assert.Equal(t, "/orders/clear", fb.last(t).path)

	assert.ErrorIs(t, c.ConfirmOrder(ctx, ""), ErrMissingID)
}

func TestClient_StoreReport(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "t"})

	report, err := c.StoreReport(context.Background(), "efapi", "2025-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, "efapi", report.Store)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "%PDF-1.4 fake", string(report.Data))

	req := fb.last(t)
	assert.Equal(t, "/reports/efapi", req.path)
	assert.Equal(t, "from=2025-01-01", req.query)
}

func TestClient_ProductsPageQuery(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": "p1", "name": "Picolé de limão", "price": 4.5, "active": true}},
			"total": 1, "page": 2, "pageSize": 10,
		})
	})
	c := newTestClient(fb.server.URL, fakeSession{token: "t"})

	page, err := c.ProductsPage(context.Background(), 2, 10, " limão ")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ID("p1"), page.Items[0].ID)

	req := fb.last(t)
	assert.Equal(t, "/products/list", req.path)
	assert.Contains(t, req.query, "page=2")
	assert.Contains(t, req.query, "pageSize=10")
	assert.Contains(t, req.query, "name=lim")
}

func TestClient_LoginNestedUser(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "jwt",
			"user":  map[string]any{"role": "admin", "permissions": map[string]any{"can_manage_products": true}},
		})
	})
	c := newTestClient(fb.server.URL, fakeSession{})

	resp, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.ResolvedRole())
	assert.JSONEq(t, `{"can_manage_products":true}`, string(resp.ResolvedPermissions()))

	_, err = c.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestID_JSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"abc-1","c":null}`), &v))
	assert.Equal(t, ID("12"), v.A)
	assert.Equal(t, ID("abc-1"), v.B)
	assert.True(t, v.C.IsZero())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"abc-1","c":null}`, string(out))
}
