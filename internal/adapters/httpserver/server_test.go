package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/vitrina/internal/adapters/session/memory"
	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/metrics"
	"github.com/phenrril/vitrina/internal/usecase"
	"github.com/phenrril/vitrina/internal/views"
)

type fixedProducts map[string][]domain.Product

func (f fixedProducts) ListByStorefront(_ context.Context, store string) ([]domain.Product, error) {
	return f[store], nil
}

func (f fixedProducts) FindByID(_ context.Context, store string, id int) (*domain.Product, error) {
	for _, p := range f[store] {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fixedProducts) SaveAll(context.Context, []domain.Product) error { return nil }

type fixedStorefronts []domain.Storefront

func (f fixedStorefronts) List(context.Context) ([]domain.Storefront, error) { return f, nil }

func (f fixedStorefronts) FindBySlug(_ context.Context, slug string) (*domain.Storefront, error) {
	for _, s := range f {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fixedStorefronts) Save(context.Context, *domain.Storefront) error { return nil }

type stateResponse struct {
	Visible []struct {
		ID int `json:"id"`
	} `json:"visible"`
	Cart []struct {
		ID       int    `json:"id"`
		Quantity int    `json:"quantity"`
		Size     string `json:"selectedSize"`
	} `json:"cart"`
	Total         string `json:"total"`
	ItemCount     int    `json:"itemCount"`
	ActiveFilters int    `json:"activeFilters"`
	Section       string `json:"section"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	products := fixedProducts{
		domain.StorefrontSneakers: {
			{ID: 1, Storefront: domain.StorefrontSneakers, Name: "Air Max", Sizes: []string{"40", "41"}, Color: "Black", Brand: "Nike", Price: 14990},
			{ID: 2, Storefront: domain.StorefrontSneakers, Name: "Ultraboost", Sizes: []string{"42"}, Color: "White", Brand: "Adidas", Price: 16990, Discount: domain.IntPtr(15)},
		},
	}
	sfs := fixedStorefronts{{
		Slug: domain.StorefrontSneakers, Title: "SneakerHub", Currency: "₽",
		Sizes: []string{"40", "41", "42"}, Colors: []string{"Black", "White"}, Brands: []string{"Nike", "Adidas"},
		Sections: []string{"Home", "Sale"},
	}}
	catalog := &usecase.CatalogUC{Products: products, Storefronts: sfs}
	require.NoError(t, catalog.Load(context.Background()))

	tmpl, err := views.Parse("")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sf := &usecase.StorefrontUC{Catalog: catalog, Sessions: memory.New(time.Hour), Metrics: m}
	return New(tmpl, catalog, sf, Options{
		DefaultStorefront: domain.StorefrontSneakers,
		SessionKey:        []byte("test"),
		Gatherer:          reg,
		Metrics:           m,
	})
}

// client replays the session cookie between requests.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path string, form url.Values, jsonAccept bool) *httptest.ResponseRecorder {
	c.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if jsonAccept {
		req.Header.Set("Accept", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) state(rec *httptest.ResponseRecorder) stateResponse {
	c.t.Helper()
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var st stateResponse
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestRootRedirectsToDefaultStorefront(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.do(http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/sneakers", rec.Header().Get("Location"))
}

func TestStorefrontPageRenders(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.do(http.MethodGet, "/sneakers", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Air Max")
	assert.Contains(t, body, "14 442 ₽")
	assert.Contains(t, body, "Your cart is empty.")
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)
}

func TestCartFlowOverJSON(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}

	st := c.state(c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"1"}}, true))
	require.Len(t, st.Cart, 1)
	assert.Equal(t, 1, st.Cart[0].Quantity)
	assert.Equal(t, "40", st.Cart[0].Size)
	assert.Equal(t, "14990", st.Total)

	st = c.state(c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"1"}}, true))
	require.Len(t, st.Cart, 1)
	assert.Equal(t, 2, st.Cart[0].Quantity)

	st = c.state(c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"2"}}, true))
	assert.Equal(t, 2, st.ItemCount)
	assert.Equal(t, "44421.5", st.Total)

	st = c.state(c.do(http.MethodPost, "/sneakers/cart/update", url.Values{"id": {"2"}, "op": {"dec"}}, true))
	assert.Equal(t, 1, st.ItemCount)

	st = c.state(c.do(http.MethodPost, "/sneakers/cart/update", url.Values{"id": {"1"}, "qty": {"-3"}}, true))
	assert.Empty(t, st.Cart)
	assert.Equal(t, "0", st.Total)
}

func TestCartRemoveAndUnknownProduct(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	c.state(c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"2"}}, true))

	st := c.state(c.do(http.MethodPost, "/sneakers/cart/remove", url.Values{"id": {"2"}}, true))
	assert.Empty(t, st.Cart)

	rec := c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"99"}}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"abc"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/sneakers/cart/update", url.Values{"id": {"1"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormPostRedirectsBack(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"1"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sneakers", rec.Header().Get("Location"))

	page := c.do(http.MethodGet, "/sneakers", nil, false)
	assert.Contains(t, page.Body.String(), `id="cart-count">1<`)
}

func TestFilterToggleAndClear(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}

	st := c.state(c.do(http.MethodPost, "/sneakers/filters/toggle", url.Values{"facet": {"size"}, "value": {"41"}}, true))
	require.Len(t, st.Visible, 1)
	assert.Equal(t, 1, st.Visible[0].ID)
	assert.Equal(t, 1, st.ActiveFilters)

	st = c.state(c.do(http.MethodPost, "/sneakers/filters/toggle", url.Values{"facet": {"brand"}, "value": {"Adidas"}}, true))
	assert.Empty(t, st.Visible)

	page := c.do(http.MethodGet, "/sneakers", nil, false)
	assert.Contains(t, page.Body.String(), "No products match the selected filters.")

	cleared := c.do(http.MethodPost, "/sneakers/filters/clear", nil, true)
	assert.Contains(t, cleared.Body.String(), `"filters":{"sizes":[],"colors":[],"brands":[]}`)
	st = c.state(cleared)
	assert.Len(t, st.Visible, 2)
	assert.Zero(t, st.ActiveFilters)

	rec := c.do(http.MethodPost, "/sneakers/filters/toggle", url.Values{"facet": {"price"}, "value": {"1"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSectionSelection(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	st := c.state(c.do(http.MethodGet, "/api/sneakers/state", nil, true))
	assert.Equal(t, "Home", st.Section)

	st = c.state(c.do(http.MethodPost, "/sneakers/section", url.Values{"section": {"Sale"}}, true))
	assert.Equal(t, "Sale", st.Section)
}

func TestUnknownStorefrontIsNotFound(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/shoes", nil, false).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/shoes/products", nil, true).Code)
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	c.state(c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"1"}}, true))
	issued := c.cookie.Value

	c.cookie = &http.Cookie{Name: sessionCookie, Value: "forged." + issued[strings.Index(issued, ".")+1:]}
	st := c.state(c.do(http.MethodGet, "/api/sneakers/state", nil, true))
	assert.Empty(t, st.Cart)
	assert.NotEqual(t, issued, c.cookie.Value)
}

func TestProductsAPI(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.do(http.MethodGet, "/api/sneakers/products", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Items []domain.Product `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, "Air Max", out.Items[0].Name)
}

func TestHealthAndMetrics(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, false).Code)

	c.do(http.MethodPost, "/sneakers/cart/add", url.Values{"id": {"1"}}, true)
	rec := c.do(http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vitrina_cart_operations_total{op="add",storefront="sneakers"} 1`)
	assert.Contains(t, rec.Body.String(), "vitrina_http_request_duration_seconds")
}
