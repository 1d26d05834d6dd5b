package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylerack/stylerack"
)

func testApp(t *testing.T) *stylerack.Client {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"directories": []string{
				"服装/128-休闲-新品-夏-通勤-连衣裙",
				"服装/299-正式-经典-冬-通勤-大衣",
			},
			"files": []map[string]string{
				{"name": "服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg"},
				{"name": "服装/299-正式-经典-冬-通勤-大衣/front.jpg"},
			},
		})
	}))
	t.Cleanup(upstream.Close)

	app, err := stylerack.New(stylerack.WithBaseURL(upstream.URL), stylerack.WithToken("secret"))
	require.NoError(t, err)
	require.NoError(t, app.Refresh(context.Background()))
	return app
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return New(testApp(t), Config{}).router()
}

func doJSON(t *testing.T, h http.Handler, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHealthz(t *testing.T) {
	code, body := doJSON(t, testRouter(t), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["products"])
}

func TestListProducts(t *testing.T) {
	t.Run("Unfiltered", func(t *testing.T) {
		code, body := doJSON(t, testRouter(t), http.MethodGet, "/api/products")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, body["matched"])
	})

	t.Run("FacetFilter", func(t *testing.T) {
		code, body := doJSON(t, testRouter(t), http.MethodGet, "/api/products?season=夏")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body["matched"])
		assert.EqualValues(t, 2, body["total"])

		products := body["products"].([]any)
		first := products[0].(map[string]any)
		assert.Equal(t, "连衣裙", first["name"])
		assert.Equal(t, "¥128", first["display_price"])
	})

	t.Run("ConjunctionAcrossFacets", func(t *testing.T) {
		code, body := doJSON(t, testRouter(t), http.MethodGet,
			"/api/products?season=夏&style=正式")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 0, body["matched"])
	})
}

func TestGetProduct(t *testing.T) {
	router := testRouter(t)

	code, list := doJSON(t, router, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, code)
	id := list["products"].([]any)[0].(map[string]any)["id"].(string)

	code, body := doJSON(t, router, http.MethodGet, "/api/products/"+id)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["id"])

	code, _ = doJSON(t, router, http.MethodGet, "/api/products/no-such-id")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFacetsEndpoint(t *testing.T) {
	code, body := doJSON(t, testRouter(t), http.MethodGet, "/api/facets")
	assert.Equal(t, http.StatusOK, code)

	seasons := body["season"].([]any)
	assert.ElementsMatch(t, []any{"冬", "夏"}, seasons)
}

func TestRefreshEndpoint(t *testing.T) {
	code, body := doJSON(t, testRouter(t), http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["products"])
}
