package stylerack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylerack/stylerack/pkg/catalog"
)

func galleryServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/manage/list", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"directories": []string{
				"服装/128-休闲-新品-夏-通勤-连衣裙",
				"服装/299-正式-经典-冬-通勤-大衣",
				"服装/misc",
			},
			"files": []map[string]string{
				{"name": "服装/128-休闲-新品-夏-通勤-连衣裙/img2.jpg"},
				{"name": "服装/128-休闲-新品-夏-通勤-连衣裙/img10.jpg"},
				{"name": "服装/299-正式-经典-冬-通勤-大衣/front.jpg"},
			},
		})
	}))
}

func TestRefreshBuildsCatalogAndPool(t *testing.T) {
	srv := galleryServer(t)
	defer srv.Close()

	app, err := New(WithBaseURL(srv.URL), WithToken("secret"))
	require.NoError(t, err)

	require.NoError(t, app.Refresh(context.Background()))

	assert.Equal(t, 2, app.Catalog().Len(), "non-conforming directory is skipped")
	assert.Equal(t, []string{"休闲", "正式"}, app.Pool().Values(catalog.FacetStyle))

	p, err := app.Catalog().Find("服装/128-休闲-新品-夏-通勤-连衣裙")
	require.NoError(t, err)
	assert.Equal(t, "img2.jpg", p.Images[0].FileName)
	assert.Equal(t, "img10.jpg", p.Images[1].FileName)
}

func TestRefreshFailureLeavesCatalogEmpty(t *testing.T) {
	srv := galleryServer(t)

	app, err := New(WithBaseURL(srv.URL), WithToken("secret"))
	require.NoError(t, err)
	require.NoError(t, app.Refresh(context.Background()))
	require.Equal(t, 2, app.Catalog().Len())

	// Host goes away; the next refresh must not leave stale products behind.
	srv.Close()
	err = app.Refresh(context.Background())
	require.Error(t, err)
	assert.Zero(t, app.Catalog().Len())
	assert.Empty(t, app.Pool().Values(catalog.FacetStyle))
}

func TestFilteredProducts(t *testing.T) {
	srv := galleryServer(t)
	defer srv.Close()

	app, err := New(WithBaseURL(srv.URL), WithToken("secret"))
	require.NoError(t, err)
	require.NoError(t, app.Refresh(context.Background()))

	app.Filter().Toggle(catalog.FacetSeason, "夏")
	got := app.FilteredProducts()
	require.Len(t, got, 1)
	assert.Equal(t, "连衣裙", got[0].Name)

	app.Filter().Clear(catalog.FacetSeason)
	assert.Len(t, app.FilteredProducts(), 2)
}

func TestDefaults(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	cfg := app.Config()
	assert.NotEmpty(t, cfg.BaseURL)
	assert.Equal(t, "服装", cfg.Dir)
	assert.Positive(t, cfg.HTTPTimeout)
}
