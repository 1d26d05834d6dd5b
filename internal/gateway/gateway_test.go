package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylerack/stylerack/pkg/errors"
)

func TestListRequiresToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.List(context.Background(), "服装", true)

	assert.True(t, errors.IsTokenError(err))
	assert.False(t, called, "missing token must short-circuit before the network")
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/manage/list", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "服装", r.URL.Query().Get("dir"))
		assert.Equal(t, "-1", r.URL.Query().Get("count"))
		assert.Equal(t, "true", r.URL.Query().Get("recursive"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"directories": []string{"服装/128-休闲-新品-夏-通勤-连衣裙"},
			"files": []map[string]string{
				{"name": "服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	listing, err := c.List(context.Background(), "服装", true)

	require.NoError(t, err)
	require.Len(t, listing.Directories, 1)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg", listing.Files[0].Name)
}

func TestListServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"backend down"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	_, err := c.List(context.Background(), "服装", true)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "backend down")
	assert.True(t, errors.IsHostUnavailable(err))
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "服装/128-休闲-新品-夏-通勤-连衣裙", r.URL.Query().Get("uploadFolder"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		assert.Equal(t, "img1.jpg", header.Filename)
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "image bytes", string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	err := c.Upload(context.Background(), "服装/128-休闲-新品-夏-通勤-连衣裙",
		"img1.jpg", strings.NewReader("image bytes"))
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.True(t, strings.HasPrefix(r.URL.Path, "/api/manage/delete/"))
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "secret")
		err := c.Delete(context.Background(), "服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg")
		require.NoError(t, err)
	})

	t.Run("HostReportsFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			// A 200 with success=false is still a failed delete.
			_, _ = w.Write([]byte(`{"success":false,"error":"file locked"}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "secret")
		err := c.Delete(context.Background(), "服装/x/img1.jpg")

		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "file locked")
	})
}

func TestFileURL(t *testing.T) {
	c := New("https://img.example.com/", "secret")
	assert.Equal(t, "https://img.example.com", c.BaseURL())

	url := c.FileURL("服装/128-休闲-新品-夏-通勤-连衣裙/img 1.jpg")
	assert.True(t, strings.HasPrefix(url, "https://img.example.com/file/"))
	assert.NotContains(t, url, " ", "path segments must be escaped")
	assert.Contains(t, url, "/", "segment separators survive escaping")
}
