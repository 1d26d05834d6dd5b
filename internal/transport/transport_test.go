package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylerack/stylerack/pkg/errors"
)

func TestDoAppliesAuthentication(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
	}))
	defer srv.Close()

	t.Run("Bearer", func(t *testing.T) {
		c := New(&BearerAuth{Token: "secret"})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "application/json", gotAccept)
	})

	t.Run("NoAuth", func(t *testing.T) {
		c := New(&NoAuth{})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Empty(t, gotAuth)
	})

	t.Run("EmptyBearerSendsNoHeader", func(t *testing.T) {
		c := New(&BearerAuth{})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Empty(t, gotAuth)
	})
}

func TestDoClassifiesContextErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(&NoAuth{})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Get(ctx, srv.URL)
		require.ErrorIs(t, err, errors.ErrCanceled)
	})

	t.Run("DeadlineExceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
		defer cancel()

		_, err := c.Get(ctx, srv.URL)
		require.ErrorIs(t, err, errors.ErrTimeout)
		assert.True(t, errors.IsTimeout(err))
	})
}

func TestDecodeResponse(t *testing.T) {
	t.Run("ErrorStatusUsesBodyMessage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"maintenance window"}`))
		}))
		defer srv.Close()

		c := New(&NoAuth{})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)

		err = DecodeResponse(resp, "/test", nil)
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Equal(t, "maintenance window", apiErr.Message)
	})

	t.Run("NilTargetDiscardsBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"anything":"goes"}`))
		}))
		defer srv.Close()

		c := New(&NoAuth{})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.NoError(t, DecodeResponse(resp, "/test", nil))
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		c := New(&NoAuth{})
		resp, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)

		var target map[string]any
		err = DecodeResponse(resp, "/test", &target)
		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "decode", ioErr.Operation)
	})
}
