package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpvillanueva/oos-backend/pkg/config"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

func sagaConfig() config.SagaConfig {
	return config.SagaConfig{
		CallTimeout:   2 * time.Second,
		RetryAttempts: 2,
		RetryBackoff:  10 * time.Millisecond,
	}
}

func newOrderingClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(config.OrderingConfig{BaseURL: srv.URL}, sagaConfig())
	require.NoError(t, err)
	return client
}

func TestAddCartItemForwardsHeaders(t *testing.T) {
	var gotAuth, gotKey, gotPath string
	client := newOrderingClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.AddCartItem(context.Background(), "tok", "saga-1:item:0", addToCartRequest{
		Username: "alice", ProductName: "Burger", Quantity: 1, OrderType: "dine-in",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "saga-1:item:0", gotKey)
	assert.Equal(t, "/cart", gotPath)
}

func TestPostSurfacesPeerStatus(t *testing.T) {
	client := newOrderingClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store exploded", http.StatusInternalServerError)
	}))

	err := client.AddCartItem(context.Background(), "tok", "key", addToCartRequest{Username: "alice"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, http.StatusInternalServerError, typed.HTTPStatus())
	assert.Contains(t, typed.Message(), "store exploded")
}

func TestFinalizeOrderMapsNotFound(t *testing.T) {
	client := newOrderingClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/finalize", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.FinalizeOrder(context.Background(), "tok", "key", "alice")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Contains(t, typed.Message(), "no pending order found for user alice")
}

func TestPostRetriesTransportFailureWithKey(t *testing.T) {
	var calls atomic.Int64
	client := newOrderingClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the connection without a response to force a transport
			// error on the first attempt.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	err := client.FinalizeOrder(context.Background(), "tok", "saga-1:finalize", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestPostDoesNotRetryWithoutKey(t *testing.T) {
	var calls atomic.Int64
	client := newOrderingClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))

	err := client.FinalizeOrder(context.Background(), "tok", "", "alice")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, int64(1), calls.Load())
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(config.OrderingConfig{}, sagaConfig())
	assert.Error(t, err)
}
