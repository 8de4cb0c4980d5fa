package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	type payload struct {
		Username string `json:"username" validate:"required"`
		Quantity int    `json:"quantity" validate:"required,min=1"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	var dest payload
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["username"])
	assert.Contains(t, details, "quantity")
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Username string `json:"username" validate:"required"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice","surprise":true}`))
	var dest payload
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRequireQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)
	value, err := RequireQueryString(req, "username")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)

	req = httptest.NewRequest(http.MethodGet, "/?username=%20", nil)
	_, err = RequireQueryString(req, "username")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	value, err := ParseQueryInt(req, "limit", 10, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, value)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err = ParseQueryInt(req, "limit", 10, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	req = httptest.NewRequest(http.MethodGet, "/?limit=999", nil)
	_, err = ParseQueryInt(req, "limit", 10, 1, 50)
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 10, 1, 50)
	require.Error(t, err)
}

func TestParsePathInt64(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("orderItemID", tc.raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		value, err := ParsePathInt64(req, "orderItemID")
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.Equal(t, tc.want, value)
		} else {
			require.Error(t, err, tc.raw)
		}
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	token, err := BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	req.Header.Set("Authorization", "bearer tok-123")
	token, err = BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer  "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := BearerToken(req)
		require.Error(t, err, header)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	}
}
