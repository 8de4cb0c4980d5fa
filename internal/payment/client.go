package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpvillanueva/oos-backend/pkg/config"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

// OrderingClient is the remote surface of the cart/order engine the saga
// drives. Every call forwards the caller's bearer token and a per-step
// idempotency key.
type OrderingClient interface {
	SaveDeliveryInfo(ctx context.Context, token, idempotencyKey string, payload DeliveryInfoPayload) error
	AddCartItem(ctx context.Context, token, idempotencyKey string, item addToCartRequest) error
	FinalizeOrder(ctx context.Context, token, idempotencyKey, username string) error
}

// HTTPClient calls the ordering service over HTTP with a per-call timeout and
// a bounded transport-level retry. Retries only fire for calls carrying an
// idempotency key; without one a replay could double-apply.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	attempts int
	backoff  time.Duration
}

func NewHTTPClient(ordering config.OrderingConfig, saga config.SagaConfig) (*HTTPClient, error) {
	if strings.TrimSpace(ordering.BaseURL) == "" {
		return nil, fmt.Errorf("ordering base url required")
	}
	attempts := saga.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(ordering.BaseURL, "/"),
		client:   &http.Client{Timeout: saga.CallTimeout},
		attempts: attempts,
		backoff:  saga.RetryBackoff,
	}, nil
}

func (c *HTTPClient) SaveDeliveryInfo(ctx context.Context, token, idempotencyKey string, payload DeliveryInfoPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode delivery info")
	}
	return c.post(ctx, token, idempotencyKey, "/deliveryinfo", body)
}

func (c *HTTPClient) AddCartItem(ctx context.Context, token, idempotencyKey string, item addToCartRequest) error {
	body, err := json.Marshal(item)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart item")
	}
	return c.post(ctx, token, idempotencyKey, "/cart", body)
}

// FinalizeOrder closes the user's open order. The ordering service's 404 is
// remapped to NotFound so callers can tell "nothing to finalize" apart from a
// broken peer.
func (c *HTTPClient) FinalizeOrder(ctx context.Context, token, idempotencyKey, username string) error {
	path := "/cart/finalize?username=" + url.QueryEscape(username)
	err := c.post(ctx, token, idempotencyKey, path, nil)
	if typed := pkgerrors.As(err); typed != nil && typed.HTTPStatus() == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no pending order found for user %s", username))
	}
	return err
}

func (c *HTTPClient) post(ctx context.Context, token, idempotencyKey, path string, body []byte) error {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "ordering call canceled")
			case <-time.After(c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build ordering request")
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if len(body) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if idempotencyKey == "" {
				break
			}
			continue
		}

		status, message := drainResponse(resp)
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			return nil
		}
		// HTTP-level failures surface the peer's status verbatim and are not
		// retried here; replay decisions belong to the caller.
		return pkgerrors.NewUpstream(status, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "ordering service unavailable")
}

// drainResponse reads a bounded slice of the body for error reporting and
// closes it so the connection can be reused.
func drainResponse(resp *http.Response) (int, string) {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_, _ = io.Copy(io.Discard, resp.Body)

	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return resp.StatusCode, message
}
