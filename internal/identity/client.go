package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jpvillanueva/oos-backend/pkg/config"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

// Principal is the identity/role pair the auth service resolves for a bearer
// credential. It is never persisted here.
type Principal struct {
	Username string `json:"username"`
	UserRole string `json:"userRole"`
}

// Resolver looks up the principal behind a bearer token.
type Resolver interface {
	Me(ctx context.Context, token string) (*Principal, error)
}

// Client calls the auth service's users/me endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an identity client from configuration.
func NewClient(cfg config.IdentityConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("identity base url required")
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Me resolves the principal for the provided bearer token. Transport failures
// map to a dependency error (503); a non-2xx from the auth service surfaces
// its status verbatim.
func (c *Client) Me(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/users/me", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build auth request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewUpstream(resp.StatusCode, "authentication failed")
	}

	var principal Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode auth response")
	}
	if principal.Username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "auth service returned no principal")
	}
	return &principal, nil
}

// Authorize verifies the principal's role against the endpoint's static
// allow-list.
func Authorize(principal *Principal, allowedRoles ...string) error {
	if principal == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal")
	}
	for _, role := range allowedRoles {
		if principal.UserRole == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
}
