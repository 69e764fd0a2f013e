// Package supabase implements identity.Client against the Supabase Auth (GoTrue) REST API.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"resty.dev/v3"

	"github.com/at-ishikawa/teacherlee/internal/identity"
)

// ErrNoSession is returned by writes attempted without a usable access token.
var ErrNoSession = errors.New("no signed-in session")

type Client struct {
	httpClient  *resty.Client
	accessToken string
	now         func() time.Time
}

// NewClient creates a client for the project at baseURL, acting as the user who owns
// accessToken. A zero timeout leaves requests unbounded.
func NewClient(baseURL, anonKey, accessToken string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/auth/v1")
	client.SetHeader("apikey", anonKey)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient:  client,
		accessToken: accessToken,
		now:         time.Now,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// hasSession reports whether the access token is present and not yet expired. Tokens
// that cannot be decoded are left for the server to judge.
func (client *Client) hasSession() bool {
	if client.accessToken == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(client.accessToken, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return client.now().Before(claims.ExpiresAt.Time)
}

func (client *Client) CurrentUser(ctx context.Context) (*identity.User, error) {
	if !client.hasSession() {
		slog.Default().Debug("no supabase session, treating as signed out")
		return nil, nil
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+client.accessToken).
		SetResult(&identity.User{}).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if isUnauthenticated(response.StatusCode()) {
		slog.Default().Debug("supabase rejected the session",
			"status", response.StatusCode(),
		)
		return nil, nil
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	user := response.Result().(*identity.User)
	if user == nil || user.ID == "" {
		return nil, nil
	}
	return user, nil
}

func (client *Client) UpdateUserMetadata(ctx context.Context, metadata map[string]any) (*identity.User, error) {
	if !client.hasSession() {
		return nil, ErrNoSession
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+client.accessToken).
		SetBody(map[string]any{"data": metadata}).
		SetResult(&identity.User{}).
		Put("/user")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Put > %w", err)
	}
	if isUnauthenticated(response.StatusCode()) {
		return nil, ErrNoSession
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return response.Result().(*identity.User), nil
}

func isUnauthenticated(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
