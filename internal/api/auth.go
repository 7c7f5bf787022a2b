package api

import (
	"context"
	nethttp "net/http"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// AuthClient wraps the /auth endpoint group. It returns the issued
// token; installing it in the session store is the caller's job.
type AuthClient struct {
	gw *Gateway
}

// NewAuthClient creates an auth client over the gateway.
func NewAuthClient(gw *Gateway) *AuthClient {
	return &AuthClient{gw: gw}
}

// Login exchanges email/password for a bearer token.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := models.AuthRequest{Email: email, Password: password}
	if err := c.gw.doJSON(ctx, nethttp.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The server does not log the new user in;
// callers follow up with Login.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) error {
	body := models.AuthRequest{Name: name, Email: email, Password: password}
	return c.gw.doJSON(ctx, nethttp.MethodPost, "/auth/register", body, nil)
}

// GoogleLogin exchanges a Google identity token for a bearer token.
func (c *AuthClient) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := models.GoogleAuthRequest{IDToken: idToken}
	if err := c.gw.doJSON(ctx, nethttp.MethodPost, "/auth/google", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
