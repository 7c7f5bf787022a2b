package api

import (
	"context"
	nethttp "net/http"
	"net/url"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// SharesClient wraps the /shares endpoint group.
type SharesClient struct {
	gw *Gateway
}

// NewSharesClient creates a shares client over the gateway.
func NewSharesClient(gw *Gateway) *SharesClient {
	return &SharesClient{gw: gw}
}

// Create grants a user access to a file.
func (c *SharesClient) Create(ctx context.Context, fileID, email string, permission models.Permission) (*models.Share, error) {
	var share models.Share
	body := models.ShareRequest{FileID: fileID, Email: email, Permission: permission}
	if err := c.gw.doJSON(ctx, nethttp.MethodPost, "/shares", body, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// ForFile lists the grants on one file.
func (c *SharesClient) ForFile(ctx context.Context, fileID string) ([]models.Share, error) {
	var shares []models.Share
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/shares/file/"+url.PathEscape(fileID), nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// Revoke removes a grant.
func (c *SharesClient) Revoke(ctx context.Context, shareID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/shares/"+url.PathEscape(shareID), nil, nil)
}

// SharedWithMe lists grants where the current user is the recipient.
func (c *SharesClient) SharedWithMe(ctx context.Context) ([]models.Share, error) {
	var shares []models.Share
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/shares/shared-with-me", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// SharedByMe lists grants the current user has given out.
func (c *SharesClient) SharedByMe(ctx context.Context) ([]models.Share, error) {
	var shares []models.Share
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/shares/shared-by-me", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}
