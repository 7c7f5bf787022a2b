package api

import (
	"context"
	nethttp "net/http"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// StorageClient wraps the /storage endpoint group.
type StorageClient struct {
	gw *Gateway
}

// NewStorageClient creates a storage client over the gateway.
func NewStorageClient(gw *Gateway) *StorageClient {
	return &StorageClient{gw: gw}
}

// Usage returns the quota accounting summary. All totals are computed
// server-side; the client never derives them locally.
func (c *StorageClient) Usage(ctx context.Context) (*models.StorageUsage, error) {
	var usage models.StorageUsage
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/storage/usage", nil, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// Breakdown lists every file counted against the quota.
func (c *StorageClient) Breakdown(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/storage/breakdown", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}
