package api

import (
	"context"
	nethttp "net/http"
	"net/url"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// TrashClient wraps the /trash endpoint group. Soft deletion of live
// entities lives on FilesClient and FoldersClient; this client only
// operates on items already in the trash.
type TrashClient struct {
	gw *Gateway
}

// NewTrashClient creates a trash client over the gateway.
func NewTrashClient(gw *Gateway) *TrashClient {
	return &TrashClient{gw: gw}
}

// TrashContents is the combined listing of trashed files and folders.
type TrashContents struct {
	Files   []models.File   `json:"files"`
	Folders []models.Folder `json:"folders"`
}

// List returns everything currently in the trash.
func (c *TrashClient) List(ctx context.Context) (*TrashContents, error) {
	var contents TrashContents
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/trash", nil, &contents); err != nil {
		return nil, err
	}
	return &contents, nil
}

// RestoreFile puts a trashed file back in its original folder.
func (c *TrashClient) RestoreFile(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodPost, "/trash/restore/file/"+url.PathEscape(fileID), nil, nil)
}

// RestoreFolder puts a trashed folder and its contents back.
func (c *TrashClient) RestoreFolder(ctx context.Context, folderID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodPost, "/trash/restore/folder/"+url.PathEscape(folderID), nil, nil)
}

// PurgeFile deletes a trashed file for good.
func (c *TrashClient) PurgeFile(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/trash/file/"+url.PathEscape(fileID), nil, nil)
}

// PurgeFolder deletes a trashed folder for good.
func (c *TrashClient) PurgeFolder(ctx context.Context, folderID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/trash/folder/"+url.PathEscape(folderID), nil, nil)
}

// Empty deletes everything in the trash for good.
func (c *TrashClient) Empty(ctx context.Context) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/trash/empty", nil, nil)
}
