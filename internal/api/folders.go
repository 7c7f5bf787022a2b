package api

import (
	"context"
	nethttp "net/http"
	"net/url"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// FoldersClient wraps the /folders endpoint group.
type FoldersClient struct {
	gw *Gateway
}

// NewFoldersClient creates a folders client over the gateway.
func NewFoldersClient(gw *Gateway) *FoldersClient {
	return &FoldersClient{gw: gw}
}

// createFolderRequest is the body for folder creation. The parent is
// omitted for root-level folders.
type createFolderRequest struct {
	Name           string `json:"name"`
	ParentFolderID string `json:"parentFolderId,omitempty"`
}

// Create makes a folder under the given parent, or at the root when
// parentID is empty.
func (c *FoldersClient) Create(ctx context.Context, name, parentID string) (*models.Folder, error) {
	var folder models.Folder
	body := createFolderRequest{Name: name, ParentFolderID: parentID}
	if err := c.gw.doJSON(ctx, nethttp.MethodPost, "/folders", body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListAll returns every folder belonging to the current user.
func (c *FoldersClient) ListAll(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Roots returns the folders in the root container.
func (c *FoldersClient) Roots(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/folders/root", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Subfolders returns the direct children of a folder.
func (c *FoldersClient) Subfolders(ctx context.Context, folderID string) ([]models.Folder, error) {
	var folders []models.Folder
	path := "/folders/" + url.PathEscape(folderID) + "/subfolders"
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, path, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Get fetches one folder by ID.
func (c *FoldersClient) Get(ctx context.Context, folderID string) (*models.Folder, error) {
	var folder models.Folder
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/folders/"+url.PathEscape(folderID), nil, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// Trash soft-deletes the folder and its contents.
func (c *FoldersClient) Trash(ctx context.Context, folderID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/folders/"+url.PathEscape(folderID), nil, nil)
}

// Rename changes the folder name.
func (c *FoldersClient) Rename(ctx context.Context, folderID, newName string) error {
	path := queryPath("/folders/"+url.PathEscape(folderID)+"/rename", "newName", newName)
	return c.gw.doJSON(ctx, nethttp.MethodPut, path, nil, nil)
}

// Move reparents the folder; an empty parentID moves it to the root.
func (c *FoldersClient) Move(ctx context.Context, folderID, parentID string) error {
	path := queryPath("/folders/"+url.PathEscape(folderID)+"/move", "parentId", parentID)
	return c.gw.doJSON(ctx, nethttp.MethodPut, path, nil, nil)
}
