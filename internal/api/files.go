package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// FilesClient wraps the /files endpoint group. Stateless: every method
// is one remote call.
type FilesClient struct {
	gw *Gateway
}

// NewFilesClient creates a files client over the gateway.
func NewFilesClient(gw *Gateway) *FilesClient {
	return &FilesClient{gw: gw}
}

// List returns the files in the given folder, or in the root container
// when folderID is empty.
func (c *FilesClient) List(ctx context.Context, folderID string) ([]models.File, error) {
	path := "/files/list"
	if folderID != "" {
		path += "/" + url.PathEscape(folderID)
	}
	var files []models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, path, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadResponse is the acknowledgement returned by the upload endpoint.
type UploadResponse struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	Message  string `json:"message"`
}

// Upload streams one file as a multipart POST. folderID is omitted from
// the form when empty. The progress callback, if non-nil, receives the
// cumulative byte count as the body is consumed.
func (c *FilesClient) Upload(ctx context.Context, name string, r io.Reader, folderID string, progress func(int64)) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		if folderID != "" {
			if err := writer.WriteField("folderId", folderID); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := r
		if progress != nil {
			src = &countingReader{r: r, report: progress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	resp, err := c.gw.doUpload(ctx, nethttp.MethodPost, "/files/upload", pr, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var out UploadResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download streams the file content. The returned name is the server's
// attachment file name, empty when the response carried none. The
// caller must close the reader.
func (c *FilesClient) Download(ctx context.Context, fileID string) (io.ReadCloser, int64, string, error) {
	return c.gw.stream(ctx, "/files/"+url.PathEscape(fileID)+"/download")
}

// DownloadURL builds a direct link for the file, carrying the bearer
// token as a query parameter as the endpoint allows for link sharing
// with external viewers.
func (c *FilesClient) DownloadURL(fileID, token string) string {
	return c.gw.BaseURL() + queryPath("/files/"+url.PathEscape(fileID)+"/download", "token", token)
}

// Trash soft-deletes the file (moves it to trash).
func (c *FilesClient) Trash(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/files/"+url.PathEscape(fileID), nil, nil)
}

// Purge permanently deletes the file. Irreversible.
func (c *FilesClient) Purge(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodDelete, "/files/"+url.PathEscape(fileID)+"/permanent", nil, nil)
}

// Restore moves a trashed file back to its folder.
func (c *FilesClient) Restore(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodPost, "/files/"+url.PathEscape(fileID)+"/restore", nil, nil)
}

// Rename changes the file name.
func (c *FilesClient) Rename(ctx context.Context, fileID, newName string) error {
	path := queryPath("/files/"+url.PathEscape(fileID)+"/rename", "newName", newName)
	return c.gw.doJSON(ctx, nethttp.MethodPut, path, nil, nil)
}

// Move places the file in the given folder; an empty folderID moves it
// to the root container (the parameter is omitted, not sent empty).
func (c *FilesClient) Move(ctx context.Context, fileID, folderID string) error {
	path := queryPath("/files/"+url.PathEscape(fileID)+"/move", "folderId", folderID)
	return c.gw.doJSON(ctx, nethttp.MethodPut, path, nil, nil)
}

// ToggleStar flips the starred flag. The toggle semantics live
// server-side.
func (c *FilesClient) ToggleStar(ctx context.Context, fileID string) error {
	return c.gw.doJSON(ctx, nethttp.MethodPost, "/files/"+url.PathEscape(fileID)+"/star", nil, nil)
}

// Starred returns all starred files.
func (c *FilesClient) Starred(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/files/starred", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Recent returns recently opened files.
func (c *FilesClient) Recent(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/files/recent", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// TrashItems returns trashed files.
func (c *FilesClient) TrashItems(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/files/trash-items", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Search runs a server-side file search across all folders.
func (c *FilesClient) Search(ctx context.Context, query string) ([]models.File, error) {
	var files []models.File
	path := queryPath("/files/search", "query", query)
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, path, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// PublicLink issues (or rotates) the public share token for a file.
func (c *FilesClient) PublicLink(ctx context.Context, fileID string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.gw.doJSON(ctx, nethttp.MethodPost, "/files/"+url.PathEscape(fileID)+"/public-link", nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// PublicFile fetches a file's metadata by public share token. No
// credential is required; an invalid or expired token yields
// ErrNotFound.
func (c *FilesClient) PublicFile(ctx context.Context, token string) (*models.File, error) {
	var file models.File
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/files/public/"+url.PathEscape(token), nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// PublicDownload streams a file by public share token.
func (c *FilesClient) PublicDownload(ctx context.Context, token string) (io.ReadCloser, int64, string, error) {
	return c.gw.stream(ctx, "/files/public/download/"+url.PathEscape(token))
}

// PublicDownloadURL builds the unauthenticated direct link for a
// public share token.
func (c *FilesClient) PublicDownloadURL(token string) string {
	return c.gw.BaseURL() + "/files/public/download/" + url.PathEscape(token)
}

// countingReader reports cumulative bytes read to a callback.
type countingReader struct {
	r      io.Reader
	n      int64
	report func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.n += int64(n)
		c.report(c.n)
	}
	return n, err
}

// decodeJSON decodes a response body, wrapping decode failures.
func decodeJSON(r io.Reader, out interface{}) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
