// Package browser holds the navigation and view state for one folder
// listing: the current folder, the breadcrumb trail back to the root,
// and the folders and files on display. All mutation goes through the
// Controller so the three never disagree.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudbox/cloudbox-cli/internal/api"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/logging"
	"github.com/cloudbox/cloudbox-cli/internal/models"
	"github.com/cloudbox/cloudbox-cli/internal/transfer"
)

// Errors reported for operations rejected before any remote call.
var (
	// ErrEmptyName rejects folder names that are empty after trimming.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrSameFolder rejects a move whose target is the folder the file
	// is already in.
	ErrSameFolder = errors.New("file is already in that folder")
)

// Controller owns the browsing state. Safe for concurrent use; reads
// return snapshots.
type Controller struct {
	files   *api.FilesClient
	folders *api.FoldersClient
	uploads *transfer.Queue
	bus     *events.EventBus
	logger  *logging.Logger

	mu          sync.Mutex
	current     models.FolderRef
	breadcrumbs []models.FolderRef
	folderItems []models.Folder
	fileItems   []models.File
	loading     bool
	lastErr     error
	generation  uint64
}

// NewController creates a controller positioned at the root container.
// The bus and logger may be nil.
func NewController(files *api.FilesClient, folders *api.FoldersClient, uploads *transfer.Queue, bus *events.EventBus, logger *logging.Logger) *Controller {
	return &Controller{
		files:       files,
		folders:     folders,
		uploads:     uploads,
		bus:         bus,
		logger:      logger,
		current:     models.Root(),
		breadcrumbs: []models.FolderRef{models.Root()},
	}
}

// CurrentFolder returns where the browser is. It is always the last
// breadcrumb.
func (c *Controller) CurrentFolder() models.FolderRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Breadcrumbs returns a copy of the trail from the root to the current
// folder.
func (c *Controller) Breadcrumbs() []models.FolderRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.FolderRef, len(c.breadcrumbs))
	copy(out, c.breadcrumbs)
	return out
}

// Listing returns copies of the folders and files on display.
func (c *Controller) Listing() ([]models.Folder, []models.File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	folders := make([]models.Folder, len(c.folderItems))
	copy(folders, c.folderItems)
	files := make([]models.File, len(c.fileItems))
	copy(files, c.fileItems)
	return folders, files
}

// Loading reports whether a refresh is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError returns the error from the most recent refresh, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Refresh refetches the current folder's subfolders and files. The two
// fetches run concurrently and the listing is replaced only when both
// have succeeded, so a reader never sees one half updated. A refresh
// that finishes after a newer one has started is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	target := c.current
	c.loading = true
	c.mu.Unlock()

	c.publish(events.EventListingLoading)

	var (
		wg        sync.WaitGroup
		folders   []models.Folder
		files     []models.File
		folderErr error
		fileErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if target.IsRoot() {
			folders, folderErr = c.folders.Roots(ctx)
		} else {
			folders, folderErr = c.folders.Subfolders(ctx, target.ID)
		}
	}()
	go func() {
		defer wg.Done()
		files, fileErr = c.files.List(ctx, target.ID)
	}()
	wg.Wait()

	err := folderErr
	if err == nil {
		err = fileErr
	}

	c.mu.Lock()
	if gen != c.generation {
		// A newer refresh owns the state now.
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Error().Str("folder", target.Name).Err(err).Msg("listing refresh failed")
		}
		c.publish(events.EventListingError)
		return err
	}
	c.folderItems = folders
	c.fileItems = files
	c.lastErr = nil
	c.mu.Unlock()

	c.publish(events.EventListingChanged)
	return nil
}

// EnterFolder descends into a folder, extending the breadcrumb trail,
// and refreshes the listing.
func (c *Controller) EnterFolder(ctx context.Context, folder models.FolderRef) error {
	c.mu.Lock()
	c.current = folder
	c.breadcrumbs = append(c.breadcrumbs, folder)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// JumpToBreadcrumb truncates the trail at index and navigates there.
// Index 0 is always the root. Panics on an out-of-range index: the
// presentation layer only offers crumbs that exist.
func (c *Controller) JumpToBreadcrumb(ctx context.Context, index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.breadcrumbs) {
		n := len(c.breadcrumbs)
		c.mu.Unlock()
		panic(fmt.Sprintf("browser: breadcrumb index %d out of range [0,%d)", index, n))
	}
	c.breadcrumbs = c.breadcrumbs[:index+1]
	c.current = c.breadcrumbs[index]
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Up navigates to the parent breadcrumb. At the root it is a no-op.
func (c *Controller) Up(ctx context.Context) error {
	c.mu.Lock()
	n := len(c.breadcrumbs)
	c.mu.Unlock()
	if n <= 1 {
		return nil
	}
	return c.JumpToBreadcrumb(ctx, n-2)
}

// CreateFolder makes a folder in the current folder and refreshes. A
// name that is blank after trimming is rejected locally with
// ErrEmptyName and no request is sent.
func (c *Controller) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	folder, err := c.folders.Create(ctx, name, c.CurrentFolder().ID)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		return folder, err
	}
	return folder, nil
}

// RenameFile renames a file and refreshes. Renaming a listed file to
// the name it already has is a no-op with no remote calls.
func (c *Controller) RenameFile(ctx context.Context, fileID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if f := c.findFile(fileID); f != nil && f.FileName == newName {
		return nil
	}
	if err := c.files.Rename(ctx, fileID, newName); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// RenameFolder renames a folder and refreshes. Same no-op rule as
// RenameFile.
func (c *Controller) RenameFolder(ctx context.Context, folderID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if f := c.findFolder(folderID); f != nil && f.Name == newName {
		return nil
	}
	if err := c.folders.Rename(ctx, folderID, newName); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// MoveFile moves a file into targetFolderID (the root when empty) and
// refreshes. Moving a listed file into the folder it is already in is
// rejected locally with ErrSameFolder and no request is sent.
func (c *Controller) MoveFile(ctx context.Context, fileID, targetFolderID string) error {
	if f := c.findFile(fileID); f != nil && f.FolderID() == targetFolderID {
		return ErrSameFolder
	}
	if err := c.files.Move(ctx, fileID, targetFolderID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// MoveFolder reparents a folder and refreshes.
func (c *Controller) MoveFolder(ctx context.Context, folderID, targetParentID string) error {
	if f := c.findFolder(folderID); f != nil && f.ParentID() == targetParentID {
		return ErrSameFolder
	}
	if err := c.folders.Move(ctx, folderID, targetParentID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// TrashFile soft-deletes a file and refreshes.
func (c *Controller) TrashFile(ctx context.Context, fileID string) error {
	if err := c.files.Trash(ctx, fileID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// RestoreFile brings a trashed file back and refreshes.
func (c *Controller) RestoreFile(ctx context.Context, fileID string) error {
	if err := c.files.Restore(ctx, fileID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// PurgeFile permanently deletes a file and refreshes.
func (c *Controller) PurgeFile(ctx context.Context, fileID string) error {
	if err := c.files.Purge(ctx, fileID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// TrashFolder soft-deletes a folder and refreshes.
func (c *Controller) TrashFolder(ctx context.Context, folderID string) error {
	if err := c.folders.Trash(ctx, folderID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ToggleStar flips a file's starred flag and refreshes.
func (c *Controller) ToggleStar(ctx context.Context, fileID string) error {
	if err := c.files.ToggleStar(ctx, fileID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Upload sends the sources into the current folder, one at a time, then
// refreshes exactly once regardless of how many files were in the batch
// or how many of them failed.
func (c *Controller) Upload(ctx context.Context, sources []transfer.Source) (*transfer.Batch, error) {
	batch := c.uploads.Run(ctx, c.CurrentFolder().ID, sources)
	if err := c.Refresh(ctx); err != nil {
		return batch, err
	}
	return batch, nil
}

// Filter narrows the current listing to entries whose names contain
// query, case-insensitively, preserving listing order. Purely local:
// no remote call, no state change. An empty query returns everything.
func (c *Controller) Filter(query string) ([]models.Folder, []models.File) {
	folders, files := c.Listing()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return folders, files
	}

	matchedFolders := folders[:0]
	for _, f := range folders {
		if strings.Contains(strings.ToLower(f.Name), q) {
			matchedFolders = append(matchedFolders, f)
		}
	}
	matchedFiles := files[:0]
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.FileName), q) {
			matchedFiles = append(matchedFiles, f)
		}
	}
	return matchedFolders, matchedFiles
}

func (c *Controller) findFile(fileID string) *models.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.fileItems {
		if c.fileItems[i].ID == fileID {
			f := c.fileItems[i]
			return &f
		}
	}
	return nil
}

func (c *Controller) findFolder(folderID string) *models.Folder {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.folderItems {
		if c.folderItems[i].ID == folderID {
			f := c.folderItems[i]
			return &f
		}
	}
	return nil
}

func (c *Controller) publish(t events.EventType) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.BaseEvent{EventType: t, Time: time.Now()})
}
