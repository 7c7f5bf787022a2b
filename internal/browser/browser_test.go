package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudbox/cloudbox-cli/internal/api"
	"github.com/cloudbox/cloudbox-cli/internal/config"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/models"
	"github.com/cloudbox/cloudbox-cli/internal/session"
	"github.com/cloudbox/cloudbox-cli/internal/transfer"
)

// fakeBackend serves a two-level folder tree:
//
//	Home: [Docs] + report.pdf, notes.txt, Summary.md
//	Docs: [2024] + plan.docx
//	2024: []    + budget.xlsx
type fakeBackend struct {
	mu         sync.Mutex
	listCalls  int
	writeCalls int
	failLists  bool
	failUpload map[string]bool
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()

	rootFolders := []models.Folder{{ID: "docs", Name: "Docs"}}
	docsFolders := []models.Folder{{ID: "y2024", Name: "2024", ParentFolder: &models.Folder{ID: "docs"}}}

	rootFiles := []models.File{
		{ID: "f1", FileName: "report.pdf"},
		{ID: "f2", FileName: "notes.txt"},
		{ID: "f3", FileName: "Summary.md"},
	}
	docsFiles := []models.File{{ID: "f4", FileName: "plan.docx", Folder: &models.Folder{ID: "docs"}}}
	y2024Files := []models.File{{ID: "f5", FileName: "budget.xlsx", Folder: &models.Folder{ID: "y2024"}}}

	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/folders/root", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rootFolders)
	})
	mux.HandleFunc("/folders/docs/subfolders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, docsFolders)
	})
	mux.HandleFunc("/folders/y2024/subfolders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Folder{})
	})
	mux.HandleFunc("/files/list", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls++
		fail := b.failLists
		b.mu.Unlock()
		if fail {
			http.Error(w, "listing unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rootFiles)
	})
	mux.HandleFunc("/files/list/docs", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls++
		b.mu.Unlock()
		writeJSON(w, docsFiles)
	})
	mux.HandleFunc("/files/list/y2024", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls++
		b.mu.Unlock()
		writeJSON(w, y2024Files)
	})
	mux.HandleFunc("/files/upload", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.writeCalls++
		b.mu.Unlock()
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse upload: %v", err)
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("upload without file part: %v", err)
			return
		}
		if b.failUpload[hdr.Filename] {
			http.Error(w, "storage quota exceeded", http.StatusBadRequest)
			return
		}
		writeJSON(w, api.UploadResponse{ID: "new-" + hdr.Filename, FileName: hdr.Filename})
	})
	mux.HandleFunc("/folders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.writeCalls++
		b.mu.Unlock()
		var req struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, models.Folder{ID: "created", Name: req.Name})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Rename, move, trash, star.
		b.mu.Lock()
		b.writeCalls++
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()

	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.APIBaseURL = srv.URL
	sessions := session.NewStore(nil)
	sessions.Set("test-token")
	gw := api.NewGateway(cfg, sessions, nil)

	files := api.NewFilesClient(gw)
	folders := api.NewFoldersClient(gw)
	uploads := transfer.NewQueue(files, nil, nil, nil)
	return NewController(files, folders, uploads, nil, nil)
}

func (b *fakeBackend) counts() (lists, writes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls, b.writeCalls
}

func TestControllerStartsAtRoot(t *testing.T) {
	c := newTestController(t, &fakeBackend{})

	crumbs := c.Breadcrumbs()
	if len(crumbs) != 1 {
		t.Fatalf("breadcrumbs = %v, want single root entry", crumbs)
	}
	if !crumbs[0].IsRoot() || crumbs[0].Name != "Home" {
		t.Errorf("root crumb = %+v, want Home root", crumbs[0])
	}
	if got := c.CurrentFolder(); got != crumbs[0] {
		t.Errorf("current = %+v, want last breadcrumb %+v", got, crumbs[0])
	}
}

func TestEnterFolderExtendsTrail(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	ctx := context.Background()

	if err := c.EnterFolder(ctx, models.FolderRef{ID: "docs", Name: "Docs"}); err != nil {
		t.Fatalf("EnterFolder Docs: %v", err)
	}
	if err := c.EnterFolder(ctx, models.FolderRef{ID: "y2024", Name: "2024"}); err != nil {
		t.Fatalf("EnterFolder 2024: %v", err)
	}

	crumbs := c.Breadcrumbs()
	want := []string{"Home", "Docs", "2024"}
	if len(crumbs) != len(want) {
		t.Fatalf("breadcrumbs = %v, want %v", crumbs, want)
	}
	for i, name := range want {
		if crumbs[i].Name != name {
			t.Errorf("crumb[%d] = %q, want %q", i, crumbs[i].Name, name)
		}
	}
	if got := c.CurrentFolder(); got != crumbs[len(crumbs)-1] {
		t.Errorf("current = %+v, want last breadcrumb", got)
	}

	_, files := c.Listing()
	if len(files) != 1 || files[0].FileName != "budget.xlsx" {
		t.Errorf("listing = %v, want budget.xlsx", files)
	}
}

func TestJumpToBreadcrumbTruncates(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	ctx := context.Background()

	c.EnterFolder(ctx, models.FolderRef{ID: "docs", Name: "Docs"})
	c.EnterFolder(ctx, models.FolderRef{ID: "y2024", Name: "2024"})

	if err := c.JumpToBreadcrumb(ctx, 1); err != nil {
		t.Fatalf("JumpToBreadcrumb(1): %v", err)
	}
	crumbs := c.Breadcrumbs()
	if len(crumbs) != 2 || crumbs[1].Name != "Docs" {
		t.Fatalf("breadcrumbs = %v, want [Home Docs]", crumbs)
	}
	if got := c.CurrentFolder(); got.ID != "docs" {
		t.Errorf("current = %+v, want Docs", got)
	}
	_, files := c.Listing()
	if len(files) != 1 || files[0].FileName != "plan.docx" {
		t.Errorf("listing = %v, want plan.docx", files)
	}
}

func TestJumpToBreadcrumbZeroIsRoot(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	ctx := context.Background()

	c.EnterFolder(ctx, models.FolderRef{ID: "docs", Name: "Docs"})
	c.EnterFolder(ctx, models.FolderRef{ID: "y2024", Name: "2024"})

	if err := c.JumpToBreadcrumb(ctx, 0); err != nil {
		t.Fatalf("JumpToBreadcrumb(0): %v", err)
	}
	crumbs := c.Breadcrumbs()
	if len(crumbs) != 1 || !crumbs[0].IsRoot() {
		t.Fatalf("breadcrumbs = %v, want just the root", crumbs)
	}
	if !c.CurrentFolder().IsRoot() {
		t.Error("current folder is not the root")
	}
}

func TestJumpToBreadcrumbOutOfRangePanics(t *testing.T) {
	c := newTestController(t, &fakeBackend{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range breadcrumb index")
		}
	}()
	c.JumpToBreadcrumb(context.Background(), 5)
}

func TestRefreshFailureKeepsListing(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend)
	ctx := context.Background()

	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	foldersBefore, filesBefore := c.Listing()

	backend.mu.Lock()
	backend.failLists = true
	backend.mu.Unlock()

	if err := c.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}
	if c.LastError() == nil {
		t.Error("LastError not set after failed refresh")
	}

	foldersAfter, filesAfter := c.Listing()
	if len(foldersAfter) != len(foldersBefore) || len(filesAfter) != len(filesBefore) {
		t.Errorf("listing changed after failed refresh: %d/%d -> %d/%d",
			len(foldersBefore), len(filesBefore), len(foldersAfter), len(filesAfter))
	}
	if c.Loading() {
		t.Error("still loading after failed refresh")
	}
}

func TestRenameSameNameMakesNoCalls(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	listsBefore, writesBefore := backend.counts()

	if err := c.RenameFile(ctx, "f1", "report.pdf"); err != nil {
		t.Fatalf("RenameFile: %v", err)
	}
	if err := c.RenameFolder(ctx, "docs", "Docs"); err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}

	lists, writes := backend.counts()
	if lists != listsBefore || writes != writesBefore {
		t.Errorf("same-name rename made remote calls: lists %d->%d writes %d->%d",
			listsBefore, lists, writesBefore, writes)
	}
}

func TestMoveToSameFolderRejectedLocally(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend)
	ctx := context.Background()

	c.EnterFolder(ctx, models.FolderRef{ID: "docs", Name: "Docs"})
	_, writesBefore := backend.counts()

	err := c.MoveFile(ctx, "f4", "docs")
	if !errors.Is(err, ErrSameFolder) {
		t.Fatalf("err = %v, want ErrSameFolder", err)
	}
	if _, writes := backend.counts(); writes != writesBefore {
		t.Error("same-folder move reached the server")
	}
}

func TestCreateFolderBlankNameRejectedLocally(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend)

	_, err := c.CreateFolder(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	if _, writes := backend.counts(); writes != 0 {
		t.Error("blank folder name reached the server")
	}
}

func TestUploadBatchIsolatesFailureAndRefreshesOnce(t *testing.T) {
	backend := &fakeBackend{failUpload: map[string]bool{"b.txt": true}}
	c := newTestController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	listsBefore, _ := backend.counts()

	src := func(name string) transfer.Source {
		return transfer.Source{
			Name: name,
			Size: 4,
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("data")), nil
			},
		}
	}
	batch, err := c.Upload(ctx, []transfer.Source{src("a.txt"), src("b.txt"), src("c.txt")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if batch.Succeeded() != 2 || batch.Failed() != 1 {
		t.Fatalf("batch: %d succeeded, %d failed, want 2/1", batch.Succeeded(), batch.Failed())
	}
	wantStatus := []transfer.Status{transfer.StatusSuccess, transfer.StatusFailed, transfer.StatusSuccess}
	for i, task := range batch.Tasks {
		if task.Status != wantStatus[i] {
			t.Errorf("task %s status = %s, want %s", task.Name, task.Status, wantStatus[i])
		}
	}
	if batch.Tasks[1].Err == nil {
		t.Error("failed task carries no error")
	}

	lists, _ := backend.counts()
	if lists != listsBefore+1 {
		t.Errorf("batch triggered %d refreshes, want exactly 1", lists-listsBefore)
	}
}

func TestFilterIsCaseInsensitiveAndOrderPreserving(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	c.Refresh(context.Background())

	_, files := c.Filter("SUM")
	if len(files) != 1 || files[0].FileName != "Summary.md" {
		t.Fatalf("Filter(SUM) files = %v, want Summary.md", files)
	}

	_, files = c.Filter("t")
	want := []string{"report.pdf", "notes.txt"}
	if len(files) != len(want) {
		t.Fatalf("Filter(t) = %v, want %v", files, want)
	}
	for i, name := range want {
		if files[i].FileName != name {
			t.Errorf("Filter(t)[%d] = %q, want %q", i, files[i].FileName, name)
		}
	}

	folders, files := c.Filter("")
	if len(folders) != 1 || len(files) != 3 {
		t.Errorf("empty filter = %d folders %d files, want full listing", len(folders), len(files))
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	rootListStarted := make(chan struct{})
	releaseRootList := make(chan struct{})

	backend := &fakeBackend{}
	inner := backend.handler(t)
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/list" {
			once.Do(func() { close(rootListStarted) })
			<-releaseRootList
		}
		inner.ServeHTTP(w, r)
	}))
	defer srv.Close()

	cfg := config.New()
	cfg.APIBaseURL = srv.URL
	sessions := session.NewStore(nil)
	sessions.Set("tok")
	gw := api.NewGateway(cfg, sessions, nil)
	c := NewController(api.NewFilesClient(gw), api.NewFoldersClient(gw), nil, nil, nil)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- c.Refresh(ctx) }()

	select {
	case <-rootListStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("root listing request never arrived")
	}

	// A navigation completes while the first refresh hangs.
	if err := c.EnterFolder(ctx, models.FolderRef{ID: "docs", Name: "Docs"}); err != nil {
		t.Fatalf("EnterFolder: %v", err)
	}

	close(releaseRootList)
	if err := <-done; err != nil {
		t.Fatalf("stale refresh returned error: %v", err)
	}

	_, files := c.Listing()
	if len(files) != 1 || files[0].FileName != "plan.docx" {
		t.Errorf("stale refresh overwrote listing: %v", files)
	}
	if got := c.CurrentFolder(); got.ID != "docs" {
		t.Errorf("current = %+v, want Docs", got)
	}
}

func TestListingEventsPublished(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	cfg := config.New()
	cfg.APIBaseURL = srv.URL
	sessions := session.NewStore(nil)
	sessions.Set("tok")
	gw := api.NewGateway(cfg, sessions, nil)

	bus := events.NewEventBus(16)
	defer bus.Close()
	changed := bus.Subscribe(events.EventListingChanged)

	c := NewController(api.NewFilesClient(gw), api.NewFoldersClient(gw), nil, bus, nil)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("no listing-changed event")
	}
}

func TestUpFromRootIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend)

	if err := c.Up(context.Background()); err != nil {
		t.Fatalf("Up at root: %v", err)
	}
	if lists, writes := backend.counts(); lists != 0 || writes != 0 {
		t.Error("Up at root made remote calls")
	}
	if got := fmt.Sprint(c.Breadcrumbs()); got != fmt.Sprint([]models.FolderRef{models.Root()}) {
		t.Errorf("breadcrumbs = %s", got)
	}
}
