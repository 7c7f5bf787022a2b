package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudbox/cloudbox-cli/internal/config"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/session"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *session.Store, *events.EventBus) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	bus := events.NewEventBus(16)
	t.Cleanup(bus.Close)

	sessions := session.NewStore(bus)
	cfg := config.New()
	cfg.APIBaseURL = srv.URL

	return NewGateway(cfg, sessions, nil), sessions, bus
}

func TestGatewayAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	gw, sessions, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	sessions.Set("tok-123")

	if err := gw.doJSON(context.Background(), http.MethodGet, "/files/list", nil, nil); err != nil {
		t.Fatalf("doJSON: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestGatewayOmitsAuthorizationWhenLoggedOut(t *testing.T) {
	var gotAuth string
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	if err := gw.doJSON(context.Background(), http.MethodGet, "/auth/login", nil, nil); err != nil {
		t.Fatalf("doJSON: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestGatewayUnauthorizedClearsSession(t *testing.T) {
	gw, sessions, bus := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	sessions.Set("stale")
	ch := bus.Subscribe(events.EventSessionInvalidated)

	err := gw.doJSON(context.Background(), http.MethodGet, "/files/list", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if sessions.Authenticated() {
		t.Error("session still authenticated after 401")
	}

	select {
	case ev := <-ch:
		inv, ok := ev.(*events.SessionInvalidatedEvent)
		if !ok {
			t.Fatalf("event type %T, want *SessionInvalidatedEvent", ev)
		}
		if inv.Reason != session.ReasonAuthFailure {
			t.Errorf("reason = %q, want %q", inv.Reason, session.ReasonAuthFailure)
		}
	case <-time.After(time.Second):
		t.Fatal("no session-invalidated event published")
	}
}

func TestGatewayForbiddenClearsSession(t *testing.T) {
	gw, sessions, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	sessions.Set("stale")

	err := gw.doJSON(context.Background(), http.MethodDelete, "/files/abc", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if sessions.Authenticated() {
		t.Error("session still authenticated after 403")
	}
}

func TestGatewayDecodesErrorMessages(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "file not found", http.StatusNotFound)
		}))
		err := gw.doJSON(context.Background(), http.MethodGet, "/files/missing", nil, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %T, want *Error", err)
		}
		if apiErr.Message != "file not found" {
			t.Errorf("message = %q, want %q", apiErr.Message, "file not found")
		}
	})

	t.Run("json wrapped", func(t *testing.T) {
		gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"name already taken"}`))
		}))
		err := gw.doJSON(context.Background(), http.MethodPost, "/folders", map[string]string{"name": "x"}, nil)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %T, want *Error", err)
		}
		if apiErr.Message != "name already taken" {
			t.Errorf("message = %q, want %q", apiErr.Message, "name already taken")
		}
	})
}

func TestGatewayStream(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report final.pdf"`)
		w.Write([]byte("hello world"))
	}))

	body, size, name, err := gw.stream(context.Background(), "/files/f1/download")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("body = %q", data)
	}
	if size != int64(len("hello world")) {
		t.Errorf("size = %d, want %d", size, len("hello world"))
	}
	if name != "report final.pdf" {
		t.Errorf("name = %q, want %q", name, "report final.pdf")
	}
}

func TestGatewayStreamWithoutDisposition(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))

	body, _, name, err := gw.stream(context.Background(), "/files/f1/download")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	body.Close()
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
}

func TestQueryPath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		pairs []string
		want  string
	}{
		{"no pairs", "/files/1/move", nil, "/files/1/move"},
		{"empty value omitted", "/files/1/move", []string{"folderId", ""}, "/files/1/move"},
		{"value set", "/files/1/move", []string{"folderId", "f9"}, "/files/1/move?folderId=f9"},
		{"escaped", "/files/search", []string{"query", "q&a report"}, "/files/search?query=q%26a+report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queryPath(tt.path, tt.pairs...); got != tt.want {
				t.Errorf("queryPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilesUploadMultipart(t *testing.T) {
	var gotFolderID, gotFileName, gotContent string
	gw, sessions, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("Content-Type = %q (%v)", r.Header.Get("Content-Type"), err)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart (boundary %q): %v", params["boundary"], err)
		}
		gotFolderID = r.FormValue("folderId")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		gotFileName = hdr.Filename
		data, _ := io.ReadAll(f)
		gotContent = string(data)
		w.Write([]byte(`{"id":"f1","fileName":"report.txt","fileSize":12,"message":"ok"}`))
	}))
	sessions.Set("tok")

	files := NewFilesClient(gw)
	var lastReported int64
	resp, err := files.Upload(context.Background(), "report.txt", strings.NewReader("file contents"), "folder-7", func(n int64) {
		lastReported = n
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resp.ID != "f1" {
		t.Errorf("id = %q, want f1", resp.ID)
	}
	if gotFolderID != "folder-7" {
		t.Errorf("folderId = %q, want folder-7", gotFolderID)
	}
	if gotFileName != "report.txt" {
		t.Errorf("filename = %q, want report.txt", gotFileName)
	}
	if gotContent != "file contents" {
		t.Errorf("content = %q", gotContent)
	}
	if lastReported != int64(len("file contents")) {
		t.Errorf("progress reported %d bytes, want %d", lastReported, len("file contents"))
	}
}

// A multipart upload body is produced through a pipe, so the request
// must go out as the file is read. If the transport buffered the body
// first, the progress callback would hit the full size before the
// server saw a single byte, and a large file would sit in memory whole.
func TestFilesUploadStreamsWithoutBuffering(t *testing.T) {
	const payloadSize = 64 << 20

	bodyHeld := make(chan struct{})
	release := make(chan struct{})
	gw, sessions, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(bodyHeld)
		<-release
		if _, err := io.Copy(io.Discard, r.Body); err != nil {
			t.Errorf("drain body: %v", err)
		}
		w.Write([]byte(`{"id":"f-big","fileName":"big.bin"}`))
	}))
	sessions.Set("tok")

	files := NewFilesClient(gw)
	var reported atomic.Int64
	done := make(chan error, 1)
	go func() {
		_, err := files.Upload(context.Background(), "big.bin",
			bytes.NewReader(make([]byte, payloadSize)), "",
			func(n int64) { reported.Store(n) })
		done <- err
	}()

	select {
	case <-bodyHeld:
	case <-time.After(5 * time.Second):
		t.Fatal("upload request never reached the server")
	}
	time.Sleep(200 * time.Millisecond)
	if n := reported.Load(); n >= payloadSize {
		t.Fatalf("reported %d of %d bytes while the server had read none", n, payloadSize)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if n := reported.Load(); n != payloadSize {
		t.Errorf("final reported = %d, want %d", n, payloadSize)
	}
}

func TestFilesListRoutesByFolder(t *testing.T) {
	var gotPath string
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	files := NewFilesClient(gw)

	if _, err := files.List(context.Background(), ""); err != nil {
		t.Fatalf("List root: %v", err)
	}
	if gotPath != "/files/list" {
		t.Errorf("root path = %q, want /files/list", gotPath)
	}

	if _, err := files.List(context.Background(), "abc"); err != nil {
		t.Fatalf("List folder: %v", err)
	}
	if gotPath != "/files/list/abc" {
		t.Errorf("folder path = %q, want /files/list/abc", gotPath)
	}
}

func TestFilesRenameSendsQuery(t *testing.T) {
	var gotQuery string
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	files := NewFilesClient(gw)

	if err := files.Rename(context.Background(), "f1", "new name.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if gotQuery != "newName=new+name.txt" {
		t.Errorf("query = %q", gotQuery)
	}
}
