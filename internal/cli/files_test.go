package cli

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// pointAtServer routes the command stack at a test server with a fixed
// token, restoring the package globals afterwards.
func pointAtServer(t *testing.T, url string) {
	t.Helper()
	oldCfg, oldURL, oldToken := cfgFile, apiBaseURL, tokenFlag
	oldYes, oldInput := assumeYes, promptInput
	cfgFile = filepath.Join(t.TempDir(), "config")
	apiBaseURL = url
	tokenFlag = "test-token"
	assumeYes = false
	t.Cleanup(func() {
		cfgFile, apiBaseURL, tokenFlag = oldCfg, oldURL, oldToken
		assumeYes, promptInput = oldYes, oldInput
	})
}

func newTrashCounter() (http.Handler, *atomic.Int32) {
	var deletes atomic.Int32
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes.Add(1)
		}
		w.Write([]byte(`{}`))
	}), &deletes
}

func TestFilesDeleteAsksBeforeTrashing(t *testing.T) {
	handler, deletes := newTrashCounter()
	srv := httptest.NewServer(handler)
	defer srv.Close()
	pointAtServer(t, srv.URL)

	promptInput = strings.NewReader("n\n")
	cmd := newFilesDeleteCmd()
	cmd.SetArgs([]string{"f1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := deletes.Load(); n != 0 {
		t.Fatalf("trash request sent after a declined prompt (%d calls)", n)
	}

	promptInput = strings.NewReader("y\n")
	cmd = newFilesDeleteCmd()
	cmd.SetArgs([]string{"f1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := deletes.Load(); n != 1 {
		t.Errorf("deletes = %d, want 1", n)
	}
}

func TestFilesDeleteAssumeYesSkipsPrompt(t *testing.T) {
	handler, deletes := newTrashCounter()
	srv := httptest.NewServer(handler)
	defer srv.Close()
	pointAtServer(t, srv.URL)

	assumeYes = true
	// An empty prompt source proves no answer was read.
	promptInput = strings.NewReader("")
	cmd := newFilesDeleteCmd()
	cmd.SetArgs([]string{"f1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := deletes.Load(); n != 1 {
		t.Errorf("deletes = %d, want 1", n)
	}
}
