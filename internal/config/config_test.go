package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("APIBaseURL = %q, want default", cfg.APIBaseURL)
	}
	if cfg.Notifications.PollIntervalSeconds != 30 {
		t.Errorf("PollIntervalSeconds = %d, want 30", cfg.Notifications.PollIntervalSeconds)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[cloudbox]
api_url = https://box.example.com/api/

[cloudbox.notifications]
enabled = false
poll_interval_seconds = 60
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://box.example.com/api" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled = true, want false")
	}
	if cfg.Notifications.PollIntervalSeconds != 60 {
		t.Errorf("PollIntervalSeconds = %d, want 60", cfg.Notifications.PollIntervalSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("[cloudbox]\napi_url = https://file.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLOUDBOX_API_URL", "https://env.example.com")
	t.Setenv("CLOUDBOX_TOKEN", "tok-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.com" {
		t.Errorf("APIBaseURL = %q, want env override", cfg.APIBaseURL)
	}
	if cfg.Token != "tok-123" {
		t.Errorf("Token = %q, want tok-123", cfg.Token)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.APIBaseURL = "   "
	if err := cfg.Validate(); err != ErrMissingAPIURL {
		t.Errorf("Validate = %v, want ErrMissingAPIURL", err)
	}

	cfg = New()
	cfg.Notifications.PollIntervalSeconds = 1
	if err := cfg.Validate(); err != ErrInvalidPollSeconds {
		t.Errorf("Validate = %v, want ErrInvalidPollSeconds", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config")
	cfg := New()
	cfg.APIBaseURL = "https://box.example.com/api"
	cfg.Notifications.PollIntervalSeconds = 45

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", got.APIBaseURL, cfg.APIBaseURL)
	}
	if got.Notifications.PollIntervalSeconds != 45 {
		t.Errorf("PollIntervalSeconds = %d, want 45", got.Notifications.PollIntervalSeconds)
	}
}
