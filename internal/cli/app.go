package cli

import (
	"fmt"

	"github.com/cloudbox/cloudbox-cli/internal/api"
	"github.com/cloudbox/cloudbox-cli/internal/browser"
	"github.com/cloudbox/cloudbox-cli/internal/config"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/progress"
	"github.com/cloudbox/cloudbox-cli/internal/session"
	"github.com/cloudbox/cloudbox-cli/internal/transfer"
)

// app bundles everything a command needs: configuration, the session,
// the gateway and the entity clients built over it.
type app struct {
	cfg       *config.Config
	configDir string
	bus       *events.EventBus
	sessions  *session.Store

	auth          *api.AuthClient
	files         *api.FilesClient
	folders       *api.FoldersClient
	shares        *api.SharesClient
	storage       *api.StorageClient
	notifications *api.NotificationsClient
	trash         *api.TrashClient

	uploads *transfer.Queue
	browser *browser.Controller
}

// loadConfig resolves the config path and applies flag overrides on top
// of the file and environment.
func loadConfig() (*config.Config, string, error) {
	dir, err := config.DefaultConfigDir()
	if err != nil {
		return nil, "", err
	}

	path := cfgFile
	if path == "" {
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// newApp builds the full client stack. The saved session token is
// loaded unless one was supplied via flag or environment.
func newApp() (*app, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	bus := events.NewEventBus(0)
	sessions := session.NewStore(bus)

	token := cfg.Token
	if token == "" {
		token, err = session.LoadToken(dir)
		if err != nil {
			return nil, err
		}
	}
	if token != "" {
		sessions.Set(token)
	}

	gw := api.NewGateway(cfg, sessions, GetLogger())

	a := &app{
		cfg:           cfg,
		configDir:     dir,
		bus:           bus,
		sessions:      sessions,
		auth:          api.NewAuthClient(gw),
		files:         api.NewFilesClient(gw),
		folders:       api.NewFoldersClient(gw),
		shares:        api.NewSharesClient(gw),
		storage:       api.NewStorageClient(gw),
		notifications: api.NewNotificationsClient(gw),
		trash:         api.NewTrashClient(gw),
	}
	a.uploads = transfer.NewQueue(a.files, bus, GetLogger(), progress.NewBar())
	a.browser = browser.NewController(a.files, a.folders, a.uploads, bus, GetLogger())
	return a, nil
}

// close releases the app's resources.
func (a *app) close() {
	a.bus.Close()
}

// requireAuth fails fast when no credential is present, instead of
// letting the first request come back 401.
func (a *app) requireAuth() error {
	if !a.sessions.Authenticated() {
		return fmt.Errorf("not logged in; run 'cloudbox login' first")
	}
	return nil
}
