package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/quantdash/internal/clients/dashapi"
	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/provider/mock"
	"github.com/bobmcallan/quantdash/internal/query"
	"github.com/bobmcallan/quantdash/internal/session"
	"github.com/bobmcallan/quantdash/internal/storage"
)

// Provider kinds accepted by [provider] kind.
const (
	ProviderMock = "mock"
	ProviderHTTP = "http"
)

// App holds the initialized storage, session, data provider and query layer.
// It is the shared core used by both cmd/quantdash and cmd/quantdash-server.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Store         interfaces.KeyValueStore
	Provider      interfaces.DataProvider
	Authenticator interfaces.Authenticator
	APIClient     *dashapi.Client // nil unless provider kind is "http"
	Session       *session.Store
	Cache         *query.Cache
	Queries       *query.Dashboard
	StartupTime   time.Time

	scheduler *cron.Cron
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes the App.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, QUANTDASH_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("QUANTDASH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "quantdash.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/quantdash.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	a, err := NewAppFromConfig(config, logger)
	if err != nil {
		return nil, err
	}
	a.StartupTime = startupStart

	logger.Info().
		Str("config", configPath).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// NewAppFromConfig wires the App from an already loaded config.
// The persisted session is restored before returning.
func NewAppFromConfig(config *common.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: time.Now(),
	}

	var sinks []interfaces.CredentialSink
	switch strings.ToLower(config.Provider.Kind) {
	case "", ProviderMock:
		a.Provider = mock.NewProviderFromConfig(config.Provider, logger)
		a.Authenticator = mock.NewAuthenticator()
	case ProviderHTTP:
		a.APIClient = dashapi.NewClientFromConfig(config.API, logger)
		a.Provider = a.APIClient
		a.Authenticator = a.APIClient
		sinks = append(sinks, a.APIClient)
	default:
		return nil, fmt.Errorf("unknown provider kind: %s (supported: mock, http)", config.Provider.Kind)
	}

	store, err := storage.NewKeyValueStore(logger, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Store = store

	a.Session = session.NewStore(store, a.Authenticator, logger, sinks...)
	if err := a.Session.Restore(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Session restore failed, continuing signed out")
	}

	a.Cache = query.NewCache(
		query.WithTTL(config.Query.GetTTL()),
		query.WithLogger(logger),
	)
	a.Queries = query.NewDashboard(a.Cache, a.Provider)

	logger.Debug().
		Str("provider", config.Provider.Kind).
		Str("storage", config.Storage.Backend).
		Str("session", a.Session.State().String()).
		Msg("App wired")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close storage.
func (a *App) Close() {
	a.StopScheduler()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Store = nil
	}
}
