package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs the MaestroChat server.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load configuration, initialize logging, wire services
//  2. Execution phase: serve HTTP until the context is cancelled or a
//     termination signal arrives
//
// Example usage:
//
//	cfg := app.NewConfig(false, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance.
//
// Missing Google client credentials do not fail bootstrap. They surface on the
// first request that needs the OAuth client configuration.
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stdout
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}

	// Bootstrap logging until the configured level is known.
	bootLevel := logging.LevelInfo
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.InitForCLI(bootLevel, logOutput)

	if cfg.MaestroConfig == nil {
		maestroCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.MaestroConfig = &maestroCfg
	}

	if err := cfg.MaestroConfig.Validate(); err != nil {
		logging.Error("Bootstrap", err, "Invalid configuration")
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	initLogging(cfg, logOutput)

	if !cfg.MaestroConfig.Google.HasClientCredentials() {
		logging.Warn("Bootstrap", "%s or %s is not set; Google token refresh will fail until both are configured",
			config.EnvGoogleClientID, config.EnvGoogleClientSecret)
	}

	services, err := InitializeServices(context.Background(), cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

func initLogging(cfg *Config, output io.Writer) {
	level, _ := logging.ParseLevel(cfg.MaestroConfig.Logging.Level)
	if cfg.Debug {
		level = logging.LevelDebug
	}

	if cfg.MaestroConfig.Logging.Format == "json" {
		logging.InitForJSON(level, output)
	} else {
		logging.InitForCLI(level, output)
	}
	logging.Debug("Bootstrap", "Logging initialized at level %s (%s)", level, cfg.MaestroConfig.Logging.Format)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM is received, then
// releases all services.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := a.services.Close(); err != nil {
			logging.Error("Bootstrap", err, "Failed to release services")
		}
	}()

	return a.services.Server.Start(ctx)
}
