package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rzmat/MaestroChat/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory path.
// The directory should contain config.yaml.
var serveConfigPath string

// serveCmd starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MaestroChat HTTP server",
	Long: `Starts the MaestroChat HTTP server.

Configuration is read from config.yaml in --config-path (default
~/.config/maestrochat) and then overridden by environment variables:

  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET   Google OAuth client (required to refresh)
  GOOGLE_REDIRECT_URI                      OAuth redirect (default http://localhost:3000/api/google/callback)
  NODE_ENV / APP_ENV                       "production" marks cookies Secure
  PORT, MAESTRO_HOST                       listen address
  MAESTRO_SESSION_BACKEND                  "memory" or "redis"
  MAESTRO_REDIS_ADDR, MAESTRO_REDIS_PASSWORD, MAESTRO_REDIS_DB
  MAESTRO_LOG_LEVEL, MAESTRO_LOG_FORMAT

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory (default ~/.config/maestrochat)")
}
