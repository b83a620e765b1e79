package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/internal/google"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration could not be loaded or is
	// invalid, including missing Google client credentials.
	ExitCodeConfig = 2
)

// rootCmd represents the base command for the maestro application.
var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "MaestroChat server with Google Calendar and Gmail connectors",
	Long: `maestro runs the MaestroChat backend: the chat API plus the Google
connector that keeps each browser's Google access token fresh.

Google client credentials are read from GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET. Set NODE_ENV=production to mark cookies Secure.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "maestro version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if errors.Is(err, google.ErrMissingClientCredentials) {
		return ExitCodeConfig
	}

	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfig
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
