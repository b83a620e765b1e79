package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rzmat/MaestroChat/internal/config"
	pkgstrings "github.com/rzmat/MaestroChat/pkg/strings"
)

var (
	configPath   string
	configOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Loads the configuration the same way 'maestro serve' does and prints it.
Secrets are never printed; only whether they are set.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	switch configOutput {
	case "table", "":
		renderConfigTable(cmd.OutOrStdout(), cfg)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q (use table or yaml)", configOutput)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", text.FgYellow.Sprint("warning:"), err)
	}
	return nil
}

func secretState(value string) string {
	if value == "" {
		return text.FgRed.Sprint("not set")
	}
	return text.FgGreen.Sprint("set")
}

func cell(value string) string {
	return pkgstrings.Truncate(value, pkgstrings.DefaultValueMaxLen)
}

func renderConfigTable(out io.Writer, cfg config.MaestroConfig) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("KEY"), text.FgHiCyan.Sprint("VALUE")})

	t.AppendRows([]table.Row{
		{"environment", cell(cfg.Environment)},
		{"secure cookies", strconv.FormatBool(cfg.IsProduction())},
		{"server.address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)},
		{"server.timeouts", fmt.Sprintf("read=%s write=%s idle=%s", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"google.issuer", cell(cfg.Google.Issuer)},
		{"google.clientId", secretState(cfg.Google.ClientID)},
		{"google.clientSecret", secretState(cfg.Google.ClientSecret)},
		{"google.redirectUri", cell(cfg.Google.RedirectURI)},
		{"google.scopes", strings.Join(cfg.Google.Scopes, "\n")},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"session.backend", cfg.Session.Backend},
		{"session.ttl", cfg.Session.TTL.String()},
	})
	if cfg.Session.Backend == config.SessionBackendRedis {
		t.AppendRows([]table.Row{
			{"session.redisAddr", cell(cfg.Session.RedisAddr)},
			{"session.redisPassword", secretState(cfg.Session.RedisPassword)},
			{"session.redisDb", strconv.Itoa(cfg.Session.RedisDB)},
			{"session.redisPrefix", cell(cfg.Session.RedisPrefix)},
		})
	}
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
	})

	t.Render()
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&configPath, "config-path", "", "Configuration directory (default ~/.config/maestrochat)")
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "table", "Output format: table or yaml")
}
