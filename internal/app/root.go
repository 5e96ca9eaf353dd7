package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/androidtrackers/certified-android-devices/internal/config"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
)

var (
	configPath string
	outputDir  string
	logLevel   string

	// appConfig is loaded once per invocation by RootCmd's pre-run hook.
	appConfig *config.Config

	// RootCmd is the root command for certdevices
	RootCmd = &cobra.Command{
		Use:   "certdevices",
		Short: "Track Google Play certified Android devices",
		Long: `certdevices downloads Google's list of Play certified Android devices,
renders it as a Markdown table plus JSON lookup indices, and reports the
devices added since the previous sync.

With both GIT_OAUTH_TOKEN_XFU and BOTTOKEN set, a sync also announces each
new device on Telegram and pushes the updated files with git. Without them
(or with --local) everything is computed and written locally only.

Examples:
  # Full sync
  certdevices sync

  # Sync without notifying or pushing
  certdevices sync --local

  # Show devices added by the last sync
  certdevices diff

  # Find every model sharing a codename
  certdevices lookup --by device sunfish`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			appConfig = cfg
			return logging.Init(cfg.Log)
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./certdevices.yaml or ~/.config/certdevices/certdevices.yaml)")
	RootCmd.PersistentFlags().StringVar(&outputDir, "dir", "", "output directory for generated files (default: from config, else .)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(lookupCmd)
	RootCmd.AddCommand(statusCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}
