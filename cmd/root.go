package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dt-pm-tools/ytshot/internal/config"
	"github.com/dt-pm-tools/ytshot/internal/logging"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Output
	logger    arbor.ILogger
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "ytshot",
	Short:   "Attach screenshots to YouTrack issues",
	Long:    `A CLI tool that attaches a screenshot to a YouTrack issue, either by creating a new issue or by adding it to an existing one. Credentials and the last used project and issue are kept in ~/.ytshot.yaml.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logLevel)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ytshot.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
}

// loadConfig loads and validates configuration. Commands that need YouTrack access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'ytshot config' to set up the connection", err)
	}
	appConfig = cfg
	return nil
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}
