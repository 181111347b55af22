// Package commands holds the trendtags CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trendtags/config"
	"trendtags/scraper/trends24"
	"trendtags/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trendtags",
	Short: "Trending hashtags from trends24.in",
	Long: `trendtags drives a headless browser through trends24.in, reads the
trends table and turns it into hashtags.

Example usage:
  trendtags serve                      # HTTP API on $PORT
  trendtags fetch                      # print hashtags once
  trendtags fetch --report             # print a snapshot report
  trendtags fetch --csv trends.csv     # save the raw table`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() error {
	cfg = config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger = utils.NewLoggerWithOptions(utils.LoggerOptions{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Debug("[config] packing=%s consent=%s fields=%s sessions=%d",
		cfg.PackingMode, cfg.ConsentStrategy, cfg.ExtractFields, cfg.MaxConcurrentSessions)
	return nil
}

// newAcquirer wires the browser launcher and session limiter from cfg.
func newAcquirer() (*trends24.Acquirer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	launcher := trends24.NewChromeLauncher(cfg.ChromeBin, logger)
	limiter := utils.NewSessionLimiter(cfg.MaxConcurrentSessions, cfg.LaunchIntervalMs)
	return trends24.New(cfg, launcher, limiter, logger), nil
}
