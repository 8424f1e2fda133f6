// Package cli implements the beanstalk command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/beanstalk/internal/app"
	"github.com/MrSnakeDoc/beanstalk/internal/config"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "beanstalk",
	Short: "A good-deed journal that grows a beanstalk",
	Long: `Beanstalk records the good deeds you log, classifies each one into a
category worth points, and tracks how many days in a row you have logged.

Configuration comes from BEANSTALK_* environment variables or a .env file
in the working directory.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "beanstalk %s (commit=%s, built=%s, go=%s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openCore loads the journal for one-shot commands. Replaced in tests.
var openCore = func(ctx context.Context) (*app.Core, error) {
	cfg := config.Load()
	return app.Open(ctx, cfg, logger.New(commandLogLevel(cfg.LogLevel), cfg.PrettyLog), nil)
}

// commandLogLevel keeps one-shot commands quiet unless debugging.
func commandLogLevel(level string) string {
	if level == "debug" {
		return level
	}
	return "warn"
}
