// Package cli implements the scriv command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/build"
	clierrors "github.com/ariel-frischer/scriv/internal/errors"
	"github.com/ariel-frischer/scriv/internal/git"
	"github.com/ariel-frischer/scriv/internal/logger"
)

// Command groups shown in help output
const (
	GroupFragments     = "fragments"
	GroupReleases      = "releases"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "scriv",
	Short: "Maintain a changelog from fragment files",
	Long: `scriv maintains a changelog built from small fragment files.

Each change gets its own fragment in the fragment directory. When it's time
to release, "scriv collect" merges the fragments into a new entry at the top
of the changelog, grouped by category.

Settings are read from the [scriv] section of setup.cfg or tox.ini,
[tool.scriv] in pyproject.toml, scriv.ini in the fragment directory, and
SCRIV_* environment variables.`,
	Example: `  # Start a fragment for your change
  scriv create --edit

  # Preview the next entry
  scriv print

  # Merge fragments into the changelog for a release
  scriv collect --version 1.2.0 --add

  # Publish the newest entry as a GitHub release
  scriv github-release`,
	Version:           build.ResolvedVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupFragments, Title: "Fragments:"},
		&cobra.Group{ID: GroupReleases, Title: "Releases:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)
	rootCmd.PersistentFlags().StringP("verbosity", "v", string(logger.InfoLevel),
		"Log level: debug, info, warn or error")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// setupLogging builds the logger for --verbosity and stores it in the
// command context.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("verbosity")
	if !slices.Contains(logger.Levels, logger.Level(strings.ToLower(level))) {
		return clierrors.NewArgumentError(
			fmt.Sprintf("invalid verbosity %q", level),
			"Use one of: debug, info, warn, error",
		)
	}

	log := logger.New(&logger.Config{
		Level:  logger.ParseLevel(level),
		Output: cmd.ErrOrStderr(),
	})
	git.SetDebugLogger(func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx, log))
	return nil
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	reportError(rootCmd, err)
	return err
}

func reportError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(cmd.ErrOrStderr(), cliErr)
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), clierrors.FormatSimpleError(err, clierrors.Runtime))
}
