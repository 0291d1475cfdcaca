package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/git"
	"github.com/ariel-frischer/scriv/internal/health"
	"github.com/ariel-frischer/scriv/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready for scriv",
	Long: `Check that the project is ready for scriv.

Required checks fail the command: a git repository, the fragment directory,
and pandoc when the format is rst. The GitHub checks are only needed by
github-release and are reported without failing.`,
	Example: `  scriv doctor`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := health.Options{Config: cfg}
		if repo, err := git.Open(""); err == nil {
			opts.GitRoot = repo.Root()
			if opts.Remotes, err = repo.GithubRepos(); err != nil {
				logger.FromContext(cmd.Context()).Debug("reading remotes", "error", err)
			}
		}

		report := health.RunHealthChecks(opts)
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if !report.Passed {
			return NewExitError(ExitFailure)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}
