package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/github"
	"github.com/ariel-frischer/scriv/internal/linkcheck"
	"github.com/ariel-frischer/scriv/internal/logger"
	"github.com/ariel-frischer/scriv/internal/progress"
	"github.com/ariel-frischer/scriv/internal/scriv"
)

// githubAPIURL overrides the GitHub API root, for tests.
var githubAPIURL string

var githubReleaseCmd = &cobra.Command{
	Use:   "github-release",
	Short: "Create GitHub releases from the changelog",
	Long: `Create or update GitHub releases from changelog entries.

Only the newest entry is used unless --all is given. An entry becomes a
release only when its version has a git tag. Existing releases are updated
when their text differs.

The release text is the entry converted to Markdown (reStructuredText needs
pandoc) and rendered through the ghrel_template setting. Set GITHUB_TOKEN to
a token that can write releases.`,
	Example: `  # Publish the newest entry
  scriv github-release

  # See what would change for every entry
  scriv github-release --all --dry-run -v debug

  # Release to an explicit repo
  scriv github-release --repo owner/name`,
	Args: cobra.NoArgs,
	RunE: runGithubRelease,
}

func init() {
	githubReleaseCmd.GroupID = GroupReleases
	githubReleaseCmd.Flags().Bool("all", false, "Use all of the changelog entries")
	githubReleaseCmd.Flags().Bool("check-links", false, "Check that links are valid")
	githubReleaseCmd.Flags().Bool("dry-run", false, "Don't post to GitHub, just show what would be done")
	githubReleaseCmd.Flags().Bool("fail-if-warn", false, "Fail if a conversion generates warnings")
	githubReleaseCmd.Flags().String("repo", "", "The GitHub repo (owner/reponame) to create the release in")
	rootCmd.AddCommand(githubReleaseCmd)
}

func runGithubRelease(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")
	checkLinks, _ := cmd.Flags().GetBool("check-links")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	failIfWarn, _ := cmd.Flags().GetBool("fail-if-warn")
	repo, _ := cmd.Flags().GetString("repo")

	var clientOpts []github.Option
	if githubAPIURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(githubAPIURL))
	}
	client, err := github.NewClientFromEnv(cmd.Context(), clientOpts...)
	if err != nil {
		return toCLIError(err)
	}

	log := logger.FromContext(cmd.Context())
	s, err := newScriv(cmd, true,
		scriv.WithReleaseClient(client),
		scriv.WithLinkChecker(linkcheck.New(log)),
	)
	if err != nil {
		return err
	}

	var results []scriv.ReleaseResult
	spin := progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities())
	err = spin.Run("Updating GitHub releases", func() error {
		var runErr error
		results, runErr = s.GithubRelease(cmd.Context(), scriv.GithubReleaseOptions{
			All:        all,
			CheckLinks: checkLinks,
			DryRun:     dryRun,
			FailIfWarn: failIfWarn,
			Repo:       repo,
		})
		return runErr
	})
	printReleaseResults(cmd.OutOrStdout(), results)
	return toCLIError(err)
}

func printReleaseResults(w io.Writer, results []scriv.ReleaseResult) {
	for _, r := range results {
		action := string(r.Action)
		switch {
		case r.Action == scriv.ReleaseUnchanged:
		case r.DryRun:
			action = "would " + action
		default:
			action += "d"
		}
		fmt.Fprintf(w, "%s: %s\n", r.Version, action)
		for _, f := range r.LinkFailures {
			fmt.Fprintf(w, "  %s\n", f.Error())
		}
	}
}
