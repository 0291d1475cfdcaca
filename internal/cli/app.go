package cli

import (
	"errors"
	"os/exec"

	gogithub "github.com/google/go-github/v74/github"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/config"
	clierrors "github.com/ariel-frischer/scriv/internal/errors"
	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/fragment"
	"github.com/ariel-frischer/scriv/internal/git"
	"github.com/ariel-frischer/scriv/internal/github"
	"github.com/ariel-frischer/scriv/internal/logger"
	"github.com/ariel-frischer/scriv/internal/scriv"
)

// loadConfig reads the settings for the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		Logger: logger.FromContext(cmd.Context()),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// newScriv loads the settings and opens the enclosing git repository. When
// needGit is false a missing repository is not an error.
func newScriv(cmd *cobra.Command, needGit bool, opts ...scriv.Option) (*scriv.Scriv, error) {
	log := logger.FromContext(cmd.Context())
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var g scriv.Git
	repo, err := git.Open("")
	switch {
	case err == nil:
		g = repo
	case needGit:
		return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite,
			"scriv needs to run inside a git repository",
			"Change to your project directory, or run: git init",
		)
	default:
		log.Debug("no git repository", "error", err)
	}

	opts = append([]scriv.Option{scriv.WithLogger(log)}, opts...)
	return scriv.New(cfg, g, opts...), nil
}

// toCLIError turns library errors into CLIErrors with remediation and the
// right exit code.
func toCLIError(err error) error {
	if err == nil || clierrors.IsCLIError(err) {
		return err
	}

	var (
		exists     *fragment.ExistsError
		missingDir *fragment.MissingDirectoryError
		dupVersion *scriv.VersionExistsError
		notFound   *changelog.VersionNotFoundError
		validation *config.ValidationError
		resolve    *config.ResolveError
		repoErr    *github.RepoError
		apiErr     *gogithub.ErrorResponse
		warnings   *format.ConversionWarningError
	)
	switch {
	case errors.Is(err, scriv.ErrNoFragments):
		return clierrors.NoFragments()
	case errors.As(err, &exists):
		return clierrors.FragmentExists(exists.Path)
	case errors.As(err, &missingDir):
		return clierrors.FragmentDirectoryMissing(missingDir.Dir)
	case errors.As(err, &dupVersion):
		return clierrors.VersionAlreadyInChangelog(dupVersion.Version)
	case errors.As(err, &notFound):
		return clierrors.VersionNotInChangelog(notFound.Version, notFound.AvailableVersions)
	case errors.As(err, &validation), errors.As(err, &resolve):
		return clierrors.InvalidConfig(err)
	case errors.As(err, &repoErr):
		return clierrors.NoGithubRepo(err)
	case errors.As(err, &apiErr):
		return clierrors.GithubRequestFailed(err)
	case errors.Is(err, exec.ErrNotFound):
		return clierrors.PandocMissing(err)
	case errors.As(err, &warnings):
		return clierrors.Wrap(err, clierrors.Runtime, "Fix the markup, or run without --fail-if-warn")
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

// optionalBool returns a pointer to the --name value when the user passed
// --name or --no-name, and nil otherwise.
func optionalBool(cmd *cobra.Command, name string) *bool {
	flags := cmd.Flags()
	switch {
	case flags.Changed(name):
		v, _ := flags.GetBool(name)
		return &v
	case flags.Changed("no-" + name):
		v, _ := flags.GetBool("no-" + name)
		v = !v
		return &v
	}
	return nil
}

// addBoolPair registers --name and --no-name.
func addBoolPair(cmd *cobra.Command, name, usage, noUsage string) {
	cmd.Flags().Bool(name, false, usage)
	cmd.Flags().Bool("no-"+name, false, noUsage)
	cmd.MarkFlagsMutuallyExclusive(name, "no-"+name)
}
