package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the scriv CLI.

// NoFragments is returned by collect and print when there is nothing to do.
// It exits with status 2.
func NoFragments() *CLIError {
	return NewPrerequisiteError(
		"no changelog fragments to collect",
		"Create a fragment with: scriv create",
	).WithExitCode(2)
}

// FragmentDirectoryMissing reports a fragment directory that doesn't exist.
func FragmentDirectoryMissing(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("output directory %q does not exist, please create it", dir),
		fmt.Sprintf("Create it with: mkdir %s", dir),
		"Or set fragment_directory in the [scriv] section of setup.cfg",
	)
}

// FragmentExists reports a new fragment that would overwrite an old one.
func FragmentExists(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("fragment %s already exists", path),
		"Wait a second and run the command again",
	)
}

// VersionAlreadyInChangelog reports a collect for a version already present.
func VersionAlreadyInChangelog(version string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("changelog already has an entry for version %s", version),
		"Pass a different --version",
		"Or bump the version setting before collecting",
	)
}

// VersionNotInChangelog reports a print --version that matches no entry.
func VersionNotInChangelog(version string, available []string) *CLIError {
	remediation := []string{"Check the version number"}
	if len(available) > 0 {
		remediation = append(remediation, "Versions in the changelog: "+strings.Join(available, ", "))
	}
	return NewArgumentError(
		fmt.Sprintf("unable to find version %s in the changelog", version),
		remediation...,
	).WithExitCode(2)
}

// InvalidConfig reports settings that failed to load.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid scriv configuration",
		"Check the [scriv] section of setup.cfg or tox.ini, [tool.scriv] in pyproject.toml, or scriv.ini",
		"Show the effective settings with: scriv config show",
	)
}

// NoGithubRepo reports a github-release without a GitHub repository.
func NoGithubRepo(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"can't decide which GitHub repo to release to",
		"Pass the repo explicitly: scriv github-release --repo owner/name",
	)
}

// PandocMissing reports that rst conversion needs pandoc.
func PandocMissing(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"pandoc is needed to convert reStructuredText to Markdown",
		"Install pandoc: https://pandoc.org/installing.html",
	)
}

// GithubRequestFailed reports a failed GitHub API call.
func GithubRequestFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"GitHub request failed",
		"Set GITHUB_TOKEN to a token with permission to write releases",
		"Check your network connection",
	)
}
