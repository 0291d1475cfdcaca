// Package health checks that a project is ready for scriv. The report backs
// the 'scriv doctor' command.
package health

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/config"
	"github.com/ariel-frischer/scriv/internal/github"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks report problems without failing the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options carries what the checks inspect.
type Options struct {
	Config *config.Config
	Fs     afero.Fs
	// GitRoot is the repository root, empty outside a repository.
	GitRoot string
	// Remotes are the GitHub repos found in the git remotes.
	Remotes  []string
	LookPath func(string) (string, error)
	Getenv   func(string) string
}

func (o *Options) defaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	opts.defaults()
	report := &HealthReport{Passed: true}

	checks := []CheckResult{
		CheckGitRepository(opts.GitRoot),
		CheckFragmentDirectory(opts.Fs, opts.Config.FragmentDirectory),
		CheckPandoc(opts.Config.Format, opts.LookPath),
		CheckGithubRepo(opts.Remotes),
		CheckGithubToken(opts.Getenv),
	}
	for _, check := range checks {
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckGitRepository checks that scriv runs inside a git repository.
func CheckGitRepository(root string) CheckResult {
	if root == "" {
		return CheckResult{Name: "Git repository", Message: "not inside a git repository"}
	}
	return CheckResult{Name: "Git repository", Passed: true, Message: root}
}

// CheckFragmentDirectory checks that the fragment directory exists.
func CheckFragmentDirectory(fsys afero.Fs, dir string) CheckResult {
	ok, err := afero.DirExists(fsys, dir)
	switch {
	case err != nil:
		return CheckResult{Name: "Fragment directory", Message: err.Error()}
	case !ok:
		return CheckResult{
			Name:    "Fragment directory",
			Message: fmt.Sprintf("%s does not exist, create it with: mkdir %s", dir, dir),
		}
	}
	return CheckResult{Name: "Fragment directory", Passed: true, Message: dir}
}

// CheckPandoc checks for pandoc, which only reStructuredText projects need.
func CheckPandoc(format string, lookPath func(string) (string, error)) CheckResult {
	path, err := lookPath("pandoc")
	if err == nil {
		return CheckResult{Name: "pandoc", Passed: true, Message: path, Optional: format != "rst"}
	}
	if format != "rst" {
		return CheckResult{Name: "pandoc", Optional: true, Message: "not found (only needed for rst)"}
	}
	return CheckResult{Name: "pandoc", Message: "not found in PATH, github-release can't convert rst"}
}

// CheckGithubRepo checks that the git remotes point at exactly one GitHub repo.
func CheckGithubRepo(remotes []string) CheckResult {
	repo, err := github.ResolveRepo("", remotes)
	if err != nil {
		return CheckResult{Name: "GitHub repo", Optional: true, Message: err.Error()}
	}
	return CheckResult{Name: "GitHub repo", Passed: true, Optional: true, Message: repo}
}

// CheckGithubToken checks that a token is available for github-release.
func CheckGithubToken(getenv func(string) string) CheckResult {
	if strings.TrimSpace(getenv(github.TokenEnv)) == "" {
		return CheckResult{
			Name:     "GitHub token",
			Optional: true,
			Message:  github.TokenEnv + " is not set",
		}
	}
	return CheckResult{Name: "GitHub token", Passed: true, Optional: true, Message: github.TokenEnv + " is set"}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Optional:
			mark = "○"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
