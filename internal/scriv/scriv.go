// Package scriv implements the changelog operations behind each command:
// creating fragments, collecting them into the changelog, printing entries
// and publishing GitHub releases.
package scriv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/config"
	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/fragment"
	"github.com/ariel-frischer/scriv/internal/github"
	"github.com/ariel-frischer/scriv/internal/linkcheck"
	"github.com/ariel-frischer/scriv/internal/logger"
	"github.com/ariel-frischer/scriv/internal/shell"
)

// ErrNoFragments is returned when there are no fragments to collect or print.
var ErrNoFragments = errors.New("no changelog fragments to collect")

// VersionExistsError is returned by Collect when the changelog already has
// an entry for the version being collected.
type VersionExistsError struct {
	Version string
}

func (e *VersionExistsError) Error() string {
	return fmt.Sprintf("changelog already has an entry for version %s", e.Version)
}

// Git is the git functionality scriv uses. *git.Repo implements it.
type Git interface {
	UserNick() string
	CurrentBranch() (string, error)
	ConfigBool(key string, def bool) bool
	Tags() ([]string, error)
	GithubRepos() ([]string, error)
	Add(path string) error
	Remove(path string) error
	Edit(ctx context.Context, path string) error
}

// ReleaseClient reads and writes GitHub releases. *github.Client implements it.
type ReleaseClient interface {
	Releases(ctx context.Context, repo string) (map[string]*github.Release, error)
	CreateRelease(ctx context.Context, repo string, data github.ReleaseData) error
	UpdateRelease(ctx context.Context, repo string, release *github.Release, data github.ReleaseData) error
}

// LinkChecker checks the links in release notes. *linkcheck.Checker implements it.
type LinkChecker interface {
	CheckMarkdown(ctx context.Context, markdown string) []linkcheck.Failure
}

// Scriv holds what every operation needs: the resolved configuration, the
// filesystem and the git repository.
type Scriv struct {
	Config *config.Config

	fs       afero.Fs
	git      Git
	log      logger.Logger
	runner   shell.CommandRunner
	now      func() time.Time
	releases ReleaseClient
	links    LinkChecker
}

// Option configures a Scriv.
type Option func(*Scriv)

// WithFs sets the filesystem fragments and the changelog live on.
func WithFs(fs afero.Fs) Option {
	return func(s *Scriv) { s.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scriv) { s.log = l }
}

// WithRunner sets the runner used for pandoc.
func WithRunner(r shell.CommandRunner) Option {
	return func(s *Scriv) { s.runner = r }
}

// WithClock sets the time source for fragment names and entry dates.
func WithClock(now func() time.Time) Option {
	return func(s *Scriv) { s.now = now }
}

// WithReleaseClient sets the GitHub client used by GithubRelease.
func WithReleaseClient(c ReleaseClient) Option {
	return func(s *Scriv) { s.releases = c }
}

// WithLinkChecker sets the checker used when release links are checked.
func WithLinkChecker(c LinkChecker) Option {
	return func(s *Scriv) { s.links = c }
}

// New returns a Scriv for cfg. g may be nil for operations that don't touch
// git, such as printing.
func New(cfg *config.Config, g Git, opts ...Option) *Scriv {
	s := &Scriv{
		Config: cfg,
		fs:     afero.NewOsFs(),
		git:    g,
		log:    logger.Nop(),
		runner: shell.ExecRunner{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scriv) requireGit() error {
	if s.git == nil {
		return errors.New("not in a git repository")
	}
	return nil
}

// formatOptions returns the configured format options with this Scriv's
// runner and logger.
func (s *Scriv) formatOptions() format.Options {
	opts := s.Config.FormatOptions()
	opts.Runner = s.runner
	opts.Logger = s.log
	return opts
}

// Store returns the fragment store for the configured fragment directory.
func (s *Scriv) Store() *fragment.Store {
	return fragment.NewStore(s.fs, fragment.StoreOptions{
		Directory:   s.Config.FragmentDirectory,
		SkipPattern: s.Config.SkipFragments,
		Recursive:   s.Config.RecursiveFragments,
		Format:      s.formatOptions(),
	})
}

// Changelog returns the configured changelog, not yet read.
func (s *Scriv) Changelog() (*changelog.Changelog, error) {
	tools, err := format.Get(s.Config.Format, s.formatOptions())
	if err != nil {
		return nil, err
	}
	return changelog.New(s.fs, s.Config.OutputFile, tools, changelog.Options{
		InsertMarker:       s.Config.InsertMarker,
		EndMarker:          s.Config.EndMarker,
		EntryTitleTemplate: s.Config.EntryTitleTemplate,
		Config:             s.Config,
	}), nil
}

// Fragments lists the fragments waiting to be collected.
func (s *Scriv) Fragments() ([]*fragment.Fragment, error) {
	return s.Store().List()
}

// flag returns the explicit value when set, otherwise the git config value.
func (s *Scriv) flag(explicit *bool, key string) bool {
	if explicit != nil {
		return *explicit
	}
	if s.git == nil {
		return false
	}
	return s.git.ConfigBool(key, false)
}
