package scriv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/github"
	"github.com/ariel-frischer/scriv/internal/linkcheck"
	"github.com/ariel-frischer/scriv/internal/templates"
)

// GithubReleaseOptions controls GithubRelease.
type GithubReleaseOptions struct {
	// All publishes every entry instead of only the newest.
	All bool
	// CheckLinks checks the links in each release body. The check_links
	// setting turns it on too.
	CheckLinks bool
	DryRun     bool
	// FailIfWarn makes conversion warnings fatal.
	FailIfWarn bool
	// Repo is owner/name. Empty means the single GitHub remote.
	Repo string
}

// ReleaseAction is what GithubRelease did, or would do, for one version.
type ReleaseAction string

const (
	ReleaseCreated   ReleaseAction = "create"
	ReleaseUpdated   ReleaseAction = "update"
	ReleaseUnchanged ReleaseAction = "unchanged"
)

// ReleaseResult reports the outcome for one changelog entry.
type ReleaseResult struct {
	Version      string
	Action       ReleaseAction
	DryRun       bool
	Body         string
	LinkFailures []linkcheck.Failure
}

// GithubRelease creates or updates GitHub releases from changelog entries
// whose version has a git tag.
func (s *Scriv) GithubRelease(ctx context.Context, opts GithubReleaseOptions) ([]ReleaseResult, error) {
	if err := s.requireGit(); err != nil {
		return nil, err
	}
	if s.releases == nil {
		return nil, errors.New("no GitHub client configured")
	}

	var remotes []string
	if opts.Repo == "" {
		var err error
		if remotes, err = s.git.GithubRepos(); err != nil {
			return nil, err
		}
	}
	repo, err := github.ResolveRepo(opts.Repo, remotes)
	if err != nil {
		return nil, err
	}

	tags, err := s.git.Tags()
	if err != nil {
		return nil, err
	}
	releases, err := s.releases.Releases(ctx, repo)
	if err != nil {
		return nil, err
	}

	cl, err := s.Changelog()
	if err != nil {
		return nil, err
	}
	if err := cl.Read(); err != nil {
		return nil, err
	}

	checkLinks := opts.CheckLinks || s.Config.CheckLinks
	var results []ReleaseResult
	for _, entry := range cl.Entries() {
		if !entry.HasVersion {
			s.log.Warn("entry has no version, skipping", "title", entry.Title)
			continue
		}
		if !hasTag(tags, entry.Version) {
			s.log.Warn("version has no tag, no release will be made", "version", entry.Version.String())
			continue
		}

		res, err := s.release(ctx, repo, cl.Tools(), entry, findRelease(releases, entry.Version), opts, checkLinks)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if !opts.All {
			break
		}
	}
	return results, nil
}

// converter is the part of the format tools used for release notes.
type converter interface {
	ConvertToMarkdown(ctx context.Context, text, name string, failIfWarn bool) (string, error)
}

func (s *Scriv) release(ctx context.Context, repo string, tools converter, entry changelog.Entry, existing *github.Release, opts GithubReleaseOptions, checkLinks bool) (ReleaseResult, error) {
	version := entry.Version.String()
	res := ReleaseResult{Version: version, DryRun: opts.DryRun}

	md, err := tools.ConvertToMarkdown(ctx, strings.Join(entry.Paragraphs, "\n\n"), entry.Title, opts.FailIfWarn)
	if err != nil {
		return res, fmt.Errorf("converting %s to markdown: %w", version, err)
	}

	data := github.ReleaseData{
		Body:       md,
		Name:       version,
		TagName:    version,
		Prerelease: entry.Version.IsPrerelease(),
	}
	body, err := templates.Render("ghrel_template", s.Config.GhrelTemplate, map[string]any{
		"body":    md,
		"version": version,
		"release": data.Map(),
		"config":  s.Config,
	})
	if err != nil {
		return res, err
	}
	data.Body = body
	res.Body = body

	if checkLinks {
		if s.links == nil {
			s.links = linkcheck.New(s.log)
		}
		res.LinkFailures = s.links.CheckMarkdown(ctx, body)
	}

	switch {
	case existing == nil:
		res.Action = ReleaseCreated
		s.log.Debug("creating release", "version", version, "tag", data.TagName, "prerelease", data.Prerelease)
		if opts.DryRun {
			s.log.Info("would create release", "version", version)
			s.log.Debug("release body", "body", body)
			return res, nil
		}
		err = s.releases.CreateRelease(ctx, repo, data)
	case existing.Body != body:
		res.Action = ReleaseUpdated
		s.log.Debug("updating release", "version", version, "id", existing.ID)
		if opts.DryRun {
			s.log.Info("would update release", "version", version)
			s.log.Debug("release body", "body", body)
			return res, nil
		}
		err = s.releases.UpdateRelease(ctx, repo, existing, data)
	default:
		res.Action = ReleaseUnchanged
		s.log.Debug("release is up to date", "version", version)
	}
	return res, err
}

func hasTag(tags []string, v changelog.Version) bool {
	for _, t := range tags {
		if changelog.Version(t).Equal(v) {
			return true
		}
	}
	return false
}

func findRelease(releases map[string]*github.Release, v changelog.Version) *github.Release {
	if r, ok := releases[v.String()]; ok {
		return r
	}
	for tag, r := range releases {
		if changelog.Version(tag).Equal(v) {
			return r
		}
	}
	return nil
}
