package scriv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/scriv/internal/github"
	"github.com/ariel-frischer/scriv/internal/linkcheck"
)

type updateCall struct {
	release *github.Release
	data    github.ReleaseData
}

type fakeReleases struct {
	existing map[string]*github.Release
	repo     string
	created  []github.ReleaseData
	updated  []updateCall
}

func (f *fakeReleases) Releases(_ context.Context, repo string) (map[string]*github.Release, error) {
	f.repo = repo
	return f.existing, nil
}

func (f *fakeReleases) CreateRelease(_ context.Context, _ string, data github.ReleaseData) error {
	f.created = append(f.created, data)
	return nil
}

func (f *fakeReleases) UpdateRelease(_ context.Context, _ string, r *github.Release, data github.ReleaseData) error {
	f.updated = append(f.updated, updateCall{release: r, data: data})
	return nil
}

type fakeLinks struct {
	checked []string
}

func (f *fakeLinks) CheckMarkdown(_ context.Context, md string) []linkcheck.Failure {
	f.checked = append(f.checked, md)
	return []linkcheck.Failure{{URL: "https://example.com/gone", Status: 404}}
}

const releaseChangelog = "<!-- scriv-insert-here -->\n\n" +
	"# Unreleased stuff\n\n- Not yet.\n\n" +
	"# 1.2.0rc1 — 2024-03-01\n\n- Try the [docs](https://example.com/docs).\n\n" +
	"# 1.1 — 2024-02-01\n\n- Fixed it.\n\n" +
	"# 1.0 — 2024-01-01\n\n- First release.\n"

func newReleaseScriv(t *testing.T, g *fakeGit, rel *fakeReleases, opts ...Option) *Scriv {
	t.Helper()
	opts = append([]Option{WithReleaseClient(rel)}, opts...)
	s, _ := newScriv(t, testConfig("md"), g, map[string]string{"CHANGELOG.md": releaseChangelog}, opts...)
	return s
}

func TestGithubRelease_NewestOnly(t *testing.T) {
	t.Parallel()

	g := &fakeGit{tags: []string{"v1.0", "v1.1", "v1.2.0rc1"}, repos: []string{"joe/project"}}
	rel := &fakeReleases{existing: map[string]*github.Release{}}
	s := newReleaseScriv(t, g, rel)

	results, err := s.GithubRelease(context.Background(), GithubReleaseOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "joe/project", rel.repo)
	assert.Equal(t, ReleaseCreated, results[0].Action)

	require.Len(t, rel.created, 1)
	assert.Equal(t, github.ReleaseData{
		TagName:    "1.2.0rc1",
		Name:       "1.2.0rc1",
		Body:       "- Try the [docs](https://example.com/docs).",
		Prerelease: true,
	}, rel.created[0])
}

func TestGithubRelease_All(t *testing.T) {
	t.Parallel()

	g := &fakeGit{tags: []string{"v1.0", "v1.1"}}
	rel := &fakeReleases{existing: map[string]*github.Release{
		"v1.0": {ID: 10, TagName: "v1.0", Body: "- First release."},
		"v1.1": {ID: 11, TagName: "v1.1", Body: "stale"},
	}}
	s := newReleaseScriv(t, g, rel)

	results, err := s.GithubRelease(context.Background(), GithubReleaseOptions{All: true, Repo: "joe/project"})
	require.NoError(t, err)

	actions := map[string]ReleaseAction{}
	for _, r := range results {
		actions[r.Version] = r.Action
	}
	// 1.2.0rc1 has no tag, and the first entry has no version.
	assert.Equal(t, map[string]ReleaseAction{
		"1.1": ReleaseUpdated,
		"1.0": ReleaseUnchanged,
	}, actions)

	assert.Empty(t, rel.created)
	require.Len(t, rel.updated, 1)
	assert.Equal(t, int64(11), rel.updated[0].release.ID)
	assert.Equal(t, "- Fixed it.", rel.updated[0].data.Body)
	assert.False(t, rel.updated[0].data.Prerelease)
}

func TestGithubRelease_DryRun(t *testing.T) {
	t.Parallel()

	g := &fakeGit{tags: []string{"1.0", "1.1"}}
	rel := &fakeReleases{existing: map[string]*github.Release{
		"1.1": {ID: 11, TagName: "1.1", Body: "old"},
	}}
	s := newReleaseScriv(t, g, rel)

	results, err := s.GithubRelease(context.Background(), GithubReleaseOptions{All: true, DryRun: true, Repo: "joe/project"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, ReleaseUpdated, results[0].Action)
	assert.Equal(t, ReleaseCreated, results[1].Action)
	assert.True(t, results[0].DryRun)
	assert.Empty(t, rel.created)
	assert.Empty(t, rel.updated)
}

func TestGithubRelease_Template(t *testing.T) {
	t.Parallel()

	g := &fakeGit{tags: []string{"1.1"}}
	rel := &fakeReleases{existing: map[string]*github.Release{}}
	s := newReleaseScriv(t, g, rel)
	s.Config.GhrelTemplate = "{{ .body }}\n\nRelease {{ .version }} ({{ .release.tag_name }}) from {{ .config.OutputFile }}"

	_, err := s.GithubRelease(context.Background(), GithubReleaseOptions{Repo: "joe/project"})
	require.NoError(t, err)
	require.Len(t, rel.created, 1)
	assert.Equal(t, "- Fixed it.\n\nRelease 1.1 (1.1) from CHANGELOG.md", rel.created[0].Body)
}

func TestGithubRelease_CheckLinks(t *testing.T) {
	t.Parallel()

	g := &fakeGit{tags: []string{"1.2.0rc1"}}
	rel := &fakeReleases{existing: map[string]*github.Release{}}
	links := &fakeLinks{}
	s := newReleaseScriv(t, g, rel, WithLinkChecker(links))

	results, err := s.GithubRelease(context.Background(), GithubReleaseOptions{CheckLinks: true, Repo: "joe/project"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"- Try the [docs](https://example.com/docs)."}, links.checked)
	require.Len(t, results[0].LinkFailures, 1)
	assert.Len(t, rel.created, 1, "link failures don't stop the release")
}

func TestGithubRelease_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		git     *fakeGit
		opts    GithubReleaseOptions
		wantErr string
	}{
		"no github remote": {
			git:     &fakeGit{},
			wantErr: "couldn't find a GitHub repo",
		},
		"several github remotes": {
			git:     &fakeGit{repos: []string{"a/one", "b/two"}},
			wantErr: "more than one GitHub repo found: a/one, b/two",
		},
		"bad repo flag": {
			git:     &fakeGit{},
			opts:    GithubReleaseOptions{Repo: "not-a-repo"},
			wantErr: "owner/reponame",
		},
		"remote lookup fails": {
			git:     &fakeGit{reposErr: errors.New("boom")},
			wantErr: "boom",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rel := &fakeReleases{}
			s := newReleaseScriv(t, tc.git, rel)

			_, err := s.GithubRelease(context.Background(), tc.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Empty(t, rel.created)
		})
	}
}

func TestGithubRelease_NoClient(t *testing.T) {
	t.Parallel()

	s, _ := newScriv(t, testConfig("md"), &fakeGit{}, nil)
	_, err := s.GithubRelease(context.Background(), GithubReleaseOptions{Repo: "joe/project"})
	require.Error(t, err)
}
