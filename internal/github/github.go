// Package github reads and writes GitHub releases through the REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// Timeout bounds every request to GitHub.
const Timeout = 60 * time.Second

// TokenEnv names the environment variable holding the API token.
const TokenEnv = "GITHUB_TOKEN"

// Release is an existing GitHub release.
type Release struct {
	ID         int64
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// ReleaseData is what scriv writes to a release.
type ReleaseData struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Body       string `json:"body"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Map returns the data with the GitHub API field names, for templates.
func (d ReleaseData) Map() map[string]any {
	return map[string]any{
		"tag_name":   d.TagName,
		"name":       d.Name,
		"body":       d.Body,
		"draft":      d.Draft,
		"prerelease": d.Prerelease,
	}
}

// Client talks to the GitHub releases API.
type Client struct {
	gh *github.Client
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at another API root, such as a test server
// or GitHub Enterprise.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing base URL: %w", err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// NewClient returns a client authenticated with token. An empty token makes
// anonymous requests, which can read public releases but not write them.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	httpClient := &http.Client{Timeout: Timeout}
	if token = strings.TrimSpace(token); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, httpClient), ts)
		httpClient.Timeout = Timeout
	}

	c := &Client{gh: github.NewClient(httpClient)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewClientFromEnv returns a client using the token in GITHUB_TOKEN.
func NewClientFromEnv(ctx context.Context, opts ...Option) (*Client, error) {
	return NewClient(ctx, os.Getenv(TokenEnv), opts...)
}

// Releases returns every release of repo, keyed by tag name.
func (c *Client) Releases(ctx context.Context, repo string) (map[string]*Release, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}

	releases := make(map[string]*Release)
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing releases of %s: %w", repo, err)
		}
		for _, r := range page {
			releases[r.GetTagName()] = &Release{
				ID:         r.GetID(),
				TagName:    r.GetTagName(),
				Name:       r.GetName(),
				Body:       r.GetBody(),
				Draft:      r.GetDraft(),
				Prerelease: r.GetPrerelease(),
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return releases, nil
}

func (d ReleaseData) toGitHub() *github.RepositoryRelease {
	return &github.RepositoryRelease{
		TagName:    github.Ptr(d.TagName),
		Name:       github.Ptr(d.Name),
		Body:       github.Ptr(d.Body),
		Draft:      github.Ptr(d.Draft),
		Prerelease: github.Ptr(d.Prerelease),
	}
}

// CreateRelease creates a release in repo.
func (c *Client) CreateRelease(ctx context.Context, repo string, data ReleaseData) error {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return err
	}
	if _, _, err := c.gh.Repositories.CreateRelease(ctx, owner, name, data.toGitHub()); err != nil {
		return fmt.Errorf("creating release %s: %w", data.Name, err)
	}
	return nil
}

// UpdateRelease replaces the data of an existing release.
func (c *Client) UpdateRelease(ctx context.Context, repo string, release *Release, data ReleaseData) error {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return err
	}
	if _, _, err := c.gh.Repositories.EditRelease(ctx, owner, name, release.ID, data.toGitHub()); err != nil {
		return fmt.Errorf("updating release %s: %w", data.Name, err)
	}
	return nil
}

// RepoError reports a repo name that is missing, ambiguous or malformed.
type RepoError struct {
	Message string
}

func (e *RepoError) Error() string {
	return e.Message
}

var repoName = regexp.MustCompile(`^[^ /]+/[^ /]+$`)

// SplitRepo splits "owner/name".
func SplitRepo(repo string) (string, string, error) {
	if !repoName.MatchString(repo) {
		return "", "", &RepoError{Message: fmt.Sprintf("repo must be owner/reponame: %q", repo)}
	}
	owner, name, _ := strings.Cut(repo, "/")
	return owner, name, nil
}

// ResolveRepo picks the repo to release to: the explicit one if given,
// otherwise the single GitHub repo among the git remotes.
func ResolveRepo(explicit string, remotes []string) (string, error) {
	repo := explicit
	if repo == "" {
		switch len(remotes) {
		case 0:
			return "", &RepoError{Message: "couldn't find a GitHub repo"}
		case 1:
			repo = remotes[0]
		default:
			return "", &RepoError{Message: "more than one GitHub repo found: " + strings.Join(remotes, ", ")}
		}
	}
	if _, _, err := SplitRepo(repo); err != nil {
		return "", err
	}
	return repo, nil
}
