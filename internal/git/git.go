// Package git reads what scriv needs from the enclosing Git repository: the
// user's nickname, the branch, config values, tags and GitHub remotes. It uses
// go-git for everything except running the user's editor.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ariel-frischer/scriv/internal/shell"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// DefaultEditor is used when git, VISUAL and EDITOR name no editor.
const DefaultEditor = "vi"

// Repo is an opened repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing dir, walking up to the .git
// directory. An empty dir means the working directory.
func Open(dir string) (*Repo, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", dir)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: repo, root: worktree.Filesystem.Root()}, nil
}

// Root returns the absolute path of the worktree.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the name of the current branch, or "" for a
// detached HEAD or a repository with no commits.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			ref, rerr := r.repo.Storer.Reference(plumbing.HEAD)
			if rerr == nil && ref.Type() == plumbing.SymbolicReference {
				return ref.Target().Short(), nil
			}
			return "", nil
		}
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	branch := head.Name().Short()
	logDebug("[git] CurrentBranch: %s", branch)
	return branch, nil
}

// ConfigValue returns a config value such as "user.email" or
// "scriv.create.add", reading local and global config.
func (r *Repo) ConfigValue(key string) (string, bool) {
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		logDebug("[git] reading config: %v", err)
		return "", false
	}

	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return "", false
	}
	section, option := parts[0], parts[len(parts)-1]
	subsection := strings.Join(parts[1:len(parts)-1], ".")

	if !cfg.Raw.HasSection(section) {
		return "", false
	}
	sec := cfg.Raw.Section(section)
	if subsection == "" {
		if !sec.HasOption(option) {
			return "", false
		}
		return sec.Option(option), true
	}
	if !sec.HasSubsection(subsection) {
		return "", false
	}
	sub := sec.Subsection(subsection)
	if !sub.HasOption(option) {
		return "", false
	}
	return sub.Option(option), true
}

// ConfigBool returns a boolean config value, or def when it is unset or
// not a boolean.
func (r *Repo) ConfigBool(key string, def bool) bool {
	v, ok := r.ConfigValue(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return def
}

// UserNick returns a short name for the user: scriv.user-nick, github.user,
// the local part of user.email, $USER, or "somebody".
func (r *Repo) UserNick() string {
	if nick, ok := r.ConfigValue("scriv.user-nick"); ok && nick != "" {
		return nick
	}
	if nick, ok := r.ConfigValue("github.user"); ok && nick != "" {
		return nick
	}
	if email, ok := r.ConfigValue("user.email"); ok && email != "" {
		nick, _, _ := strings.Cut(email, "@")
		return nick
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "somebody"
}

// Tags returns the names of all tags, sorted.
func (r *Repo) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	sort.Strings(tags)
	logDebug("[git] Tags: found %d tags", len(tags))
	return tags, nil
}

var githubRemote = regexp.MustCompile(`github\.com[:/]([^/\s]+/\S+)`)

// GithubRepo extracts "owner/name" from a GitHub remote URL.
func GithubRepo(url string) (string, bool) {
	m := githubRemote.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return strings.TrimSuffix(m[1], ".git"), true
}

// GithubRepos returns the distinct "owner/name" repos that remotes point at,
// sorted.
func (r *Repo) GithubRepos() ([]string, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("listing remotes: %w", err)
	}
	seen := make(map[string]bool)
	var repos []string
	for _, remote := range remotes {
		for _, url := range remote.Config().URLs {
			repo, ok := GithubRepo(url)
			if !ok || seen[repo] {
				continue
			}
			seen[repo] = true
			repos = append(repos, repo)
		}
	}
	sort.Strings(repos)
	logDebug("[git] GithubRepos: %v", repos)
	return repos, nil
}

// relative converts path to a worktree-relative slash path.
func (r *Repo) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository at %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// Add stages path.
func (r *Repo) Add(path string) error {
	rel, err := r.relative(path)
	if err != nil {
		return err
	}
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := worktree.Add(rel); err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	logDebug("[git] added %s", rel)
	return nil
}

// Remove deletes path from the worktree and the index.
func (r *Repo) Remove(path string) error {
	rel, err := r.relative(path)
	if err != nil {
		return err
	}
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := worktree.Remove(rel); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	logDebug("[git] removed %s", rel)
	return nil
}

// Editor returns the editor command line git would use: GIT_EDITOR,
// core.editor, VISUAL, EDITOR, then DefaultEditor.
func (r *Repo) Editor() string {
	if e := os.Getenv("GIT_EDITOR"); e != "" {
		return e
	}
	if e, ok := r.ConfigValue("core.editor"); ok && e != "" {
		return e
	}
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(name); e != "" {
			return e
		}
	}
	return DefaultEditor
}

// Edit opens path in the user's editor and waits for it to exit.
func (r *Repo) Edit(ctx context.Context, path string) error {
	words, err := shell.Split(r.Editor())
	if err != nil {
		return fmt.Errorf("finding editor: %w", err)
	}
	logDebug("[git] editing %s with %v", path, words)
	return shell.Interactive(ctx, append(words, path))
}
