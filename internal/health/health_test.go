package health

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/scriv/internal/config"
)

func found(name string) (string, error) { return "/usr/bin/" + name, nil }

func missing(string) (string, error) { return "", errors.New("not found") }

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format   string
		gitRoot  string
		mkdir    bool
		lookPath func(string) (string, error)
		wantPass bool
	}{
		"all good": {
			format:   "md",
			gitRoot:  "/src/project",
			mkdir:    true,
			lookPath: missing,
			wantPass: true,
		},
		"outside git": {
			format:   "md",
			mkdir:    true,
			lookPath: found,
		},
		"no fragment directory": {
			format:   "md",
			gitRoot:  "/src/project",
			lookPath: found,
		},
		"rst needs pandoc": {
			format:   "rst",
			gitRoot:  "/src/project",
			mkdir:    true,
			lookPath: missing,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			cfg := config.Default()
			cfg.Format = tc.format
			if tc.mkdir {
				require.NoError(t, fs.MkdirAll(cfg.FragmentDirectory, 0o755))
			}

			report := RunHealthChecks(Options{
				Config:   cfg,
				Fs:       fs,
				GitRoot:  tc.gitRoot,
				LookPath: tc.lookPath,
				Getenv:   env(nil),
			})
			assert.Equal(t, tc.wantPass, report.Passed)
			assert.Len(t, report.Checks, 5)
		})
	}
}

func TestCheckPandoc(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format   string
		lookPath func(string) (string, error)
		want     CheckResult
	}{
		"md without pandoc": {
			format:   "md",
			lookPath: missing,
			want:     CheckResult{Name: "pandoc", Optional: true, Message: "not found (only needed for rst)"},
		},
		"rst with pandoc": {
			format:   "rst",
			lookPath: found,
			want:     CheckResult{Name: "pandoc", Passed: true, Message: "/usr/bin/pandoc"},
		},
		"rst without pandoc": {
			format:   "rst",
			lookPath: missing,
			want:     CheckResult{Name: "pandoc", Message: "not found in PATH, github-release can't convert rst"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CheckPandoc(tc.format, tc.lookPath))
		})
	}
}

func TestCheckGithubRepo(t *testing.T) {
	t.Parallel()

	ok := CheckGithubRepo([]string{"joe/project"})
	assert.True(t, ok.Passed)
	assert.Equal(t, "joe/project", ok.Message)

	none := CheckGithubRepo(nil)
	assert.False(t, none.Passed)
	assert.True(t, none.Optional)
	assert.Contains(t, none.Message, "couldn't find a GitHub repo")
}

func TestCheckGithubToken(t *testing.T) {
	t.Parallel()

	assert.True(t, CheckGithubToken(env(map[string]string{"GITHUB_TOKEN": "abc"})).Passed)
	unset := CheckGithubToken(env(nil))
	assert.False(t, unset.Passed)
	assert.Equal(t, "GITHUB_TOKEN is not set", unset.Message)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "Git repository", Passed: true, Message: "/src"},
			{Name: "Fragment directory", Message: "changelog.d does not exist"},
			{Name: "GitHub token", Optional: true, Message: "GITHUB_TOKEN is not set"},
		},
	}

	assert.Equal(t,
		"✓ Git repository: /src\n"+
			"✗ Fragment directory: changelog.d does not exist\n"+
			"○ GitHub token: GITHUB_TOKEN is not set\n",
		FormatReport(report))
}
