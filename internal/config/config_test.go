package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/scriv/internal/templates"
)

type fakeRunner struct {
	out   string
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, "", f.err
}

func load(t *testing.T, fsys afero.Fs, runner *fakeRunner) (*Config, error) {
	t.Helper()
	opts := LoadOptions{Fs: fsys, SkipEnv: true}
	if runner != nil {
		opts.Runner = runner
	}
	return Load(context.Background(), opts)
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, afero.NewMemMapFs(), nil)
	require.NoError(t, err)

	rstTemplate, ok := templates.Get("new_fragment.rst.tmpl")
	require.True(t, ok)

	want := Default()
	want.NewFragmentTemplate = rstTemplate
	assert.Equal(t, want, cfg)
}

func TestLoadSources(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		"setup.cfg scriv section": {
			files: map[string]string{
				"setup.cfg": "[scriv]\nformat = md\noutput_file = NEWS.md\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "md", cfg.Format)
				assert.Equal(t, "NEWS.md", cfg.OutputFile)
			},
		},
		"tox.ini tool.scriv section": {
			files: map[string]string{
				"tox.ini": "[tool.scriv]\nmd_header_level = 2\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2, cfg.MdHeaderLevel)
			},
		},
		"scriv section wins over tool.scriv": {
			files: map[string]string{
				"setup.cfg": "[tool.scriv]\nformat = md\n\n[scriv]\nformat = rst\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rst", cfg.Format)
			},
		},
		"tox.ini overrides setup.cfg": {
			files: map[string]string{
				"setup.cfg": "[scriv]\ninsert_marker = one\nend_marker = stays\n",
				"tox.ini":   "[scriv]\ninsert_marker = two\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "two", cfg.InsertMarker)
				assert.Equal(t, "stays", cfg.EndMarker)
			},
		},
		"pyproject.toml": {
			files: map[string]string{
				"pyproject.toml": "[tool.scriv]\nformat = \"md\"\ncategories = [\"New\", \"Old\"]\nmd_header_anchors = false\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "md", cfg.Format)
				assert.Equal(t, []string{"New", "Old"}, cfg.Categories)
				assert.False(t, cfg.MdHeaderAnchors)
			},
		},
		"pyproject.toml without scriv settings": {
			files: map[string]string{
				"pyproject.toml": "[project]\nname = \"x\"\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rst", cfg.Format)
			},
		},
		"scriv.ini in configured fragment directory": {
			files: map[string]string{
				"setup.cfg":             "[scriv]\nfragment_directory = notes\n",
				"notes/scriv.ini":       "[scriv]\nversion = 9.9\n",
				"changelog.d/scriv.ini": "[scriv]\nversion = ignored\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "notes", cfg.FragmentDirectory)
				assert.Equal(t, "9.9", cfg.Version)
			},
		},
		"list settings split on commas and newlines": {
			files: map[string]string{
				"setup.cfg": "[scriv]\ncategories =\n    Bugs, Features\n    Docs\nmain_branches = trunk,\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"Bugs", "Features", "Docs"}, cfg.Categories)
				assert.Equal(t, []string{"trunk"}, cfg.MainBranches)
			},
		},
		"ini booleans": {
			files: map[string]string{
				"setup.cfg": "[scriv]\nrecursive_fragments = yes\nmd_header_anchors = off\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.RecursiveFragments)
				assert.False(t, cfg.MdHeaderAnchors)
			},
		},
		"format placeholder": {
			files: map[string]string{
				"setup.cfg": "[scriv]\nformat = md\n",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "CHANGELOG.md", cfg.OutputFile)
				mdTemplate, _ := templates.Get("new_fragment.md.tmpl")
				assert.Equal(t, mdTemplate, cfg.NewFragmentTemplate)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			for path, content := range tt.files {
				writeFile(t, fsys, path, content)
			}
			cfg, err := load(t, fsys, nil)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SCRIV_FORMAT", "md")
	t.Setenv("SCRIV_CATEGORIES", "One, Two")
	t.Setenv("SCRIV_NOT_A_SETTING", "x")

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "setup.cfg", "[scriv]\nformat = rst\n")

	cfg, err := Load(context.Background(), LoadOptions{Fs: fsys})
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.Format)
	assert.Equal(t, []string{"One", "Two"}, cfg.Categories)
}

func TestResolveFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setting string
		files   map[string]string
		want    string
		wantErr string
	}{
		"fragment directory first": {
			setting: "file: title.txt",
			files: map[string]string{
				"changelog.d/title.txt": "from fragments",
				"title.txt":             "from cwd",
			},
			want: "from fragments",
		},
		"working directory": {
			setting: "file: title.txt",
			files:   map[string]string{"title.txt": "from cwd"},
			want:    "from cwd",
		},
		"explicit relative skips fragment directory": {
			setting: "file: ./title.txt",
			files: map[string]string{
				"changelog.d/title.txt": "from fragments",
				"title.txt":             "from cwd",
			},
			want: "from cwd",
		},
		"built-in template": {
			setting: "file: new_fragment.md.tmpl",
			want:    "",
		},
		"missing": {
			setting: "file: nope.txt",
			wantErr: "no such file: nope.txt",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			for path, content := range tt.files {
				writeFile(t, fsys, path, content)
			}
			writeFile(t, fsys, "setup.cfg", "[scriv]\nentry_title_template = "+tt.setting+"\n")

			cfg, err := load(t, fsys, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var re *ResolveError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, "entry_title_template", re.Key)
				return
			}
			require.NoError(t, err)
			want := tt.want
			if want == "" {
				want, _ = templates.Get("new_fragment.md.tmpl")
			}
			assert.Equal(t, want, cfg.EntryTitleTemplate)
		})
	}
}

func TestResolveLiteral(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setting string
		want    string
		wantErr string
	}{
		"python": {
			setting: "literal: src/about.py: __version__",
			want:    "1.2.3",
		},
		"toml": {
			setting: "literal: pyproject.toml: project.version",
			want:    "4.5",
		},
		"missing name": {
			setting: "literal: src/about.py:",
			wantErr: "missing value name",
		},
		"missing file name": {
			setting: "literal: : version",
			wantErr: "missing file name",
		},
		"only file": {
			setting: "literal: src/about.py",
			wantErr: "missing value name",
		},
		"not found": {
			setting: "literal: src/about.py: nothing",
			wantErr: `couldn't find literal "nothing"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "src/about.py", "__version__ = \"1.2.3\"\n")
			writeFile(t, fsys, "pyproject.toml", "[project]\nversion = \"4.5\"\n")
			writeFile(t, fsys, "setup.cfg", "[scriv]\nversion = "+tt.setting+"\n")

			cfg, err := load(t, fsys, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Version)
		})
	}
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		out     string
		err     error
		want    string
		wantErr bool
	}{
		"single line is stripped": {out: "1.0\n", want: "1.0"},
		"multiple lines are kept": {out: "a\nb\n", want: "a\nb\n"},
		"no newline":              {out: "x", want: "x"},
		"failure":                 {err: errors.New("exit status 1"), wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "setup.cfg", "[scriv]\nversion = command: git describe --tags\n")
			runner := &fakeRunner{out: tt.out, err: tt.err}

			cfg, err := load(t, fsys, runner)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "git describe --tags")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Version)
			assert.Equal(t, [][]string{{"git", "describe", "--tags"}}, runner.calls)
		})
	}
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setting string
		field   string
	}{
		"bad format":             {setting: "format = txt", field: "format"},
		"header level too small": {setting: "md_header_level = 0", field: "md_header_level"},
		"header level too big":   {setting: "md_header_level = 7", field: "md_header_level"},
		"one header char":        {setting: "rst_header_chars = =", field: "rst_header_chars"},
		"three header chars":     {setting: "rst_header_chars = =-~", field: "rst_header_chars"},
		"not a boolean":          {setting: "check_links = maybe", field: "check_links"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "setup.cfg", "[scriv]\n"+tt.setting+"\n")

			_, err := load(t, fsys, nil)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestConvertList(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  []string
	}{
		"commas":   {input: "a, b,c", want: []string{"a", "b", "c"}},
		"newlines": {input: "\na\n  b\n", want: []string{"a", "b"}},
		"empty":    {input: " , \n", want: []string{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ConvertList(tt.input))
		})
	}
}

func TestDefaultConfigTemplateCoversEveryKey(t *testing.T) {
	t.Parallel()

	tmpl := GetDefaultConfigTemplate()
	for _, key := range SortedKeys() {
		assert.True(t, strings.Contains(tmpl, "\n"+key+" ="), "template is missing %s", key)
	}
}

func TestGetKeySchema(t *testing.T) {
	t.Parallel()

	schema, err := GetKeySchema("format")
	require.NoError(t, err)
	assert.Equal(t, TypeEnum, schema.Type)
	assert.Equal(t, []string{"rst", "md"}, schema.AllowedValues)

	_, err = GetKeySchema("nope")
	assert.EqualError(t, err, `unknown setting "nope"`)
}
