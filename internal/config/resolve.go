package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/literals"
	"github.com/ariel-frischer/scriv/internal/shell"
	"github.com/ariel-frischer/scriv/internal/templates"
)

// FormatPlaceholder is replaced with the configured format in every resolved setting.
const FormatPlaceholder = "${config:format}"

// ResolveError reports a setting whose value couldn't be resolved.
type ResolveError struct {
	Key string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("couldn't read %q setting: %v", e.Key, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

type resolver struct {
	fs          afero.Fs
	runner      shell.CommandRunner
	fragmentDir string
	format      string
}

// resolveAll resolves every setting that accepts a prefix. The format is
// resolved and checked first since other settings substitute it.
func (r *resolver) resolveAll(ctx context.Context, cfg *Config) error {
	r.format = ""
	f, err := r.resolve(ctx, cfg.Format)
	if err != nil {
		return &ResolveError{Key: "format", Err: err}
	}
	if !slices.Contains(format.Formats, f) {
		return &ValidationError{
			FilePath: "config",
			Field:    "format",
			Message:  fmt.Sprintf("must be one of: %s", strings.Join(format.Formats, ", ")),
		}
	}
	cfg.Format = f
	r.format = f

	fields := []struct {
		key string
		ptr *string
	}{
		{"fragment_directory", &cfg.FragmentDirectory},
		{"output_file", &cfg.OutputFile},
		{"insert_marker", &cfg.InsertMarker},
		{"end_marker", &cfg.EndMarker},
		{"start_marker", &cfg.StartMarker},
		{"rst_header_chars", &cfg.RstHeaderChars},
		{"new_fragment_template", &cfg.NewFragmentTemplate},
		{"entry_title_template", &cfg.EntryTitleTemplate},
		{"version", &cfg.Version},
		{"skip_fragments", &cfg.SkipFragments},
		{"ghrel_template", &cfg.GhrelTemplate},
	}

	for _, field := range fields {
		r.fragmentDir = cfg.FragmentDirectory
		v, err := r.resolve(ctx, *field.ptr)
		if err != nil {
			return &ResolveError{Key: field.key, Err: err}
		}
		*field.ptr = v
	}
	return nil
}

// resolve interprets the file:, literal: and command: prefixes.
func (r *resolver) resolve(ctx context.Context, value string) (string, error) {
	value = strings.ReplaceAll(value, FormatPlaceholder, r.format)

	switch {
	case strings.HasPrefix(value, "file:"):
		return r.readFile(strings.TrimSpace(strings.TrimPrefix(value, "file:")))
	case strings.HasPrefix(value, "literal:"):
		return r.readLiteral(value)
	case strings.HasPrefix(value, "command:"):
		return r.runCommand(ctx, strings.TrimSpace(strings.TrimPrefix(value, "command:")))
	}
	return value, nil
}

var explicitRelative = regexp.MustCompile(`^\.\.?[/\\]`)

// readFile looks for name in the fragment directory, then the working
// directory, then among the built-in templates. Names starting with ./ or
// ../ skip the fragment directory.
func (r *resolver) readFile(name string) (string, error) {
	var candidates []string
	if !explicitRelative.MatchString(name) {
		candidates = append(candidates, filepath.Join(r.fragmentDir, name))
	}
	candidates = append(candidates, filepath.Clean(name))

	for _, path := range candidates {
		ok, err := afero.Exists(r.fs, path)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}

	if text, ok := templates.Get(name); ok {
		return text, nil
	}
	return "", fmt.Errorf("no such file: %s", name)
}

// readLiteral handles "literal: FILE: NAME".
func (r *resolver) readLiteral(value string) (string, error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) < 3 {
		return "", fmt.Errorf("missing value name: %q", value)
	}
	fileName := strings.TrimSpace(parts[1])
	if fileName == "" {
		return "", fmt.Errorf("missing file name: %q", value)
	}
	name := strings.TrimSpace(parts[2])
	if name == "" {
		return "", fmt.Errorf("missing value name: %q", value)
	}

	found, ok, err := literals.Find(r.fs, fileName, name)
	if err != nil {
		return "", fmt.Errorf("couldn't find literal %q: %w", value, err)
	}
	if !ok {
		return "", fmt.Errorf("couldn't find literal %q in %s: %q", name, fileName, value)
	}
	return found, nil
}

// runCommand returns the command's output, without the newline when the
// output is a single line.
func (r *resolver) runCommand(ctx context.Context, line string) (string, error) {
	out, err := shell.RunLine(ctx, r.runner, line)
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", line, err)
	}
	if strings.Count(out, "\n") == 1 {
		out = strings.TrimRight(out, "\r\n")
	}
	return out, nil
}
