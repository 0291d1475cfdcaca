// Package config loads scriv settings using koanf. Settings are layered with
// priority: SCRIV_* environment variables > <fragment_directory>/scriv.ini >
// pyproject.toml > tox.ini > setup.cfg > defaults. Values that name a file,
// a literal or a command are resolved once, at load.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/config/iniparser"
	"github.com/ariel-frischer/scriv/internal/config/provider"
	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/logger"
	"github.com/ariel-frischer/scriv/internal/shell"
)

// Config holds the resolved scriv settings.
type Config struct {
	FragmentDirectory string   `koanf:"fragment_directory" yaml:"fragment_directory" validate:"required"`
	Format            string   `koanf:"format" yaml:"format" validate:"oneof=rst md"`
	Categories        []string `koanf:"categories" yaml:"categories"`
	OutputFile        string   `koanf:"output_file" yaml:"output_file" validate:"required"`
	InsertMarker      string   `koanf:"insert_marker" yaml:"insert_marker"`
	EndMarker         string   `koanf:"end_marker" yaml:"end_marker"`
	StartMarker       string   `koanf:"start_marker" yaml:"start_marker"`
	RstHeaderChars    string   `koanf:"rst_header_chars" yaml:"rst_header_chars" validate:"headerchars"`
	MdHeaderLevel     int      `koanf:"md_header_level" yaml:"md_header_level" validate:"min=1,max=6"`
	MdHeaderAnchors   bool     `koanf:"md_header_anchors" yaml:"md_header_anchors"`

	NewFragmentTemplate string `koanf:"new_fragment_template" yaml:"new_fragment_template"`
	EntryTitleTemplate  string `koanf:"entry_title_template" yaml:"entry_title_template"`

	// Version is the version for the next entry, usually from a literal: setting.
	Version            string   `koanf:"version" yaml:"version"`
	MainBranches       []string `koanf:"main_branches" yaml:"main_branches"`
	SkipFragments      string   `koanf:"skip_fragments" yaml:"skip_fragments"`
	RecursiveFragments bool     `koanf:"recursive_fragments" yaml:"recursive_fragments"`
	GhrelTemplate      string   `koanf:"ghrel_template" yaml:"ghrel_template"`
	CheckLinks         bool     `koanf:"check_links" yaml:"check_links"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Fs is the filesystem config files are read from. When nil, files are
	// read from the working directory with the koanf file provider.
	Fs afero.Fs
	// Runner runs command: settings (default: shell.ExecRunner).
	Runner shell.CommandRunner
	// Logger receives debug output about the files read.
	Logger logger.Logger
	// SkipEnv ignores SCRIV_* environment variables.
	SkipEnv bool
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Runner == nil {
		o.Runner = shell.ExecRunner{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// Load reads, resolves and validates the configuration.
//
// scriv.ini is looked for in the fragment directory named by the files read
// before it.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	opts = opts.withDefaults()
	k := koanf.New(".")

	loadDefaults(k)

	for _, name := range []string{SetupCfgFile, ToxIniFile} {
		if err := loadSection(k, opts, name, iniparser.Parser(), SectionNames); err != nil {
			return nil, err
		}
	}
	if err := loadSection(k, opts, PyprojectFile, toml.Parser(), []string{"tool.scriv"}); err != nil {
		return nil, err
	}
	scrivIni := ScrivIniPath(k.String("fragment_directory"))
	if err := loadSection(k, opts, scrivIni, iniparser.Parser(), SectionNames); err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(ctx, k, opts)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// source returns the koanf provider for a config file, or nil when the file
// does not exist.
func source(opts LoadOptions, path string) (koanf.Provider, error) {
	if opts.Fs == nil {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		return file.Provider(path), nil
	}
	ok, err := afero.Exists(opts.Fs, path)
	if err != nil || !ok {
		return nil, err
	}
	return provider.Afero(opts.Fs, path), nil
}

// loadSection reads path with parser and merges the first of sections that
// the file defines.
func loadSection(k *koanf.Koanf, opts LoadOptions, path string, parser koanf.Parser, sections []string) error {
	opts.Logger.Debug("looking for config file", "path", path)
	src, err := source(opts, path)
	if err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	if src == nil {
		opts.Logger.Debug("config file doesn't exist", "path", path)
		return nil
	}

	fk := koanf.New(".")
	if err := fk.Load(src, parser); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	opts.Logger.Debug("config file was read", "path", path)

	for _, name := range sections {
		if !fk.Exists(name) {
			continue
		}
		section := fk.Cut(name)
		for _, key := range section.Keys() {
			if _, known := KnownKeys[key]; !known {
				opts.Logger.Warn("unknown setting ignored", "path", path, "key", key)
				section.Delete(key)
			}
		}
		if err := k.Merge(section); err != nil {
			return fmt.Errorf("merging %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: SCRIV_FRAGMENT_DIRECTORY -> fragment_directory. Unknown names map
// to "" and are dropped.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if _, ok := KnownKeys[key]; !ok {
		return ""
	}
	return key
}

// finalizeConfig converts, unmarshals, resolves and validates.
func finalizeConfig(ctx context.Context, k *koanf.Koanf, opts LoadOptions) (*Config, error) {
	if err := convertValues(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	r := &resolver{fs: opts.Fs, runner: opts.Runner}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if err := r.resolveAll(ctx, &cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

var listSep = regexp.MustCompile(`[\n,]`)

// ConvertList splits a list setting written as a string on commas and
// newlines, dropping empty items.
func ConvertList(val string) []string {
	out := []string{}
	for _, item := range listSep.Split(val, -1) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// convertValues turns INI and environment strings into the types their
// settings expect.
func convertValues(k *koanf.Koanf) error {
	for _, key := range SortedKeys() {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		switch KnownKeys[key].Type {
		case TypeList:
			if err := k.Set(key, ConvertList(raw)); err != nil {
				return err
			}
		case TypeBool:
			b, err := parseBool(raw)
			if err != nil {
				return &ValidationError{FilePath: "config", Field: key, Message: err.Error()}
			}
			if err := k.Set(key, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseBool accepts the spellings INI files use for booleans.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// FormatOptions returns the settings the format tools need.
func (c *Config) FormatOptions() format.Options {
	return format.Options{
		RstHeaderChars:  c.RstHeaderChars,
		MdHeaderLevel:   c.MdHeaderLevel,
		MdHeaderAnchors: c.MdHeaderAnchors,
		StartMarker:     c.StartMarker,
	}
}
