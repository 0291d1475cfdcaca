package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/sections"
	"github.com/ariel-frischer/scriv/internal/templates"
)

// Options configures marker splitting and entry titles.
type Options struct {
	InsertMarker       string
	EndMarker          string
	EntryTitleTemplate string
	// Config is exposed to the entry title template as .config.
	Config any
}

// Changelog is the changelog file split around its markers.
type Changelog struct {
	Path       string
	Newline    string
	TextBefore string
	Body       string
	TextAfter  string

	fs    afero.Fs
	tools format.Tools
	opts  Options
}

// New returns a Changelog for path. Call Read to load an existing file.
func New(fsys afero.Fs, path string, tools format.Tools, opts Options) *Changelog {
	return &Changelog{
		Path:  path,
		fs:    fsys,
		tools: tools,
		opts:  opts,
	}
}

// Tools returns the format tools used for the changelog.
func (c *Changelog) Tools() format.Tools {
	return c.tools
}

// Exists reports whether the changelog file exists.
func (c *Changelog) Exists() (bool, error) {
	return afero.Exists(c.fs, c.Path)
}

// Read loads and splits the changelog. A missing file leaves every part empty.
func (c *Changelog) Read() error {
	c.Newline, c.TextBefore, c.Body, c.TextAfter = "", "", "", ""

	data, err := afero.ReadFile(c.fs, c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading changelog %s: %w", c.Path, err)
	}
	text := string(data)
	c.Newline = DetectNewline(text)

	before, marker, after := PartitionLines(text, c.opts.InsertMarker)
	rest := before
	if marker != "" {
		c.TextBefore = before + marker
		rest = after
	}

	body, endMarker, tail := PartitionLines(rest, c.opts.EndMarker)
	c.Body = body
	c.TextAfter = endMarker + tail
	return nil
}

// newline returns the detected line ending, or the platform default.
func (c *Changelog) newline() string {
	if c.Newline != "" {
		return c.Newline
	}
	return PlatformNewline()
}

// EntryHeader renders the heading for a new entry from the title template.
// An empty rendered title produces an empty header.
func (c *Changelog) EntryHeader(version string, date time.Time) (string, error) {
	title, err := templates.Render("entry_title_template", c.opts.EntryTitleTemplate, map[string]any{
		"version": version,
		"date":    date,
		"config":  c.opts.Config,
	})
	if err != nil {
		return "", err
	}
	return c.TitledHeader(title, version), nil
}

// TitledHeader renders an entry heading with an explicit title.
func (c *Changelog) TitledHeader(title, version string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	anchor := ""
	if version != "" {
		anchor = "changelog-" + version
	}
	return c.tools.FormatHeader(title, anchor)
}

// EntryText renders the sections of a new entry.
func (c *Changelog) EntryText(m *sections.Map) string {
	return c.tools.FormatSections(m)
}

// AddEntry prepends header and text to the body, using the file's newlines.
func (c *Changelog) AddEntry(header, text string) {
	c.Body = ConvertNewlines(header+text, c.newline()) + c.Body
}

// Text returns the full changelog content.
func (c *Changelog) Text() string {
	return c.TextBefore + c.Body + c.TextAfter
}

// Write writes the changelog in a single write.
func (c *Changelog) Write() error {
	if err := afero.WriteFile(c.fs, c.Path, []byte(c.Text()), 0o644); err != nil {
		return fmt.Errorf("writing changelog %s: %w", c.Path, err)
	}
	return nil
}
