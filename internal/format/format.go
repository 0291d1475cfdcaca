// Package format parses and writes the two markup dialects scriv understands:
// reStructuredText ("rst") and Markdown ("md").
//
// Only a restricted, self-authored subset of each dialect is supported. The
// parsers are lenient: anything they do not recognise is kept as body text.
package format

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/scriv/internal/logger"
	"github.com/ariel-frischer/scriv/internal/sections"
	"github.com/ariel-frischer/scriv/internal/shell"
)

const (
	RST = "rst"
	MD  = "md"
)

// Formats lists the supported format names.
var Formats = []string{RST, MD}

// Tools knows how to read and write one markup dialect.
type Tools interface {
	// Name is the format name, also used as the file extension.
	Name() string
	// ParseText splits text into sections of paragraphs.
	ParseText(text string) *sections.Map
	// FormatHeader renders an entry heading, with an optional anchor before it.
	FormatHeader(title, anchor string) string
	// FormatSections renders sections one level below the entry heading.
	FormatSections(m *sections.Map) string
	// ConvertToMarkdown converts text in this dialect to GitHub Markdown.
	ConvertToMarkdown(ctx context.Context, text, name string, failIfWarn bool) (string, error)
}

// Options is the resolved configuration the format tools read.
type Options struct {
	// RstHeaderChars holds two characters: entry underline, section underline.
	RstHeaderChars string
	// MdHeaderLevel is the heading level for entries; sections are one deeper.
	MdHeaderLevel int
	// MdHeaderAnchors emits <a id> anchors before entry headings.
	MdHeaderAnchors bool
	// StartMarker, when found in a line, discards that line and everything before.
	StartMarker string
	// Runner runs pandoc for RST conversion. Defaults to shell.ExecRunner.
	Runner shell.CommandRunner
	// Logger receives conversion warnings. Defaults to a no-op logger.
	Logger logger.Logger
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		RstHeaderChars:  "=-",
		MdHeaderLevel:   1,
		MdHeaderAnchors: true,
		StartMarker:     "scriv-start-here",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len([]rune(o.RstHeaderChars)) < 2 {
		o.RstHeaderChars = d.RstHeaderChars
	}
	if o.MdHeaderLevel < 1 || o.MdHeaderLevel > 6 {
		o.MdHeaderLevel = d.MdHeaderLevel
	}
	if o.Runner == nil {
		o.Runner = shell.ExecRunner{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// UnsupportedFormatError is returned for a format other than rst or md.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: must be one of %s", e.Format, strings.Join(Formats, ", "))
}

// Get returns the tools for a format name.
func Get(name string, opts Options) (Tools, error) {
	opts = opts.withDefaults()
	switch name {
	case RST:
		return &RstTools{opts: opts}, nil
	case MD:
		return &MdTools{opts: opts}, nil
	default:
		return nil, &UnsupportedFormatError{Format: name}
	}
}

// ForPath returns the tools for a file based on its extension.
func ForPath(path string, opts Options) (Tools, error) {
	return Get(strings.TrimPrefix(filepath.Ext(path), "."), opts)
}
