package format

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ariel-frischer/scriv/internal/sections"
)

// rstPunctuation are the characters reStructuredText accepts for adornments.
const rstPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	rstAnchor       = regexp.MustCompile(`^\.\. _[^\s:]+:$`)
	rstTarget       = regexp.MustCompile(`^\.\. _.*:`)
	rstCitation     = regexp.MustCompile(`^\.\. \[[^\]]+\]`)
	rstSubstitution = regexp.MustCompile(`^\.\. \|[^|]+\|`)
	rstDirective    = regexp.MustCompile(`^\.\. [\w:.+-]+::`)
)

// RstTools handles reStructuredText.
type RstTools struct {
	opts Options
}

var _ Tools = (*RstTools)(nil)

func (t *RstTools) Name() string { return RST }

// isUnderline reports whether line is a run of three or more identical
// punctuation characters.
func isUnderline(line string) bool {
	if utf8.RuneCountInString(line) < 3 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if !strings.ContainsRune(rstPunctuation, first) {
		return false
	}
	for _, r := range line {
		if r != first {
			return false
		}
	}
	return true
}

// isRstComment reports whether line is an explicit markup comment.
func isRstComment(line string) bool {
	if line != ".." && !strings.HasPrefix(line, ".. ") {
		return false
	}
	switch {
	case isUnderline(line),
		rstTarget.MatchString(line),
		rstCitation.MatchString(line),
		rstSubstitution.MatchString(line),
		rstDirective.MatchString(line):
		return false
	}
	return true
}

// ParseText parses a restricted subset of reStructuredText.
//
// The first underline character seen becomes the only one that splits
// sections; other underlines are body text. A line whose paragraph was just
// started and is followed by an underline becomes the section title instead.
func (t *RstTools) ParseText(text string) *sections.Map {
	lines := skipToStart(splitLines(text), t.opts.StartMarker)
	lines = append(lines, "")

	b := newBuilder()
	var (
		prevLine  string
		underline rune
	)

	for _, line := range lines {
		line = rstrip(line)

		if isRstComment(line) {
			continue
		}
		if rstAnchor.MatchString(line) {
			continue
		}

		if isUnderline(line) {
			r, _ := utf8.DecodeRuneInString(line)
			if underline == 0 {
				underline = r
			}
			if r == underline {
				b.undoTitle(prevLine)
				b.open(sections.Title(prevLine))
				continue
			}
		}

		if line == "" {
			b.blank()
			continue
		}

		b.text(line)
		prevLine = line
	}

	return b.finish()
}

// FormatHeader renders an entry title underlined with the first header char.
func (t *RstTools) FormatHeader(title, anchor string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	if anchor != "" {
		fmt.Fprintf(&sb, ".. _%s:\n\n", anchor)
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(t.underline(0, title))
	sb.WriteString("\n")
	return sb.String()
}

// FormatSections renders sections underlined with the second header char.
func (t *RstTools) FormatSections(m *sections.Map) string {
	var lines []string
	for _, k := range m.Keys() {
		if title := k.Title(); title != "" {
			lines = append(lines, "", title, t.underline(1, title))
		}
		for _, p := range m.Get(k) {
			lines = append(lines, "", p)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (t *RstTools) underline(idx int, title string) string {
	chars := []rune(t.opts.RstHeaderChars)
	return strings.Repeat(string(chars[idx]), utf8.RuneCountInString(title))
}

// ConvertToMarkdown converts RST to GitHub Markdown with pandoc.
func (t *RstTools) ConvertToMarkdown(ctx context.Context, text, name string, failIfWarn bool) (string, error) {
	stdout, stderr, err := t.opts.Runner.Run(ctx, text, "pandoc", "-f", "rst", "-t", "gfm", "--wrap=none")
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", fmt.Errorf("converting %s to markdown: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("converting %s to markdown: %w", name, err)
	}
	if warnings := strings.TrimSpace(stderr); warnings != "" {
		t.opts.Logger.Warn("conversion produced warnings", "entry", name, "warnings", warnings)
		if failIfWarn {
			return "", &ConversionWarningError{Name: name, Warnings: warnings}
		}
	}
	return strings.TrimSpace(stdout), nil
}

// ConversionWarningError is returned when conversion warns and warnings are fatal.
type ConversionWarningError struct {
	Name     string
	Warnings string
}

func (e *ConversionWarningError) Error() string {
	return fmt.Sprintf("converting %s to markdown produced warnings: %s", e.Name, e.Warnings)
}
