package format

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ariel-frischer/scriv/internal/sections"
)

var (
	mdHeading = regexp.MustCompile(`^(#+)\s+(.*)$`)
	mdAnchor  = regexp.MustCompile(`^<a id=["'][^"']*["']>.*</a>$`)
)

// MdTools handles Markdown.
type MdTools struct {
	opts Options
}

var _ Tools = (*MdTools)(nil)

func (t *MdTools) Name() string { return MD }

// ParseText parses a restricted subset of Markdown.
//
// HTML comments may span lines. The level of the first heading is the only
// level that splits sections; headings at any other level are body text, as
// is every line inside a fenced code block.
func (t *MdTools) ParseText(text string) *sections.Map {
	lines := skipToStart(splitLines(text), t.opts.StartMarker)
	lines = append(lines, "")

	b := newBuilder()
	var (
		inComment bool
		level     string
		fence     string
	)

	for _, line := range lines {
		line = rstrip(line)

		if fence != "" {
			if strings.HasPrefix(strings.TrimLeft(line, " "), fence) {
				fence = ""
			}
			if line == "" {
				b.blank()
			} else {
				b.text(line)
			}
			continue
		}

		if inComment {
			if strings.Contains(line, "-->") {
				inComment = false
			}
			continue
		}

		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "<!--") {
			if !strings.Contains(line, "-->") {
				inComment = true
			}
			continue
		}

		if f := fenceOpener(line); f != "" {
			fence = f
			b.text(line)
			continue
		}

		if mdAnchor.MatchString(line) {
			continue
		}

		if m := mdHeading.FindStringSubmatch(line); m != nil {
			if level == "" {
				level = m[1]
			}
			if m[1] == level {
				b.open(sections.Title(strings.TrimSpace(m[2])))
				continue
			}
		}

		if line == "" {
			b.blank()
			continue
		}

		b.text(line)
	}

	return b.finish()
}

func (t *MdTools) heading(level int, title string) string {
	return strings.Repeat("#", level) + " " + title
}

// FormatHeader renders an entry heading at the configured level.
func (t *MdTools) FormatHeader(title, anchor string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	if anchor != "" && t.opts.MdHeaderAnchors {
		fmt.Fprintf(&sb, "<a id='%s'></a>\n", anchor)
	}
	sb.WriteString(t.heading(t.opts.MdHeaderLevel, title))
	sb.WriteString("\n")
	return sb.String()
}

// FormatSections renders sections one level below entry headings.
func (t *MdTools) FormatSections(m *sections.Map) string {
	var lines []string
	for _, k := range m.Keys() {
		if title := k.Title(); title != "" {
			lines = append(lines, "", t.heading(t.opts.MdHeaderLevel+1, title))
		}
		for _, p := range m.Get(k) {
			lines = append(lines, "", p)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// ConvertToMarkdown returns the text unchanged apart from surrounding space.
func (t *MdTools) ConvertToMarkdown(_ context.Context, text, _ string, _ bool) (string, error) {
	return strings.TrimSpace(text), nil
}

// fenceOpener returns the fence that line opens, or "".
func fenceOpener(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, f) {
			return f
		}
	}
	return ""
}
