package format

import (
	"strings"
	"unicode"

	"github.com/ariel-frischer/scriv/internal/sections"
)

// splitLines splits text on \r\n, \r or \n. Line endings are not kept and a
// trailing line ending does not produce an empty final line.
func splitLines(text string) []string {
	text = NormalizeNewlines(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NormalizeNewlines converts \r\n and \r line endings to \n.
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// skipToStart drops every line up to and including the first containing marker.
func skipToStart(lines []string, marker string) []string {
	if marker == "" {
		return lines
	}
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return lines[i+1:]
		}
	}
	return lines
}

// builder accumulates paragraphs per section while a parser scans lines.
// The last paragraph of the current section is the one being filled.
type builder struct {
	m      *sections.Map
	cur    sections.Key
	opened bool
}

func newBuilder() *builder {
	return &builder{m: sections.New()}
}

func (b *builder) open(k sections.Key) {
	b.m.Append(k, "")
	b.cur = k
	b.opened = true
}

// undoTitle removes the last paragraph when it holds only the title line.
func (b *builder) undoTitle(title string) {
	if !b.opened {
		return
	}
	p := b.m.Get(b.cur)
	if len(p) > 0 && p[len(p)-1] == title+"\n" {
		b.m.Set(b.cur, p[:len(p)-1])
	}
}

func (b *builder) blank() {
	if b.opened {
		b.m.Append(b.cur, "")
	}
}

func (b *builder) text(line string) {
	if !b.opened {
		b.open(sections.Uncategorized)
	}
	p := b.m.Get(b.cur)
	if len(p) == 0 {
		p = append(p, "")
	}
	p[len(p)-1] += line + "\n"
	b.m.Set(b.cur, p)
}

// finish drops empty paragraphs and sections, right-stripping the rest.
func (b *builder) finish() *sections.Map {
	m := sections.New()
	for _, k := range b.m.Keys() {
		var kept []string
		for _, p := range b.m.Get(k) {
			if p = rstrip(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			m.Set(k, kept)
		}
	}
	return m
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
