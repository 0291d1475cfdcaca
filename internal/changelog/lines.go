package changelog

import (
	"runtime"
	"strings"

	"github.com/ariel-frischer/scriv/internal/format"
)

// splitLinesKeepEnds splits text after each \r\n, \r or \n.
func splitLinesKeepEnds(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// PartitionLines splits text around the first line containing marker.
// It returns the text before that line, the line itself with its ending, and
// the text after it. When no line matches, or marker is empty, it returns
// (text, "", "").
func PartitionLines(text, marker string) (before, line, after string) {
	if marker == "" {
		return text, "", ""
	}
	lines := splitLinesKeepEnds(text)
	for i, l := range lines {
		if strings.Contains(l, marker) {
			return strings.Join(lines[:i], ""), l, strings.Join(lines[i+1:], "")
		}
	}
	return text, "", ""
}

// DetectNewline returns the first line ending found in text, or "".
func DetectNewline(text string) string {
	i := strings.IndexAny(text, "\r\n")
	switch {
	case i < 0:
		return ""
	case text[i] == '\n':
		return "\n"
	case i+1 < len(text) && text[i+1] == '\n':
		return "\r\n"
	default:
		return "\r"
	}
}

// PlatformNewline is the line ending used for files without one.
func PlatformNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// ConvertNewlines rewrites every line ending in text as newline.
func ConvertNewlines(text, newline string) string {
	text = format.NormalizeNewlines(text)
	if newline == "" || newline == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", newline)
}
