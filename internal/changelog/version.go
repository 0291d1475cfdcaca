package changelog

import (
	"regexp"
	"strings"
)

// versionPattern finds PEP 440 style version numbers such as v1.2.3,
// 2.7.19beta1 or 1!2.0.post1+local.
const versionPattern = `\bv?(\d+!)?\d+(\.\d+)+(?P<pre>[-._]?[a-z]+\.?\d*)?([-._][a-z]+\d*)*(\+\w[\w.]*\w)?\b`

var (
	versionRe     = regexp.MustCompile(`(?i)` + versionPattern)
	fullVersionRe = regexp.MustCompile(`(?i)^(?:` + versionPattern + `)$`)
	preIndex      = fullVersionRe.SubexpIndex("pre")
)

// Version is a version number as written in a changelog title or git tag.
// Versions compare equal regardless of a leading "v".
type Version string

// FindVersion returns the first version number in text.
func FindVersion(text string) (Version, bool) {
	m := versionRe.FindString(text)
	if m == "" {
		return "", false
	}
	return Version(m), true
}

func (v Version) String() string {
	return string(v)
}

// Equal reports whether v and other are the same version.
func (v Version) Equal(other Version) bool {
	return NormalizeVersion(string(v)) == NormalizeVersion(string(other))
}

// IsPrerelease reports whether v has a pre-release part, like 1.2.3a1.
func (v Version) IsPrerelease() bool {
	m := fullVersionRe.FindStringSubmatch(string(v))
	if m == nil {
		return false
	}
	return m[preIndex] != ""
}

// NormalizeVersion strips surrounding space and any leading "v" so that
// "v1.2" and "1.2" compare equal.
func NormalizeVersion(v string) string {
	return strings.TrimLeft(strings.TrimSpace(v), "v")
}
