package changelog

import (
	"fmt"
	"strings"
)

// Entry is one titled entry in the changelog body.
type Entry struct {
	Title      string
	Version    Version
	HasVersion bool
	Paragraphs []string
}

// Text joins the entry paragraphs with blank lines.
func (e Entry) Text() string {
	return strings.TrimSpace(strings.Join(e.Paragraphs, "\n\n"))
}

// Entries parses the body into entries, newest first. Text before the first
// entry heading is not an entry and is left out.
func (c *Changelog) Entries() []Entry {
	m := c.tools.ParseText(c.Body)
	var entries []Entry
	for _, k := range m.Keys() {
		if k.IsUncategorized() {
			continue
		}
		v, ok := FindVersion(k.Title())
		entries = append(entries, Entry{
			Title:      k.Title(),
			Version:    v,
			HasVersion: ok,
			Paragraphs: m.Get(k),
		})
	}
	return entries
}

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found in the changelog", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// ListVersions returns the versions of entries in the order they appear.
func ListVersions(entries []Entry) []string {
	var versions []string
	for _, e := range entries {
		if e.HasVersion {
			versions = append(versions, e.Version.String())
		}
	}
	return versions
}

// FindEntry returns the first entry whose title holds version.
// Accepts both "v1.2" and "1.2".
func FindEntry(entries []Entry, version string) (*Entry, error) {
	target := Version(version)
	for i := range entries {
		if entries[i].HasVersion && entries[i].Version.Equal(target) {
			return &entries[i], nil
		}
	}
	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: ListVersions(entries),
	}
}

// HasVersion reports whether an entry for version already exists.
func HasVersion(entries []Entry, version string) bool {
	_, err := FindEntry(entries, version)
	return err == nil
}
