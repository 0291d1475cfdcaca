package scriv

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/format"
)

// PrintFragments renders the pending fragments as the entry text collect
// would add, without a heading.
func (s *Scriv) PrintFragments() (string, error) {
	store := s.Store()
	s.log.Info("generating entry", "directory", store.Directory())
	frags, err := store.List()
	if err != nil {
		return "", err
	}
	if len(frags) == 0 {
		return "", ErrNoFragments
	}
	merged, err := store.Combine(frags, s.Config.Categories)
	if err != nil {
		return "", err
	}
	cl, err := s.Changelog()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(cl.EntryText(merged)), nil
}

// PrintVersion returns the text of the changelog entry for version, and
// the newline the changelog uses. A missing version is a
// *changelog.VersionNotFoundError.
func (s *Scriv) PrintVersion(version string) (text, newline string, err error) {
	cl, err := s.Changelog()
	if err != nil {
		return "", "", err
	}
	s.log.Info("extracting entry", "version", version, "path", cl.Path)
	if err := cl.Read(); err != nil {
		return "", "", err
	}
	entry, err := changelog.FindEntry(cl.Entries(), version)
	if err != nil {
		return "", "", err
	}

	newline = cl.Newline
	if newline == "" {
		newline = changelog.PlatformNewline()
	}
	return strings.TrimSpace(strings.Join(entry.Paragraphs, newline+newline)), newline, nil
}

// WriteOutput writes printed text to path with every line ending rewritten
// as newline.
func (s *Scriv) WriteOutput(path, text, newline string) error {
	lines := strings.Split(format.NormalizeNewlines(text), "\n")
	if err := afero.WriteFile(s.fs, path, []byte(strings.Join(lines, newline)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
