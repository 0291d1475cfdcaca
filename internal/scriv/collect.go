package scriv

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/fragment"
)

// CollectOptions controls collect. Nil flags fall back to the git config
// values scriv.collect.add and scriv.collect.edit.
type CollectOptions struct {
	Add  *bool
	Edit *bool
	// Keep leaves the fragment files in place.
	Keep bool
	// Version overrides the version setting.
	Version string
	// Title replaces the rendered entry title.
	Title string
}

// CollectResult describes what Collect did.
type CollectResult struct {
	Changelog string
	Version   string
	Fragments []*fragment.Fragment
	Removed   bool
}

// Collect merges the pending fragments into a new changelog entry.
func (s *Scriv) Collect(ctx context.Context, opts CollectOptions) (*CollectResult, error) {
	add := s.flag(opts.Add, "scriv.collect.add")
	edit := s.flag(opts.Edit, "scriv.collect.edit")
	if (add || edit) && s.git == nil {
		return nil, s.requireGit()
	}

	store := s.Store()
	s.log.Info("collecting fragments", "directory", store.Directory())
	frags, err := store.List()
	if err != nil {
		return nil, err
	}
	if len(frags) == 0 {
		return nil, ErrNoFragments
	}

	merged, err := store.Combine(frags, s.Config.Categories)
	if err != nil {
		return nil, err
	}

	cl, err := s.Changelog()
	if err != nil {
		return nil, err
	}
	if err := cl.Read(); err != nil {
		return nil, err
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = strings.TrimSpace(s.Config.Version)
	}
	if version != "" && changelog.HasVersion(cl.Entries(), version) {
		return nil, &VersionExistsError{Version: version}
	}

	var header string
	if opts.Title != "" {
		header = cl.TitledHeader(opts.Title, version)
	} else {
		header, err = cl.EntryHeader(version, s.now())
		if err != nil {
			return nil, fmt.Errorf("rendering entry title: %w", err)
		}
	}
	cl.AddEntry(header, cl.EntryText(merged))
	if err := cl.Write(); err != nil {
		return nil, err
	}
	s.log.Debug("changelog written", "path", cl.Path, "fragments", len(frags))

	if edit {
		if err := s.git.Edit(ctx, cl.Path); err != nil {
			return nil, fmt.Errorf("editing %s: %w", cl.Path, err)
		}
	}
	if add {
		if err := s.git.Add(cl.Path); err != nil {
			return nil, err
		}
	}

	result := &CollectResult{Changelog: cl.Path, Version: version, Fragments: frags}
	if opts.Keep {
		return result, nil
	}
	for _, f := range frags {
		s.log.Info("deleting fragment", "path", f.Path)
		if add {
			err = s.git.Remove(f.Path)
		} else {
			err = store.Remove(f)
		}
		if err != nil {
			return result, err
		}
	}
	result.Removed = true
	return result, nil
}
