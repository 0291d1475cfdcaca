package scriv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ariel-frischer/scriv/internal/fragment"
	"github.com/ariel-frischer/scriv/internal/templates"
)

// CreateOptions controls fragment creation. Nil flags fall back to the git
// config values scriv.create.add and scriv.create.edit.
type CreateOptions struct {
	Add  *bool
	Edit *bool
}

// NewFragment builds the fragment that create would write, without writing it.
func (s *Scriv) NewFragment() (*fragment.Fragment, error) {
	if err := s.requireGit(); err != nil {
		return nil, err
	}
	branch, err := s.git.CurrentBranch()
	if err != nil {
		s.log.Debug("couldn't read current branch", "error", err)
		branch = ""
	}

	name := fragment.FileName(s.now(), s.git.UserNick(), branch, s.Config.MainBranches, s.Config.Format)
	content, err := templates.Render("new_fragment_template", s.Config.NewFragmentTemplate, map[string]any{
		"config": s.Config,
	})
	if err != nil {
		return nil, err
	}

	return &fragment.Fragment{
		Path:    filepath.Join(s.Config.FragmentDirectory, name),
		Format:  s.Config.Format,
		Content: content,
	}, nil
}

// CreateFragment writes a new fragment, then optionally opens it in the
// editor and stages it. An existing file is never overwritten.
func (s *Scriv) CreateFragment(ctx context.Context, opts CreateOptions) (*fragment.Fragment, error) {
	add := s.flag(opts.Add, "scriv.create.add")
	edit := s.flag(opts.Edit, "scriv.create.edit")

	frag, err := s.NewFragment()
	if err != nil {
		return nil, err
	}

	s.log.Info("creating fragment", "path", frag.Path)
	if err := s.Store().Create(frag); err != nil {
		return nil, err
	}

	if edit {
		if err := s.git.Edit(ctx, frag.Path); err != nil {
			return frag, fmt.Errorf("editing %s: %w", frag.Path, err)
		}
	}
	if add {
		if err := s.git.Add(frag.Path); err != nil {
			return frag, err
		}
	}
	return frag, nil
}
