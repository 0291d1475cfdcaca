package fragment

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/format"
	"github.com/ariel-frischer/scriv/internal/sections"
)

// fragmentPattern matches the files that may hold fragments.
const fragmentPattern = "*.{rst,md}"

// StoreOptions configures fragment discovery.
type StoreOptions struct {
	Directory string
	// SkipPattern excludes files whose name or relative path matches.
	SkipPattern string
	Recursive   bool
	Format      format.Options
}

// Store discovers and reads the fragments in the fragment directory.
type Store struct {
	fs   afero.Fs
	opts StoreOptions
}

// NewStore returns a Store over fsys.
func NewStore(fsys afero.Fs, opts StoreOptions) *Store {
	return &Store{fs: fsys, opts: opts}
}

// Directory returns the fragment directory.
func (s *Store) Directory() string {
	return s.opts.Directory
}

// List returns the fragments to combine, sorted by file name with the full
// path breaking ties. Fragment names start with a timestamp, so this is
// chronological order even when fragments sit in subdirectories.
func (s *Store) List() ([]*Fragment, error) {
	dir := s.opts.Directory
	info, err := s.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingDirectoryError{Dir: dir}
		}
		return nil, fmt.Errorf("reading fragment directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fragment directory %s is not a directory", dir)
	}

	var paths []string
	err = afero.Walk(s.fs, dir, func(path string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if path != dir && !s.opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := s.isFragment(path)
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing fragments in %s: %w", dir, err)
	}

	slices.SortFunc(paths, func(a, b string) int {
		return cmp.Or(
			strings.Compare(filepath.Base(a), filepath.Base(b)),
			strings.Compare(a, b),
		)
	})
	frags := make([]*Fragment, len(paths))
	for i, p := range paths {
		frags[i] = New(p)
	}
	return frags, nil
}

func (s *Store) isFragment(path string) (bool, error) {
	base := filepath.Base(path)
	ok, err := doublestar.Match(fragmentPattern, base)
	if err != nil || !ok {
		return false, err
	}
	if s.opts.SkipPattern == "" {
		return true, nil
	}
	skip, err := doublestar.Match(s.opts.SkipPattern, base)
	if err != nil {
		return false, fmt.Errorf("bad skip pattern %q: %w", s.opts.SkipPattern, err)
	}
	if skip {
		return false, nil
	}
	rel, err := filepath.Rel(s.opts.Directory, path)
	if err != nil {
		return false, fmt.Errorf("fragment %s is outside %s: %w", path, s.opts.Directory, err)
	}
	skip, err = doublestar.Match(s.opts.SkipPattern, filepath.ToSlash(rel))
	if err != nil {
		return false, fmt.Errorf("bad skip pattern %q: %w", s.opts.SkipPattern, err)
	}
	return !skip, nil
}

// Sections reads a fragment and parses it with the tools for its format.
func (s *Store) Sections(f *Fragment) (*sections.Map, error) {
	if err := f.Read(s.fs); err != nil {
		return nil, err
	}
	tools, err := format.Get(f.Format, s.opts.Format)
	if err != nil {
		return nil, fmt.Errorf("fragment %s: %w", f.Path, err)
	}
	return tools.ParseText(strings.TrimRight(f.Content, " \t\r\n")), nil
}

// Combine reads fragments in order and merges their sections, with the
// uncategorized section first and then categories in the given order.
func (s *Store) Combine(frags []*Fragment, categories []string) (*sections.Map, error) {
	maps := make([]*sections.Map, 0, len(frags))
	for _, f := range frags {
		m, err := s.Sections(f)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return sections.Merge(maps, sections.Priority(categories)), nil
}

// Exists reports whether path already exists.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Create writes a new fragment, refusing to overwrite an existing file.
func (s *Store) Create(f *Fragment) error {
	exists, err := s.Exists(f.Path)
	if err != nil {
		return err
	}
	if exists {
		return &ExistsError{Path: f.Path}
	}
	dir := filepath.Dir(f.Path)
	if ok, _ := afero.DirExists(s.fs, dir); !ok {
		return &MissingDirectoryError{Dir: dir}
	}
	return f.Write(s.fs)
}

// Remove deletes a fragment file.
func (s *Store) Remove(f *Fragment) error {
	if err := s.fs.Remove(f.Path); err != nil {
		return fmt.Errorf("deleting fragment %s: %w", f.Path, err)
	}
	return nil
}

// ExistsError is returned when a new fragment's file already exists.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("file %s already exists, not overwriting", e.Path)
}

// MissingDirectoryError is returned when the fragment directory doesn't exist.
type MissingDirectoryError struct {
	Dir string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("fragment directory %s does not exist, please create it", e.Dir)
}
