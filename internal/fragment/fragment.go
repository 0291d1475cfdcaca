// Package fragment finds, reads and creates changelog fragment files.
package fragment

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/format"
)

// Fragment is one changelog fragment file.
type Fragment struct {
	Path    string
	Format  string
	Content string
}

// New returns a fragment for path, taking the format from its extension.
func New(path string) *Fragment {
	return &Fragment{
		Path:   path,
		Format: strings.TrimPrefix(filepath.Ext(path), "."),
	}
}

// Read loads the fragment content, normalising line endings to \n.
func (f *Fragment) Read(fsys afero.Fs) error {
	data, err := afero.ReadFile(fsys, f.Path)
	if err != nil {
		return fmt.Errorf("reading fragment %s: %w", f.Path, err)
	}
	f.Content = format.NormalizeNewlines(string(data))
	return nil
}

// Write stores the fragment content.
func (f *Fragment) Write(fsys afero.Fs) error {
	if err := afero.WriteFile(fsys, f.Path, []byte(f.Content), 0o644); err != nil {
		return fmt.Errorf("writing fragment %s: %w", f.Path, err)
	}
	return nil
}

var unsafeBranchChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// BranchSuffix returns the part of a branch name used in fragment file
// names, or "" when the branch is empty or one of the main branches.
func BranchSuffix(branch string, mainBranches []string) string {
	if branch == "" || slices.Contains(mainBranches, branch) {
		return ""
	}
	if i := strings.LastIndex(branch, "/"); i >= 0 {
		branch = branch[i+1:]
	}
	return unsafeBranchChars.ReplaceAllString(branch, "_")
}

// FileName builds a fragment file name: a sortable timestamp, the user nick
// and, off the main branches, the branch name.
func FileName(now time.Time, nick, branch string, mainBranches []string, ext string) string {
	name := now.Format("20060102_150405") + "_" + nick
	if suffix := BranchSuffix(branch, mainBranches); suffix != "" {
		name += "_" + suffix
	}
	return name + "." + ext
}
