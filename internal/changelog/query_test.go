package changelog

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionedBody = `
.. _changelog-v1.2:

v1.2 — 2020-02-25
=================

Fixed
-----

- Launching missiles no longer targets ourselves.

Unreleased notes
================

- Nothing yet.

1.1 — 2020-01-01
================

- First.
`

func TestEntriesAndFind(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "CHANGELOG.rst", []byte(versionedBody), 0o644))
	c := newChangelog(t, fsys, "CHANGELOG.rst", Options{})
	require.NoError(t, c.Read())

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"v1.2", "1.1"}, ListVersions(entries))
	assert.False(t, entries[1].HasVersion)

	tests := map[string]struct {
		version   string
		wantTitle string
		wantErr   bool
	}{
		"exact":        {version: "v1.2", wantTitle: "v1.2 — 2020-02-25"},
		"without v":    {version: "1.2", wantTitle: "v1.2 — 2020-02-25"},
		"with added v": {version: "v1.1", wantTitle: "1.1 — 2020-01-01"},
		"missing":      {version: "3.0", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e, err := FindEntry(entries, tt.version)
			if tt.wantErr {
				var notFound *VersionNotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, []string{"v1.2", "1.1"}, notFound.AvailableVersions)
				assert.Contains(t, err.Error(), "v1.2, 1.1")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, e.Title)
		})
	}

	assert.True(t, HasVersion(entries, "1.2"))
	assert.False(t, HasVersion(entries, "1.3"))

	e, err := FindEntry(entries, "1.2")
	require.NoError(t, err)
	assert.Equal(t, "Fixed\n-----\n\n- Launching missiles no longer targets ourselves.", e.Text())
}

func TestVersionNotFoundErrorWithoutVersions(t *testing.T) {
	t.Parallel()

	err := &VersionNotFoundError{Version: "1.0"}
	assert.Equal(t, `version "1.0" not found in the changelog`, err.Error())
}
