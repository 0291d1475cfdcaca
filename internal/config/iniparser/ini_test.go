package iniparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	src := `[metadata]
name = proj
version = 1.2.3

[tool.scriv]
format = md
categories =
    Added
    Fixed
entry_title_template = {{ .version }} # kept
Output_File = "CHANGES.md"
`
	got, err := Parser().Unmarshal([]byte(src))
	require.NoError(t, err)

	meta := got["metadata"].(map[string]any)
	assert.Equal(t, "1.2.3", meta["version"])

	scriv := got["tool"].(map[string]any)["scriv"].(map[string]any)
	assert.Equal(t, "md", scriv["format"])
	assert.Contains(t, scriv["categories"], "Added")
	assert.Contains(t, scriv["categories"], "Fixed")
	assert.Equal(t, "{{ .version }} # kept", scriv["entry_title_template"])
	assert.Equal(t, `"CHANGES.md"`, scriv["output_file"])
}

func TestUnmarshalError(t *testing.T) {
	t.Parallel()

	_, err := Parser().Unmarshal([]byte("[unterminated\nkey = value\n"))
	assert.Error(t, err)

	_, err = Parser().Marshal(nil)
	assert.Error(t, err)
}
