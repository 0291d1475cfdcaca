package config

import (
	"slices"
)

// GetDefaults returns the default value of every setting.
func GetDefaults() map[string]any {
	defaults := make(map[string]any, len(KnownKeys))
	for name, schema := range KnownKeys {
		if list, ok := schema.Default.([]string); ok {
			defaults[name] = slices.Clone(list)
			continue
		}
		defaults[name] = schema.Default
	}
	return defaults
}

// Default returns the configuration with every setting at its default,
// already resolved.
func Default() *Config {
	return &Config{
		FragmentDirectory:   "changelog.d",
		Format:              "rst",
		Categories:          []string{"Removed", "Added", "Changed", "Deprecated", "Fixed", "Security"},
		OutputFile:          "CHANGELOG.rst",
		InsertMarker:        "scriv-insert-here",
		EndMarker:           "scriv-end-here",
		StartMarker:         "scriv-start-here",
		RstHeaderChars:      "=-",
		MdHeaderLevel:       1,
		MdHeaderAnchors:     true,
		NewFragmentTemplate: "file: new_fragment.${config:format}.tmpl",
		EntryTitleTemplate:  KnownKeys["entry_title_template"].Default.(string),
		MainBranches:        []string{"master", "main", "develop"},
		SkipFragments:       "README.*",
		GhrelTemplate:       "{{ .body }}",
	}
}

// GetDefaultConfigTemplate returns a commented setup.cfg section showing
// every setting at its default.
func GetDefaultConfigTemplate() string {
	return `[scriv]
# Directory for fragments (must exist)
fragment_directory = changelog.d
# rst | md
format = rst
# Category headings, in output order
categories = Removed, Added, Changed, Deprecated, Fixed, Security
output_file = CHANGELOG.${config:format}
insert_marker = scriv-insert-here
end_marker = scriv-end-here
start_marker = scriv-start-here
# rst: entry underline, then section underline
rst_header_chars = =-
# md: entry heading level (1-6)
md_header_level = 1
md_header_anchors = true
new_fragment_template = file: new_fragment.${config:format}.tmpl
entry_title_template = {{ if .version }}{{ .version }} — {{ end }}{{ date "2006-01-02" .date }}
# e.g. literal: pyproject.toml: project.version
version =
main_branches = master, main, develop
skip_fragments = README.*
recursive_fragments = false
ghrel_template = {{ .body }}
check_links = false
`
}
