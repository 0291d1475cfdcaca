package config

import (
	"fmt"
	"sort"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeList
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes one setting.
type ConfigKeySchema struct {
	Path          string          // Setting name as written in config files
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types
	Description   string          // Human-readable description for help text
	Default       any             // Default value
	// Resolved settings may use file:, literal: and command: prefixes.
	Resolved bool
}

// KnownKeys is the registry of all settings.
var KnownKeys = map[string]ConfigKeySchema{
	"fragment_directory": {
		Path:        "fragment_directory",
		Type:        TypeString,
		Description: "Directory for fragments; must exist, it is not created",
		Default:     "changelog.d",
		Resolved:    true,
	},
	"format": {
		Path:          "format",
		Type:          TypeEnum,
		AllowedValues: []string{"rst", "md"},
		Description:   "Format for fragments and the changelog file",
		Default:       "rst",
		Resolved:      true,
	},
	"categories": {
		Path:        "categories",
		Type:        TypeList,
		Description: "Category headings for changelog items, in output order",
		Default:     []string{"Removed", "Added", "Changed", "Deprecated", "Fixed", "Security"},
	},
	"output_file": {
		Path:        "output_file",
		Type:        TypeString,
		Description: "The changelog file updated by collect",
		Default:     "CHANGELOG.${config:format}",
		Resolved:    true,
	},
	"insert_marker": {
		Path:        "insert_marker",
		Type:        TypeString,
		Description: "Marker in the changelog after which new entries are inserted",
		Default:     "scriv-insert-here",
		Resolved:    true,
	},
	"end_marker": {
		Path:        "end_marker",
		Type:        TypeString,
		Description: "Marker in the changelog where the entries end",
		Default:     "scriv-end-here",
		Resolved:    true,
	},
	"start_marker": {
		Path:        "start_marker",
		Type:        TypeString,
		Description: "Marker in a fragment or entry before which text is ignored",
		Default:     "scriv-start-here",
		Resolved:    true,
	},
	"rst_header_chars": {
		Path:        "rst_header_chars",
		Type:        TypeString,
		Description: "Two underline characters for rst: entry headings, then sections",
		Default:     "=-",
		Resolved:    true,
	},
	"md_header_level": {
		Path:        "md_header_level",
		Type:        TypeInt,
		Description: "Markdown heading level for entries (1-6); sections are one deeper",
		Default:     1,
	},
	"md_header_anchors": {
		Path:        "md_header_anchors",
		Type:        TypeBool,
		Description: "Write an HTML anchor before each Markdown entry heading",
		Default:     true,
	},
	"new_fragment_template": {
		Path:        "new_fragment_template",
		Type:        TypeString,
		Description: "Template for new fragments",
		Default:     "file: new_fragment.${config:format}.tmpl",
		Resolved:    true,
	},
	"entry_title_template": {
		Path:        "entry_title_template",
		Type:        TypeString,
		Description: "Template for the heading of entries made by collect",
		Default:     `{{ if .version }}{{ .version }} — {{ end }}{{ date "2006-01-02" .date }}`,
		Resolved:    true,
	},
	"version": {
		Path:        "version",
		Type:        TypeString,
		Description: "Version for the next entry heading, often a literal: setting",
		Default:     "",
		Resolved:    true,
	},
	"main_branches": {
		Path:        "main_branches",
		Type:        TypeList,
		Description: "Branches not worth naming in new fragment file names",
		Default:     []string{"master", "main", "develop"},
	},
	"skip_fragments": {
		Path:        "skip_fragments",
		Type:        TypeString,
		Description: "Glob for files in the fragment directory that are not fragments",
		Default:     "README.*",
		Resolved:    true,
	},
	"recursive_fragments": {
		Path:        "recursive_fragments",
		Type:        TypeBool,
		Description: "Also collect fragments from subdirectories",
		Default:     false,
	},
	"ghrel_template": {
		Path:        "ghrel_template",
		Type:        TypeString,
		Description: "Template for GitHub release bodies; .body holds the entry text",
		Default:     "{{ .body }}",
		Resolved:    true,
	},
	"check_links": {
		Path:        "check_links",
		Type:        TypeBool,
		Description: "Check links in GitHub release bodies",
		Default:     false,
	},
}

// ErrUnknownKey is returned for a setting name that doesn't exist.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Key)
}

// GetKeySchema returns the schema of a setting.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the setting names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
