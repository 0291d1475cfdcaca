// Package iniparser is a koanf parser for INI files in the style of
// setup.cfg and tox.ini.
package iniparser

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
	"gopkg.in/ini.v1"
)

// INI implements koanf.Parser.
type INI struct{}

var _ koanf.Parser = (*INI)(nil)

// Parser returns an INI parser.
func Parser() *INI {
	return &INI{}
}

// Unmarshal parses INI bytes into nested maps. Dotted section names such as
// [tool.scriv] become nested tables, matching how TOML reads them. Values are
// always strings; indented continuation lines are joined with newlines.
func (p *INI) Unmarshal(b []byte) (map[string]any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
		PreserveSurroundedQuote:    true,
		InsensitiveKeys:            true,
	}, b)
	if err != nil {
		return nil, fmt.Errorf("parsing ini: %w", err)
	}

	out := make(map[string]any)
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		table := out
		for _, part := range strings.Split(sec.Name(), ".") {
			next, ok := table[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				table[part] = next
			}
			table = next
		}
		for _, key := range sec.Keys() {
			table[key.Name()] = key.Value()
		}
	}
	return out, nil
}

// Marshal is not supported.
func (p *INI) Marshal(map[string]any) ([]byte, error) {
	return nil, fmt.Errorf("ini marshalling is not supported")
}
