// Package templates holds the built-in templates and renders templates with
// Go text/template plus the sprig function library.
package templates

import (
	"embed"
	"io/fs"
	"strings"
)

// TemplateFS embeds the default templates.
//
//go:embed *.tmpl
var TemplateFS embed.FS

// Names lists the embedded template file names.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(TemplateFS, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".tmpl") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Get returns an embedded template by file name.
func Get(name string) (string, bool) {
	data, err := TemplateFS.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}
