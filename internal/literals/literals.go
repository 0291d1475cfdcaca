// Package literals reads string values out of source and settings files, so a
// setting like "literal: pyproject.toml: project.version" can name its value.
package literals

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/ariel-frischer/scriv/internal/config/iniparser"
	"github.com/ariel-frischer/scriv/internal/config/provider"
)

// UnsupportedFileError is returned for files literals can't be read from.
type UnsupportedFileError struct {
	Path string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("can't read literals from files like %q", e.Path)
}

// Find looks in the file at path for a string value called name.
// Dotted names walk nested tables in structured files. It returns
// ("", false, nil) when the value is missing or is not a string.
func Find(fsys afero.Fs, path, name string) (string, bool, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		v, ok := findPython(string(data), name)
		return v, ok, nil
	case ".cabal":
		v, ok := findCabal(string(data), name)
		return v, ok, nil
	case ".toml":
		return findNested(data, toml.Parser(), path, name)
	case ".yml", ".yaml":
		return findNested(data, yaml.Parser(), path, name)
	case ".json":
		return findNested(data, json.Parser(), path, name)
	case ".cfg", ".ini":
		return findNested(data, iniparser.Parser(), path, name)
	default:
		return "", false, &UnsupportedFileError{Path: path}
	}
}

func findNested(data []byte, p koanf.Parser, path, name string) (string, bool, error) {
	k := koanf.New(".")
	if err := k.Load(provider.Bytes(data), p); err != nil {
		return "", false, fmt.Errorf("parsing %s: %w", path, err)
	}
	v, ok := k.Get(name).(string)
	return v, ok, nil
}

// pyAssign matches a module-level string assignment, optionally annotated:
// __version__ = "1.2.3" or VERSION: str = '1.2.3'.
var pyAssign = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::[^=]+)?=\s*(?:[rRuU]?)("[^"\\]*"|'[^'\\]*')\s*(?:#.*)?$`)

// findPython returns the last plain string assigned to name.
func findPython(src, name string) (string, bool) {
	var (
		value string
		found bool
	)
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		m := pyAssign.FindStringSubmatch(sc.Text())
		if m == nil || m[1] != name {
			continue
		}
		value, found = m[2][1:len(m[2])-1], true
	}
	return value, found
}

// findCabal reads a "name: value" field.
func findCabal(src, name string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, name+":") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, name+":"))
		if len(fields) == 0 {
			return "", false
		}
		return fields[0], true
	}
	return "", false
}
