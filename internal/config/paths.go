package config

import (
	"path/filepath"
)

// Config files read in order; later files override earlier ones.
const (
	SetupCfgFile  = "setup.cfg"
	ToxIniFile    = "tox.ini"
	PyprojectFile = "pyproject.toml"
	ScrivIniFile  = "scriv.ini"
)

// SectionNames are the config sections read from INI files, first found wins.
var SectionNames = []string{"scriv", "tool.scriv"}

// EnvPrefix prefixes environment variables that override settings.
const EnvPrefix = "SCRIV_"

// ScrivIniPath returns the path of scriv.ini inside the fragment directory.
func ScrivIniPath(fragmentDir string) string {
	return filepath.Join(fragmentDir, ScrivIniFile)
}
