// Package paths provides centralized path handling for assetpack.
// It resolves the XDG locations used for logs and user configuration
// and normalizes asset paths as they appear in filesets.
package paths

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvStateDir overrides the XDG state directory for assetpack
	EnvStateDir = "ASSETPACK_STATE_DIR"

	// EnvConfigDir overrides the XDG config directory for assetpack
	EnvConfigDir = "ASSETPACK_CONFIG_DIR"
)

const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "assetpack"

	// LogFileName is the name of the log file
	LogFileName = "assetpack.log"

	// UserConfigFile is the name of the per-user configuration file
	UserConfigFile = "config.toml"
)

// ProjectConfigFiles lists the project configuration file names, in lookup order
var ProjectConfigFiles = []string{
	"assets.toml",
	"assets.yaml",
	"assets.yml",
	"assets.json",
	"assets.jsonc",
}

// StateDir returns the directory holding assetpack's state (logs)
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	xdg.Reload()
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigDir returns the directory holding the user configuration
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// LogFilePath returns the path of the log file
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// UserConfigPath returns the path of the per-user configuration file
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}

// FindProjectConfig returns the first project configuration file found in dir,
// or an empty string.
func FindProjectConfig(dir string) string {
	for _, name := range ProjectConfigFiles {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Normalize makes an asset path absolute in URL space: "js/app.js" -> "/js/app.js".
func Normalize(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// FirstSegment returns the top-level directory of an asset path, or "" for
// files that live at the root: "/css/app.css" -> "css", "/app.css" -> "".
func FirstSegment(p string) string {
	p = strings.TrimPrefix(Normalize(p), "/")
	idx := strings.Index(p, "/")
	if idx <= 0 {
		return ""
	}
	return p[:idx]
}

// Ext returns the extension of an asset path without the leading dot
func Ext(p string) string {
	return strings.TrimPrefix(path.Ext(p), ".")
}

// Join resolves an asset path against a base directory on disk
func Join(base, asset string) string {
	return filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(asset, "/")))
}
