// Package paths resolves the default on-disk locations used by artifactgrid.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory naming.
	appName = "artifactgrid"
)

// Path to the per-user cache directory.
//
//	Linux:   $XDG_CACHE_HOME/artifactgrid or ~/.cache/artifactgrid
//	macOS:   ~/Library/Caches/artifactgrid
func Cache() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// Default build area for staged sources and rendered documentation.
//
//	Linux:   $XDG_CACHE_HOME/artifactgrid/build
//	macOS:   ~/Library/Caches/artifactgrid/build
func BuildDir() string {
	return filepath.Join(Cache(), "build")
}

// Files consulted, in order, to identify the running distribution.
func OSReleaseFiles() []string {
	return []string{"/etc/os-release", "/usr/lib/os-release"}
}
