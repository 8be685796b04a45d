package paths

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestBuildDirUnderCache(t *testing.T) {
	assert.Equal(t, filepath.Join(xdg.CacheHome, "artifactgrid"), Cache())
	assert.Equal(t, filepath.Join(Cache(), "build"), BuildDir())
}

func TestOSReleaseFiles(t *testing.T) {
	assert.Equal(t, "/etc/os-release", OSReleaseFiles()[0])
}
