// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package recipe

import (
	"path/filepath"
	"strings"
)

// Installation layout and defaults shared by every recipe.
const (
	LibraryDir    = "lib64"
	BinaryDir     = "bin"
	SharedVersion = "1.7"

	DefaultLibraryComponent = "devel"
	DefaultRuntimeComponent = "runtime"

	// RuntimeSupportLibrary is linked into executables that link anything.
	RuntimeSupportLibrary = "pthread"
)

// Documentation renderers.
const (
	SiteRenderer     = "mkdocs"
	SiteDefinition   = "mkdocs.yml"
	SitePages        = "docs"
	SiteMarker       = "index.html"
	DocumentRenderer = "pandoc"
)

var (
	commonDocumentFlags = []string{"--toc", "--smart", "--standalone"}
	pdfGeometryFlags    = []string{"-V", "geometry:margin=1in"}
)

// Locales for the site renderer.
const (
	LegacyLocale  = "en_US.utf8"
	DefaultLocale = "en_US.UTF-8"
)

// legacyDistributions only ship the lower-case locale spelling.
var legacyDistributions = map[string]struct{}{
	"el6":     {},
	"rhel6":   {},
	"centos6": {},
	"sles11":  {},
}

// Locale selects the site renderer locale for a distribution id.
func Locale(distribution string) string {
	if _, ok := legacyDistributions[strings.ToLower(distribution)]; ok {
		return LegacyLocale
	}
	return DefaultLocale
}

func staticLibraryFile(output string) string { return "lib" + output + ".a" }
func sharedLibraryFile(output string) string { return "lib" + output + ".so" }

func sharedRuntimeName(output string) string {
	return sharedLibraryFile(output) + "." + SharedVersion
}

// buildArea is the per-bundle working directory inside the build dir.
func (e Env) buildArea(name string, elem ...string) string {
	return filepath.Join(append([]string{e.BuildDir, name}, elem...)...)
}
