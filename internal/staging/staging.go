// Package staging copies documentation sources into the build output area.
//
// Patterns are evaluated against a source root. Every matched file lands at
// the same relative path under the destination root. A file whose content
// already matches the destination is left alone, so repeated builds only
// touch what changed. A pattern that matches nothing is not an error.
package staging

import (
	"context"
	_ "crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/opencontainers/go-digest"
	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
)

var ErrStage = errors.New("staging failed")

// Result lists the relative paths handled by one Stage call.
type Result struct {
	Copied    []string
	Unchanged []string
}

// Resolve expands the patterns against srcRoot and returns the sorted,
// de-duplicated relative paths of every regular file they match. A pattern
// that matches a directory contributes every file beneath it.
func Resolve(ctx context.Context, srcRoot string, patterns []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	seen := make(map[string]struct{})
	var files []string

	add := func(abs string) error {
		rel, err := filepath.Rel(srcRoot, abs)
		if err != nil {
			return err
		}
		if _, ok := seen[rel]; !ok {
			seen[rel] = struct{}{}
			files = append(files, rel)
		}
		return nil
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(srcRoot, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", ErrStage, pattern, err)
		}
		if len(matches) == 0 {
			logger.Debug("Staging pattern matched no files.", "pattern", pattern, "source_root", srcRoot)
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrStage, err)
			}
			if !info.IsDir() {
				if err := add(m); err != nil {
					return nil, err
				}
				continue
			}
			err = filepath.WalkDir(m, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.Type().IsRegular() {
					return add(p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrStage, err)
			}
		}
	}

	slices.Sort(files)
	return files, nil
}

// Stage copies every file matched by patterns from srcRoot to destRoot.
func Stage(ctx context.Context, srcRoot, destRoot string, patterns []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := Resolve(ctx, srcRoot, patterns)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := filepath.Join(srcRoot, rel)
		dst := filepath.Join(destRoot, rel)

		same, err := sameContent(src, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: compare %s: %w", ErrStage, rel, err)
		}
		if same {
			res.Unchanged = append(res.Unchanged, rel)
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("%w: copy %s: %w", ErrStage, rel, err)
		}
		res.Copied = append(res.Copied, rel)
	}

	logger.Debug("Staging finished.", "source_root", srcRoot, "destination", destRoot,
		"copied", len(res.Copied), "unchanged", len(res.Unchanged))
	return res, nil
}

// sameContent reports whether dst exists with the same bytes as src.
func sameContent(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if !dstInfo.Mode().IsRegular() || srcInfo.Size() != dstInfo.Size() {
		return false, nil
	}

	srcDigest, err := fileDigest(src)
	if err != nil {
		return false, err
	}
	dstDigest, err := fileDigest(dst)
	if err != nil {
		return false, err
	}
	return srcDigest == dstDigest, nil
}

func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest.Canonical.FromReader(f)
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
