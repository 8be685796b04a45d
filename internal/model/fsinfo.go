// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
//
// Why store the file path?
//
// The file path connects a parsed block back to its physical source on disk.
// Schema violations are reported long after parsing, by the recipe evaluator,
// and the path and line are the only way to tell the user which declaration
// is wrong when recipes are spread across many files.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

type FSInfo struct {
	FilePath string
	Line     int
}

func NewFSInfo(filePath string, rng hcl.Range) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
		Line:     rng.Start.Line,
	}
}

// String renders the location as path:line.
func (f *FSInfo) String() string {
	if f == nil {
		return ""
	}
	if f.Line == 0 {
		return f.FilePath
	}
	return fmt.Sprintf("%s:%d", f.FilePath, f.Line)
}
