// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package render writes an evaluated build graph as a document that an
// underlying build engine consumes.
//
// The same Document is available as JSON, YAML and HCL. Every document carries
// a fresh evaluation id so engines can tell two evaluations of the same tree
// apart. Schema returns the JSON Schema of the document.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/install"
	"gopkg.in/yaml.v3"
)

// Format is an output format for documents.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, HCL}

var ErrFormat = errors.New("unsupported format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of json, yaml, hcl)", ErrFormat, s)
}

// Meta describes the environment a graph was evaluated in.
type Meta struct {
	SourceDir    string `json:"source_dir" yaml:"source_dir"`
	BuildDir     string `json:"build_dir" yaml:"build_dir"`
	Distribution string `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// Document is the serialized form of a build graph.
type Document struct {
	EvaluationID string           `json:"evaluation_id" yaml:"evaluation_id"`
	Meta         Meta             `json:"meta" yaml:"meta"`
	Artifacts    []graph.Artifact `json:"artifacts" yaml:"artifacts"`
	Docs         []graph.Doc      `json:"docs" yaml:"docs"`
	Actions      []graph.Action   `json:"actions" yaml:"actions"`
	InstallRules []install.Rule   `json:"install_rules" yaml:"install_rules"`
}

// NewDocument snapshots g under a new evaluation id.
func NewDocument(g *graph.Graph, meta Meta) *Document {
	return &Document{
		EvaluationID: uuid.NewString(),
		Meta:         meta,
		Artifacts:    g.Artifacts(),
		Docs:         g.Docs(),
		Actions:      g.Actions(),
		InstallRules: g.InstallRules(),
	}
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, format Format, doc *Document) error {
	switch format {
	case JSON:
		return writeJSON(w, doc)
	case YAML:
		return writeYAML(w, doc)
	case HCL:
		return writeHCL(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

func writeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON document: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML document: %w", err)
	}
	return enc.Close()
}
