// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package install decides whether a registered artifact gets an install rule.
//
// Every artifact carries a component tag. The tag "private" marks artifacts
// that are built for internal use only; they stay in the build graph but never
// reach an install rule. The decision is made in exactly one place, Gate, so
// recipes never compare component strings themselves.
package install

import "fmt"

// PrivateComponent is the reserved component tag for build-only artifacts.
const PrivateComponent = "private"

// Policy is the install policy carried on every descriptor.
type Policy int

const (
	Installable Policy = iota
	Internal
)

// PolicyFor maps a component tag onto its install policy.
func PolicyFor(component string) Policy {
	if component == PrivateComponent {
		return Internal
	}
	return Installable
}

func (p Policy) String() string {
	switch p {
	case Installable:
		return "installable"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// MarshalText lets the policy appear by name in rendered graph documents.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// SubjectKind tells the engine how to interpret the subjects of a rule.
type SubjectKind string

const (
	Targets   SubjectKind = "targets"
	Files     SubjectKind = "files"
	Directory SubjectKind = "directory"
)

// Rule maps built subjects to an installation destination.
type Rule struct {
	Kind        SubjectKind `json:"kind" yaml:"kind"`
	Subjects    []string    `json:"subjects" yaml:"subjects"`
	Destination string      `json:"destination" yaml:"destination"`
	Component   string      `json:"component" yaml:"component"`
}

// Sink receives install rules.
type Sink interface {
	AddInstallRule(rule Rule) error
}

// Gate emits rule into sink unless policy is Internal. It reports whether the
// rule was emitted.
func Gate(sink Sink, policy Policy, rule Rule) (bool, error) {
	if policy == Internal {
		return false, nil
	}
	if err := sink.AddInstallRule(rule); err != nil {
		return false, err
	}
	return true, nil
}
