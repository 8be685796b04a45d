// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package argschema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissing = errors.New("missing required parameter")
	ErrUnknown = errors.New("unknown parameter")
	ErrTooMany = errors.New("several values for single-valued parameter")
)

// Error reports every schema violation of a single recipe invocation.
type Error struct {
	Recipe  string
	Missing []string // required parameters left empty, in schema order
	Unknown []string // undeclared names or unparsed tokens, in input order
	TooMany []string // single-valued parameters bound to several values
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", ErrMissing, strings.Join(e.Missing, ", ")))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", ErrUnknown, strings.Join(e.Unknown, ", ")))
	}
	if len(e.TooMany) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", ErrTooMany, strings.Join(e.TooMany, ", ")))
	}
	return fmt.Sprintf("recipe %s: %s", e.Recipe, strings.Join(parts, "; "))
}

// Is matches ErrMissing, ErrUnknown and ErrTooMany depending on which violations were found.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissing:
		return len(e.Missing) > 0
	case ErrUnknown:
		return len(e.Unknown) > 0
	case ErrTooMany:
		return len(e.TooMany) > 0
	}
	return false
}

func (e *Error) empty() bool {
	return len(e.Missing) == 0 && len(e.Unknown) == 0 && len(e.TooMany) == 0
}
