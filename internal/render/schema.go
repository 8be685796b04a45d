// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package render

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/specialistvlad/artifactgrid/internal/install"
)

// SchemaID is the $id of the document schema.
const SchemaID = "https://github.com/specialistvlad/artifactgrid/schema/graph.json"

// Schema returns the JSON Schema of Document, indented.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(install.Policy(0)) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{install.Installable.String(), install.Internal.String()},
				}
			}
			return nil
		},
	}
	s := r.Reflect(&Document{})
	s.ID = SchemaID
	s.Title = "artifactgrid build graph"

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return out, nil
}
