// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// writeHCL emits one labelled block per artifact, doc and action and one
// unlabelled install block per rule. Attribute values are the JSON encoding
// of each entry read back as cty values, so the HCL and JSON documents never
// disagree on field names.
func writeHCL(w io.Writer, doc *Document) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("evaluation_id", cty.StringVal(doc.EvaluationID))
	if err := setAttributes(body.AppendNewBlock("meta", nil).Body(), doc.Meta); err != nil {
		return err
	}

	for _, a := range doc.Artifacts {
		body.AppendNewline()
		if err := setAttributes(body.AppendNewBlock("artifact", []string{a.Name}).Body(), a, "name"); err != nil {
			return err
		}
	}
	for _, d := range doc.Docs {
		body.AppendNewline()
		if err := setAttributes(body.AppendNewBlock("doc", []string{d.Name}).Body(), d, "name"); err != nil {
			return err
		}
	}
	for _, a := range doc.Actions {
		body.AppendNewline()
		if err := setAttributes(body.AppendNewBlock("action", []string{a.Name}).Body(), a, "name"); err != nil {
			return err
		}
	}
	for _, r := range doc.InstallRules {
		body.AppendNewline()
		if err := setAttributes(body.AppendNewBlock("install", nil).Body(), r); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write HCL document: %w", err)
	}
	return nil
}

func setAttributes(body *hclwrite.Body, v any, skip ...string) error {
	val, err := toCty(v)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(val.Type().AttributeTypes()))
	for name := range val.Type().AttributeTypes() {
		names = append(names, name)
	}
	sort.Strings(names)

outer:
	for _, name := range names {
		for _, s := range skip {
			if name == s {
				continue outer
			}
		}
		attr := val.GetAttr(name)
		if attr.IsNull() {
			continue
		}
		body.SetAttributeValue(name, attr)
	}
	return nil
}

func toCty(v any) (cty.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to infer type of %T: %w", v, err)
	}
	val, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to convert %T: %w", v, err)
	}
	return val, nil
}
