// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions is the function library available to recipe attributes.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"concat":   stdlib.ConcatFunc,
		"distinct": stdlib.DistinctFunc,
		"flatten":  stdlib.FlattenFunc,
		"format":   stdlib.FormatFunc,
		"join":     stdlib.JoinFunc,
		"lower":    stdlib.LowerFunc,
		"split":    stdlib.SplitFunc,
		"upper":    stdlib.UpperFunc,
	}
}

func newEvalContext(vars map[string]cty.Value) *hcl.EvalContext {
	ctx := &hcl.EvalContext{Functions: Functions()}
	if vars != nil {
		ctx.Variables = map[string]cty.Value{"var": cty.ObjectVal(vars)}
	}
	return ctx
}
