package hcladapter

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder often populates optional fields with non-nil, zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// definedOrNil returns expr when it was written in the source, nil otherwise.
func definedOrNil(ctx context.Context, expr hcl.Expression, attrName string) hcl.Expression {
	if isExprDefined(ctx, expr, attrName) {
		return expr
	}
	return nil
}

// literalValue evaluates expr without any variables or functions. ok is
// false when expr is not a literal.
func literalValue(expr hcl.Expression) (cty.Value, bool) {
	if expr == nil || len(expr.Variables()) > 0 {
		return cty.NilVal, false
	}
	if _, isCall := expr.(*hclsyntax.FunctionCallExpr); isCall {
		return cty.NilVal, false
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || !val.IsWhollyKnown() || val.IsNull() {
		return cty.NilVal, false
	}
	return val, true
}

// bodyRange returns the source range of a decoded block body.
func bodyRange(body hcl.Body) hcl.Range {
	if body == nil {
		return hcl.Range{}
	}
	if sb, ok := body.(*hclsyntax.Body); ok {
		return sb.SrcRange
	}
	return body.MissingItemRange()
}
