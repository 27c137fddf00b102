package template

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/expr"
)

// deepMerge returns base overlaid with override. Nested maps merge
// recursively; any other collision is won by the override. Inputs are
// never mutated.
func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = deepCopyValue(v)
	}
	for k, v := range override {
		if existing, ok := out[k].(map[string]any); ok {
			if incoming, ok := v.(map[string]any); ok {
				out[k] = deepMerge(existing, incoming)
				continue
			}
		}
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	return deepMerge(m, nil)
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// expandValue walks the merged configuration and evaluates placeholder
// expressions in string values. A string that is exactly one placeholder
// becomes a decimal; strings with embedded placeholders stay strings.
func expandValue(v any, bindings expr.Bindings) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ev, err := expandValue(e, bindings)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ev, err := expandValue(e, bindings)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case string:
		if !expr.HasPlaceholder(t) {
			return t, nil
		}
		if inner, ok := wholePlaceholder(t); ok {
			return expr.Eval(inner, bindings)
		}
		return expr.ExpandString(t, bindings)
	default:
		return v, nil
	}
}

// wholePlaceholder reports whether s is a single {{ ... }} with nothing
// around it, returning the inner expression.
func wholePlaceholder(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 4 || trimmed[:2] != "{{" || trimmed[len(trimmed)-2:] != "}}" {
		return "", false
	}
	inner := trimmed[2 : len(trimmed)-2]
	// an embedded "}}" would mean two placeholders, not one
	if strings.Contains(inner, "}}") {
		return "", false
	}
	return inner, true
}

// bindingsFrom converts the numeric phase parameters into expression
// bindings. The plan year is bound as "year" unless the phase supplies
// its own.
func bindingsFrom(phaseParams map[string]any, year int) expr.Bindings {
	b := make(expr.Bindings, len(phaseParams)+1)
	for k, v := range phaseParams {
		if d, ok := toDecimal(v); ok {
			b[k] = d
		}
	}
	if _, ok := b["year"]; !ok {
		b["year"] = decimal.NewFromInt(int64(year))
	}
	return b
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case float64:
		return decimal.NewFromFloat(t), true
	case decimal.Decimal:
		return t, true
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
