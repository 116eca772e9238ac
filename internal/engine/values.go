package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/tableschema/metaschema"
)

// JSON kinds reported by KindOf.
const (
	KindObject  = "object"
	KindArray   = "array"
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
	KindNull    = "null"
)

// KindOf classifies a decoded JSON/YAML value. Integral numbers report
// KindInteger. Unsupported Go types report their Go type name.
func KindOf(v any) string {
	switch t := v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any, []string:
		return KindArray
	case string:
		return KindString
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32:
		return floatKind(float64(t))
	case float64:
		return floatKind(t)
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return KindInteger
		}
		f, err := t.Float64()
		if err != nil {
			return KindNumber
		}
		return floatKind(f)
	default:
		return fmt.Sprintf("%T", v)
	}
}

func floatKind(f float64) string {
	if !math.IsInf(f, 0) && f == math.Trunc(f) {
		return KindInteger
	}
	return KindNumber
}

// AsObject returns v as a JSON object.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsArray returns v as a JSON array. []string is accepted for callers that
// build documents by hand.
func AsArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func matchesType(types metaschema.TypeList, v any) bool {
	k := KindOf(v)
	for _, t := range types {
		if t == k || (t == KindNumber && k == KindInteger) {
			return true
		}
	}
	return false
}

func enumContains(enum []any, v any) bool {
	for _, e := range enum {
		if jsonEqual(e, v) {
			return true
		}
	}
	return false
}

func jsonEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case nil:
		return b == nil
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}

func render(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprint(t)
	}
}

func joinEnum(enum []any) string {
	parts := make([]string, len(enum))
	for i, e := range enum {
		parts[i] = render(e)
	}
	return strings.Join(parts, ", ")
}
