package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// matchAttribute compares a product attribute value against one filter.
// A filter object with min or max is a numeric range, any other object or a
// list is a set of allowed values, and a scalar is a loose equality.
func matchAttribute(value, filter any) (bool, error) {
	switch f := filter.(type) {
	case map[string]any:
		minV, hasMin := f["min"]
		maxV, hasMax := f["max"]
		hasMin = hasMin && minV != nil
		hasMax = hasMax && maxV != nil

		if hasMin || hasMax {
			return matchRange(value, minV, maxV, hasMin, hasMax)
		}

		allowed := make([]any, 0, len(f))
		for _, v := range f {
			allowed = append(allowed, v)
		}
		return matchSet(value, allowed), nil

	case []any:
		return matchSet(value, f), nil

	default:
		return looseEqual(value, f), nil
	}
}

func matchRange(value, minV, maxV any, hasMin, hasMax bool) (bool, error) {
	n, err := toFloat(value)
	if err != nil {
		return false, err
	}

	if hasMin {
		lo, err := toFloat(minV)
		if err != nil {
			return false, fmt.Errorf("range min: %w", err)
		}
		if n < lo {
			return false, nil
		}
	}

	if hasMax {
		hi, err := toFloat(maxV)
		if err != nil {
			return false, fmt.Errorf("range max: %w", err)
		}
		if n > hi {
			return false, nil
		}
	}

	return true, nil
}

func matchSet(value any, allowed []any) bool {
	for _, a := range allowed {
		if looseEqual(value, a) {
			return true
		}
	}
	return false
}

// looseEqual compares numerically when both sides are numbers, otherwise as
// strings. Booleans compare as "1" and "0", nil as "".
func looseEqual(a, b any) bool {
	as, bs := scalarString(a), scalarString(b)

	af, aErr := strconv.ParseFloat(as, 64)
	bf, bErr := strconv.ParseFloat(bs, 64)
	if aErr == nil && bErr == nil {
		return af == bf
	}

	return as == bs
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// toFloat converts an attribute or bound to a number. nil counts as zero.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
