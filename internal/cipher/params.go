package cipher

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// textRunes splits input into code points. Invalid UTF-8 is rejected
// rather than silently replaced.
func textRunes(op string, input []byte) ([]rune, error) {
	runes := make([]rune, 0, utf8.RuneCount(input))
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, domainError(op, len(runes), utf8.RuneError, "invalid UTF-8")
		}
		runes = append(runes, r)
		i += size
	}
	return runes, nil
}

// Params arrive from Go callers, from JSON bodies and from CLI flags, so
// numbers may be int, float64, json.Number or string.

func intParam(op string, params map[string]interface{}, name string) (int, error) {
	v, ok, err := optionalIntParam(op, params, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, paramErrorf(op, name, "required")
	}
	return v, nil
}

func optionalIntParam(op string, params map[string]interface{}, name string) (int, bool, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, err := toInt(raw)
	if err != nil {
		return 0, false, paramErrorf(op, name, "%v", err)
	}
	return v, true, nil
}

func intSliceParam(op string, params map[string]interface{}, name string) ([]int, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return nil, paramErrorf(op, name, "required")
	}

	switch v := raw.(type) {
	case []int:
		return v, nil
	case []interface{}:
		out := make([]int, len(v))
		for i, item := range v {
			n, err := toInt(item)
			if err != nil {
				return nil, paramErrorf(op, name, "element %d: %v", i, err)
			}
			out[i] = n
		}
		return out, nil
	case []float64:
		out := make([]int, len(v))
		for i, item := range v {
			n, err := toInt(item)
			if err != nil {
				return nil, paramErrorf(op, name, "element %d: %v", i, err)
			}
			out[i] = n
		}
		return out, nil
	case string:
		fields := strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '[' || r == ']'
		})
		out := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, paramErrorf(op, name, "element %d: %q is not an integer", i, f)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, paramErrorf(op, name, "expected a list of integers, got %T", raw)
	}
}

func toInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int", v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}
