package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknownKey is returned for keys that were never registered.
var ErrUnknownKey = errors.New("unknown key")

// Parse converts raw command line values to the type of the key's default
// and checks them against the key's constraints.
func Parse(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: value is required", k)
	}

	first := raw[0]
	switch field.Value.(type) {
	case string:
		if len(field.Choices) > 0 && !lo.Contains(field.Choices, first) {
			return nil, fmt.Errorf("%s: %q is not one of %s", k, first, strings.Join(field.Choices, ", "))
		}
		return first, nil
	case int:
		n, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer: %s", k, first)
		}
		if floor, ok := field.Min.Get(); ok && n < floor {
			return nil, fmt.Errorf("%s: must be at least %d", k, floor)
		}
		return n, nil
	case float64:
		f, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number: %s", k, first)
		}
		if f <= 0 {
			return nil, fmt.Errorf("%s: must be positive", k)
		}
		return f, nil
	case bool:
		b, err := strconv.ParseBool(first)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean: %s", k, first)
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", k, field.Value)
	}
}
