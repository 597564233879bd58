package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/teemow/groupsmcp/internal/directory"
)

const reasonEmpty = "can't be empty"

// RequireString returns a required, non-empty string argument.
func RequireString(args map[string]any, name string) (string, error) {
	value, present, err := OptionalString(args, name)
	if err != nil {
		return "", err
	}
	if !present || value == "" {
		return "", directory.NewInvalidArgument(name, reasonEmpty)
	}
	return value, nil
}

// OptionalString returns an optional string argument. present is false when
// the argument is absent or null, and true for an explicit empty string.
func OptionalString(args map[string]any, name string) (value string, present bool, err error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, directory.NewInvalidArgument(name, "must be a string")
	}
	return s, true, nil
}

// StringOrDefault returns the argument, or def when it is absent or empty.
func StringOrDefault(args map[string]any, name, def string) (string, error) {
	value, _, err := OptionalString(args, name)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}

// MaxResults reads a page size argument. Absent means DefaultMaxResults.
// The value must be an integer in [MinMaxResults, MaxMaxResults].
func MaxResults(args map[string]any, name string) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return directory.DefaultMaxResults, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, directory.NewInvalidArgument(name, "must be an integer")
		}
		f = parsed
	default:
		return 0, directory.NewInvalidArgument(name, "must be an integer")
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, directory.NewInvalidArgument(name, "must be an integer")
	}
	if f < directory.MinMaxResults || f > directory.MaxMaxResults {
		return 0, directory.NewInvalidArgument(name,
			fmt.Sprintf("must be between %d and %d, got %v", directory.MinMaxResults, directory.MaxMaxResults, f))
	}
	return int64(f), nil
}

// Role reads a member role. An absent role yields def, or an
// InvalidArgumentError when required is set.
func Role(args map[string]any, name string, def directory.Role, required bool) (directory.Role, error) {
	value, present, err := OptionalString(args, name)
	if err != nil {
		return "", err
	}
	if !present || value == "" {
		if required {
			return "", directory.NewInvalidArgument(name, reasonEmpty)
		}
		return def, nil
	}
	role, err := directory.ParseRole(value)
	if err != nil {
		return "", directory.NewInvalidArgument(name,
			fmt.Sprintf("must be one of %s, got %q", strings.Join(directory.RoleNames(), ", "), value))
	}
	return role, nil
}
