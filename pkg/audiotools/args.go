package audiotools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aviv90/audiokit/pkg/errorsx"
)

func requiredString(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", errorsx.Wrap(fmt.Errorf("missing required argument: %s", key), errorsx.ReasonBadArgs)
	}
	return strings.TrimSpace(value), nil
}

func optionalString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return strings.TrimSpace(value)
}

// stringSlice accepts both []string and the []any that json decoding yields.
func requiredStringSlice(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case []string:
		if len(v) == 0 {
			return nil, errorsx.Wrap(fmt.Errorf("empty argument: %s", key), errorsx.ReasonBadArgs)
		}
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, errorsx.Wrap(fmt.Errorf("argument %s must be a list of strings", key), errorsx.ReasonBadArgs)
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, errorsx.Wrap(fmt.Errorf("empty argument: %s", key), errorsx.ReasonBadArgs)
		}
		return out, nil
	default:
		return nil, errorsx.Wrap(fmt.Errorf("missing required argument: %s", key), errorsx.ReasonBadArgs)
	}
}

func jsonResult(fields map[string]any) (string, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
