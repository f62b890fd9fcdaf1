package tools

import (
	"fmt"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
)

// validationErr builds a VALIDATION_ERROR keyed on the offending field, so
// every input-parsing failure across the seventeen handlers looks the same
// to the LLM and to the stream client.
func validationErr(field, reason string) *ideaerrors.Error {
	return ideaerrors.New(ideaerrors.CodeValidationError, fmt.Sprintf("%s %s", field, reason)).
		WithDebug("field", field)
}

func reqString(input map[string]any, key string) (string, *ideaerrors.Error) {
	v, ok := input[key]
	if !ok {
		return "", validationErr(key, "is required")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", validationErr(key, "must be a non-empty string")
	}
	return s, nil
}

func optString(input map[string]any, key string) string {
	v, ok := input[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func reqStringSlice(input map[string]any, key string) ([]string, *ideaerrors.Error) {
	v, ok := input[key]
	if !ok {
		return nil, validationErr(key, "is required")
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, validationErr(key, "must be an array of strings")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, validationErr(key, "must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func optStringSlice(input map[string]any, key string) []string {
	v, ok := input[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func reqFloat(input map[string]any, key string) (float64, *ideaerrors.Error) {
	v, ok := input[key]
	if !ok {
		return 0, validationErr(key, "is required")
	}
	f, ok := v.(float64)
	if !ok {
		return 0, validationErr(key, "must be a number")
	}
	return f, nil
}

func optFloat(input map[string]any, key string) *float64 {
	v, ok := input[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func reqInt(input map[string]any, key string) (int, *ideaerrors.Error) {
	f, err := reqFloat(input, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func optBool(input map[string]any, key string) bool {
	v, ok := input[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
