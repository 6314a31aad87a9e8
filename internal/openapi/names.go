package openapi

import (
	"strings"
)

// parsePathSegments splits a path into its non-empty segments.
func parsePathSegments(path string) []string {
	path = strings.Trim(path, "/")

	if path == "" {
		return []string{}
	}

	segments := strings.Split(path, "/")

	filtered := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" {
			filtered = append(filtered, seg)
		}
	}

	return filtered
}

// toCommandName converts a string to a kebab-case literal name.
func toCommandName(s string) string {
	s = strings.TrimSpace(s)

	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")

	s = camelToKebab(s)

	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")

	return strings.ToLower(s)
}

// camelToKebab converts camelCase to kebab-case. Runs of capitals stay
// together, so "getAPIKey" becomes "get-APIKey".
func camelToKebab(s string) string {
	var result strings.Builder
	prevWasUpper := false
	for i, r := range s {
		isUpper := r >= 'A' && r <= 'Z'
		if i > 0 && isUpper && !prevWasUpper && !strings.HasSuffix(result.String(), "-") {
			result.WriteRune('-')
		}
		result.WriteRune(r)
		prevWasUpper = isUpper
	}
	return result.String()
}
