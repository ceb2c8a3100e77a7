package httpmetrics

import (
	"regexp"
	"strings"
)

var uuidRegex = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// NormalizePath collapses resource ids so metric labels stay low-cardinality.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	normalized := uuidRegex.ReplaceAllString(path, "{id}")

	parts := strings.Split(normalized, "/")
	for i, part := range parts {
		if part != "" && isNumeric(part) {
			parts[i] = "{id}"
		}
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
