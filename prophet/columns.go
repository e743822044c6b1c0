package prophet

import (
	"strconv"
	"strings"
)

func resolveColumn(header []string, ref string) (int, error) {
	if ref == "" || strings.TrimSpace(ref) == "" {
		return -1, configErrorf("empty column reference")
	}
	for i, col := range header {
		if col == ref {
			return i, nil
		}
	}
	trimmed := strings.TrimSpace(ref)
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), trimmed) {
			return i, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, err
		}
		if idx >= len(header) {
			return -1, configErrorf("column index %s is out of range", trimmed)
		}
		return idx, nil
	}
	return -1, configErrorf("column %q not found", ref)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, configErrorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, configErrorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, configErrorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

// missingColumns returns the refs that do not resolve against header.
func missingColumns(header []string, fields []FieldWeight) []string {
	var missing []string
	for _, f := range fields {
		if _, err := resolveColumn(header, f.Name); err != nil {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// columnName returns the trimmed header name ref resolves to, or "" when it
// does not resolve.
func columnName(header []string, ref string) string {
	idx, err := resolveColumn(header, ref)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(header[idx])
}
