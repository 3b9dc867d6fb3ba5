package tags

import "strings"

func splitAny(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n'
	})
}

// Parse splits free text on comma, pipe or newline, trims each part, drops
// empties and de-duplicates case-insensitively while preserving the first-seen
// casing and order.
func Parse(input string) []string {
	parts := splitAny(input)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Join renders a tag list back into editable form text.
func Join(list []string) string {
	return strings.Join(list, ", ")
}

// MatchName reports whether the query is a case-insensitive substring of
// either text field. An empty query matches everything.
func MatchName(query, primary, secondary string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(primary), q) ||
		strings.Contains(strings.ToLower(secondary), q)
}

// MatchTags reports whether every comma-parsed needle in query is a
// case-insensitive substring of at least one tag. An empty query matches
// everything.
func MatchTags(query string, list []string) bool {
	needles := Parse(query)
	if len(needles) == 0 {
		return true
	}
	for _, needle := range needles {
		n := strings.ToLower(needle)
		found := false
		for _, tag := range list {
			if strings.Contains(strings.ToLower(tag), n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
