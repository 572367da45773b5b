package field

import "regexp"

// Extract runs the definition's pattern cascade over the candidate texts in
// order: every pattern is tried against the first candidate before any
// pattern sees the second, and the first match wins. A match returns its
// first capturing group when present, the whole match otherwise. When
// nothing matches anywhere the first candidate is returned raw, so a bound
// field is never silently blank.
func Extract(def Definition, candidates []string) string {
	if v := Match(def, candidates...); v != "" {
		return v
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// Match runs the cascade without the raw-text fallback, returning "" when no
// pattern matches any candidate.
func Match(def Definition, candidates ...string) string {
	for _, text := range candidates {
		if text == "" {
			continue
		}
		for _, re := range def.compiled {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if len(m) > 1 {
				return m[1]
			}
			return m[0]
		}
	}
	return ""
}

// ExtractWithPattern applies a single user-supplied pattern to the text,
// case-insensitively. A pattern that does not compile is treated as a
// non-match, never an error.
func ExtractWithPattern(text, pattern string) string {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}
