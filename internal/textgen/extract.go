package textgen

import "strings"

// ExtractJSONObject returns the greedy first-{ to last-} substring of a
// model reply. Generation output is untrusted: replies often wrap the JSON
// in prose or markdown fences, so callers decode the extracted span and
// validate field by field.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
