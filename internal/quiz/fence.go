package quiz

import "strings"

// stripFence removes an optional leading code-fence line and an optional
// trailing fence from a model response. Models wrap JSON in fences often
// enough that decoding without this step fails spuriously.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line (which may carry a language tag).
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}

	// Drop everything from the last closing fence on.
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
