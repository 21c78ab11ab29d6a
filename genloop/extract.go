package genloop

import "strings"

// StripCodeFences extracts program source from a completion that may wrap it
// in a markdown code fence. When a fenced block is present the first one is
// returned; otherwise the text is returned trimmed. Chat-tuned models often
// add fences and prose around code even when told not to.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "```")
	if start == -1 {
		return trimmed
	}

	rest := trimmed[start+3:]
	// Drop the info string ("python", "py", ...) on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	} else {
		return trimmed
	}

	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}
