package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from around a JSON payload.
// Models often wrap JSON in ```json ... ``` even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	body = strings.TrimPrefix(body, "json")

	// A short first line with no spaces or braces is a language tag, not content.
	if idx := strings.Index(body, "\n"); idx >= 0 {
		tag := body[:idx]
		if tag != "" && len(tag) < 20 && !strings.ContainsAny(tag, " {") {
			body = body[idx+1:]
		}
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
