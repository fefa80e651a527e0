package llm

import "strings"

// CleanResponse strips the markdown code fences models like to wrap
// generated markup in.
func CleanResponse(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.Index(content, "\n"); nl >= 0 && !strings.ContainsAny(content[:nl], "<{") {
		// drop the fence language tag, e.g. ```html
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
