// Package shared provides helpers used by multiple use cases.
package shared

import (
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// Memory context limits. Older entries and overlong content are cut so
// the context block stays a small fraction of the prompt.
const (
	MemoryContextEntries    = 10
	MemoryContextContentCap = 500
)

// BuildMemoryContext renders stored memory entries as a markdown block
// prepended to a coding session's prompt. Returns "" when there are no
// entries.
func BuildMemoryContext(entries []*domain.MemoryEntry) string {
	if len(entries) == 0 {
		return ""
	}
	if len(entries) > MemoryContextEntries {
		entries = entries[:MemoryContextEntries]
	}

	var sb strings.Builder
	sb.WriteString("# Shared Memory Context\n\n")
	sb.WriteString("The following information has been stored from previous work:\n")
	for _, e := range entries {
		content := e.Content
		if len(content) > MemoryContextContentCap {
			content = content[:MemoryContextContentCap]
		}
		sb.WriteString("\n## ")
		sb.WriteString(e.Key)
		sb.WriteString("\n")
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	sb.WriteString("\nUse this context to inform your work.")
	return sb.String()
}

// PrependContext joins a context block and a prompt. Either side may be
// empty.
func PrependContext(contextBlock, prompt string) string {
	if contextBlock == "" {
		return prompt
	}
	if prompt == "" {
		return contextBlock
	}
	return contextBlock + "\n\n" + prompt
}
