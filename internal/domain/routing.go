package domain

import (
	"regexp"
	"strings"
)

// juniorKeywords matches short prompts describing trivially scoped work.
var juniorKeywords = regexp.MustCompile(
	`(?i)\b(fix typo|rename|add comment|format|lint|boilerplate|simple|trivial|straightforward)\b`)

var complexityToBackend = map[string]Backend{
	ComplexityJunior: BackendClaudeLocal,
	ComplexityMid:    BackendOpenCode,
	ComplexitySenior: BackendClaudeCode,
}

var (
	juniorTags = map[string]bool{"trivial": true, "boilerplate": true, "simple": true}
	seniorTags = map[string]bool{"complex": true, "architecture": true, "refactor": true}
)

// RecommendBackend picks an agent backend from the available task
// signals. Explicit complexity wins, then tag hints, then a short
// prompt containing simple-task keywords. Returns "" when no signal is
// strong enough, letting the caller fall through to the config default.
func RecommendBackend(prompt string, tags []string, complexity string) Backend {
	if b, ok := complexityToBackend[complexity]; ok {
		return b
	}

	for _, tag := range tags {
		if juniorTags[strings.ToLower(tag)] {
			return BackendClaudeLocal
		}
	}
	for _, tag := range tags {
		if seniorTags[strings.ToLower(tag)] {
			return BackendClaudeCode
		}
	}

	if prompt != "" && len(prompt) < 100 && juniorKeywords.MatchString(prompt) {
		return BackendClaudeLocal
	}

	return ""
}
