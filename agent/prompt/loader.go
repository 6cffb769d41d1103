package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string

	//go:embed template/ideas.txt
	ideasRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Assistant string
	Ideas     string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(assistantRaw),
		Ideas:     strings.TrimSpace(ideasRaw),
	}
}
