package llm

import (
	"strings"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderClaude uses the Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses the Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderOpenAI uses the OpenAI chat completions API
	ProviderOpenAI ProviderType = "openai"
	// ProviderDeepSeek uses the DeepSeek API (OpenAI-compatible)
	ProviderDeepSeek ProviderType = "deepseek"
)

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []interfaces.Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
	JSONOutput        bool // Request JSON-constrained output where the provider supports it
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
	Usage    models.TokenUsage
}

// Descriptors returns the closed set of supported providers. Dispatch is by
// explicit lookup over this table.
func Descriptors() []interfaces.ProviderDescriptor {
	return []interfaces.ProviderDescriptor{
		{
			ID:                       string(ProviderClaude),
			Label:                    "Anthropic (Claude)",
			EnvKey:                   "ANTHROPIC_API_KEY",
			DefaultModel:             "claude-sonnet-4-20250514",
			RequiresKey:              true,
			SupportsStructuredOutput: false,
		},
		{
			ID:                       string(ProviderGemini),
			Label:                    "Google Gemini",
			EnvKey:                   "GEMINI_API_KEY",
			DefaultModel:             "gemini-2.0-flash",
			RequiresKey:              true,
			SupportsStructuredOutput: true,
		},
		{
			ID:                       string(ProviderOpenAI),
			Label:                    "OpenAI (GPT)",
			EnvKey:                   "OPENAI_API_KEY",
			DefaultModel:             "gpt-4o",
			RequiresKey:              true,
			SupportsStructuredOutput: true,
		},
		{
			ID:                       string(ProviderDeepSeek),
			Label:                    "DeepSeek",
			EnvKey:                   "DEEPSEEK_API_KEY",
			DefaultModel:             "deepseek-chat",
			RequiresKey:              true,
			SupportsStructuredOutput: false,
		},
	}
}

// Lookup returns the descriptor for a provider id, or false when the id is
// not in the closed set.
func Lookup(id string) (interfaces.ProviderDescriptor, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, d := range Descriptors() {
		if d.ID == id {
			return d, true
		}
	}
	return interfaces.ProviderDescriptor{}, false
}

// apiKeyFor returns the configured key for a provider, or "" when unset.
func apiKeyFor(cfg *common.Config, provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return cfg.Claude.APIKey
	case ProviderGemini:
		return cfg.Gemini.APIKey
	case ProviderOpenAI:
		return cfg.OpenAI.APIKey
	case ProviderDeepSeek:
		return cfg.DeepSeek.APIKey
	default:
		return ""
	}
}

// defaultModelFor returns the configured model for a provider.
func defaultModelFor(cfg *common.Config, provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return cfg.Claude.Model
	case ProviderGemini:
		return cfg.Gemini.Model
	case ProviderOpenAI:
		return cfg.OpenAI.Model
	case ProviderDeepSeek:
		return cfg.DeepSeek.Model
	default:
		return ""
	}
}
