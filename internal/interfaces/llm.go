package interfaces

// Message represents a single message in a provider conversation
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// ProviderDescriptor describes one provider in the closed provider set.
// Selection is by explicit lookup over these descriptors, never runtime
// type inspection.
type ProviderDescriptor struct {
	ID                       string `json:"id"`
	Label                    string `json:"label"`
	EnvKey                   string `json:"env_key"`
	DefaultModel             string `json:"default_model"`
	RequiresKey              bool   `json:"requires_key"`
	SupportsStructuredOutput bool   `json:"supports_structured_output"`
}
