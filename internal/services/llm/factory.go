package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"google.golang.org/genai"
)

// ProviderFactory creates and manages AI provider clients. Clients are
// created lazily so a deployment with only some keys set still serves the
// providers it has keys for; a missing key surfaces at request time.
type ProviderFactory struct {
	config *common.Config
	logger arbor.ILogger

	mu           sync.Mutex
	geminiClient *genai.Client
	claudeClient *anthropic.Client
	openaiClient *openAIClient // keyed by provider, deepseek gets its own
	dsClient     *openAIClient
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		config: config,
		logger: logger,
	}
}

// ResolveProvider maps a request provider id to the closed provider set.
// An empty id selects the configured default.
func (f *ProviderFactory) ResolveProvider(id string) (ProviderType, error) {
	if id == "" {
		id = f.config.LLM.DefaultProvider
	}
	desc, ok := Lookup(id)
	if !ok {
		return "", &common.ConfigurationError{
			Provider: id,
			Message:  "unknown provider",
		}
	}
	return ProviderType(desc.ID), nil
}

// IsConfigured reports whether the provider's API key is present.
func (f *ProviderFactory) IsConfigured(provider ProviderType) bool {
	return apiKeyFor(f.config, provider) != ""
}

// GenerateContent generates content using the requested provider. The call
// is bounded by the configured LLM timeout; a deadline hit surfaces as a
// ProviderTimeoutError rather than hanging the request.
func (f *ProviderFactory) GenerateContent(ctx context.Context, provider ProviderType, request *ContentRequest) (*ContentResponse, error) {
	if apiKeyFor(f.config, provider) == "" {
		desc, _ := Lookup(string(provider))
		return nil, &common.ConfigurationError{
			Provider: string(provider),
			Message:  fmt.Sprintf("API key not set (%s)", desc.EnvKey),
		}
	}

	model := request.Model
	if model == "" {
		model = defaultModelFor(f.config, provider)
	}

	callCtx, cancel := context.WithTimeout(ctx, f.config.LLM.Timeout)
	defer cancel()

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	var resp *ContentResponse
	var err error
	switch provider {
	case ProviderClaude:
		resp, err = f.generateWithClaude(callCtx, request, model)
	case ProviderGemini:
		resp, err = f.generateWithGemini(callCtx, request, model)
	case ProviderOpenAI, ProviderDeepSeek:
		resp, err = f.generateWithOpenAI(callCtx, provider, request, model)
	default:
		return nil, &common.ConfigurationError{Provider: string(provider), Message: "unknown provider"}
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &common.ProviderTimeoutError{Provider: string(provider), Err: err}
		}
		return nil, err
	}
	return resp, nil
}

// getClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) getClaudeClient() *anthropic.Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claudeClient == nil {
		client := anthropic.NewClient(
			option.WithAPIKey(f.config.Claude.APIKey),
		)
		f.claudeClient = &client
	}
	return f.claudeClient
}

// getGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	f.geminiClient = client
	return client, nil
}

// getOpenAIClient returns the OpenAI-compatible client for a provider.
func (f *ProviderFactory) getOpenAIClient(provider ProviderType) *openAIClient {
	f.mu.Lock()
	defer f.mu.Unlock()

	if provider == ProviderDeepSeek {
		if f.dsClient == nil {
			f.dsClient = newOpenAIClient(f.config.DeepSeek.BaseURL, f.config.DeepSeek.APIKey)
		}
		return f.dsClient
	}
	if f.openaiClient == nil {
		f.openaiClient = newOpenAIClient(f.config.OpenAI.BaseURL, f.config.OpenAI.APIKey)
	}
	return f.openaiClient
}

// generateWithClaude generates content using the Claude API
func (f *ProviderFactory) generateWithClaude(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client := f.getClaudeClient()

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.config.LLM.MaxTokens
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(request.Messages))
	systemText := request.SystemInstruction
	for _, msg := range request.Messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  claudeMessages,
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = f.config.LLM.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    model,
		Usage: models.TokenUsage{
			Input:  int(resp.Usage.InputTokens),
			Output: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// generateWithGemini generates content using the Gemini API
func (f *ProviderFactory) generateWithGemini(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.getGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	var contents []*genai.Content
	systemText := request.SystemInstruction
	for _, msg := range request.Messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = f.config.LLM.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}
	// When JSON output is requested, Gemini constrains the response to JSON
	if request.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}
	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	usage := models.TokenUsage{}
	if resp.UsageMetadata != nil {
		usage.Input = int(resp.UsageMetadata.PromptTokenCount)
		usage.Output = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ContentResponse{
		Text:     responseText,
		Provider: ProviderGemini,
		Model:    model,
		Usage:    usage,
	}, nil
}

// generateWithOpenAI generates content using an OpenAI-compatible API
// (OpenAI itself or DeepSeek, which differ only in base URL and key).
func (f *ProviderFactory) generateWithOpenAI(ctx context.Context, provider ProviderType, request *ContentRequest, model string) (*ContentResponse, error) {
	client := f.getOpenAIClient(provider)

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.config.LLM.MaxTokens
	}
	temp := request.Temperature
	if temp <= 0 {
		temp = f.config.LLM.Temperature
	}

	messages := make([]chatMessage, 0, len(request.Messages)+1)
	if request.SystemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: request.SystemInstruction})
	}
	for _, msg := range request.Messages {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	req := &chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float64(temp),
		MaxTokens:   maxTokens,
	}
	// response_format json_object is OpenAI-only
	if request.JSONOutput && provider == ProviderOpenAI {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s API call failed: %w", provider, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty response from %s API", provider)
	}

	return &ContentResponse{
		Text:     resp.Choices[0].Message.Content,
		Provider: provider,
		Model:    model,
		Usage: models.TokenUsage{
			Input:  resp.Usage.PromptTokens,
			Output: resp.Usage.CompletionTokens,
		},
	}, nil
}

// Close releases all provider clients
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geminiClient = nil
	f.claudeClient = nil
	f.openaiClient = nil
	f.dsClient = nil
	return nil
}
