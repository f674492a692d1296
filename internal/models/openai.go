package models

import (
	"context"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/aleph-cli/aleph/internal/config"
)

// openAIFlavor holds the defaults of an OpenAI-compatible endpoint.
type openAIFlavor struct {
	baseURL string // "" = the SDK default
	model   string // used when the catalog entry names none
	timeout time.Duration
}

var (
	openAIDefaults  = openAIFlavor{timeout: 60 * time.Second}
	mistralDefaults = openAIFlavor{
		baseURL: "https://api.mistral.ai/v1",
		model:   "mistral-small-latest",
		timeout: 5 * time.Minute,
	}
)

// NewOpenAI creates an OpenAI ChatModel.
func NewOpenAI(ctx context.Context, cfg config.ProviderConfig, modelID, apiKey string) (model.BaseChatModel, error) {
	return newOpenAICompatible(ctx, cfg, modelID, apiKey, openAIDefaults)
}

// NewMistral creates a Mistral ChatModel through its OpenAI-compatible API.
func NewMistral(ctx context.Context, cfg config.ProviderConfig, modelID, apiKey string) (model.BaseChatModel, error) {
	return newOpenAICompatible(ctx, cfg, modelID, apiKey, mistralDefaults)
}

func newOpenAICompatible(ctx context.Context, cfg config.ProviderConfig, modelID, apiKey string, flavor openAIFlavor) (model.BaseChatModel, error) {
	mc := &einoopenai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   firstNonEmpty(modelID, flavor.model),
		BaseURL: firstNonEmpty(cfg.BaseURL, flavor.baseURL),
		Timeout: flavor.timeout,
	}
	if d := cfg.Timeout.Duration(); d > 0 {
		mc.Timeout = d
	}
	if cfg.MaxTokens > 0 {
		n := cfg.MaxTokens
		mc.MaxCompletionTokens = &n
	}
	if v, ok := floatOption(cfg.Options, "temperature"); ok {
		mc.Temperature = &v
	}
	if v, ok := floatOption(cfg.Options, "top_p"); ok {
		mc.TopP = &v
	}
	return einoopenai.NewChatModel(ctx, mc)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
