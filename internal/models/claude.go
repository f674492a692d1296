package models

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"

	"github.com/aleph-cli/aleph/internal/config"
)

const defaultClaudeMaxTokens = 4096

// NewClaude creates an Anthropic Claude ChatModel.
func NewClaude(ctx context.Context, cfg config.ProviderConfig, modelID, apiKey string) (model.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	modelConfig := &claude.Config{
		APIKey:    apiKey,
		Model:     modelID,
		MaxTokens: maxTokens,
	}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		modelConfig.BaseURL = &baseURL
	}
	if temp, ok := floatOption(cfg.Options, "temperature"); ok {
		modelConfig.Temperature = &temp
	}

	return claude.NewChatModel(ctx, modelConfig)
}
