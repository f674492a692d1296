package models

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/aleph-cli/aleph/internal/config"
)

const defaultGeminiTimeout = 2 * time.Minute

// NewGemini creates a Gemini ChatModel backed by the Google GenAI client.
func NewGemini(ctx context.Context, cfg config.ProviderConfig, modelID, apiKey string) (model.BaseChatModel, error) {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	modelConfig := &gemini.Config{
		Client: client,
		Model:  modelID,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}
	if temp, ok := floatOption(cfg.Options, "temperature"); ok {
		modelConfig.Temperature = &temp
	}
	if topP, ok := floatOption(cfg.Options, "top_p"); ok {
		modelConfig.TopP = &topP
	}

	return gemini.NewChatModel(ctx, modelConfig)
}
