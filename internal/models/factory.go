package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/aleph-cli/aleph/internal/config"
)

// Supported provider drivers.
const (
	DriverGemini  = "gemini"
	DriverOpenAI  = "openai"
	DriverMistral = "mistral"
	DriverClaude  = "claude"
	DriverOllama  = "ollama"
)

// Drivers lists the supported drivers.
var Drivers = []string{DriverGemini, DriverOpenAI, DriverMistral, DriverClaude, DriverOllama}

// CreateModel creates a chat model for modelID from a provider config.
func CreateModel(ctx context.Context, cfg config.ProviderConfig, modelID string) (model.BaseChatModel, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == DriverOllama {
		return NewOllama(ctx, cfg, modelID)
	}

	key, err := ResolveAuth(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve auth: %w", err)
	}

	switch driver {
	case DriverGemini:
		return NewGemini(ctx, cfg, modelID, key)
	case DriverOpenAI:
		return NewOpenAI(ctx, cfg, modelID, key)
	case DriverMistral:
		return NewMistral(ctx, cfg, modelID, key)
	case DriverClaude:
		return NewClaude(ctx, cfg, modelID, key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

func floatOption(opts map[string]any, name string) (float32, bool) {
	v, ok := opts[name].(float64)
	return float32(v), ok
}
