package models

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"

	"github.com/aleph-cli/aleph/internal/config"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaTimeout = 5 * time.Minute
	errorBodyLimit       = 512
)

// NewOllama creates an Ollama ChatModel. Ollama needs no credential.
func NewOllama(ctx context.Context, cfg config.ProviderConfig, modelID string) (model.BaseChatModel, error) {
	timeout := defaultOllamaTimeout
	if d := cfg.Timeout.Duration(); d > 0 {
		timeout = d
	}

	return einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
		BaseURL: firstNonEmpty(cfg.BaseURL, defaultOllamaBaseURL),
		Model:   modelID,
		Timeout: timeout,
		Options: ollamaOptions(cfg),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &ollamaTransport{inner: http.DefaultTransport, provider: DriverOllama},
		},
	})
}

// ollamaOptions maps max_tokens and the provider options onto Ollama
// sampling options. JSON numbers arrive as float64.
func ollamaOptions(cfg config.ProviderConfig) *einoollama.Options {
	opts := &einoollama.Options{NumPredict: cfg.MaxTokens}
	if v, ok := floatOption(cfg.Options, "temperature"); ok {
		opts.Temperature = v
	}
	if v, ok := floatOption(cfg.Options, "top_p"); ok {
		opts.TopP = v
	}
	if v, ok := cfg.Options["top_k"].(float64); ok {
		opts.TopK = int(v)
	}
	if v, ok := cfg.Options["num_ctx"].(float64); ok {
		opts.NumCtx = int(v)
	}
	if v, ok := cfg.Options["num_predict"].(float64); ok {
		opts.NumPredict = int(v)
	}
	return opts
}

// ollamaTransport turns connection failures, HTTP errors and non-JSON
// bodies (a proxy answering in plain text) into *UnavailableError, so the
// gateway can classify them by status.
type ollamaTransport struct {
	inner    http.RoundTripper
	provider string
}

func (t *ollamaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, &UnavailableError{Provider: t.provider, Cause: err}
	}

	switch ct := resp.Header.Get("Content-Type"); {
	case resp.StatusCode >= 400:
		return nil, t.reject(resp, resp.StatusCode)
	case ct != "" && !strings.Contains(ct, "json"):
		return nil, t.reject(resp, 0)
	}
	return resp, nil
}

func (t *ollamaTransport) reject(resp *http.Response, status int) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &UnavailableError{
		Provider: t.provider,
		Status:   status,
		Body:     strings.TrimSpace(string(body)),
	}
}
