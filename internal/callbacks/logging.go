// Package callbacks provides Eino callback handlers that log chat model calls.
package callbacks

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	ub "github.com/cloudwego/eino/utils/callbacks"
)

// previewLen bounds the message preview written at debug level.
const previewLen = 200

type startKey struct{}

// NewLoggingHandler creates a callback handler that logs each model call
// to the default slog logger: request size on start, token usage and
// latency on end, and the error on failure.
func NewLoggingHandler() callbacks.Handler {
	modelHandler := &ub.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *callbacks.RunInfo, input *model.CallbackInput) context.Context {
			attrs := []any{"model", info.Name, "messages", len(input.Messages)}
			if n := len(input.Messages); n > 0 && input.Messages[n-1] != nil {
				attrs = append(attrs, "last", truncatePayload(input.Messages[n-1].Content, previewLen))
			}
			slog.Debug("llm request", attrs...)
			return context.WithValue(ctx, startKey{}, time.Now())
		},

		OnEnd: func(ctx context.Context, info *callbacks.RunInfo, output *model.CallbackOutput) context.Context {
			attrs := []any{"model", info.Name}
			if start, ok := ctx.Value(startKey{}).(time.Time); ok {
				attrs = append(attrs, "duration", time.Since(start).Round(time.Millisecond))
			}
			if output.Message != nil && output.Message.ResponseMeta != nil && output.Message.ResponseMeta.Usage != nil {
				u := output.Message.ResponseMeta.Usage
				attrs = append(attrs, "tokens_in", u.PromptTokens, "tokens_out", u.CompletionTokens)
			}
			slog.Debug("llm response", attrs...)
			return ctx
		},

		OnError: func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			slog.Debug("llm error", "model", info.Name, "error", truncatePayload(err.Error(), 1000))
			return ctx
		},
	}

	return ub.NewHandlerHelper().
		ChatModel(modelHandler).
		Handler()
}

func truncatePayload(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
