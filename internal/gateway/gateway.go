// Package gateway sends a system prompt, a conversation history and a new
// user message to a chat model and returns the reply text.
package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/aleph-cli/aleph/internal/conversation"
)

// ErrEmptyReply is wrapped in a KindMalformedResponse error when the model
// answers with no text.
var ErrEmptyReply = errors.New("empty reply")

// Request is one completion call.
type Request struct {
	SystemPrompt string
	History      []conversation.Turn // prior turns, oldest first, excluding Message
	Message      string
	Model        string
}

// Gateway completes a request. Implementations return an *Error on failure,
// or the context error when ctx is cancelled.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ModelSource resolves a model id to a chat model.
type ModelSource interface {
	Get(ctx context.Context, modelID string) (model.BaseChatModel, error)
}

// ChatGateway completes requests with eino chat models.
type ChatGateway struct {
	models   ModelSource
	handlers []callbacks.Handler
}

// NewChatGateway creates a gateway over the given model source, typically
// a *models.Registry. The handlers observe every model call.
func NewChatGateway(source ModelSource, handlers ...callbacks.Handler) *ChatGateway {
	return &ChatGateway{models: source, handlers: handlers}
}

// Complete sends a single request without retry.
func (g *ChatGateway) Complete(ctx context.Context, req Request) (string, error) {
	m, err := g.models.Get(ctx, req.Model)
	if err != nil {
		return "", Classify(err)
	}

	if len(g.handlers) > 0 {
		ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
			Name:      req.Model,
			Component: components.ComponentOfChatModel,
		}, g.handlers...)
	}

	resp, err := m.Generate(ctx, BuildMessages(req))
	if err != nil {
		return "", Classify(err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &Error{Kind: KindMalformedResponse, Err: ErrEmptyReply}
	}

	return resp.Content, nil
}

// BuildMessages assembles the message list sent to the model: the system
// prompt, then the history, then the new user message.
func BuildMessages(req Request) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, conversation.Messages(req.History)...)
	msgs = append(msgs, schema.UserMessage(req.Message))
	return msgs
}
