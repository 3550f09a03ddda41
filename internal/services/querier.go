package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/google/uuid"
)

const fallbackAnswer = "I'm sorry, I couldn't process that request."

// connectionGuidance names the backend address the UI expects to reach, so the user can check
// the right process.
func connectionGuidance(addr string) string {
	return fmt.Sprintf("Cannot connect to server. Make sure the backend is running on %s", addr)
}

// ConversationSink is the slice of the store the querier mutates.
type ConversationSink interface {
	AppendMessage(models.Message)
}

// QuerySender is the gateway surface the querier depends on.
type QuerySender interface {
	Query(ctx context.Context, text string) (QueryResponse, error)
}

// Querier turns user chat text into conversation entries. Every submission appends exactly two
// messages: the user's text, unconditionally and before the network call, then an assistant
// message carrying either the backend's answer or a failure narration. Failures never use a
// separate error channel; the conversation log narrates both.
type Querier struct {
	backend      QuerySender
	backendAddr  string
	conversation ConversationSink
	logger       *slog.Logger
}

// NewQuerier creates a Querier. backendAddr is the address named in the guidance shown when
// the backend is unreachable.
func NewQuerier(backend QuerySender, backendAddr string, conversation ConversationSink, logger *slog.Logger) Querier {
	return Querier{
		backend:      backend,
		backendAddr:  backendAddr,
		conversation: conversation,
		logger:       logger,
	}
}

// Submit appends the user's message, asks the backend, and appends the reply. The user message
// stays in the log even when the call fails.
func (q Querier) Submit(ctx context.Context, text string) {
	q.conversation.AppendMessage(models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})

	content := fallbackAnswer

	res, err := q.backend.Query(ctx, text)
	if err != nil {
		q.logger.Error("Query failed", slog.String("error", err.Error()))
		content = q.errorNarration(err)
	} else if res.Answer != "" {
		content = res.Answer
	}

	q.conversation.AppendMessage(models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (q Querier) errorNarration(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "Request timed out. Please try again."
	case errors.Is(err, ErrUnreachable):
		return connectionGuidance(q.backendAddr)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("Server error: Query failed: %s", httpErr)
	}

	return "I'm having trouble connecting to the server. Please try again."
}
