package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/MegaGrindStone/doc-chat-ui/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQuerySender struct {
	res services.QueryResponse
	err error

	gotText string
}

func (m *mockQuerySender) Query(_ context.Context, text string) (services.QueryResponse, error) {
	m.gotText = text
	return m.res, m.err
}

func newTestQuerier(backend *mockQuerySender) (services.Querier, *services.MemoryStore) {
	store := services.NewMemoryStore()
	querier := services.NewQuerier(backend, "http://localhost:5000", store, discardLogger())
	return querier, store
}

func TestQuerierSuccessAppendsTwoMessages(t *testing.T) {
	backend := &mockQuerySender{res: services.QueryResponse{Answer: "The document covers Go."}}
	querier, store := newTestQuerier(backend)

	before := len(store.Messages())
	querier.Submit(context.Background(), "Summarize")
	msgs := store.Messages()

	require.Len(t, msgs, before+2, "every submission grows the conversation by exactly two")
	assert.Equal(t, "Summarize", backend.gotText)

	user := msgs[len(msgs)-2]
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "Summarize", user.Content)

	answer := msgs[len(msgs)-1]
	assert.Equal(t, models.RoleAssistant, answer.Role)
	assert.Equal(t, "The document covers Go.", answer.Content)
	assert.NotEqual(t, user.ID, answer.ID)
}

func TestQuerierMissingAnswerFallsBack(t *testing.T) {
	backend := &mockQuerySender{}
	querier, store := newTestQuerier(backend)

	querier.Submit(context.Background(), "Summarize")
	msgs := store.Messages()

	assert.Equal(t, "I'm sorry, I couldn't process that request.", msgs[len(msgs)-1].Content)
}

func TestQuerierFailureStillAppendsTwoMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantContent string
	}{
		{
			name:        "timeout",
			err:         services.ErrTimeout,
			wantContent: "Request timed out. Please try again.",
		},
		{
			name:        "unreachable",
			err:         fmt.Errorf("%w: connection refused", services.ErrUnreachable),
			wantContent: "Cannot connect to server. Make sure the backend is running on http://localhost:5000",
		},
		{
			name:        "http error",
			err:         &services.HTTPError{Status: 502, StatusText: "Bad Gateway", Body: "upstream down"},
			wantContent: "Server error: Query failed: 502 Bad Gateway. upstream down",
		},
		{
			name:        "unclassified",
			err:         errors.New("failed to decode query response"),
			wantContent: "I'm having trouble connecting to the server. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, store := newTestQuerier(&mockQuerySender{err: tt.err})

			before := len(store.Messages())
			querier.Submit(context.Background(), "Summarize")
			msgs := store.Messages()

			require.Len(t, msgs, before+2)
			assert.Equal(t, models.RoleUser, msgs[len(msgs)-2].Role)
			assert.Equal(t, "Summarize", msgs[len(msgs)-2].Content,
				"the user message is never rolled back on failure")

			failure := msgs[len(msgs)-1]
			assert.Equal(t, models.RoleAssistant, failure.Role)
			assert.Equal(t, tt.wantContent, failure.Content)
		})
	}
}
