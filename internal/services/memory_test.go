package services_test

import (
	"testing"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/MegaGrindStone/doc-chat-ui/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeedsGreeting(t *testing.T) {
	store := services.NewMemoryStore()

	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleAssistant, msgs[0].Role)
	assert.Equal(t, services.Greeting, msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestMemoryStoreAppendsInOrder(t *testing.T) {
	store := services.NewMemoryStore()

	store.AppendMessage(models.Message{ID: "1", Role: models.RoleUser, Content: "hello"})
	store.AppendMessage(models.Message{ID: "2", Role: models.RoleAssistant, Content: "hi"})

	msgs := store.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "hi", msgs[2].Content)
}

func TestMemoryStoreMessagesReturnsSnapshot(t *testing.T) {
	store := services.NewMemoryStore()

	snapshot := store.Messages()
	store.AppendMessage(models.Message{ID: "1", Role: models.RoleUser, Content: "hello"})

	assert.Len(t, snapshot, 1, "snapshots must not observe later mutations")
	assert.Len(t, store.Messages(), 2)
}

func TestMemoryStoreDocuments(t *testing.T) {
	store := services.NewMemoryStore()
	assert.Empty(t, store.Documents())

	doc := models.Document{
		ID:         "doc-1",
		Name:       "report.pdf",
		Size:       1024,
		MimeType:   "application/pdf",
		UploadedAt: time.Now(),
		Status:     models.DocumentProcessed,
	}
	store.AddDocument(doc)

	docs := store.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, doc, docs[0])

	assert.False(t, store.RemoveDocument("missing"))
	assert.Len(t, store.Documents(), 1)

	assert.True(t, store.RemoveDocument("doc-1"))
	assert.Empty(t, store.Documents())
	assert.False(t, store.RemoveDocument("doc-1"), "removal is not idempotent by id")
}
