package handlers

import (
	"log/slog"
	"net/http"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
)

// HandleChats processes chat submissions through HTTP POST requests. It expects a "message"
// form field, forwards it to the query orchestrator, and renders the updated conversation.
//
// Sends are refused while the backend is not connected; the send control is disabled in the
// UI for the same condition, this check only backs that gate up. The orchestrator appends the
// user message and the assistant reply (or failure narration) before this handler returns, so
// the rendered conversation always grows by exactly two entries per accepted request.
func (m Main) HandleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg := r.FormValue("message")
	if msg == "" {
		m.logger.Error("Message is required")
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	if m.monitor.Status() != models.ConnectivityConnected {
		http.Error(w, "Backend is offline", http.StatusServiceUnavailable)
		return
	}

	m.querier.Submit(r.Context(), msg)

	m.publishMessages()
	m.renderMessages(w)
}

// publishMessages pushes the full rendered conversation to SSE subscribers.
func (m Main) publishMessages() {
	div, err := m.renderMessagesToString()
	if err != nil {
		m.logger.Error("Failed to render messages", slog.String(errLoggerKey, err.Error()))
		return
	}
	m.publish(messagesSSEType, messagesSSETopic, div)
}

func (m Main) renderMessages(w http.ResponseWriter) {
	div, err := m.renderMessagesToString()
	if err != nil {
		m.logger.Error("Failed to render messages", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte(div)); err != nil {
		m.logger.Error("Failed to write response", slog.String(errLoggerKey, err.Error()))
	}
}

func (m Main) renderMessagesToString() (string, error) {
	msgs, err := m.messageViews()
	if err != nil {
		return "", err
	}
	return m.renderToString("messages", msgs)
}
