package handlers

import (
	"log/slog"
	"net/http"
)

// HandleRetry triggers one immediate connectivity probe. The monitor drops the request when a
// probe is already outstanding or the backend is not disconnected, so mashing the retry
// button cannot stack probes. The handler answers with the badge in its checking state; the
// probe result reaches the page over SSE once the probe completes.
func (m Main) HandleRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.monitor.Retry()

	view := connection{
		Status:  m.monitor.Status(),
		Probing: m.monitor.Probing(),
	}
	if err := m.templates.ExecuteTemplate(w, "connection_status", view); err != nil {
		m.logger.Error("Failed to render connection status", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleDismiss clears the live notification ahead of its auto-expiry.
func (m Main) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.notifier.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
