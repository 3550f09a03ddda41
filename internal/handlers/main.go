package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	docchatui "github.com/MegaGrindStone/doc-chat-ui"
	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/tmaxmax/go-sse"
)

// Store provides snapshots of the conversation log and the document registry, plus the one
// direct mutation the UI performs itself (local document deletion).
type Store interface {
	Messages() []models.Message
	Documents() []models.Document
	RemoveDocument(id string) bool
}

// Uploader validates a candidate document and submits it to the backend.
type Uploader interface {
	Submit(ctx context.Context, file *models.FileUpload) error
}

// Querier forwards user chat text to the backend and records the exchange in the
// conversation log.
type Querier interface {
	Submit(ctx context.Context, text string)
}

// Monitor exposes the backend connectivity signal and the manual retry path.
type Monitor interface {
	Status() models.Connectivity
	Probing() bool
	Retry()
}

// Notifier owns the single transient notification slot.
type Notifier interface {
	Notify(message string, level models.NotificationLevel)
	Dismiss()
	Current() *models.Notification
}

// Main handles the web interface of the document chat application, rendering UI state through
// HTML templates and pushing live updates to the browser over server-sent events.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template
	logger    *slog.Logger

	store    Store
	uploader Uploader
	querier  Querier
	monitor  Monitor
	notifier Notifier
}

// SSE topics and event types for the live-update channels.
const (
	messagesSSETopic      = "messages"
	documentsSSETopic     = "documents"
	connectivitySSETopic  = "connectivity"
	notificationsSSETopic = "notifications"
)

var (
	messagesSSEType      = sse.Type("messages")
	documentsSSEType     = sse.Type("documents")
	connectivitySSEType  = sse.Type("connectivity")
	notificationsSSEType = sse.Type("notifications")
)

const errLoggerKey = "err"

// NewMain creates a new Main instance wired to the given collaborators. It parses the HTML
// templates from the embedded filesystem and configures the SSE server so every client is
// subscribed to all live-update topics.
func NewMain(
	store Store,
	uploader Uploader,
	querier Querier,
	monitor Monitor,
	notifier Notifier,
	logger *slog.Logger,
) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		docchatui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, err
	}

	return Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics: []string{
						sse.DefaultTopic,
						messagesSSETopic,
						documentsSSETopic,
						connectivitySSETopic,
						notificationsSSETopic,
					},
				}, true
			},
		},
		templates: tmpl,
		logger:    logger,
		store:     store,
		uploader:  uploader,
		querier:   querier,
		monitor:   monitor,
		notifier:  notifier,
	}, nil
}

// HandleSSE serves the live-update event stream.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// PublishConnectivity pushes the connection badge for the given state to all subscribers. It
// is registered as the monitor's change hook.
func (m Main) PublishConnectivity(status models.Connectivity) {
	div, err := m.renderToString("connection_status", m.connectionView(status))
	if err != nil {
		m.logger.Error("Failed to render connection status", slog.String(errLoggerKey, err.Error()))
		return
	}
	m.publish(connectivitySSEType, connectivitySSETopic, div)
}

// PublishNotification pushes the toast slot content to all subscribers; a nil notification
// clears the slot. It is registered as the notifier's change hook.
func (m Main) PublishNotification(n *models.Notification) {
	div, err := m.renderToString("toast", n)
	if err != nil {
		m.logger.Error("Failed to render notification", slog.String(errLoggerKey, err.Error()))
		return
	}
	m.publish(notificationsSSEType, notificationsSSETopic, div)
}

// Shutdown gracefully terminates the SSE server. It broadcasts a close message to all
// connected clients and waits up to 5 seconds for connections to terminate. After the timeout,
// any remaining connections are forcefully closed.
func (m Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("close")}
	// We create a close event that complies with SSE spec requiring data
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}

func (m Main) publish(eventType sse.EventType, topic, data string) {
	msg := sse.Message{Type: eventType}
	msg.AppendData(data)
	if err := m.sseSrv.Publish(&msg, topic); err != nil {
		m.logger.Error("Failed to publish sse message",
			slog.String("topic", topic),
			slog.String(errLoggerKey, err.Error()))
	}
}

func (m Main) renderToString(name string, data any) (string, error) {
	var sb strings.Builder
	if err := m.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
