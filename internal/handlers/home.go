package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
)

type message struct {
	ID        string
	Role      string
	Content   template.HTML
	Timestamp time.Time
}

type connection struct {
	Status  models.Connectivity
	Probing bool
}

type homePageData struct {
	Messages     []message
	Documents    []models.Document
	Connection   connection
	Notification *models.Notification
}

// HandleHome renders the main chat page: the conversation log, the document sidebar, the
// connection badge, and the toast slot.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	msgs, err := m.messageViews()
	if err != nil {
		m.logger.Error("Failed to render messages", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := homePageData{
		Messages:     msgs,
		Documents:    m.store.Documents(),
		Connection:   m.connectionView(m.monitor.Status()),
		Notification: m.notifier.Current(),
	}

	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// messageViews converts the conversation snapshot into renderable views. Assistant content is
// markdown-rendered; user content is escaped verbatim.
func (m Main) messageViews() ([]message, error) {
	msgs := m.store.Messages()
	views := make([]message, len(msgs))
	for i, msg := range msgs {
		content := template.HTML(template.HTMLEscapeString(msg.Content))
		if msg.Role == models.RoleAssistant {
			rendered, err := models.RenderMarkdown(msg.Content)
			if err != nil {
				return nil, err
			}
			content = template.HTML(rendered)
		}
		views[i] = message{
			ID:        msg.ID,
			Role:      string(msg.Role),
			Content:   content,
			Timestamp: msg.Timestamp,
		}
	}
	return views, nil
}

func (m Main) connectionView(status models.Connectivity) connection {
	return connection{
		Status:  status,
		Probing: m.monitor.Probing(),
	}
}
