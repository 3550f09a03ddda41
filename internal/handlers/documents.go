package handlers

import (
	"log/slog"
	"net/http"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
)

// HandleUpload processes document uploads through multipart HTTP POST requests. The file part
// is handed to the upload orchestrator, which owns validation and outcome reporting; whatever
// the outcome, this handler answers with the re-rendered document sidebar, since the toast
// channel already carries the verdict.
func (m Main) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var upload *models.FileUpload
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		upload = &models.FileUpload{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Data:        file,
		}
	}

	// A missing part flows through as a nil upload so the orchestrator reports it as an
	// empty selection, the same as every other upload outcome.
	if err := m.uploader.Submit(r.Context(), upload); err != nil {
		m.logger.Error("Upload rejected", slog.String(errLoggerKey, err.Error()))
	}

	m.publishDocuments()
	m.renderDocuments(w)
}

// HandleDocumentDelete removes a document record. The removal is local to this process; the
// backend keeps whatever it ingested, a known asymmetry of the upload contract.
func (m Main) HandleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("document_id")
	if id == "" {
		m.logger.Error("Document id is required")
		http.Error(w, "Document id is required", http.StatusBadRequest)
		return
	}

	if !m.store.RemoveDocument(id) {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}
	m.notifier.Notify("Document deleted successfully", models.NotificationSuccess)

	m.publishDocuments()
	m.renderDocuments(w)
}

// publishDocuments pushes the rendered document sidebar to SSE subscribers.
func (m Main) publishDocuments() {
	div, err := m.renderToString("document_list", m.store.Documents())
	if err != nil {
		m.logger.Error("Failed to render documents", slog.String(errLoggerKey, err.Error()))
		return
	}
	m.publish(documentsSSEType, documentsSSETopic, div)
}

func (m Main) renderDocuments(w http.ResponseWriter) {
	if err := m.templates.ExecuteTemplate(w, "document_list", m.store.Documents()); err != nil {
		m.logger.Error("Failed to render documents", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
