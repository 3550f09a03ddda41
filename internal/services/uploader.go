package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxUploadSize is the largest file the backend accepts.
const MaxUploadSize = 10 << 20

var allowedMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var allowedExtensions = []string{".pdf", ".doc", ".docx"}

// Validation rejects, surfaced to the user before any network call. The error text doubles as
// the notification message.
var (
	// ErrEmptySelection means no file was supplied.
	ErrEmptySelection = errors.New("No file selected")
	// ErrTooLarge means the file exceeds MaxUploadSize.
	ErrTooLarge = errors.New("File size must be less than 10MB")
	// ErrUnsupportedType means neither the declared content type nor the filename extension
	// matches the allowed set.
	ErrUnsupportedType = errors.New("Only PDF and DOCX files are supported")
)

// DocumentSink is the slice of the store the uploader mutates.
type DocumentSink interface {
	AddDocument(models.Document)
}

// DocumentUploader is the gateway surface the uploader depends on.
type DocumentUploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (UploadResponse, error)
}

// Uploader validates candidate files and hands the accepted ones to the backend. Outcomes are
// reported through the notifier; the document registry only changes when the backend accepts
// the file, so a rejected or failed upload never leaves a record behind.
type Uploader struct {
	backend     DocumentUploader
	backendAddr string
	maxSize     int64
	documents   DocumentSink
	notifier    *Notifier
	logger      *slog.Logger
}

// NewUploader creates an Uploader. backendAddr is the address named in the guidance shown when
// the backend is unreachable. A non-positive maxSize falls back to MaxUploadSize.
func NewUploader(
	backend DocumentUploader,
	backendAddr string,
	maxSize int64,
	documents DocumentSink,
	notifier *Notifier,
	logger *slog.Logger,
) Uploader {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	return Uploader{
		backend:     backend,
		backendAddr: backendAddr,
		maxSize:     maxSize,
		documents:   documents,
		notifier:    notifier,
		logger:      logger,
	}
}

// Submit runs the validation chain and, if it passes, sends the file to the backend. The
// returned error reports the outcome to the caller; the user-facing reporting happens through
// the notifier regardless.
func (u Uploader) Submit(ctx context.Context, file *models.FileUpload) error {
	if err := u.validate(file); err != nil {
		u.notifier.Notify(err.Error(), models.NotificationError)
		return err
	}

	res, err := u.backend.Upload(ctx, file.Name, file.Data)
	if err != nil {
		u.logger.Error("Upload failed",
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		u.notifier.Notify(u.errorMessage(err), models.NotificationError)
		return err
	}

	// The success field is three-way: absent or true means accepted, an explicit false is a
	// backend-declared failure carried over a 2xx response.
	if res.Success != nil && !*res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Upload failed"
		}
		u.notifier.Notify(msg, models.NotificationError)
		return fmt.Errorf("backend rejected upload: %s", msg)
	}

	u.documents.AddDocument(models.Document{
		ID:         uuid.New().String(),
		Name:       file.Name,
		Size:       file.Size,
		MimeType:   file.ContentType,
		UploadedAt: time.Now(),
		Status:     models.DocumentProcessed,
	})
	u.notifier.Notify("Document uploaded successfully!", models.NotificationSuccess)

	return nil
}

func (u Uploader) validate(file *models.FileUpload) error {
	if file == nil || file.Name == "" {
		return ErrEmptySelection
	}
	if file.Size > u.maxSize {
		return ErrTooLarge
	}

	contentType := file.ContentType
	if contentType == "" {
		// Some browser paths deliver multipart parts with no declared type. Sniffing stands
		// in for the missing declaration; the declared-type-or-extension rule is unchanged.
		contentType = u.sniffContentType(file)
	}

	if !slices.Contains(allowedMimeTypes, contentType) && !hasAllowedExtension(file.Name) {
		return ErrUnsupportedType
	}

	return nil
}

// sniffContentType reads the file header, detects a content type from it, and splices the
// consumed bytes back in front of the remaining data.
func (u Uploader) sniffContentType(file *models.FileUpload) string {
	header := make([]byte, 3072)
	n, err := io.ReadFull(file.Data, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		u.logger.Warn("Failed to sniff content type",
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		return ""
	}
	header = header[:n]
	file.Data = io.MultiReader(bytes.NewReader(header), file.Data)

	return mimetype.Detect(header).String()
}

func hasAllowedExtension(name string) bool {
	lower := strings.ToLower(name)
	return slices.ContainsFunc(allowedExtensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

func (u Uploader) errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "Upload timed out. Please try again."
	case errors.Is(err, ErrUnreachable):
		return connectionGuidance(u.backendAddr)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("Upload failed: %s", httpErr)
	}

	return "Failed to upload document. Please try again."
}
