package models

import (
	"io"
	"time"
)

// Document represents an uploaded-document record in the registry. Records are created only
// after the backend accepts an upload, so there is no intermediate uploading row per item.
type Document struct {
	ID         string
	Name       string
	Size       int64
	MimeType   string
	UploadedAt time.Time
	Status     DocumentStatus
}

// DocumentStatus represents the processing state of a document record.
type DocumentStatus string

const (
	// DocumentUploading is reserved for a transfer still in flight.
	DocumentUploading DocumentStatus = "uploading"
	// DocumentProcessed marks a document the backend has accepted.
	DocumentProcessed DocumentStatus = "processed"
	// DocumentError marks a document the backend failed to process.
	DocumentError DocumentStatus = "error"
)

// FileUpload describes a candidate file as received from the browser, before validation.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Data        io.Reader
}
