package models

import "time"

// Message represents an individual entry in the conversation log. Messages are immutable once
// created; the log grows by appending only.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Role represents the role of a message participant.
type Role string

const (
	// RoleUser represents a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant represents a message produced on behalf of the backend, including the
	// greeting and failure narrations.
	RoleAssistant Role = "assistant"
)
