package models

// Notification is a transient user-facing status message. At most one notification is live at
// a time; a newer one supersedes whatever is showing.
type Notification struct {
	Message string
	Level   NotificationLevel
}

// NotificationLevel represents the severity of a notification.
type NotificationLevel string

const (
	// NotificationSuccess reports a completed action.
	NotificationSuccess NotificationLevel = "success"
	// NotificationError reports a failed or rejected action.
	NotificationError NotificationLevel = "error"
	// NotificationInfo carries neutral status information.
	NotificationInfo NotificationLevel = "info"
	// NotificationWarning flags a condition the user may want to act on.
	NotificationWarning NotificationLevel = "warning"
)
