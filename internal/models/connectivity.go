package models

// Connectivity is the tri-state backend reachability signal. It starts as unknown and never
// returns there once the first probe has completed.
type Connectivity string

const (
	// ConnectivityUnknown holds before the first probe completes.
	ConnectivityUnknown Connectivity = "unknown"
	// ConnectivityConnected means the last probe reached the backend.
	ConnectivityConnected Connectivity = "connected"
	// ConnectivityDisconnected means the last probe failed.
	ConnectivityDisconnected Connectivity = "disconnected"
)
