package connmgr

import "time"

// State is the lifecycle stage of a Manager.
type State int

const (
	Uninitialized State = iota
	ConnectingPrimary
	ConnectedPrimary
	ConnectingFallback
	ConnectedFallback
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ConnectingPrimary:
		return "connecting_primary"
	case ConnectedPrimary:
		return "connected_primary"
	case ConnectingFallback:
		return "connecting_fallback"
	case ConnectedFallback:
		return "connected_fallback"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Connected reports whether s has an active adapter.
func (s State) Connected() bool {
	return s == ConnectedPrimary || s == ConnectedFallback
}

// Attempt is one entry of the connection history.
type Attempt struct {
	Backend   string    `json:"backend"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
