package dtos

import "github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"

const (
	RealtimeSubscribe   = "subscribe"
	RealtimeUnsubscribe = "unsubscribe"
	RealtimeSubscribed  = "subscribed"
	RealtimeChange      = "change"
	RealtimeError       = "error"
)

// RealtimeClientMessage is sent by the browser. An empty table or "*"
// event subscribes to everything.
type RealtimeClientMessage struct {
	Type  string             `json:"type"`
	Table string             `json:"table"`
	Event eventbus.EventType `json:"event"`
}

type RealtimeServerMessage struct {
	Type   string                `json:"type"`
	Table  string                `json:"table,omitempty"`
	Event  eventbus.EventType    `json:"event,omitempty"`
	Change *eventbus.ChangeEvent `json:"change,omitempty"`
	Error  string                `json:"error,omitempty"`
}
