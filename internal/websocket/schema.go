package websocket

import (
	"github.com/stemsi/student-records/internal/service"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSetField  Action = "set_field"
	ActionSubmit    Action = "submit"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionSetFilter Action = "set_filter"
	ActionReset     Action = "reset"
	ActionPing      Action = "ping"
)

// RequestPayload is the single client message shape; each action reads
// only the fields it needs.
type RequestPayload struct {
	Action   Action `json:"action"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value,omitempty"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Division string `json:"division,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventView    Event = "view"
	EventInvalid Event = "invalid"
	EventSaved   Event = "saved"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// ViewResponse carries the full page state after a transition.
type ViewResponse struct {
	Event Event        `json:"event"`
	View  service.View `json:"view"`
}

// InvalidResponse lists the fields that blocked a submit.
type InvalidResponse struct {
	Event  Event             `json:"event"`
	Fields map[string]string `json:"fields"`
}

// SavedResponse reports a stored record.
type SavedResponse struct {
	Event  Event                `json:"event"`
	Result service.SubmitResult `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
