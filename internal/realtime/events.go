// Package realtime fans server-state invalidation out to connected clients
// over SSE. Events are typed and keyed by the resource they invalidate, so
// a client refetches exactly what changed.
package realtime

type Event string

const (
	EventUserDataCleared   Event = "user_data_cleared"
	EventWorkshopDataReset Event = "workshop_data_reset"
	EventStepCompleted     Event = "step_completed"
	EventReportReady       Event = "report_ready"
	EventStarCardUpdated   Event = "star_card_updated"
)

// Message is one invalidation notice. Channel is the target user's ID, so
// fan-out never leaks one user's activity to another.
type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}
