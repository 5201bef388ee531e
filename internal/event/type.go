package event

import (
	"time"

	"valuation-service/internal/models"
)

const StatusEventQueue = "valuation_status_events"

// StatusEvent is published on every successful workflow transition so the
// notification service can inform the affected parties.
type StatusEvent struct {
	UniqueID   string            `json:"unique_id"`
	FormFamily models.FormFamily `json:"form_family"`
	ClientID   string            `json:"client_id"`
	FromStatus string            `json:"from_status"`
	ToStatus   models.Status     `json:"to_status"`
	ActedBy    string            `json:"acted_by"`
	ActorRole  models.Role       `json:"actor_role"`
	Feedback   *string           `json:"feedback,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
