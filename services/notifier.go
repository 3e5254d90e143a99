package services

// Notification event names pushed to connected clients
const (
	EventInvitationCreated = "invitation:created"
	EventInvitationUpdated = "invitation:updated"
	EventProfileStatus     = "profile:status"
)

// Notifier delivers best-effort events to a user. Delivery failures are
// the notifier's concern and never fail the originating operation.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// NoopNotifier drops every event
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string, interface{}) {}
