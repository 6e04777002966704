package events

var AlertDeletedTopic = "AlertDeletedEvent"

type AlertDeleted struct {
	AlertID string
}
