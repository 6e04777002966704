package events

import "github.com/questkit/jobscout/internal/entities"

var JobsFoundTopic = "JobsFoundEvent"

// JobsFound is published once per alert check that produced new matches.
type JobsFound struct {
	Alert        entities.Alert
	Notification entities.Notification
	Jobs         []entities.Job
}
