package entities

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type AlertFrequency string

const (
	FrequencyInstant AlertFrequency = "instant"
	FrequencyHourly  AlertFrequency = "hourly"
	FrequencyDaily   AlertFrequency = "daily"
	FrequencyWeekly  AlertFrequency = "weekly"
)

// MinInterval is the smallest gap between two checks of the same alert.
// "instant" still keeps a 5 minute floor so polling can't hammer sources.
func (f AlertFrequency) MinInterval() (time.Duration, error) {
	switch f {
	case FrequencyInstant:
		return 5 * time.Minute, nil
	case FrequencyHourly:
		return time.Hour, nil
	case FrequencyDaily:
		return 24 * time.Hour, nil
	case FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, errors.Errorf("unknown alert frequency %q", f)
	}
}

// AlertFilters are applied on top of the alert's saved criteria after
// each aggregator run.
type AlertFilters struct {
	Companies        []string `json:"companies"`
	ExcludeCompanies []string `json:"excludeCompanies"`
	Keywords         []string `json:"keywords"`
	ExcludeKeywords  []string `json:"excludeKeywords"`
	MinRelevance     int      `json:"minRelevance"`
}

// Alert is a persisted saved-search checked on the polling cycle.
// Criteria and Filters are stored as JSON columns.
type Alert struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Query         string `validate:"required"`
	CriteriaJSON  string `gorm:"column:criteria"`
	FiltersJSON   string `gorm:"column:filters"`
	Frequency     AlertFrequency `validate:"required,oneof=instant hourly daily weekly"`
	IsActive      bool
	LastTriggered time.Time
	TotalMatches  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *Alert) Criteria() (SearchCriteria, error) {
	var c SearchCriteria
	if a.CriteriaJSON == "" {
		return c, nil
	}
	err := json.Unmarshal([]byte(a.CriteriaJSON), &c)
	return c, errors.Wrap(err, "decode alert criteria")
}

func (a *Alert) SetCriteria(c SearchCriteria) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode alert criteria")
	}
	a.CriteriaJSON = string(raw)
	return nil
}

func (a *Alert) Filters() (AlertFilters, error) {
	var f AlertFilters
	if a.FiltersJSON == "" {
		return f, nil
	}
	err := json.Unmarshal([]byte(a.FiltersJSON), &f)
	return f, errors.Wrap(err, "decode alert filters")
}

func (a *Alert) SetFilters(f AlertFilters) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encode alert filters")
	}
	a.FiltersJSON = string(raw)
	return nil
}

// IsDue reports whether enough time passed since the last trigger for
// the alert's frequency.
func (a *Alert) IsDue(now time.Time) bool {
	interval, err := a.Frequency.MinInterval()
	if err != nil {
		return false
	}
	return a.LastTriggered.IsZero() || now.Sub(a.LastTriggered) >= interval
}

type NotificationType string

const (
	NotificationJobAlert NotificationType = "job_alert"
	NotificationError    NotificationType = "error"
)

type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "high"
	PriorityMedium NotificationPriority = "medium"
	PriorityLow    NotificationPriority = "low"
)

// Notification is one append-only entry of the capped notification log.
// Jobs are stored as a JSON column.
type Notification struct {
	ID        string `gorm:"primaryKey"`
	AlertID   string `gorm:"index"`
	Type      NotificationType
	Priority  NotificationPriority
	Title     string
	Message   string
	JobsJSON  string `gorm:"column:jobs"`
	Read      bool
	CreatedAt time.Time
}

func (n *Notification) Jobs() ([]Job, error) {
	if n.JobsJSON == "" {
		return nil, nil
	}
	var jobs []Job
	err := json.Unmarshal([]byte(n.JobsJSON), &jobs)
	return jobs, errors.Wrap(err, "decode notification jobs")
}

func (n *Notification) SetJobs(jobs []Job) error {
	raw, err := json.Marshal(jobs)
	if err != nil {
		return errors.Wrap(err, "encode notification jobs")
	}
	n.JobsJSON = string(raw)
	return nil
}

// NotifiedJob is one row of a per-alert notified-ID set, capped to the
// most recent N rows per alert.
type NotifiedJob struct {
	ID        int    `gorm:"primaryKey"`
	AlertID   string `gorm:"index"`
	JobID     string
	CreatedAt time.Time
}

// ArbitraryData is an opaque key-value blob used for engine state that
// has no table of its own, such as analytics counters.
type ArbitraryData struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}
