package entities

import (
	"time"

	"github.com/pkg/errors"
)

// ApplicationStatus values form the application lifecycle state machine.
type ApplicationStatus string

const (
	StatusSaved             ApplicationStatus = "saved"
	StatusApplied           ApplicationStatus = "applied"
	StatusUnderReview       ApplicationStatus = "under_review"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusInterviewed       ApplicationStatus = "interviewed"
	StatusSecondInterview   ApplicationStatus = "second_interview"
	StatusFinalInterview    ApplicationStatus = "final_interview"
	StatusReferenceCheck    ApplicationStatus = "reference_check"
	StatusOfferReceived     ApplicationStatus = "offer_received"
	StatusOfferAccepted     ApplicationStatus = "offer_accepted"
	StatusOfferDeclined     ApplicationStatus = "offer_declined"
	StatusRejected          ApplicationStatus = "rejected"
	StatusWithdrawn         ApplicationStatus = "withdrawn"
	StatusGhosted           ApplicationStatus = "ghosted"
)

var ErrUnknownStatus = errors.New("unknown application status")

var allStatuses = map[ApplicationStatus]struct{}{
	StatusSaved: {}, StatusApplied: {}, StatusUnderReview: {},
	StatusInterviewScheduled: {}, StatusInterviewed: {}, StatusSecondInterview: {},
	StatusFinalInterview: {}, StatusReferenceCheck: {}, StatusOfferReceived: {},
	StatusOfferAccepted: {}, StatusOfferDeclined: {}, StatusRejected: {},
	StatusWithdrawn: {}, StatusGhosted: {},
}

// ParseApplicationStatus rejects values outside the fixed enum.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(s)
	if _, ok := allStatuses[status]; !ok {
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
	return status, nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusOfferAccepted, StatusOfferDeclined, StatusRejected, StatusWithdrawn, StatusGhosted:
		return true
	}
	return false
}

// IsInterviewStage reports whether the status belongs to the interview
// family, used by the tracker's interview-rate statistic.
func (s ApplicationStatus) IsInterviewStage() bool {
	switch s {
	case StatusInterviewScheduled, StatusInterviewed, StatusSecondInterview, StatusFinalInterview:
		return true
	}
	return false
}

// StatusEntry is one append-only history record of an Application.
type StatusEntry struct {
	ID            int `gorm:"primaryKey"`
	ApplicationID int `gorm:"index"`
	Status        ApplicationStatus
	Notes         string
	CreatedAt     time.Time
}

// Application tracks one job through the lifecycle. History is append-only:
// entries are never rewritten, a new status supersedes the old one.
type Application struct {
	ID            int    `gorm:"primaryKey"`
	JobID         string `gorm:"uniqueIndex"`
	JobTitle      string
	Company       string
	Status        ApplicationStatus
	Platform      string
	Notes         string
	AppliedAt     time.Time
	StatusHistory []StatusEntry `gorm:"foreignKey:ApplicationID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SavedJob is a bookmarked listing that has not been applied to yet.
type SavedJob struct {
	JobID     string `gorm:"primaryKey"`
	Title     string
	Company   string
	CreatedAt time.Time
}

// Interview, Offer and Rejection are satellite records created as side
// effects of specific status transitions.
type Interview struct {
	ID          int    `gorm:"primaryKey"`
	JobID       string `gorm:"index"`
	Round       int
	ScheduledAt time.Time
	Notes       string
	CreatedAt   time.Time
}

type Offer struct {
	ID         int    `gorm:"primaryKey"`
	JobID      string `gorm:"uniqueIndex"`
	SalaryNote string
	Deadline   time.Time
	CreatedAt  time.Time
}

type Rejection struct {
	ID        int    `gorm:"primaryKey"`
	JobID     string `gorm:"index"`
	Reason    string
	Ghosted   bool
	CreatedAt time.Time
}

// ApplicationStats is derived from the full application set on demand.
type ApplicationStats struct {
	TotalApplications   int
	TotalInterviews     int
	TotalOffers         int
	TotalRejections     int
	SuccessRate         float64
	ResponseRate        float64
	InterviewRate       float64
	AvgResponseTimeDays float64
}
