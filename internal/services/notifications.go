package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/repositories"
)

type notificationRepository interface {
	Add(ctx context.Context, notification entities.Notification) error
	Get(ctx context.Context, filter repositories.NotificationFilter) ([]entities.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
}

// NotificationService is the read side of the notification log.
type NotificationService struct {
	notifications notificationRepository
}

func NewNotificationService(notifications notificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) GetNotifications(ctx context.Context,
	filter repositories.NotificationFilter) ([]entities.Notification, error) {
	return s.notifications.Get(ctx, filter)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	return s.notifications.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	return s.notifications.MarkAllAsRead(ctx)
}

// DailyDigest summarizes the job alerts of the last 24 hours. It is
// built purely from stored notifications, sources are not re-queried.
type DailyDigest struct {
	GeneratedAt  time.Time
	TotalJobs    int
	TopCompanies []string
	TopLocations []string
	Highlights   []entities.Job
}

func (s *NotificationService) GenerateDailyDigest(ctx context.Context) (*DailyDigest, error) {

	since := time.Now().Add(-24 * time.Hour)
	notifications, err := s.notifications.Get(ctx, repositories.NotificationFilter{
		Type:  entities.NotificationJobAlert,
		Since: since,
	})
	if err != nil {
		return nil, err
	}

	var jobs []entities.Job
	for _, notification := range notifications {
		batch, err := notification.Jobs()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, batch...)
	}

	digest := &DailyDigest{
		GeneratedAt:  time.Now(),
		TotalJobs:    len(jobs),
		TopCompanies: topCounts(jobs, func(j entities.Job) string { return j.Company }),
		TopLocations: topCounts(jobs, func(j entities.Job) string { return j.Location }),
		Highlights:   topByRelevance(jobs, 5),
	}
	return digest, nil
}

func topCounts(jobs []entities.Job, key func(entities.Job) string) []string {

	counts := make(map[string]int)
	for _, job := range jobs {
		k := strings.TrimSpace(key(job))
		if k != "" {
			counts[k]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > 5 {
		names = names[:5]
	}
	return names
}

func topByRelevance(jobs []entities.Job, limit int) []entities.Job {

	sorted := make([]entities.Job, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
