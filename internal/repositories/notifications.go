package repositories

import (
	"context"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
)

// Notifications is the append-only, capped notification log.
type Notifications struct {
	db  *gorm.DB
	cap int
}

func NewNotificationsRepository(db *gorm.DB, cap int) *Notifications {
	return &Notifications{db: db, cap: cap}
}

// Add appends the notification and evicts the oldest entries beyond
// the cap.
func (repo *Notifications) Add(ctx context.Context, notification entities.Notification) error {

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Create(&notification).Error; err != nil {
			return err
		}

		return tx.Exec(`DELETE FROM notifications WHERE id NOT IN
			(SELECT id FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?)`,
			repo.cap).Error
	})
}

// NotificationFilter narrows Get; zero values mean "any".
type NotificationFilter struct {
	Type       entities.NotificationType
	Priority   entities.NotificationPriority
	UnreadOnly bool
	Since      time.Time
}

func (repo *Notifications) Get(ctx context.Context, filter NotificationFilter) ([]entities.Notification, error) {

	query := repo.db.WithContext(ctx).Order("created_at DESC")

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}

	var notifications []entities.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *Notifications) MarkAsRead(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Model(&entities.Notification{}).Where("id = ?", id).
		Update("read", true).Error
}

func (repo *Notifications) MarkAllAsRead(ctx context.Context) error {
	return repo.db.WithContext(ctx).Model(&entities.Notification{}).Where("read = ?", false).
		Update("read", true).Error
}

func (repo *Notifications) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.Notification{}, "created_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
