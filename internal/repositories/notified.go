package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
)

// NotifiedJobs holds the per-alert set of job IDs already surfaced to
// the user, capped to the most recent rows per alert. An evicted ID may
// be notified again if the job resurfaces much later; bounded storage
// is worth that tradeoff.
type NotifiedJobs struct {
	db  *gorm.DB
	cap int
}

func NewNotifiedJobsRepository(db *gorm.DB, cap int) *NotifiedJobs {
	return &NotifiedJobs{db: db, cap: cap}
}

func (repo *NotifiedJobs) IsNotified(ctx context.Context, alertID, jobID string) (bool, error) {

	var notified entities.NotifiedJob
	err := repo.db.WithContext(ctx).
		Where("alert_id = ? AND job_id = ?", alertID, jobID).
		First(&notified).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RecordNotified inserts the ID and evicts the oldest rows of the alert
// beyond the cap in the same transaction, so the set is persisted and
// bounded before the next check runs.
func (repo *NotifiedJobs) RecordNotified(ctx context.Context, alertID, jobID string) error {

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Create(&entities.NotifiedJob{
			AlertID:   alertID,
			JobID:     jobID,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		return tx.Exec(`DELETE FROM notified_jobs WHERE alert_id = ? AND id NOT IN
			(SELECT id FROM notified_jobs WHERE alert_id = ? ORDER BY id DESC LIMIT ?)`,
			alertID, alertID, repo.cap).Error
	})
}

func (repo *NotifiedJobs) RemoveByAlert(ctx context.Context, alertID string) error {
	return repo.db.WithContext(ctx).Delete(&entities.NotifiedJob{}, "alert_id = ?", alertID).Error
}

func (repo *NotifiedJobs) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.NotifiedJob{}, "created_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
