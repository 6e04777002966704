package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type cleanupRepository interface {
	RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error)
}

// RetentionCleaner prunes old notifications and notified-job records
// once a day at midnight.
type RetentionCleaner struct {
	notifications   cleanupRepository
	notified        cleanupRepository
	cron            *cron.Cron
	retentionInDays int
}

func NewRetentionCleaner(notifications, notified cleanupRepository, retentionInDays int) (*RetentionCleaner, error) {

	if retentionInDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	rc := &RetentionCleaner{
		notifications:   notifications,
		notified:        notified,
		cron:            cron.New(),
		retentionInDays: retentionInDays,
	}

	_, err := rc.cron.AddFunc("0 0 * * *", rc.cleanOldRecords)
	if err != nil {
		return nil, err
	}

	rc.cron.Start()
	log.Infof("retention cleaner started, retention in days: %d", rc.retentionInDays)
	return rc, nil
}

func (rc *RetentionCleaner) Stop() {
	rc.cron.Stop()
}

func (rc *RetentionCleaner) cleanOldRecords() {

	expirationTime := time.Now().Add(-time.Duration(rc.retentionInDays) * 24 * time.Hour)

	rowsAffected, err := rc.notifications.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.Errorf("Failed to clean old notifications: %v", err)
	} else {
		log.Infof("Old notifications cleaned, affected rows: %v", rowsAffected)
	}

	rowsAffected, err = rc.notified.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.Errorf("Failed to clean old notified records: %v", err)
	} else {
		log.Infof("Old notified records cleaned, affected rows: %v", rowsAffected)
	}
}
