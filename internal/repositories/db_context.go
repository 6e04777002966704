package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {

	models := []struct {
		name  string
		model any
	}{
		{"Alert", entities.Alert{}},
		{"Notification", entities.Notification{}},
		{"NotifiedJob", entities.NotifiedJob{}},
		{"Application", entities.Application{}},
		{"StatusEntry", entities.StatusEntry{}},
		{"SavedJob", entities.SavedJob{}},
		{"Interview", entities.Interview{}},
		{"Offer", entities.Offer{}},
		{"Rejection", entities.Rejection{}},
		{"ArbitraryData", entities.ArbitraryData{}},
	}

	for _, m := range models {
		if err := c.DB.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("failed to migrate %v entity: %w", m.name, err)
		}
	}

	if err := c.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_job_id ON notified_jobs (alert_id, job_id);").
		Error; err != nil {
		return fmt.Errorf("failed to create notified job index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
