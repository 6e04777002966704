package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
)

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Add(ctx context.Context, application *entities.Application) error {
	return repo.db.WithContext(ctx).Create(application).Error
}

func (repo *Applications) GetByJobID(ctx context.Context, jobID string) (*entities.Application, error) {

	var application entities.Application
	err := repo.db.WithContext(ctx).Preload("StatusHistory",
		func(db *gorm.DB) *gorm.DB { return db.Order("status_entries.id") }).
		First(&application, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

func (repo *Applications) GetAll(ctx context.Context) ([]entities.Application, error) {

	var applications []entities.Application
	if err := repo.db.WithContext(ctx).Preload("StatusHistory",
		func(db *gorm.DB) *gorm.DB { return db.Order("status_entries.id") }).
		Order("applied_at").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// AppendStatus writes the new current status and its history entry in
// one transaction; history rows are never updated or deleted.
func (repo *Applications) AppendStatus(ctx context.Context, applicationID int,
	status entities.ApplicationStatus, notes string) error {

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Model(&entities.Application{}).Where("id = ?", applicationID).
			Update("status", status).Error; err != nil {
			return err
		}

		return tx.Create(&entities.StatusEntry{
			ApplicationID: applicationID,
			Status:        status,
			Notes:         notes,
			CreatedAt:     time.Now(),
		}).Error
	})
}

func (repo *Applications) SaveJob(ctx context.Context, saved entities.SavedJob) error {
	return repo.db.WithContext(ctx).Save(&saved).Error
}

func (repo *Applications) UnsaveJob(ctx context.Context, jobID string) error {
	return repo.db.WithContext(ctx).Delete(&entities.SavedJob{}, "job_id = ?", jobID).Error
}

func (repo *Applications) IsJobSaved(ctx context.Context, jobID string) (bool, error) {

	var saved entities.SavedJob
	err := repo.db.WithContext(ctx).First(&saved, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *Applications) GetSavedJobs(ctx context.Context) ([]entities.SavedJob, error) {

	var saved []entities.SavedJob
	if err := repo.db.WithContext(ctx).Order("created_at DESC").Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}
