package repositories

import (
	"context"

	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
)

// Outcomes stores the satellite records created by status transitions:
// interviews, offers and rejections.
type Outcomes struct {
	db *gorm.DB
}

func NewOutcomesRepository(db *gorm.DB) *Outcomes {
	return &Outcomes{db: db}
}

func (repo *Outcomes) AddInterview(ctx context.Context, interview entities.Interview) error {
	return repo.db.WithContext(ctx).Create(&interview).Error
}

func (repo *Outcomes) CountInterviewsForJob(ctx context.Context, jobID string) (int64, error) {

	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Interview{}).
		Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

func (repo *Outcomes) AddOffer(ctx context.Context, offer entities.Offer) error {
	return repo.db.WithContext(ctx).Save(&offer).Error
}

func (repo *Outcomes) AddRejection(ctx context.Context, rejection entities.Rejection) error {
	return repo.db.WithContext(ctx).Create(&rejection).Error
}
