package repositories

import (
	"context"
	"errors"

	"github.com/questkit/jobscout/internal/entities"
	"gorm.io/gorm"
)

type Alerts struct {
	db *gorm.DB
}

func NewAlertsRepository(db *gorm.DB) *Alerts {
	return &Alerts{db: db}
}

func (repo *Alerts) Add(ctx context.Context, alert entities.Alert) error {
	return repo.db.WithContext(ctx).Create(&alert).Error
}

func (repo *Alerts) GetByID(ctx context.Context, id string) (*entities.Alert, error) {

	var alert entities.Alert
	err := repo.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (repo *Alerts) GetActive(ctx context.Context) ([]entities.Alert, error) {

	var alerts []entities.Alert
	if err := repo.db.WithContext(ctx).Order("created_at").
		Find(&alerts, "is_active = ?", true).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (repo *Alerts) GetAll(ctx context.Context) ([]entities.Alert, error) {

	var alerts []entities.Alert
	if err := repo.db.WithContext(ctx).Order("created_at").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (repo *Alerts) Update(ctx context.Context, alert entities.Alert) error {
	return repo.db.WithContext(ctx).Model(&entities.Alert{}).Where("id = ?", alert.ID).
		Updates(map[string]any{
			"name":      alert.Name,
			"query":     alert.Query,
			"criteria":  alert.CriteriaJSON,
			"filters":   alert.FiltersJSON,
			"frequency": alert.Frequency,
			"is_active": alert.IsActive,
		}).Error
}

func (repo *Alerts) SetActive(ctx context.Context, id string, active bool) error {
	return repo.db.WithContext(ctx).Model(&entities.Alert{}).Where("id = ?", id).
		Update("is_active", active).Error
}

func (repo *Alerts) MarkTriggered(ctx context.Context, id string, newMatches int) error {
	return repo.db.WithContext(ctx).Model(&entities.Alert{}).Where("id = ?", id).
		Updates(map[string]any{
			"last_triggered": gorm.Expr("CURRENT_TIMESTAMP"),
			"total_matches":  gorm.Expr("total_matches + ?", newMatches),
		}).Error
}

func (repo *Alerts) Remove(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Delete(&entities.Alert{}, "id = ?", id).Error
}
