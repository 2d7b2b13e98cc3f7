package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"devforge/internal/models"
)

type AppSettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, settings *models.AppSettings) error
}

type appSettingsRepository struct {
	db *gorm.DB
}

func NewAppSettingsRepository(db *gorm.DB) AppSettingsRepository {
	return &appSettingsRepository{db: db}
}

func (r *appSettingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	if err := r.db.WithContext(ctx).First(&settings, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Defaults until the first explicit update.
			return &models.AppSettings{
				ID:              1,
				Version:         1,
				DefaultProvider: "openai",
				GenWorkers:      3,
			}, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *appSettingsRepository) Update(ctx context.Context, settings *models.AppSettings) error {
	// Single-row table, always ID 1.
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}
