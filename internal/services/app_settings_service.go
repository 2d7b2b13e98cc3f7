package services

import (
	"context"
	"errors"
	"time"

	"devforge/internal/models"
	"devforge/internal/repositories"
)

var knownProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"gemini":    true,
}

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(defaultProvider, mirrorDir string, genWorkers int) (*models.AppSettings, error)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(context.Background())
}

func (s *appSettingsService) Update(defaultProvider, mirrorDir string, genWorkers int) (*models.AppSettings, error) {
	if defaultProvider == "" {
		return nil, errors.New("default provider is required")
	}
	if !knownProviders[defaultProvider] {
		return nil, errors.New("provider must be 'openai', 'anthropic', or 'gemini'")
	}
	if genWorkers < 1 {
		return nil, errors.New("generation workers must be at least 1")
	}

	current, err := s.appSettings.Get(context.Background())
	if err != nil {
		return nil, err
	}

	current.DefaultProvider = defaultProvider
	current.MirrorDir = mirrorDir
	current.GenWorkers = genWorkers
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(context.Background(), current); err != nil {
		return nil, err
	}
	return current, nil
}
