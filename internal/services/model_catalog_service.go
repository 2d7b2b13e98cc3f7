package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"devforge/internal/assets"
	"devforge/internal/models"
	"devforge/internal/repositories"
)

// ModelCatalogService exposes the embedded model catalog merged with the
// persisted per-model enablement toggles, and picks the model a generation
// run should use for a provider.
type ModelCatalogService interface {
	Load() error
	ListModelGroups() ([]models.LLMModelGroup, error)
	SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error)
	SetProviderEnabled(provider string, enabled bool) error
	ResolveModel(provider string) (string, error)
}

type modelCatalogService struct {
	repo repositories.ModelSettingRepository

	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	catalog       map[string]*models.LLMModel
	catalogOrder  []string
	settings      map[string]bool
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
}

func NewModelCatalogService(repo repositories.ModelSettingRepository) ModelCatalogService {
	return &modelCatalogService{
		repo:          repo,
		providerNames: make(map[string]string),
		catalog:       make(map[string]*models.LLMModel),
		settings:      make(map[string]bool),
	}
}

// Load parses the embedded catalog and seeds a setting row for any model
// that has none yet. Catalog order within a provider is preference order.
func (s *modelCatalogService) Load() error {
	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return fmt.Errorf("failed to parse model catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.providerOrder = s.providerOrder[:0]
	s.catalogOrder = s.catalogOrder[:0]
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		s.providerNames[providerID] = strings.TrimSpace(provider.DisplayName)
		s.providerOrder = append(s.providerOrder, providerID)
		for _, mdl := range provider.Models {
			key := providerID + "|" + strings.TrimSpace(mdl.APIName)
			s.catalog[key] = &models.LLMModel{
				Key:          key,
				DisplayName:  strings.TrimSpace(mdl.DisplayName),
				APIName:      strings.TrimSpace(mdl.APIName),
				ProviderID:   providerID,
				ProviderName: s.providerNames[providerID],
			}
			s.catalogOrder = append(s.catalogOrder, key)
		}
	}

	existing, err := s.repo.List()
	if err != nil {
		return fmt.Errorf("failed to load model settings: %w", err)
	}
	for _, setting := range existing {
		s.settings[setting.ModelKey] = setting.Enabled
	}
	for _, key := range s.catalogOrder {
		if _, ok := s.settings[key]; !ok {
			if _, err := s.repo.Upsert(key, s.catalog[key].ProviderID, true); err != nil {
				return fmt.Errorf("failed to seed setting for %s: %w", key, err)
			}
			s.settings[key] = true
		}
	}
	return nil
}

func (s *modelCatalogService) ListModelGroups() ([]models.LLMModelGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: s.providerName(providerID),
		}
		for _, key := range s.catalogOrder {
			mdl := s.catalog[key]
			if mdl.ProviderID != providerID {
				continue
			}
			group.Models = append(group.Models, s.withEnabled(mdl))
		}
		sort.SliceStable(group.Models, func(i, j int) bool {
			return strings.ToLower(group.Models[i].DisplayName) < strings.ToLower(group.Models[j].DisplayName)
		})
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *modelCatalogService) SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mdl, ok := s.catalog[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	if _, err := s.repo.Upsert(modelKey, mdl.ProviderID, enabled); err != nil {
		return nil, err
	}
	s.settings[modelKey] = enabled
	result := s.withEnabled(mdl)
	return &result, nil
}

func (s *modelCatalogService) SetProviderEnabled(provider string, enabled bool) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return fmt.Errorf("provider is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetProviderEnabled(provider, enabled); err != nil {
		return err
	}
	for key, mdl := range s.catalog {
		if mdl.ProviderID == provider {
			s.settings[key] = enabled
		}
	}
	return nil
}

// ResolveModel returns the API name of the first enabled model for provider,
// in catalog preference order.
func (s *modelCatalogService) ResolveModel(provider string) (string, error) {
	provider = strings.TrimSpace(provider)

	s.mu.RLock()
	defer s.mu.RUnlock()

	found := false
	for _, key := range s.catalogOrder {
		mdl := s.catalog[key]
		if mdl.ProviderID != provider {
			continue
		}
		found = true
		if s.settings[key] {
			return mdl.APIName, nil
		}
	}
	if !found {
		return "", fmt.Errorf("provider %s is not in the catalog", provider)
	}
	return "", fmt.Errorf("all %s models are disabled", provider)
}

func (s *modelCatalogService) providerName(providerID string) string {
	if name := s.providerNames[providerID]; strings.TrimSpace(name) != "" {
		return name
	}
	return providerID
}

func (s *modelCatalogService) withEnabled(mdl *models.LLMModel) models.LLMModel {
	out := *mdl
	out.Enabled = s.settings[mdl.Key]
	return out
}
