package service

import (
	"context"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/repository"
)

// SettingsService merges the persisted admin settings over the compiled-in
// business defaults. Zero values in the stored record keep the default.
type SettingsService struct {
	repo     *repository.SettingsRepository
	defaults config.BusinessConfig
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo *repository.SettingsRepository, defaults config.BusinessConfig) *SettingsService {
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
	}
}

// Effective returns the business configuration with the stored overrides
// applied.
func (s *SettingsService) Effective(ctx context.Context) (config.BusinessConfig, error) {
	cfg := s.defaults
	override, found, err := s.repo.Get(ctx)
	if err != nil {
		return cfg, err
	}
	if !found {
		return cfg, nil
	}
	if override.QuotationValidityDays > 0 {
		cfg.QuotationValidityDays = override.QuotationValidityDays
	}
	if override.InstallationPricePerMeter > 0 {
		cfg.InstallationPricePerMeter = override.InstallationPricePerMeter
	}
	if override.PostSpacingMeters > 0 {
		cfg.PostSpacingMeters = override.PostSpacingMeters
	}
	if override.MarginPercent > 0 {
		cfg.MarginPercent = override.MarginPercent
	}
	return cfg, nil
}

// Get returns the stored override record, or an empty record when none has
// been saved.
func (s *SettingsService) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	override, found, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return &domain.BusinessSettings{}, nil
	}
	return override, nil
}

// Update replaces the stored override record.
func (s *SettingsService) Update(ctx context.Context, settings *domain.BusinessSettings) error {
	return s.repo.Save(ctx, settings)
}

// Reset removes the stored override record, restoring all defaults.
func (s *SettingsService) Reset(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
