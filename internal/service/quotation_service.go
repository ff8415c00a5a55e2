package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"go.uber.org/zap"
)

const idGenerationAttempts = 5

// QuotationService persists quotations and answers expiry-partitioned reads.
type QuotationService struct {
	repo     *repository.QuotationRepository
	numbers  *NumberService
	settings *SettingsService
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(repo *repository.QuotationRepository, numbers *NumberService, settings *SettingsService, logger *zap.Logger) *QuotationService {
	return &QuotationService{
		repo:     repo,
		numbers:  numbers,
		settings: settings,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Save persists a quotation. It assigns an id when the record has none,
// stamps the creation date and validity window, recomputes every subtotal
// (caller-supplied subtotals are never trusted) and forces the status to
// "sent". Returns the persisted record.
func (s *QuotationService) Save(ctx context.Context, quotation *domain.Quotation) (*domain.Quotation, error) {
	business, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()

	saved := *quotation
	saved.Items = quotation.CloneItems()
	saved.Installation = quotation.CloneInstallation()
	saved.Date = now
	saved.ValidUntil = now.AddDate(0, 0, business.QuotationValidityDays)
	saved.Status = domain.QuotationStatusSent
	saved.RecalculateTotals()

	err = s.repo.Mutate(ctx, func(quotations []domain.Quotation) ([]domain.Quotation, error) {
		if saved.ID == "" {
			id, err := s.uniqueQuotationID(quotations)
			if err != nil {
				return nil, err
			}
			saved.ID = id
		}
		for i := range quotations {
			if quotations[i].ID == saved.ID {
				quotations[i] = saved
				return quotations, nil
			}
		}
		return append(quotations, saved), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation saved",
		zap.String("quotation_id", saved.ID),
		zap.Int("items", len(saved.Items)),
		zap.Float64("total", saved.Total),
	)
	return &saved, nil
}

func (s *QuotationService) uniqueQuotationID(existing []domain.Quotation) (string, error) {
	for attempt := 0; attempt < idGenerationAttempts; attempt++ {
		id := s.numbers.QuotationID()
		taken := false
		for i := range existing {
			if existing[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}

// GetByID returns the quotation with the given id, or nil when none matches.
func (s *QuotationService) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	quotations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quotations {
		if quotations[i].ID == id {
			return &quotations[i], nil
		}
	}
	return nil, nil
}

// GetAll returns every persisted quotation.
func (s *QuotationService) GetAll(ctx context.Context) ([]domain.Quotation, error) {
	return s.repo.GetAll(ctx)
}

// GetValid returns the quotations whose validity window has not passed.
// GetValid and GetExpired partition GetAll exactly at any instant.
func (s *QuotationService) GetValid(ctx context.Context) ([]domain.Quotation, error) {
	return s.filter(ctx, false)
}

// GetExpired returns the quotations whose validity window has passed.
func (s *QuotationService) GetExpired(ctx context.Context) ([]domain.Quotation, error) {
	return s.filter(ctx, true)
}

func (s *QuotationService) filter(ctx context.Context, expired bool) ([]domain.Quotation, error) {
	quotations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	result := make([]domain.Quotation, 0, len(quotations))
	for _, q := range quotations {
		if q.IsExpired(now) == expired {
			result = append(result, q)
		}
	}
	return result, nil
}

// DeleteByID removes a quotation. Deleting an unknown id fails with
// ErrNotFound.
func (s *QuotationService) DeleteByID(ctx context.Context, id string) error {
	return s.repo.Mutate(ctx, func(quotations []domain.Quotation) ([]domain.Quotation, error) {
		for i := range quotations {
			if quotations[i].ID == id {
				return append(quotations[:i], quotations[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, id)
	})
}

// DeleteExpired replaces the stored list with the valid quotations and
// returns how many records were dropped.
func (s *QuotationService) DeleteExpired(ctx context.Context) (int, error) {
	removed := 0
	err := s.repo.Mutate(ctx, func(quotations []domain.Quotation) ([]domain.Quotation, error) {
		now := s.nowFunc()
		valid := make([]domain.Quotation, 0, len(quotations))
		for _, q := range quotations {
			if !q.IsExpired(now) {
				valid = append(valid, q)
			}
		}
		removed = len(quotations) - len(valid)
		return valid, nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expired quotations removed", zap.Int("count", removed))
	}
	return removed, nil
}

// UpdateStatus sets a quotation's stored status in place and stamps
// lastUpdated. Only storable status values are accepted; expiry is derived,
// never written.
func (s *QuotationService) UpdateStatus(ctx context.Context, id string, status domain.QuotationStatus) (*domain.Quotation, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var updated domain.Quotation
	err := s.repo.Mutate(ctx, func(quotations []domain.Quotation) ([]domain.Quotation, error) {
		for i := range quotations {
			if quotations[i].ID == id {
				now := s.nowFunc()
				quotations[i].Status = status
				quotations[i].LastUpdated = &now
				updated = quotations[i]
				return quotations, nil
			}
		}
		return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
