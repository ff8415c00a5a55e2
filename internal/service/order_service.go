package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"go.uber.org/zap"
)

// OrderService creates orders from quotations and manages their lifecycle.
type OrderService struct {
	repo    *repository.OrderRepository
	numbers *NumberService
	rules   domain.CustomerFieldRules
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(repo *repository.OrderRepository, numbers *NumberService, rules domain.CustomerFieldRules, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:    repo,
		numbers: numbers,
		rules:   rules,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// CreateOrder builds an order from a quotation (or nil for a direct order)
// and raw customer data, assigns a unique id and persists it. Validation
// errors from missing required customer fields pass through unchanged.
func (s *OrderService) CreateOrder(ctx context.Context, quotation *domain.Quotation, customer map[string]string) (*domain.Order, error) {
	order, err := domain.NewOrder(quotation, customer, s.rules, s.nowFunc())
	if err != nil {
		return nil, err
	}

	err = s.repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		id, err := s.uniqueOrderID(orders)
		if err != nil {
			return nil, err
		}
		order.ID = id
		return append(orders, *order), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

// uniqueOrderID generates an order id candidate and retries while it
// collides with a persisted order. Candidates share the day prefix, so
// collisions are possible and must be checked.
func (s *OrderService) uniqueOrderID(existing []domain.Order) (string, error) {
	for attempt := 0; attempt < idGenerationAttempts; attempt++ {
		id := s.numbers.OrderID()
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

// GetByID returns the order with the given id, or nil when none matches.
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// GetAll returns every persisted order.
func (s *OrderService) GetAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.GetAll(ctx)
}

// UpdateStatus moves an order to a new status, appending one history entry.
// Unknown order ids fail with ErrNotFound; invalid status values surface the
// order's own validation error.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, note string) (*domain.Order, error) {
	var updated domain.Order
	err := s.repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				if err := orders[i].UpdateStatus(status, note, s.nowFunc()); err != nil {
					return nil, err
				}
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)
	return &updated, nil
}

// GetByStatus returns the orders currently in the given status.
func (s *OrderService) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	return result, nil
}

// GetByDateRange returns the orders created in [from, to] inclusive.
func (s *OrderService) GetByDateRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !o.Date.Before(from) && !o.Date.After(to) {
			result = append(result, o)
		}
	}
	return result, nil
}

// GetByCustomer returns the orders whose customer phone matches exactly.
func (s *OrderService) GetByCustomer(ctx context.Context, phone string) ([]domain.Order, error) {
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Customer.Phone == phone {
			result = append(result, o)
		}
	}
	return result, nil
}

// Delete removes an order. Deleting an unknown id fails with ErrNotFound.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				return append(orders[:i], orders[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	})
}

// GetStatistics aggregates the current month's order count and revenue
// (cancelled orders excluded) plus per-status counts over all orders.
func (s *OrderService) GetStatistics(ctx context.Context) (*domain.OrderStatistics, error) {
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	stats := &domain.OrderStatistics{
		ByStatus: make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
	}
	for _, status := range domain.OrderStatuses {
		stats.ByStatus[status] = 0
	}

	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		if o.Date.Year() == now.Year() && o.Date.Month() == now.Month() {
			stats.MonthOrderCount++
			stats.MonthRevenue += o.Total
		}
	}
	return stats, nil
}

// CleanOldOrders removes orders older than daysOld, keeping every order that
// still represents open work regardless of age. Returns how many were
// removed.
func (s *OrderService) CleanOldOrders(ctx context.Context, daysOld int) (int, error) {
	removed := 0
	err := s.repo.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		cutoff := s.nowFunc().AddDate(0, 0, -daysOld)
		kept := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.Date.After(cutoff) || o.IsOpen() {
				kept = append(kept, o)
			}
		}
		removed = len(orders) - len(kept)
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("old orders removed", zap.Int("count", removed))
	}
	return removed, nil
}
