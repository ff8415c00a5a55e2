package jobs

import (
	"context"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/service"
	"go.uber.org/zap"
)

const cleanupTimeout = 2 * time.Minute

// RegisterCleanupJobs wires the nightly maintenance: expired quotations are
// purged and closed orders past the retention window are dropped. Open orders
// survive regardless of age.
func RegisterCleanupJobs(
	scheduler *Scheduler,
	cfg *config.JobsConfig,
	quotations *service.QuotationService,
	orders *service.OrderService,
	logger *zap.Logger,
) error {
	err := scheduler.AddJob("cleanup-expired-quotations", cfg.CleanupCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		removed, err := quotations.DeleteExpired(ctx)
		if err != nil {
			logger.Error("expired quotation cleanup failed", zap.Error(err))
			return
		}
		logger.Info("expired quotation cleanup finished", zap.Int("removed", removed))
	})
	if err != nil {
		return err
	}

	return scheduler.AddJob("cleanup-old-orders", cfg.CleanupCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		removed, err := orders.CleanOldOrders(ctx, cfg.OrderRetentionDays)
		if err != nil {
			logger.Error("old order cleanup failed", zap.Error(err))
			return
		}
		logger.Info("old order cleanup finished", zap.Int("removed", removed))
	})
}
