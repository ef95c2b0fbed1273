package usecase

import (
	"context"
	"encoding/json"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/metrics"
	"creator-market/pkg/models"
	"creator-market/pkg/queue"
	"creator-market/services/analytics/internal/entity"
	"creator-market/services/analytics/internal/repo/cache"
	"creator-market/services/analytics/internal/repo/persistent"
)

type SalesUseCase interface {
	GetSalesSummary(ctx context.Context, creatorID string) (*entity.SalesSummary, error)
	HandlePurchaseSettled(ctx context.Context, routingKey string, body []byte) error
}

type salesUseCase struct {
	salesRepo persistent.SalesRepository
	cache     cache.SalesSummaryCache
	feeRate   float64
	logger    *logger.Logger
	now       func() time.Time
}

func NewSalesUseCase(salesRepo persistent.SalesRepository, summaryCache cache.SalesSummaryCache, feeRate float64, logger *logger.Logger) SalesUseCase {
	return &salesUseCase{
		salesRepo: salesRepo,
		cache:     summaryCache,
		feeRate:   feeRate,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *salesUseCase) GetSalesSummary(ctx context.Context, creatorID string) (*entity.SalesSummary, error) {
	// The generation is read before the sales so a sale settled while they
	// load makes the result unreachable instead of stale.
	useCache := uc.cache != nil
	var generation int64
	if useCache {
		var err error
		generation, err = uc.cache.Generation(ctx, creatorID)
		if err != nil {
			uc.logger.Warn("Sales summary cache unavailable for %s: %v", creatorID, err)
			useCache = false
		}
	}

	if useCache {
		cached, err := uc.cache.Get(ctx, creatorID, generation)
		if err != nil {
			uc.logger.Warn("Sales summary cache read failed for %s: %v", creatorID, err)
		} else if cached != nil {
			metrics.RecordSalesSummaryCache(true)
			return cached, nil
		}
		metrics.RecordSalesSummaryCache(false)
	}

	sales, err := uc.salesRepo.ListSales(ctx, creatorID)
	if err != nil {
		uc.logger.Error("Failed to load sales of %s: %v", creatorID, err)
		return nil, apperr.Internal("failed to load sales", err)
	}

	summary := entity.Summarize(sales, uc.feeRate, entity.DefaultRecentSales)
	summary.GeneratedAt = uc.now().UTC()

	recorded, err := uc.salesRepo.SumEarnings(ctx, creatorID)
	if err != nil {
		uc.logger.Warn("Could not reconcile earnings of %s: %v", creatorID, err)
	} else if !recorded.Equal(summary.CreatorEarnings) {
		uc.logger.Warn("Earnings mismatch for %s: summary=%s recorded=%s",
			creatorID, summary.CreatorEarnings.StringFixed(2), recorded.StringFixed(2))
	}

	if useCache {
		if err := uc.cache.Set(ctx, creatorID, generation, &summary); err != nil {
			uc.logger.Warn("Sales summary cache write failed for %s: %v", creatorID, err)
		}
	}

	return &summary, nil
}

// HandlePurchaseSettled drops the cached summary of the creator who just made
// a sale. Undecodable events are logged and dropped so they are not redelivered
// forever.
func (uc *salesUseCase) HandlePurchaseSettled(ctx context.Context, routingKey string, body []byte) error {
	if routingKey != queue.RoutingKeyPurchaseSettled {
		return nil
	}

	var event models.PurchaseSettled
	if err := json.Unmarshal(body, &event); err != nil || event.CreatorID == "" {
		uc.logger.Error("Dropping malformed %s event: %v", routingKey, err)
		return nil
	}

	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Invalidate(ctx, event.CreatorID); err != nil {
		uc.logger.Error("Failed to invalidate sales summary of %s: %v", event.CreatorID, err)
		return err
	}

	uc.logger.Debug("Sales summary of %s invalidated by purchase %s", event.CreatorID, event.PurchaseID)
	return nil
}
