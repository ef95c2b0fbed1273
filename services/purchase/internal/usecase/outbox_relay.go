package usecase

import (
	"context"
	"time"

	"creator-market/pkg/logger"
	"creator-market/pkg/metrics"
	"creator-market/services/purchase/internal/repo/persistent"

	"github.com/cenkalti/backoff/v4"
)

// Publisher sends one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

// OutboxRelay moves committed settlement events to the broker. Events that
// fail to publish stay pending and are picked up on a later tick.
type OutboxRelay struct {
	repo       persistent.OutboxRepository
	publisher  Publisher
	interval   time.Duration
	batchSize  int
	maxRetries uint64
	logger     *logger.Logger
}

func NewOutboxRelay(repo persistent.OutboxRepository, publisher Publisher, interval time.Duration, batchSize int, logger *logger.Logger) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxRelay{
		repo:       repo,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		maxRetries: 2,
		logger:     logger,
	}
}

// Run relays until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("[OUTBOX] Relay started, interval=%s batch=%d", r.interval, r.batchSize)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("[OUTBOX] Relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("[OUTBOX] Relay round failed: %v", err)
			}
		}
	}
}

// RelayOnce publishes one batch of pending events and returns how many made
// it to the broker.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	published, failed, err := r.repo.ProcessPending(ctx, r.batchSize, func(msg persistent.OutboxMessage) error {
		err := r.publish(ctx, msg)
		metrics.RecordOutboxPublish(err == nil)
		if err != nil {
			r.logger.Warn("[OUTBOX] Event %s (%s) not published after %d attempts: %v", msg.ID, msg.EventType, msg.Attempts+1, err)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	if published > 0 || failed > 0 {
		r.logger.Debug("[OUTBOX] Relayed %d events, %d pending retry", published, failed)
	}
	return published, nil
}

func (r *OutboxRelay) publish(ctx context.Context, msg persistent.OutboxMessage) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = time.Second

	return backoff.Retry(func() error {
		return r.publisher.Publish(ctx, msg.EventType, msg.ID, msg.Payload)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx))
}
