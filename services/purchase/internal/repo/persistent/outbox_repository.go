package persistent

import (
	"context"
	"time"

	"creator-market/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxMessage struct {
	ID        string
	EventType string
	Payload   []byte
	Attempts  int
}

// OutboxRepository hands pending events to a relay. Claimed rows stay locked
// until the callback returns, so concurrent relays never publish the same
// event twice in one round.
type OutboxRepository interface {
	ProcessPending(ctx context.Context, limit int, publish func(msg OutboxMessage) error) (published, failed int, err error)
}

type outboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db, now: time.Now}
}

func (r *outboxRepository) ProcessPending(ctx context.Context, limit int, publish func(msg OutboxMessage) error) (int, int, error) {
	published, failed := 0, 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []models.OutboxEvent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("published_at IS NULL").
			Order("created_at ASC").
			Limit(limit).
			Find(&events).Error
		if err != nil {
			return err
		}

		for i := range events {
			event := &events[i]
			publishErr := publish(OutboxMessage{
				ID:        event.ID,
				EventType: event.EventType,
				Payload:   event.Payload,
				Attempts:  event.Attempts,
			})

			updates := map[string]interface{}{"attempts": gorm.Expr("attempts + 1")}
			if publishErr != nil {
				updates["last_error"] = publishErr.Error()
				failed++
			} else {
				updates["published_at"] = r.now()
				updates["last_error"] = nil
				published++
			}

			if err := tx.Model(&models.OutboxEvent{}).Where("id = ?", event.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return published, failed, nil
}
