package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"creator-market/pkg/logger"
	"creator-market/services/profile/internal/entity"

	"github.com/redis/go-redis/v9"
)

// ChangeBroker fans profile changes out to live viewers.
type ChangeBroker interface {
	Publish(ctx context.Context, change entity.ProfileChange) error
	// Subscribe streams changes for one profile until unsubscribe is called
	// or ctx is done. The returned channel is closed when the stream ends.
	Subscribe(ctx context.Context, profileID string) (<-chan entity.ProfileChange, func(), error)
}

func profileChannel(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}

type redisChangeBroker struct {
	redisClient redis.UniversalClient
	logger      *logger.Logger
}

func NewRedisChangeBroker(redisClient redis.UniversalClient, logger *logger.Logger) ChangeBroker {
	return &redisChangeBroker{redisClient: redisClient, logger: logger}
}

func (b *redisChangeBroker) Publish(ctx context.Context, change entity.ProfileChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal profile change: %w", err)
	}
	return b.redisClient.Publish(ctx, profileChannel(change.ProfileID), payload).Err()
}

func (b *redisChangeBroker) Subscribe(ctx context.Context, profileID string) (<-chan entity.ProfileChange, func(), error) {
	pubsub := b.redisClient.Subscribe(ctx, profileChannel(profileID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to profile %s: %w", profileID, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan entity.ProfileChange, 16)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			pubsub.Close()
		})
	}

	go func() {
		defer unsubscribe()
		pumpChanges(ctx, pubsub.Channel(), out, b.logger)
	}()

	return out, unsubscribe, nil
}

// pumpChanges decodes pub/sub payloads into out until in closes or ctx ends,
// then closes out.
func pumpChanges(ctx context.Context, in <-chan *redis.Message, out chan<- entity.ProfileChange, log *logger.Logger) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var change entity.ProfileChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				log.Warn("Dropping malformed profile change on %s: %v", msg.Channel, err)
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}
