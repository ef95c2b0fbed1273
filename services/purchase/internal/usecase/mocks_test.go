package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"creator-market/services/purchase/internal/entity"
	"creator-market/services/purchase/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockPurchaseRepository) FindPurchase(ctx context.Context, productID, buyerID string) (*entity.Purchase, error) {
	args := m.Called(ctx, productID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Settle(ctx context.Context, settlement *entity.Settlement) error {
	args := m.Called(ctx, settlement)
	if args.Error(0) == nil {
		settlement.Purchase.ID = "purchase-new"
		if settlement.Earning != nil {
			settlement.Earning.ID = "earning-new"
			settlement.Earning.PurchaseID = settlement.Purchase.ID
		}
	}
	return args.Error(0)
}

func (m *MockPurchaseRepository) ListOwned(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.OwnedProduct), args.Error(1)
}

var _ persistent.PurchaseRepository = (*MockPurchaseRepository)(nil)

type fakeSigner struct {
	keys []string
	err  error
}

func (s *fakeSigner) SignedURL(key string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://files.example/" + key + "?ttl=" + ttl.String(), nil
}

// fakeOutbox holds events in memory and mimics ProcessPending.
type fakeOutbox struct {
	mu      sync.Mutex
	pending []persistent.OutboxMessage
	done    []string
	err     error
}

func (o *fakeOutbox) ProcessPending(ctx context.Context, limit int, publish func(msg persistent.OutboxMessage) error) (int, int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return 0, 0, o.err
	}

	published, failed := 0, 0
	var remaining []persistent.OutboxMessage
	for i, msg := range o.pending {
		if i >= limit {
			remaining = append(remaining, msg)
			continue
		}
		if err := publish(msg); err != nil {
			msg.Attempts++
			remaining = append(remaining, msg)
			failed++
			continue
		}
		o.done = append(o.done, msg.ID)
		published++
	}
	o.pending = remaining
	return published, failed, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	sent     []string
	failures int
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, routingKey+":"+messageID)
	return nil
}
