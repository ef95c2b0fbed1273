package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetOrCreate(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) IsUsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	args := m.Called(ctx, username, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id string, fields entity.ProfileFields) (*entity.Profile, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) CountProducts(ctx context.Context, creatorID string) (int64, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(int64), args.Error(1)
}

var _ persistent.ProfileRepository = (*MockProfileRepository)(nil)

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) GetByUserID(ctx context.Context, userID string) (*entity.PayoutAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutAccount), args.Error(1)
}

func (m *MockPayoutRepository) Upsert(ctx context.Context, account *entity.PayoutAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

var _ persistent.PayoutRepository = (*MockPayoutRepository)(nil)

type fakeMediaStore struct {
	objects map[string][]byte
	err     error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: make(map[string][]byte)}
}

func (s *fakeMediaStore) Put(key string, body io.ReadSeeker, contentType string) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeMediaStore) PublicURL(key string) string {
	return "https://media.example/" + key
}

type fakeBroker struct {
	mu        sync.Mutex
	published []entity.ProfileChange
	subs      map[string][]chan entity.ProfileChange
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{subs: make(map[string][]chan entity.ProfileChange)}
}

func (b *fakeBroker) Publish(ctx context.Context, change entity.ProfileChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, change)
	for _, ch := range b.subs[change.ProfileID] {
		ch <- change
	}
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, profileID string) (<-chan entity.ProfileChange, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan entity.ProfileChange, 8)
	b.subs[profileID] = append(b.subs[profileID], ch)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, profileID)
			close(ch)
		})
	}, nil
}

type fakeSealer struct{}

func (fakeSealer) Seal(plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

func (fakeSealer) Open(ciphertext string) (string, error) {
	return string(bytes.TrimPrefix([]byte(ciphertext), []byte("sealed:"))), nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (r *fakeRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = expiresAt
	return nil
}
