// Package mocks holds hand-maintained test doubles for the service ports.
package mocks

import (
	"context"
	"sync"
	"time"

	"restaurant-directory/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type FavoriteRepository struct {
	mock.Mock
}

func NewFavoriteRepository(t testingT) *FavoriteRepository {
	m := &FavoriteRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FavoriteRepository) IsFavorite(sessionID string, restaurantID int) (bool, error) {
	args := m.Called(sessionID, restaurantID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepository) AddFavorite(sessionID string, restaurantID int) error {
	return m.Called(sessionID, restaurantID).Error(0)
}

func (m *FavoriteRepository) RemoveFavorite(sessionID string, restaurantID int) error {
	return m.Called(sessionID, restaurantID).Error(0)
}

func (m *FavoriteRepository) ListFavorites(sessionID string) ([]int, error) {
	args := m.Called(sessionID)
	var ids []int
	if args.Get(0) != nil {
		ids = args.Get(0).([]int)
	}
	return ids, args.Error(1)
}

type ReservationRepository struct {
	mock.Mock
}

func NewReservationRepository(t testingT) *ReservationRepository {
	m := &ReservationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReservationRepository) InsertReservation(res *domain.Reservation) error {
	return m.Called(res).Error(0)
}

func (m *ReservationRepository) SaveQRCode(code string, png []byte) error {
	return m.Called(code, png).Error(0)
}

func (m *ReservationRepository) GetQRCode(code string) ([]byte, error) {
	args := m.Called(code)
	var png []byte
	if args.Get(0) != nil {
		png = args.Get(0).([]byte)
	}
	return png, args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserRepository) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) CreateUser(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *UserRepository) GetUserByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(code string) ([]byte, error) {
	args := m.Called(code)
	var png []byte
	if args.Get(0) != nil {
		png = args.Get(0).([]byte)
	}
	return png, args.Error(1)
}

// MemoryKV is a map-backed stand-in for the session KV store. The error
// fields simulate an unavailable store for degradation tests.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string

	GetErr error
	SetErr error
	DelErr error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (kv *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if kv.GetErr != nil {
		return "", false, kv.GetErr
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.data[key]
	return value, ok, nil
}

func (kv *MemoryKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if kv.SetErr != nil {
		return kv.SetErr
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *MemoryKV) Del(ctx context.Context, key string) error {
	if kv.DelErr != nil {
		return kv.DelErr
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

// Seed writes a raw value directly, bypassing error injection. Handy for
// planting corrupt cache entries.
func (kv *MemoryKV) Seed(key, value string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
}
