package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Skotchmaster/shopcart/internal/models"
)

type cartRepoMock struct {
	mock.Mock
}

func (m *cartRepoMock) FindOne(ctx context.Context, id uint) (*models.ShoppingCart, error) {
	args := m.Called(ctx, id)
	cart, _ := args.Get(0).(*models.ShoppingCart)
	return cart, args.Error(1)
}

func (m *cartRepoMock) FindByCode(ctx context.Context, code string, storeID uint) (*models.ShoppingCart, error) {
	args := m.Called(ctx, code, storeID)
	cart, _ := args.Get(0).(*models.ShoppingCart)
	return cart, args.Error(1)
}

func (m *cartRepoMock) Save(ctx context.Context, cart *models.ShoppingCart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *cartRepoMock) Delete(ctx context.Context, cart *models.ShoppingCart) error {
	return m.Called(ctx, cart).Error(0)
}

type fakeProducts map[uint]*models.Product

func (f fakeProducts) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	return f[id], nil
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	m, _ := event.(map[string]any)
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}
