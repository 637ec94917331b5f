package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetTariffs(ctx context.Context, eventID string) ([]domain.Tariff, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tariff), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockCache) SetEvents(ctx context.Context, events []domain.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockCache) InvalidateEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCatalogService_List_CacheHit(t *testing.T) {
	repo := &MockEventRepository{}
	cache := &MockCache{}
	service := NewCatalogService(repo, cache)
	ctx := context.Background()

	cached := []domain.Event{{ID: "EVT-1", Title: "Indie Night"}}
	cache.On("GetEvents", ctx).Return(cached, nil).Once()

	events, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, events)
	repo.AssertNotCalled(t, "List")
}

func TestCatalogService_List_CacheMiss(t *testing.T) {
	repo := &MockEventRepository{}
	cache := &MockCache{}
	service := NewCatalogService(repo, cache)
	ctx := context.Background()

	fromDB := []domain.Event{{ID: "EVT-1"}, {ID: "EVT-2"}}
	cache.On("GetEvents", ctx).Return(nil, errors.New("cache miss")).Once()
	repo.On("List", ctx).Return(fromDB, nil).Once()
	cache.On("SetEvents", ctx, fromDB).Return(nil).Once()

	events, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_List_NoCache(t *testing.T) {
	repo := &MockEventRepository{}
	service := NewCatalogService(repo, nil)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Event{{ID: "EVT-1"}}, nil).Once()

	events, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCatalogService_GetByID(t *testing.T) {
	repo := &MockEventRepository{}
	service := NewCatalogService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "EVT-1").Return(&domain.Event{ID: "EVT-1"}, nil).Once()

	event, err := service.GetByID(ctx, "EVT-1")

	assert.NoError(t, err)
	assert.Equal(t, "EVT-1", event.ID)
}
